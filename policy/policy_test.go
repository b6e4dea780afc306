package policy_test

import (
	"testing"

	"github.com/arashivan/agentrt/policy"
)

func TestFilesystemDenyWinsOverAllow(t *testing.T) {
	sp := policy.New("test", policy.WithFilesystem(policy.FilesystemPolicy{
		AllowedPaths: []string{"/workspace/*"},
		BlockedPaths: []string{"/workspace/secret.txt"},
		AllowWrite:   true,
	}))

	if d := sp.EvaluateRead("/workspace/secret.txt"); d.Allowed {
		t.Fatalf("expected blocked path to be denied even though it also matches an allowed pattern")
	}
	if d := sp.EvaluateRead("/workspace/readme.txt"); !d.Allowed {
		t.Fatalf("expected /workspace/readme.txt to be allowed, got deny: %s", d.Reason)
	}
	if d := sp.EvaluateRead("/other/readme.txt"); d.Allowed {
		t.Fatalf("expected path outside allow-list to be denied")
	}
}

// TestPolicyMonotonicity implements spec.md §8 universal invariant 5:
// adding an entry to a deny-list never converts a denied decision into
// an allowed one, and can only ever add denials, never remove them.
func TestPolicyMonotonicity(t *testing.T) {
	before := policy.New("test", policy.WithFilesystem(policy.FilesystemPolicy{
		BlockedPaths: []string{"/workspace/a.txt"},
		AllowWrite:   true,
	}))
	after := policy.New("test", policy.WithFilesystem(policy.FilesystemPolicy{
		BlockedPaths: []string{"/workspace/a.txt", "/workspace/b.txt"},
		AllowWrite:   true,
	}))

	paths := []string{"/workspace/a.txt", "/workspace/b.txt", "/workspace/c.txt"}
	for _, p := range paths {
		if d := before.EvaluateRead(p); !d.Allowed {
			// Already denied before the new entry was added: growing
			// the deny-list must not flip it back to allowed.
			if after.EvaluateRead(p).Allowed {
				t.Fatalf("%s became allowed after adding an unrelated deny entry", p)
			}
		}
	}

	// /workspace/b.txt was allowed before b.txt was added to the deny
	// list, and must be denied afterward -- monotonic in the direction
	// the invariant describes (growing the deny-list only ever denies
	// more, never less).
	if !before.EvaluateRead("/workspace/b.txt").Allowed {
		t.Fatalf("expected /workspace/b.txt to be allowed before the deny entry was added")
	}
	if after.EvaluateRead("/workspace/b.txt").Allowed {
		t.Fatalf("expected /workspace/b.txt to be denied after the deny entry was added")
	}
}

func TestStrictModeDefaultsMissingConfigToDeny(t *testing.T) {
	lenient := policy.New("test")
	if d := lenient.EvaluateRead("/anything"); !d.Allowed {
		t.Fatalf("expected non-strict policy with no filesystem config to default-allow, got deny: %s", d.Reason)
	}

	strict := policy.New("test", policy.WithStrictMode())
	if d := strict.EvaluateRead("/anything"); d.Allowed {
		t.Fatalf("expected strict-mode policy with no filesystem config to default-deny")
	}
}

func TestWriteRequiresAllowWrite(t *testing.T) {
	sp := policy.New("test", policy.WithFilesystem(policy.FilesystemPolicy{
		AllowWrite: false,
	}))
	if d := sp.EvaluateWrite("/workspace/file.txt", 10); d.Allowed {
		t.Fatalf("expected write to be denied when AllowWrite is false")
	}
}

func TestMaxFileSize(t *testing.T) {
	limit := int64(1024)
	sp := policy.New("test", policy.WithFilesystem(policy.FilesystemPolicy{
		AllowWrite:  true,
		MaxFileSize: &limit,
	}))
	if d := sp.EvaluateWrite("/workspace/small.txt", 512); !d.Allowed {
		t.Fatalf("expected write under max_file_size to be allowed, got deny: %s", d.Reason)
	}
	if d := sp.EvaluateWrite("/workspace/big.txt", 2048); d.Allowed {
		t.Fatalf("expected write over max_file_size to be denied")
	}
}

func TestProcessAllowedCommands(t *testing.T) {
	maxArgs := 2
	sp := policy.New("test", policy.WithProcess(policy.ProcessPolicy{
		AllowedCommands: []string{"ls", "cat"},
		BlockedCommands: []string{"rm"},
		MaxArgs:         &maxArgs,
	}))
	if d := sp.EvaluateProcess("rm", []string{"-rf"}); d.Allowed {
		t.Fatalf("expected rm to be denied even though no allow-list conflict")
	}
	if d := sp.EvaluateProcess("ls", []string{"-la"}); !d.Allowed {
		t.Fatalf("expected ls -la to be allowed, got deny: %s", d.Reason)
	}
	if d := sp.EvaluateProcess("curl", nil); d.Allowed {
		t.Fatalf("expected curl to be denied, not in allowed_commands")
	}
	if d := sp.EvaluateProcess("ls", []string{"-l", "-a", "-h"}); d.Allowed {
		t.Fatalf("expected too many args to be denied")
	}
}

func TestNetworkDomainMatching(t *testing.T) {
	sp := policy.New("test", policy.WithNetwork(policy.NetworkPolicy{
		AllowedURLs:      []string{"*.example.com"},
		BlockedURLs:      []string{"bad.example.com"},
		AllowedProtocols: []string{"https"},
	}))
	if d := sp.EvaluateNetwork("https://api.example.com/v1", "https", 443); !d.Allowed {
		t.Fatalf("expected api.example.com to be allowed, got deny: %s", d.Reason)
	}
	if d := sp.EvaluateNetwork("https://bad.example.com/x", "https", 443); d.Allowed {
		t.Fatalf("expected bad.example.com to be denied despite matching the wildcard allow")
	}
	if d := sp.EvaluateNetwork("http://api.example.com", "http", 80); d.Allowed {
		t.Fatalf("expected http protocol to be denied when only https is allowed")
	}
	if d := sp.EvaluateNetwork("https://other.com", "https", 443); d.Allowed {
		t.Fatalf("expected other.com to be denied, not in allowed_urls")
	}
}

func TestEnvironmentSanitizeVars(t *testing.T) {
	sp := policy.New("test", policy.WithEnvironment(policy.EnvironmentPolicy{
		BlockedVars:  []string{"AWS_SECRET_ACCESS_KEY"},
		SanitizeVars: []string{"API_TOKEN"},
	}))
	if d := sp.EvaluateEnvironment("AWS_SECRET_ACCESS_KEY"); d.Allowed {
		t.Fatalf("expected blocked var to be denied")
	}
	if d := sp.EvaluateEnvironment("PATH"); !d.Allowed {
		t.Fatalf("expected PATH to be allowed, got deny: %s", d.Reason)
	}
	if !sp.Sanitized("API_TOKEN") {
		t.Fatalf("expected API_TOKEN to be flagged for sanitization")
	}
	if sp.Sanitized("PATH") {
		t.Fatalf("did not expect PATH to be flagged for sanitization")
	}
}

// TestRateLimitCorrectness implements spec.md §8 universal invariant 6:
// the number of successful invocations of a (policy, tool) pair never
// exceeds max_requests_per_minute within a single burst against the
// sliding window.
func TestRateLimitCorrectness(t *testing.T) {
	maxPerMinute := 3
	sp := policy.New("test", policy.WithRateLimit(policy.RateLimitPolicy{
		MaxRequestsPerMinute: &maxPerMinute,
	}))

	allowed := 0
	for i := 0; i < 10; i++ {
		if sp.EvaluateRateLimit("echo").Allowed {
			allowed++
		}
	}
	if allowed > maxPerMinute {
		t.Fatalf("allowed %d invocations in a burst, want <= %d", allowed, maxPerMinute)
	}
}

func TestRateLimitMaxConcurrent(t *testing.T) {
	maxConcurrent := 2
	sp := policy.New("test", policy.WithRateLimit(policy.RateLimitPolicy{
		MaxConcurrent: &maxConcurrent,
	}))

	if !sp.EvaluateRateLimit("echo").Allowed {
		t.Fatalf("expected first call to be allowed")
	}
	if !sp.EvaluateRateLimit("echo").Allowed {
		t.Fatalf("expected second call to be allowed")
	}
	if sp.EvaluateRateLimit("echo").Allowed {
		t.Fatalf("expected third concurrent call to be denied")
	}

	sp.ReleaseRateLimit("echo")
	if !sp.EvaluateRateLimit("echo").Allowed {
		t.Fatalf("expected a call to be allowed again after releasing one slot")
	}
}

func TestComposeRequiresBothPoliciesToAllow(t *testing.T) {
	global := policy.New("global", policy.WithFilesystem(policy.FilesystemPolicy{AllowWrite: true}))
	perServer := policy.New("server-a", policy.WithFilesystem(policy.FilesystemPolicy{
		AllowWrite:   true,
		BlockedPaths: []string{"/workspace/locked.txt"},
	}))

	evaluate := func(sp *policy.SecurityPolicy) policy.Decision {
		return sp.EvaluateWrite("/workspace/locked.txt", 10)
	}
	if d := policy.Compose(global, perServer, evaluate); d.Allowed {
		t.Fatalf("expected composed decision to deny when the per-server policy denies")
	}

	evaluateOther := func(sp *policy.SecurityPolicy) policy.Decision {
		return sp.EvaluateWrite("/workspace/ok.txt", 10)
	}
	if d := policy.Compose(global, perServer, evaluateOther); !d.Allowed {
		t.Fatalf("expected composed decision to allow when both policies allow, got deny: %s", d.Reason)
	}
}
