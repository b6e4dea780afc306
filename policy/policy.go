package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SecurityPolicy is the composite of the six sub-policies (spec §4.3),
// identified by an opaque ID, immutable for the life of a server binding
// once constructed. StrictMode turns the decision for a sub-policy that
// is not configured at all (nil) from allow into deny. Within a
// configured sub-policy, an empty allow-list places no restriction, in
// strict mode as in normal mode.
type SecurityPolicy struct {
	ID         string
	StrictMode bool

	Filesystem  *FilesystemPolicy
	Process     *ProcessPolicy
	Network     *NetworkPolicy
	Environment *EnvironmentPolicy
	RateLimit   *RateLimitPolicy
	Audit       *AuditPolicy

	sink    Sink
	limiter *rateLimiter
}

// Option configures a SecurityPolicy at construction time.
type Option func(*SecurityPolicy)

// WithFilesystem attaches a FilesystemPolicy.
func WithFilesystem(p FilesystemPolicy) Option {
	return func(sp *SecurityPolicy) { sp.Filesystem = &p }
}

// WithProcess attaches a ProcessPolicy.
func WithProcess(p ProcessPolicy) Option {
	return func(sp *SecurityPolicy) { sp.Process = &p }
}

// WithNetwork attaches a NetworkPolicy.
func WithNetwork(p NetworkPolicy) Option {
	return func(sp *SecurityPolicy) { sp.Network = &p }
}

// WithEnvironment attaches an EnvironmentPolicy.
func WithEnvironment(p EnvironmentPolicy) Option {
	return func(sp *SecurityPolicy) { sp.Environment = &p }
}

// WithRateLimit attaches a RateLimitPolicy.
func WithRateLimit(p RateLimitPolicy) Option {
	return func(sp *SecurityPolicy) { sp.RateLimit = &p }
}

// WithAudit attaches an AuditPolicy.
func WithAudit(p AuditPolicy) Option {
	return func(sp *SecurityPolicy) { sp.Audit = &p }
}

// WithSink sets the audit event sink. Defaults to NopSink.
func WithSink(sink Sink) Option {
	return func(sp *SecurityPolicy) { sp.sink = sink }
}

// WithStrictMode enables strict mode: missing configuration defaults to
// deny instead of allow.
func WithStrictMode() Option {
	return func(sp *SecurityPolicy) { sp.StrictMode = true }
}

// New constructs a SecurityPolicy with the given id and options.
func New(id string, opts ...Option) *SecurityPolicy {
	sp := &SecurityPolicy{ID: id, sink: NopSink{}}
	for _, opt := range opts {
		opt(sp)
	}
	if sp.RateLimit != nil {
		sp.limiter = newRateLimiter(*sp.RateLimit)
	}
	return sp
}

// defaultDecision returns the fallback Decision for a sub-policy that is
// absent entirely: deny under strict mode, allow otherwise.
func (sp *SecurityPolicy) defaultDecision(reason string) Decision {
	if sp.StrictMode {
		return deny(reason)
	}
	return allow()
}

// EvaluateRead decides whether reading path is permitted.
func (sp *SecurityPolicy) EvaluateRead(path string) Decision {
	d := sp.evaluateFilesystem(path, false, 0)
	sp.audit("fs.read", d, path)
	return d
}

// EvaluateWrite decides whether writing size bytes to path is permitted.
func (sp *SecurityPolicy) EvaluateWrite(path string, size int64) Decision {
	d := sp.evaluateFilesystem(path, true, size)
	sp.audit("fs.write", d, path)
	return d
}

// EvaluateDelete decides whether deleting path is permitted.
func (sp *SecurityPolicy) EvaluateDelete(path string) Decision {
	fp := sp.Filesystem
	if fp == nil {
		d := sp.defaultDecision("no filesystem policy configured")
		sp.audit("fs.delete", d, path)
		return d
	}
	d := sp.evaluateFilesystem(path, true, 0)
	if d.Allowed && !fp.AllowDelete {
		d = deny("delete not permitted by filesystem policy")
	}
	sp.audit("fs.delete", d, path)
	return d
}

func (sp *SecurityPolicy) evaluateFilesystem(path string, write bool, size int64) Decision {
	fp := sp.Filesystem
	if fp == nil {
		return sp.defaultDecision("no filesystem policy configured")
	}

	if write && !fp.AllowWrite {
		return deny("write operations not permitted by filesystem policy")
	}

	if !fp.AllowHidden && hasHiddenComponent(path) {
		return deny("hidden path components not permitted by filesystem policy")
	}

	if matchesAny(fp.BlockedPaths, path) {
		return deny("path matches a blocked pattern")
	}
	if len(fp.AllowedPaths) > 0 && !matchesAny(fp.AllowedPaths, path) {
		return deny("path does not match any allowed pattern")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if containsFold(fp.BlockedExtensions, ext) {
		return deny("extension is blocked")
	}
	if len(fp.AllowedExtensions) > 0 && !containsFold(fp.AllowedExtensions, ext) {
		return deny("extension is not in the allowed set")
	}

	if write && fp.MaxFileSize != nil && size > *fp.MaxFileSize {
		return deny("write exceeds max_file_size")
	}

	return allow()
}

// EvaluateProcess decides whether spawning command with args is permitted.
func (sp *SecurityPolicy) EvaluateProcess(command string, args []string) Decision {
	pp := sp.Process
	if pp == nil {
		d := sp.defaultDecision("no process policy configured")
		sp.audit("process.spawn", d, command)
		return d
	}

	d := sp.decideProcess(pp, command, args)
	sp.audit("process.spawn", d, command)
	return d
}

func (sp *SecurityPolicy) decideProcess(pp *ProcessPolicy, command string, args []string) Decision {
	if matchesAny(pp.BlockedCommands, command) {
		return deny("command is blocked")
	}
	if len(pp.AllowedCommands) > 0 && !matchesAny(pp.AllowedCommands, command) {
		return deny("command is not in the allowed set")
	}
	if pp.MaxArgs != nil && len(args) > *pp.MaxArgs {
		return deny("argument count exceeds max_args")
	}
	for _, arg := range args {
		if pp.MaxArgLength != nil && len(arg) > *pp.MaxArgLength {
			return deny("argument exceeds max_arg_length")
		}
		if matchesPattern(pp.BlockedArgsPatterns, arg) {
			return deny("argument matches a blocked pattern")
		}
		if len(pp.AllowedArgsPatterns) > 0 && !matchesPattern(pp.AllowedArgsPatterns, arg) {
			return deny("argument does not match any allowed pattern")
		}
	}
	return allow()
}

// EvaluateNetwork decides whether a request to url over protocol on port
// is permitted.
func (sp *SecurityPolicy) EvaluateNetwork(url, protocol string, port int) Decision {
	np := sp.Network
	if np == nil {
		d := sp.defaultDecision("no network policy configured")
		sp.audit("network.request", d, url)
		return d
	}

	d := sp.decideNetwork(np, url, protocol, port)
	sp.audit("network.request", d, url)
	return d
}

func (sp *SecurityPolicy) decideNetwork(np *NetworkPolicy, url, protocol string, port int) Decision {
	if matchesDomain(np.BlockedURLs, url) {
		return deny("URL matches a blocked domain")
	}
	if len(np.AllowedURLs) > 0 && !matchesDomain(np.AllowedURLs, url) {
		return deny("URL does not match any allowed domain")
	}
	if len(np.AllowedProtocols) > 0 && !containsFold(np.AllowedProtocols, strings.ToLower(protocol)) {
		return deny("protocol is not in the allowed set")
	}
	if len(np.AllowedPorts) > 0 && !containsInt(np.AllowedPorts, port) {
		return deny("port is not in the allowed set")
	}
	if np.BlockLoopback && isLoopbackHost(url) {
		return deny("loopback addresses are blocked")
	}
	if np.BlockPrivateIPs && isPrivateHost(url) {
		return deny("private addresses are blocked")
	}
	return allow()
}

// EvaluateEnvironment decides whether a process may see environment
// variable name.
func (sp *SecurityPolicy) EvaluateEnvironment(name string) Decision {
	ep := sp.Environment
	if ep == nil {
		d := sp.defaultDecision("no environment policy configured")
		sp.audit("environment.access", d, name)
		return d
	}

	var d Decision
	switch {
	case containsFold(ep.BlockedVars, name):
		d = deny("environment variable is blocked")
	case len(ep.AllowedVars) > 0 && !containsFold(ep.AllowedVars, name):
		d = deny("environment variable is not in the allowed set")
	default:
		d = allow()
	}
	sp.audit("environment.access", d, name)
	return d
}

// Sanitized reports whether name's value should be masked rather than
// passed through verbatim, per the environment policy's sanitize_vars.
func (sp *SecurityPolicy) Sanitized(name string) bool {
	if sp.Environment == nil {
		return false
	}
	return containsFold(sp.Environment.SanitizeVars, name)
}

// EvaluateRateLimit decides whether another invocation of tool is
// permitted right now. Callers that receive Allowed=true must pair it
// with a matching call to ReleaseRateLimit when the operation completes, to keep
// max_concurrent accurate.
func (sp *SecurityPolicy) EvaluateRateLimit(tool string) Decision {
	if sp.limiter == nil {
		return sp.defaultDecision("no rate limit policy configured")
	}
	d := sp.limiter.allow(tool)
	sp.audit("rate_limit.check", d, tool)
	return d
}

// ReleaseRateLimit decrements the in-flight counter for tool, acquired by
// a prior successful EvaluateRateLimit call.
func (sp *SecurityPolicy) ReleaseRateLimit(tool string) {
	if sp.limiter != nil {
		sp.limiter.release(tool)
	}
}

func (sp *SecurityPolicy) audit(tool string, d Decision, arguments string) {
	ap := sp.Audit
	if ap == nil {
		return
	}
	if !ap.LogAllOperations && (d.Allowed || !ap.LogFailures) {
		return
	}
	event := AuditEvent{
		Timestamp: time.Now(),
		PolicyID:  sp.ID,
		Tool:      tool,
		Decision:  d.Allowed,
		Reason:    d.Reason,
	}
	if ap.IncludeArguments {
		event.Arguments = arguments
	} else {
		event.Arguments = hashArguments(arguments)
	}
	sp.sink.Record(event)
}

// Compose evaluates a decision against both global and perServer
// (logical AND, per spec §4.3): both must allow for the composite to
// allow, and either's denial reason is surfaced. A nil perServer is
// equivalent to an always-allow policy.
func Compose(global, perServer *SecurityPolicy, evaluate func(*SecurityPolicy) Decision) Decision {
	d := evaluate(global)
	if !d.Allowed {
		return d
	}
	if perServer == nil {
		return d
	}
	return evaluate(perServer)
}

func hasHiddenComponent(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, value); err == nil && ok {
			return true
		}
		if strings.EqualFold(pattern, value) {
			return true
		}
	}
	return false
}

func matchesPattern(patterns []string, value string) bool {
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

func matchesDomain(patterns []string, rawURL string) bool {
	host := hostOf(rawURL)
	for _, pattern := range patterns {
		pattern = strings.ToLower(pattern)
		if strings.HasPrefix(pattern, "*.") {
			if strings.HasSuffix(host, pattern[1:]) {
				return true
			}
			continue
		}
		if pattern == host {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// hostOf extracts the host component from a URL-ish string without
// pulling in net/url for what is, here, a simple policy-matching
// concern; this keeps rawURL inputs that are bare hostnames working too.
func hostOf(rawURL string) string {
	s := strings.ToLower(rawURL)
	if idx := strings.Index(s, "://"); idx >= 0 {
		s = s[idx+3:]
	}
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		if _, err := strconv.Atoi(s[idx+1:]); err == nil {
			s = s[:idx]
		}
	}
	return s
}

func isLoopbackHost(rawURL string) bool {
	host := hostOf(rawURL)
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func isPrivateHost(rawURL string) bool {
	host := hostOf(rawURL)
	return strings.HasPrefix(host, "10.") ||
		strings.HasPrefix(host, "192.168.") ||
		strings.HasPrefix(host, "172.16.") ||
		strings.HasPrefix(host, "169.254.")
}

// hashArguments avoids storing raw argument payloads when the audit
// policy requests redaction; a SHA-256 digest lets an operator correlate
// repeated events without recovering the arguments themselves.
func hashArguments(arguments string) string {
	if arguments == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(arguments))
	return hex.EncodeToString(sum[:])
}
