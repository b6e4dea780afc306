package config

import "testing"

// TestBuildServerPolicyNilWhenUnset confirms a binding that leaves Policy
// at its zero value gets no per-server override (spec §3: "policy?" is
// optional), so mcp.ClientOptions.ServerPolicy stays nil and only the
// runtime's global policy governs that binding's callbacks.
func TestBuildServerPolicyNilWhenUnset(t *testing.T) {
	b := McpServerBinding{Name: "fs-tools"}
	if got := b.buildServerPolicy(); got != nil {
		t.Fatalf("buildServerPolicy() = %v, want nil", got)
	}
}

// TestBuildServerPolicyBuiltWhenSet confirms a binding with any sub-policy
// field set gets a real per-server policy.SecurityPolicy that enforces it.
func TestBuildServerPolicyBuiltWhenSet(t *testing.T) {
	b := McpServerBinding{
		Name: "search",
		Policy: PolicyConfig{
			ID: "search-policy",
			Filesystem: FilesystemPolicyConfig{
				AllowedPaths: []string{"/tmp/workspace/search/*"},
			},
		},
	}
	sp := b.buildServerPolicy()
	if sp == nil {
		t.Fatal("buildServerPolicy() = nil, want a built policy")
	}
	if d := sp.EvaluateRead("/tmp/workspace/search/report.txt"); !d.Allowed {
		t.Fatalf("expected an allowed path to be allowed, got deny: %s", d.Reason)
	}
	if d := sp.EvaluateRead("/tmp/workspace/other/report.txt"); d.Allowed {
		t.Fatalf("expected a path outside the per-server allow-list to be denied")
	}
}
