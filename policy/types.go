// Package policy implements the layered security-policy engine (spec
// component C3): six independent sub-policies — filesystem, process,
// network, environment, rate-limit, audit — composed under deny-over-allow
// precedence, with an optional strict mode that turns ambiguous decisions
// into denials instead of allowances.
//
// Grounded on
// other_examples/e6138d8d_haasonsaas-nexus__internal-tools-policy-types.go.go
// (deny-always-wins composition, profile/group shape generalized into
// this package's sub-policy structs) and
// other_examples/6c81cd24_dkypuros-kuberenetes-agentic-policy-engine__api-v1alpha1-agentpolicy_types.go.go
// (ToolConstraints{PathPatterns,AllowedDomains,DeniedDomains,AllowedPorts,
// MaxSizeBytes} — the field shapes FilesystemPolicy and NetworkPolicy
// generalize from), plus
// original_source/mistralrs-agent-tools/examples/secure_mcp_example.rs
// for the composed global-then-per-server evaluation flow.
package policy

import "time"

// Decision is the outcome of evaluating a policy against a request.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision   { return Decision{Allowed: true} }
func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// FilesystemPolicy governs path-based decisions for read/write/delete
// tool operations.
type FilesystemPolicy struct {
	AllowedPaths      []string
	BlockedPaths      []string
	AllowedExtensions []string
	BlockedExtensions []string
	MaxFileSize       *int64
	AllowHidden       bool
	AllowSymlinks     bool
	AllowWrite        bool
	AllowDelete       bool
}

// ProcessPolicy governs command-spawn decisions.
type ProcessPolicy struct {
	AllowedCommands      []string
	BlockedCommands      []string
	AllowedArgsPatterns  []string
	BlockedArgsPatterns  []string
	MaxArgs              *int
	MaxArgLength         *int
	AllowShell           bool
}

// NetworkPolicy governs URL/protocol/port decisions.
type NetworkPolicy struct {
	AllowedURLs       []string
	BlockedURLs       []string
	AllowedProtocols  []string
	AllowedPorts      []int
	BlockPrivateIPs   bool
	BlockLoopback     bool
}

// EnvironmentPolicy governs which environment variables a process may
// see or pass through.
type EnvironmentPolicy struct {
	AllowedVars     []string
	BlockedVars     []string
	SanitizeVars    []string
	AllowPassthrough bool
}

// RateLimitPolicy bounds invocation frequency per (policy, tool) pair.
type RateLimitPolicy struct {
	MaxRequestsPerMinute *int
	MaxConcurrent        *int
	MaxTotalOperations   *int
}

// AuditPolicy configures what the audit sink records.
type AuditPolicy struct {
	LogAllOperations  bool
	LogFailures       bool
	LogSensitiveAccess bool
	IncludeArguments  bool
}

// AuditEvent is one record emitted to the pluggable audit Sink.
type AuditEvent struct {
	Timestamp time.Time
	PolicyID  string
	Tool      string
	Decision  bool
	Reason    string
	// Arguments holds the raw argument payload when IncludeArguments is
	// true, or a hash of it otherwise.
	Arguments string
}

// Sink receives audit events. Implementations must not block the calling
// goroutine for long; a buffered channel or async logger is typical.
type Sink interface {
	Record(AuditEvent)
}

// NopSink discards every event. Useful as a default when no audit
// configuration is supplied.
type NopSink struct{}

func (NopSink) Record(AuditEvent) {}
