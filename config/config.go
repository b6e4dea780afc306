// Package config loads a runtime's sandbox, security policy, and MCP
// server bindings from a single YAML document (spec §A.3's
// LoadRuntimeConfig). Struct shapes and the decode/validate split are
// grounded on
// _examples/MrWong99-glyphoxa/internal/config/{config.go,loader.go}.
package config

// RuntimeConfig is the fully decoded, validated result of LoadRuntimeConfig:
// everything needed to stand up one runtime instance's sandbox, security
// policy, and MCP server connections.
type RuntimeConfig struct {
	Sandbox    SandboxConfig       `yaml:"sandbox"`
	Policy     PolicyConfig        `yaml:"policy"`
	McpServers []McpServerBinding  `yaml:"mcp_servers"`
}

// SandboxConfig mirrors sandbox.NewConfig's parameters.
type SandboxConfig struct {
	// Root is the sandbox's canonical root directory; every tool path is
	// resolved and confined relative to it.
	Root string `yaml:"root"`

	// Readonly lists paths, relative to Root, that permit reads but deny
	// writes regardless of the security policy's FilesystemPolicy.
	Readonly []string `yaml:"readonly"`

	// Enforce, when false, disables path-confinement checks entirely.
	// Intended for tests only; production configs should leave this true.
	Enforce bool `yaml:"enforce"`
}

// PolicyConfig decodes the six independent sub-policies composed into one
// policy.SecurityPolicy (spec component C3), plus the policy id and
// strict-mode flag.
type PolicyConfig struct {
	// ID identifies this policy in audit events.
	ID string `yaml:"id"`

	// StrictMode denies decisions for a sub-policy that is not configured
	// at all; an empty allow-list inside a configured sub-policy is not
	// affected.
	StrictMode bool `yaml:"strict_mode"`

	Filesystem  FilesystemPolicyConfig  `yaml:"filesystem"`
	Process     ProcessPolicyConfig     `yaml:"process"`
	Network     NetworkPolicyConfig     `yaml:"network"`
	Environment EnvironmentPolicyConfig `yaml:"environment"`
	RateLimit   RateLimitPolicyConfig   `yaml:"rate_limit"`
	Audit       AuditPolicyConfig       `yaml:"audit"`
}

// FilesystemPolicyConfig mirrors policy.FilesystemPolicy.
type FilesystemPolicyConfig struct {
	AllowedPaths      []string `yaml:"allowed_paths"`
	BlockedPaths      []string `yaml:"blocked_paths"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	BlockedExtensions []string `yaml:"blocked_extensions"`
	MaxFileSize       *int64   `yaml:"max_file_size"`
	AllowHidden       bool     `yaml:"allow_hidden"`
	AllowSymlinks     bool     `yaml:"allow_symlinks"`
	AllowWrite        bool     `yaml:"allow_write"`
	AllowDelete       bool     `yaml:"allow_delete"`
}

// ProcessPolicyConfig mirrors policy.ProcessPolicy.
type ProcessPolicyConfig struct {
	AllowedCommands     []string `yaml:"allowed_commands"`
	BlockedCommands     []string `yaml:"blocked_commands"`
	AllowedArgsPatterns []string `yaml:"allowed_args_patterns"`
	BlockedArgsPatterns []string `yaml:"blocked_args_patterns"`
	MaxArgs             *int     `yaml:"max_args"`
	MaxArgLength        *int     `yaml:"max_arg_length"`
	AllowShell          bool     `yaml:"allow_shell"`
}

// NetworkPolicyConfig mirrors policy.NetworkPolicy.
type NetworkPolicyConfig struct {
	AllowedURLs      []string `yaml:"allowed_urls"`
	BlockedURLs      []string `yaml:"blocked_urls"`
	AllowedProtocols []string `yaml:"allowed_protocols"`
	AllowedPorts     []int    `yaml:"allowed_ports"`
	BlockPrivateIPs  bool     `yaml:"block_private_ips"`
	BlockLoopback    bool     `yaml:"block_loopback"`
}

// EnvironmentPolicyConfig mirrors policy.EnvironmentPolicy.
type EnvironmentPolicyConfig struct {
	AllowedVars      []string `yaml:"allowed_vars"`
	BlockedVars      []string `yaml:"blocked_vars"`
	SanitizeVars     []string `yaml:"sanitize_vars"`
	AllowPassthrough bool     `yaml:"allow_passthrough"`
}

// RateLimitPolicyConfig mirrors policy.RateLimitPolicy.
type RateLimitPolicyConfig struct {
	MaxRequestsPerMinute *int `yaml:"max_requests_per_minute"`
	MaxConcurrent        *int `yaml:"max_concurrent"`
	MaxTotalOperations   *int `yaml:"max_total_operations"`
}

// AuditPolicyConfig mirrors policy.AuditPolicy.
type AuditPolicyConfig struct {
	LogAllOperations   bool `yaml:"log_all_operations"`
	LogFailures        bool `yaml:"log_failures"`
	LogSensitiveAccess bool `yaml:"log_sensitive_access"`
	IncludeArguments   bool `yaml:"include_arguments"`
}

// McpServerBinding describes one MCP server connection to establish at
// startup, modeled on _examples/MrWong99-glyphoxa's MCPServerConfig.
type McpServerBinding struct {
	// Name identifies this binding in logs and the resource monitor
	// (mcp.ClientOptions.ServerID).
	Name string `yaml:"name"`

	// Transport selects the connection mechanism. Valid values: "stdio",
	// "http", "websocket".
	Transport string `yaml:"transport"`

	// Command is the executable launched when Transport is "stdio".
	Command string `yaml:"command"`

	// Args are the arguments passed to Command.
	Args []string `yaml:"args"`

	// URL is the endpoint address used when Transport is "http" or
	// "websocket". Ignored for stdio.
	URL string `yaml:"url"`

	// Authorization, if set, is sent as the bearer token for http/websocket
	// transports.
	Authorization string `yaml:"authorization"`

	// MaxConcurrentCalls bounds in-flight tools/call invocations for this
	// server (default 3, see mcp.ClientOptions).
	MaxConcurrentCalls int `yaml:"max_concurrent_calls"`

	// ToolTimeoutSeconds bounds a single tools/call round trip (default 30).
	ToolTimeoutSeconds int `yaml:"tool_timeout_secs"`

	// ToolPrefix, if set, is prepended to every tool this server advertises
	// (joined with "_") to compute local_name (spec §3's McpServerBinding.
	// tool_prefix / ToolDescriptor.local_name formula). Leave unset when
	// this server's remote tool names are already known to be unique
	// across the runtime's other bindings.
	ToolPrefix string `yaml:"tool_prefix"`

	// Policy, if any sub-policy field is set, is layered under the
	// runtime's global PolicyConfig for this binding only (spec §4.3/§4.6:
	// "global policy ∧ per-server policy", strictest decision wins). Left
	// at its zero value, this binding is governed by the global policy
	// alone.
	Policy PolicyConfig `yaml:"policy"`
}

const (
	transportStdio     = "stdio"
	transportHTTP      = "http"
	transportWebSocket = "websocket"
)
