package config

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/arashivan/agentrt/mcp"
	"github.com/arashivan/agentrt/policy"
	"github.com/arashivan/agentrt/resmon"
	"github.com/arashivan/agentrt/sandbox"
)

// BuildSandboxConfig turns the decoded SandboxConfig into a sandbox.Config,
// delegating validation (canonicalization, readonly-path resolution) to
// sandbox.NewConfig itself.
func (c *RuntimeConfig) BuildSandboxConfig() (sandbox.Config, error) {
	return sandbox.NewConfig(c.Sandbox.Root, c.Sandbox.Readonly, c.Sandbox.Enforce)
}

// BuildPolicy assembles the six sub-policies into one policy.SecurityPolicy
// (spec component C3).
func (c *RuntimeConfig) BuildPolicy(sink policy.Sink) *policy.SecurityPolicy {
	return buildPolicy(c.Policy, sink)
}

// buildPolicy converts one PolicyConfig (the runtime global, or a binding's
// per-server override) into a policy.SecurityPolicy. Shared by BuildPolicy
// and McpServerBinding.connect so the global and per-server layers (spec
// §4.3/§4.6's "global policy ∧ per-server policy") are constructed
// identically.
func buildPolicy(p PolicyConfig, sink policy.Sink) *policy.SecurityPolicy {
	opts := []policy.Option{
		policy.WithFilesystem(policy.FilesystemPolicy{
			AllowedPaths:      p.Filesystem.AllowedPaths,
			BlockedPaths:      p.Filesystem.BlockedPaths,
			AllowedExtensions: p.Filesystem.AllowedExtensions,
			BlockedExtensions: p.Filesystem.BlockedExtensions,
			MaxFileSize:       p.Filesystem.MaxFileSize,
			AllowHidden:       p.Filesystem.AllowHidden,
			AllowSymlinks:     p.Filesystem.AllowSymlinks,
			AllowWrite:        p.Filesystem.AllowWrite,
			AllowDelete:       p.Filesystem.AllowDelete,
		}),
		policy.WithProcess(policy.ProcessPolicy{
			AllowedCommands:     p.Process.AllowedCommands,
			BlockedCommands:     p.Process.BlockedCommands,
			AllowedArgsPatterns: p.Process.AllowedArgsPatterns,
			BlockedArgsPatterns: p.Process.BlockedArgsPatterns,
			MaxArgs:             p.Process.MaxArgs,
			MaxArgLength:        p.Process.MaxArgLength,
			AllowShell:          p.Process.AllowShell,
		}),
		policy.WithNetwork(policy.NetworkPolicy{
			AllowedURLs:      p.Network.AllowedURLs,
			BlockedURLs:      p.Network.BlockedURLs,
			AllowedProtocols: p.Network.AllowedProtocols,
			AllowedPorts:     p.Network.AllowedPorts,
			BlockPrivateIPs:  p.Network.BlockPrivateIPs,
			BlockLoopback:    p.Network.BlockLoopback,
		}),
		policy.WithEnvironment(policy.EnvironmentPolicy{
			AllowedVars:      p.Environment.AllowedVars,
			BlockedVars:      p.Environment.BlockedVars,
			SanitizeVars:     p.Environment.SanitizeVars,
			AllowPassthrough: p.Environment.AllowPassthrough,
		}),
		policy.WithRateLimit(policy.RateLimitPolicy{
			MaxRequestsPerMinute: p.RateLimit.MaxRequestsPerMinute,
			MaxConcurrent:        p.RateLimit.MaxConcurrent,
			MaxTotalOperations:   p.RateLimit.MaxTotalOperations,
		}),
		policy.WithAudit(policy.AuditPolicy{
			LogAllOperations:   p.Audit.LogAllOperations,
			LogFailures:        p.Audit.LogFailures,
			LogSensitiveAccess: p.Audit.LogSensitiveAccess,
			IncludeArguments:   p.Audit.IncludeArguments,
		}),
	}
	if p.StrictMode {
		opts = append(opts, policy.WithStrictMode())
	}
	if sink != nil {
		opts = append(opts, policy.WithSink(sink))
	}
	return policy.New(p.ID, opts...)
}

// ConnectServers builds a live mcp.Client for every configured
// McpServerBinding, sharing sec across all of them. On the first connect
// failure it closes every client already opened and returns the error, so
// callers never observe a partial, leaking client set.
func (c *RuntimeConfig) ConnectServers(ctx context.Context, sec *policy.SecurityPolicy, monitor *resmon.Monitor) ([]*mcp.Client, error) {
	clients := make([]*mcp.Client, 0, len(c.McpServers))
	for _, binding := range c.McpServers {
		client, err := binding.connect(ctx, sec, monitor)
		if err != nil {
			for _, opened := range clients {
				opened.Close()
			}
			return nil, fmt.Errorf("config: connect mcp server %q: %w", binding.Name, err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// connect constructs the transport named by b.Transport and dials it,
// producing one live mcp.Client.
func (b McpServerBinding) connect(ctx context.Context, sec *policy.SecurityPolicy, monitor *resmon.Monitor) (*mcp.Client, error) {
	transport, err := b.buildTransport(ctx)
	if err != nil {
		return nil, err
	}

	return mcp.Connect(ctx, transport, mcp.ClientOptions{
		ServerID:           b.Name,
		MaxConcurrentCalls: b.MaxConcurrentCalls,
		ToolTimeout:        time.Duration(b.ToolTimeoutSeconds) * time.Second,
		ToolPrefix:         b.ToolPrefix,
		Policy:             sec,
		ServerPolicy:       b.buildServerPolicy(),
		Monitor:            monitor,
	})
}

// buildServerPolicy constructs this binding's per-server policy override
// (spec §3's McpServerBinding.policy), or nil when the binding left Policy
// at its zero value and so has no override -- a nil ServerPolicy means only
// the runtime's global policy applies to this server's callbacks.
func (b McpServerBinding) buildServerPolicy() *policy.SecurityPolicy {
	if reflect.DeepEqual(b.Policy, PolicyConfig{}) {
		return nil
	}
	return buildPolicy(b.Policy, nil)
}

func (b McpServerBinding) buildTransport(ctx context.Context) (mcp.Transport, error) {
	switch b.Transport {
	case transportStdio:
		return mcp.NewProcessTransport(b.Command, b.Args, nil)
	case transportHTTP:
		return mcp.NewHTTPTransport(b.URL, b.Authorization), nil
	case transportWebSocket:
		return mcp.NewWebSocketTransport(ctx, b.URL, b.Authorization, nil)
	default:
		return nil, fmt.Errorf("config: unknown transport %q for mcp server %q", b.Transport, b.Name)
	}
}
