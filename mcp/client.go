package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/arashivan/agentrt/policy"
	"github.com/arashivan/agentrt/resmon"
	"github.com/arashivan/agentrt/rterr"
)

const opClient = "mcp.client"

// ClientOptions configures a Client's per-server-binding behaviour (spec
// §4.6).
type ClientOptions struct {
	// ServerID identifies this binding to the resource monitor and audit
	// trail.
	ServerID string
	// MaxConcurrentCalls bounds in-flight tools/call invocations for this
	// client (spec §4.6, default 3).
	MaxConcurrentCalls int
	// ToolTimeout bounds a single tools/call round trip (spec §4.6
	// "tool_timeout_secs").
	ToolTimeout time.Duration
	// ToolPrefix, if set, is prepended to every remote tool name (joined
	// with "_") to produce the local_name published to the agent's
	// registry (spec §3's McpServerBinding.tool_prefix / ToolDescriptor.
	// local_name formula), so two servers that happen to advertise the
	// same remote tool name don't collide in one shared registry.
	ToolPrefix string
	// Policy is the global security policy, consulted by every
	// synthesized callback before dispatch.
	Policy *policy.SecurityPolicy
	// ServerPolicy, if set, is this binding's per-server policy layered
	// under Policy (spec §4.3/§4.6: "global policy ∧ per-server policy",
	// strictest decision wins). A nil ServerPolicy means this binding has
	// no per-server override and only the global policy applies.
	ServerPolicy *policy.SecurityPolicy
	// Monitor records connection/request accounting (component C7). A nil
	// Monitor disables resource accounting.
	Monitor *resmon.Monitor
	// ClientInfo identifies this client in the initialize handshake.
	ClientInfo Implementation
	// Logger receives diagnostic events for this client's lifecycle
	// (connect, tool discovery, tool-call failures). Defaults to
	// slog.Default(). This is distinct from the structured audit trail a
	// SecurityPolicy's Sink records (spec §6's "Audit event sink"): Logger
	// is ambient diagnostic logging, Sink is the domain's policy-decision
	// audit record.
	Logger *slog.Logger
}

// Client drives one MCP server binding's lifecycle: handshake, tool
// discovery, callback synthesis, and resource registration (spec §4.6).
type Client struct {
	transport Transport
	opts      ClientOptions

	tools     []Tool
	resources []ResourceDescriptor
	callbacks map[string]ToolCallback
	deps      *callbackDeps
}

// Connect performs the full lifecycle against transport: handshake,
// initialized notification, tools/list discovery (paginated),
// callback synthesis, and resources/list registration.
func Connect(ctx context.Context, transport Transport, opts ClientOptions) (*Client, error) {
	if opts.ClientInfo.Name == "" {
		opts.ClientInfo = Implementation{Name: "agentrt", Version: "0.1.0"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	log := opts.Logger.With("server_id", opts.ServerID)

	c := &Client{transport: transport, opts: opts, callbacks: make(map[string]ToolCallback)}

	if opts.Monitor != nil {
		if err := opts.Monitor.ConnectionOpened(opts.ServerID); err != nil {
			log.Error("connection rejected by resource monitor", "error", err)
			return nil, err
		}
	}

	if err := c.initialize(ctx); err != nil {
		log.Error("initialize handshake failed", "error", err)
		if opts.Monitor != nil {
			opts.Monitor.ConnectionClosed(opts.ServerID)
		}
		return nil, err
	}

	if err := c.discoverTools(ctx); err != nil {
		log.Error("tool discovery failed", "error", err)
		if opts.Monitor != nil {
			opts.Monitor.ConnectionClosed(opts.ServerID)
		}
		return nil, err
	}

	c.deps = newCallbackDeps(transport, opts.ServerID, opts.MaxConcurrentCalls, opts.ToolTimeout, opts.Monitor, opts.Policy, opts.ServerPolicy, opts.Logger)
	for _, tool := range c.tools {
		c.callbacks[LocalToolName(opts.ToolPrefix, tool.Name)] = c.deps.synthesize(tool.Name)
	}

	if err := c.discoverResources(ctx); err != nil {
		log.Debug("resource discovery unavailable", "error", err) // optional; absence is not fatal
	}

	log.Info("mcp client connected", "tools", len(c.tools), "resources", len(c.resources))
	return c, nil
}

// initialize performs steps 2-3 of spec §4.6: send initialize, then the
// initialized notification.
func (c *Client) initialize(ctx context.Context) error {
	params := InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    ClientCapabilities{},
		ClientInfo:      c.opts.ClientInfo,
	}
	raw, err := c.transport.SendRequest(ctx, MethodInitialize, params)
	if err != nil {
		return err
	}
	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return rterr.New(rterr.KindIO, opClient, err)
	}

	return c.transport.SendNotification(ctx, MethodInitialized, struct{}{})
}

// discoverTools walks tools/list's cursor-based pagination to build the
// full tool set (spec §4.6 step 4).
func (c *Client) discoverTools(ctx context.Context) error {
	var cursor string
	for {
		raw, err := c.transport.SendRequest(ctx, MethodToolsList, ToolsListParams{Cursor: cursor})
		if err != nil {
			return err
		}
		var page ToolsListResult
		if err := json.Unmarshal(raw, &page); err != nil {
			return rterr.New(rterr.KindIO, opClient, err)
		}
		c.tools = append(c.tools, page.Tools...)
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// discoverResources issues resources/list and caches the descriptors
// (spec §4.6 step 6).
func (c *Client) discoverResources(ctx context.Context) error {
	raw, err := c.transport.SendRequest(ctx, MethodResourcesList, nil)
	if err != nil {
		return err
	}
	var result ResourcesListResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return rterr.New(rterr.KindIO, opClient, err)
	}
	c.resources = result.Resources
	return nil
}

// Tools returns the server's advertised tool descriptors.
func (c *Client) Tools() []Tool {
	return c.tools
}

// Resources returns the cached resource descriptors, if the server
// advertised any.
func (c *Client) Resources() []ResourceDescriptor {
	return c.resources
}

// Callbacks returns the published callback map, keyed by local_name per
// spec §4.6 step 7 and §3's ToolDescriptor.local_name formula.
func (c *Client) Callbacks() map[string]ToolCallback {
	out := make(map[string]ToolCallback, len(c.callbacks))
	for k, v := range c.callbacks {
		out[k] = v
	}
	return out
}

// LocalName returns the local_name this client publishes remoteName
// under (spec §3): remoteName itself when this binding has no
// tool_prefix, or "<prefix>_<remoteName>" otherwise.
func (c *Client) LocalName(remoteName string) string {
	return LocalToolName(c.opts.ToolPrefix, remoteName)
}

// LocalToolName computes a ToolDescriptor's local_name from a binding's
// tool_prefix and a tool's remote_name (spec §3: "local_name = tool_prefix
// ? prefix + \"_\" + remote_name : remote_name"), so that two server
// bindings advertising identically-named remote tools don't collide once
// published into one shared agent.Registry.
func LocalToolName(toolPrefix, remoteName string) string {
	if toolPrefix == "" {
		return remoteName
	}
	return toolPrefix + "_" + remoteName
}

// Ping sends a heartbeat request through the transport.
func (c *Client) Ping(ctx context.Context) error {
	return c.transport.Ping(ctx)
}

// Close tears down the transport and releases the resource-monitor
// connection slot, if one was acquired.
func (c *Client) Close() error {
	if c.opts.Monitor != nil {
		c.opts.Monitor.ConnectionClosed(c.opts.ServerID)
	}
	return c.transport.Close()
}
