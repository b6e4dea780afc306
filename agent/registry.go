// Package agent implements the bounded ReAct agent loop (spec component
// C8): submit the conversation to a chatmodel.ChatModel, dispatch any
// tool calls the model requests through a name-indexed callback
// registry, feed the results back, and repeat until the model responds
// with no further tool calls or the iteration cap is reached.
//
// Grounded on agent-go/{agent.go,run.go}'s session/run-loop shape,
// generalized from that package's generic-context AgentTool[C]/Toolkit[C]
// abstraction down to spec §3's plain "ToolCallback: (tool_name,
// json_arguments) -> Result<string, error>, stored in a name-indexed
// registry". This module's tool callbacks (tools/localtools' sandboxed
// executors, mcp's MCP-server callbacks) are already self-contained
// closures that need no additional per-run context value threaded
// through them, so the teacher's generic type parameter is dropped here.
package agent

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/arashivan/agentrt/chatmodel"
)

// ToolResult is a tool callback's outcome: the text handed back to the
// model as a tool message, and whether the server/tool flagged it an
// error. Mirrors mcp.ToolCallResult's shape exactly, since an MCP
// callback is one of this registry's two callback sources.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolCallback is the synchronous per-tool entry point the registry
// dispatches to, identical in shape to mcp.ToolCallback (spec §3's
// "ToolCallback: a polymorphic value accepting (tool_name,
// json_arguments) -> Result<string, error>").
type ToolCallback func(ctx context.Context, arguments json.RawMessage) (ToolResult, error)

// Registry is the name-indexed, insertion-order-irrelevant tool-callback
// table the agent loop dispatches through (spec §3). It is read-mostly
// and safe to share across concurrent tool dispatch within one
// iteration and across iterations.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	order   []string
}

type registryEntry struct {
	descriptor chatmodel.Tool
	callback   ToolCallback
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register publishes (or replaces) the callback for descriptor.Name. A
// later Register call for the same name overwrites the earlier entry,
// matching spec §3's "keys unique; insertion order irrelevant".
func (r *Registry) Register(descriptor chatmodel.Tool, callback ToolCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[descriptor.Name]; !exists {
		r.order = append(r.order, descriptor.Name)
	}
	r.entries[descriptor.Name] = registryEntry{descriptor: descriptor, callback: callback}
}

// RegisterAll publishes every descriptor/callback pair, keyed by name.
func (r *Registry) RegisterAll(descriptors []chatmodel.Tool, lookup func(name string) (ToolCallback, bool)) {
	for _, d := range descriptors {
		if cb, ok := lookup(d.Name); ok {
			r.Register(d, cb)
		}
	}
}

// Descriptors returns every registered tool's chatmodel.Tool, in
// registration order, for advertising to the model each iteration.
func (r *Registry) Descriptors() []chatmodel.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]chatmodel.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].descriptor)
	}
	return out
}

// Callback returns the callback registered for name, and whether one
// exists.
func (r *Registry) Callback(name string) (ToolCallback, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.callback, true
}
