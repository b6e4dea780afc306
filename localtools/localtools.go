// Package localtools bridges the sandboxed tool executor (tools, spec
// component C4) into the agent package's name-indexed ToolCallback
// registry: one chatmodel.Tool descriptor plus one agent.ToolCallback
// per exported Executor method, so a model can call "read", "write",
// "grep" and so on exactly as it would call a remote MCP tool.
//
// Grounded on mcp/toolkit.go's descriptor/callback bridging shape
// (decode a JSON Schema-ish parameter map, synthesize a callback that
// decodes json.RawMessage arguments and returns an agent.ToolResult),
// adapted from "decode a remote tool's advertised schema" to "declare
// this local tool's schema directly", since these schemas are authored
// here rather than discovered.
package localtools

import (
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

// Register publishes every Executor operation into registry, keyed by
// its local_name (spec §4.4's tool catalogue: read, write, append, cp,
// touch, ls, grep, sort, find, tree).
func Register(executor *tools.Executor, registry *agent.Registry) {
	registry.Register(readDescriptor, readCallback(executor))
	registry.Register(writeDescriptor, writeCallback(executor))
	registry.Register(appendDescriptor, appendCallback(executor))
	registry.Register(cpDescriptor, cpCallback(executor))
	registry.Register(touchDescriptor, touchCallback(executor))
	registry.Register(lsDescriptor, lsCallback(executor))
	registry.Register(grepDescriptor, grepCallback(executor))
	registry.Register(sortDescriptor, sortCallback(executor))
	registry.Register(findDescriptor, findCallback(executor))
	registry.Register(treeDescriptor, treeCallback(executor))
}

// marshalContent renders a typed result as the tool-message text a
// model reads back, following spec §6's "content: string" tool-result
// shape: structured results are serialized as compact JSON, matching
// how mcp's ToolCallResult.Content is already plain text the model
// parses itself.
func marshalContent(v any) (agent.ToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return agent.ToolResult{}, err
	}
	return agent.ToolResult{Content: string(data)}, nil
}

func schemaString() map[string]any {
	return map[string]any{"type": "string"}
}

func schemaStringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func schemaBool() map[string]any {
	return map[string]any{"type": "boolean"}
}

func schemaInt() map[string]any {
	return map[string]any{"type": "integer"}
}

func objectSchema(required []string, properties map[string]any) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
