package mcp

import (
	"encoding/json"

	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/rterr"
)

const opToolkit = "mcp.toolkit"

// Toolkit adapts one Client's discovered tools into the
// name/description/JSON-Schema-parameters shape the agent loop's model
// interface advertises to the model (chatmodel.Tool), and exposes the
// matching ToolCallback for dispatch. Grounded on agent-go/mcp/toolkit.go's
// toolkitSession, which performs the same discovered-tools-to-agent-tools
// bridging against llmagent.Toolkit/AgentTool; this module's agent
// package consumes chatmodel.Tool instead, so the conversion target here
// is narrower.
type Toolkit struct {
	client *Client
}

// NewToolkit wraps an already-connected Client.
func NewToolkit(client *Client) *Toolkit {
	return &Toolkit{client: client}
}

// Descriptors returns one chatmodel.Tool per tool the server advertised,
// named by local_name (spec §3's tool_prefix formula, so a Toolkit can be
// merged into one shared agent.Registry alongside other bindings without
// colliding) and decoding each tool's JSON Schema inputSchema into the
// generic map[string]any chatmodel.Tool.Parameters expects.
func (tk *Toolkit) Descriptors() ([]chatmodel.Tool, error) {
	out := make([]chatmodel.Tool, 0, len(tk.client.Tools()))
	for _, t := range tk.client.Tools() {
		params, err := decodeSchema(t.InputSchema)
		if err != nil {
			return nil, rterr.New(rterr.KindIO, opToolkit, err).WithPath(t.Name)
		}
		out = append(out, chatmodel.Tool{
			Name:        tk.client.LocalName(t.Name),
			Description: t.Description,
			Parameters:  params,
		})
	}
	return out, nil
}

// Callback returns the ToolCallback published for localName (spec §3's
// local_name), and whether the server advertised a tool under it.
func (tk *Toolkit) Callback(localName string) (ToolCallback, bool) {
	cb, ok := tk.client.callbacks[localName]
	return cb, ok
}

func decodeSchema(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]any{"type": "object"}, nil
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, err
	}
	return schema, nil
}
