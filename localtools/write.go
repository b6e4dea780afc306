package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var writeDescriptor = chatmodel.Tool{
	Name:        "write",
	Description: "Write text content to a sandboxed file, honoring create/overwrite semantics.",
	Parameters: objectSchema([]string{"path", "content"}, map[string]any{
		"path":      schemaString(),
		"content":   schemaString(),
		"create":    schemaBool(),
		"overwrite": schemaBool(),
	}),
}

type writeArgs struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	Create    bool   `json:"create"`
	Overwrite bool   `json:"overwrite"`
}

func writeCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args writeArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		if err := executor.Write(args.Path, args.Content, tools.WriteOptions{Create: args.Create, Overwrite: args.Overwrite}); err != nil {
			return agent.ToolResult{}, err
		}
		return agent.ToolResult{Content: "ok"}, nil
	}
}
