package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var appendDescriptor = chatmodel.Tool{
	Name:        "append",
	Description: "Append text content to a sandboxed file, creating it and its parent directories if necessary.",
	Parameters:  objectSchema([]string{"path", "content"}, map[string]any{"path": schemaString(), "content": schemaString()}),
}

type appendArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func appendCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args appendArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		if err := executor.Append(args.Path, args.Content); err != nil {
			return agent.ToolResult{}, err
		}
		return agent.ToolResult{Content: "ok"}, nil
	}
}
