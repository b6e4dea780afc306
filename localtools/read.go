package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var readDescriptor = chatmodel.Tool{
	Name:        "read",
	Description: "Read a sandboxed file's full contents as text. Rejects files larger than the sandbox's maximum read size.",
	Parameters:  objectSchema([]string{"path"}, map[string]any{"path": schemaString()}),
}

type readArgs struct {
	Path string `json:"path"`
}

func readCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args readArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		content, err := executor.Read(args.Path)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return agent.ToolResult{Content: content}, nil
	}
}
