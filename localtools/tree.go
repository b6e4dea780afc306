package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var treeDescriptor = chatmodel.Tool{
	Name:        "tree",
	Description: "Return a pre-order walk of a sandboxed directory tree, bounded by depth and capped at the tool executor's max result count.",
	Parameters: objectSchema([]string{"root"}, map[string]any{
		"root":      schemaString(),
		"max_depth": schemaInt(),
	}),
}

type treeArgs struct {
	Root     string `json:"root"`
	MaxDepth *int   `json:"max_depth"`
}

func treeCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args treeArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		result, err := executor.Tree(args.Root, tools.TreeOptions{MaxDepth: args.MaxDepth})
		if err != nil {
			return agent.ToolResult{}, err
		}
		return marshalContent(result)
	}
}
