package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var findDescriptor = chatmodel.Tool{
	Name:        "find",
	Description: "Walk a sandboxed directory tree bounded by depth and include/exclude glob sets, capped at the tool executor's max result count.",
	Parameters: objectSchema([]string{"root"}, map[string]any{
		"root":           schemaString(),
		"max_depth":      schemaInt(),
		"include":        schemaStringArray(),
		"exclude":        schemaStringArray(),
		"name_pattern":   schemaString(),
		"include_hidden": schemaBool(),
	}),
}

type findArgs struct {
	Root          string   `json:"root"`
	MaxDepth      *int     `json:"max_depth"`
	Include       []string `json:"include"`
	Exclude       []string `json:"exclude"`
	NamePattern   string   `json:"name_pattern"`
	IncludeHidden bool     `json:"include_hidden"`
}

func findCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args findArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		result, err := executor.Find(args.Root, tools.FindOptions{
			MaxDepth:      args.MaxDepth,
			Include:       args.Include,
			Exclude:       args.Exclude,
			NamePattern:   args.NamePattern,
			IncludeHidden: args.IncludeHidden,
		})
		if err != nil {
			return agent.ToolResult{}, err
		}
		return marshalContent(result)
	}
}
