package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var lsDescriptor = chatmodel.Tool{
	Name:        "ls",
	Description: "List a sandboxed directory's contents, or describe a single file.",
	Parameters: objectSchema([]string{"path"}, map[string]any{
		"path":      schemaString(),
		"all":       schemaBool(),
		"recursive": schemaBool(),
		"sort_by":   map[string]any{"type": "string", "enum": []string{"name", "mtime"}},
		"reverse":   schemaBool(),
	}),
}

type lsArgs struct {
	Path      string `json:"path"`
	All       bool   `json:"all"`
	Recursive bool   `json:"recursive"`
	SortBy    string `json:"sort_by"`
	Reverse   bool   `json:"reverse"`
}

func lsCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args lsArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		sortBy := tools.SortByName
		if args.SortBy == "mtime" {
			sortBy = tools.SortByModTime
		}
		result, err := executor.Ls(args.Path, tools.LsOptions{
			All:       args.All,
			Recursive: args.Recursive,
			SortBy:    sortBy,
			Reverse:   args.Reverse,
		})
		if err != nil {
			return agent.ToolResult{}, err
		}
		return marshalContent(result)
	}
}
