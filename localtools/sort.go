package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var sortModeByName = map[string]tools.SortMode{
	"lexical":       tools.SortLexical,
	"numeric":       tools.SortNumeric,
	"version":       tools.SortVersion,
	"month":         tools.SortMonth,
	"human_numeric": tools.SortHumanNumeric,
}

var sortDescriptor = chatmodel.Tool{
	Name:        "sort",
	Description: "Sort the newline-joined lines of sandboxed files (spec scenario S5 covers version_sort).",
	Parameters: objectSchema([]string{"paths"}, map[string]any{
		"paths":       schemaStringArray(),
		"mode":        map[string]any{"type": "string", "enum": []string{"lexical", "numeric", "version", "month", "human_numeric"}},
		"reverse":     schemaBool(),
		"unique":      schemaBool(),
		"ignore_case": schemaBool(),
	}),
}

type sortArgs struct {
	Paths      []string `json:"paths"`
	Mode       string   `json:"mode"`
	Reverse    bool     `json:"reverse"`
	Unique     bool     `json:"unique"`
	IgnoreCase bool     `json:"ignore_case"`
}

func sortCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args sortArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		result, err := executor.Sort(args.Paths, tools.SortOptions{
			Mode:       sortModeByName[args.Mode],
			Reverse:    args.Reverse,
			Unique:     args.Unique,
			IgnoreCase: args.IgnoreCase,
		})
		if err != nil {
			return agent.ToolResult{}, err
		}
		return agent.ToolResult{Content: result}, nil
	}
}
