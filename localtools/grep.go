package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var grepDescriptor = chatmodel.Tool{
	Name:        "grep",
	Description: "Search sandboxed paths for a pattern, returning matches with sliding before/after context windows (spec scenario S4).",
	Parameters: objectSchema([]string{"pattern", "paths"}, map[string]any{
		"pattern":        schemaString(),
		"paths":          schemaStringArray(),
		"ignore_case":    schemaBool(),
		"invert_match":   schemaBool(),
		"fixed_strings":  schemaBool(),
		"before_context": schemaInt(),
		"after_context":  schemaInt(),
		"recursive":      schemaBool(),
		"line_number":    schemaBool(),
	}),
}

type grepArgs struct {
	Pattern       string   `json:"pattern"`
	Paths         []string `json:"paths"`
	IgnoreCase    bool     `json:"ignore_case"`
	InvertMatch   bool     `json:"invert_match"`
	FixedStrings  bool     `json:"fixed_strings"`
	BeforeContext int      `json:"before_context"`
	AfterContext  int      `json:"after_context"`
	Recursive     bool     `json:"recursive"`
	LineNumber    bool     `json:"line_number"`
}

func grepCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args grepArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		matches, err := executor.Grep(args.Pattern, args.Paths, tools.GrepOptions{
			IgnoreCase:    args.IgnoreCase,
			InvertMatch:   args.InvertMatch,
			FixedStrings:  args.FixedStrings,
			BeforeContext: args.BeforeContext,
			AfterContext:  args.AfterContext,
			Recursive:     args.Recursive,
			LineNumber:    args.LineNumber,
		})
		if err != nil {
			return agent.ToolResult{}, err
		}
		return marshalContent(matches)
	}
}
