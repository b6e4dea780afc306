package localtools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var touchDescriptor = chatmodel.Tool{
	Name:        "touch",
	Description: "Update access/modification times for sandboxed paths, creating them unless no_create is set.",
	Parameters: objectSchema([]string{"paths"}, map[string]any{
		"paths":             schemaStringArray(),
		"no_create":         schemaBool(),
		"access_only":       schemaBool(),
		"modification_only": schemaBool(),
		"reference_time":    schemaString(),
	}),
}

type touchArgs struct {
	Paths            []string `json:"paths"`
	NoCreate         bool     `json:"no_create"`
	AccessOnly       bool     `json:"access_only"`
	ModificationOnly bool     `json:"modification_only"`
	ReferenceTime    string   `json:"reference_time"`
}

func touchCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args touchArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		opts := tools.TouchOptions{
			NoCreate:         args.NoCreate,
			AccessOnly:       args.AccessOnly,
			ModificationOnly: args.ModificationOnly,
		}
		if args.ReferenceTime != "" {
			parsed, err := time.Parse(time.RFC3339, args.ReferenceTime)
			if err != nil {
				return agent.ToolResult{}, err
			}
			opts.ReferenceTime = &parsed
		}
		result, err := executor.Touch(args.Paths, opts)
		if err != nil {
			return agent.ToolResult{}, err
		}
		return marshalContent(result)
	}
}
