package localtools

import (
	"context"
	"encoding/json"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/tools"
)

var cpDescriptor = chatmodel.Tool{
	Name:        "cp",
	Description: "Copy one or more sandboxed source paths to a destination, GNU-cp-ish semantics (dest must be a directory for multiple sources). link/symbolic_link hard-link or symlink instead of copying file contents.",
	Parameters: objectSchema([]string{"sources", "dest"}, map[string]any{
		"sources":       schemaStringArray(),
		"dest":          schemaString(),
		"recursive":     schemaBool(),
		"force":         schemaBool(),
		"interactive":   schemaBool(),
		"preserve":      schemaBool(),
		"link":          schemaBool(),
		"symbolic_link": schemaBool(),
		"update":        schemaBool(),
		"verbose":       schemaBool(),
	}),
}

type cpArgs struct {
	Sources      []string `json:"sources"`
	Dest         string   `json:"dest"`
	Recursive    bool     `json:"recursive"`
	Force        bool     `json:"force"`
	Interactive  bool     `json:"interactive"`
	Preserve     bool     `json:"preserve"`
	Link         bool     `json:"link"`
	SymbolicLink bool     `json:"symbolic_link"`
	Update       bool     `json:"update"`
	Verbose      bool     `json:"verbose"`
}

func cpCallback(executor *tools.Executor) agent.ToolCallback {
	return func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		var args cpArgs
		if err := json.Unmarshal(arguments, &args); err != nil {
			return agent.ToolResult{}, err
		}
		result, err := executor.Cp(args.Sources, args.Dest, tools.CpOptions{
			Recursive:    args.Recursive,
			Force:        args.Force,
			Interactive:  args.Interactive,
			Preserve:     args.Preserve,
			Link:         args.Link,
			SymbolicLink: args.SymbolicLink,
			Update:       args.Update,
			Verbose:      args.Verbose,
		})
		if err != nil {
			return agent.ToolResult{}, err
		}
		return marshalContent(result)
	}
}
