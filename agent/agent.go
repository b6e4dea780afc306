package agent

import (
	"context"
	"log/slog"

	"github.com/arashivan/agentrt/chatmodel"
)

// Agent is a configured bounded ReAct loop over a single ChatModel.
// Generalized from agent-go/agent.go's Agent[C]/NewAgent/Run shape,
// dropping the session/stream split: spec §4.8 describes one run()
// entry point with no multi-turn session state and no streaming
// surface, so there is no Session type here and Run does all the work
// NewRunSession+Run+Close did in the teacher.
type Agent struct {
	Name   string
	params AgentParams
}

// NewAgent constructs an Agent, applying defaults matching spec §4.8
// ("max_iterations defaults to 10") before options run.
func NewAgent(name string, model chatmodel.ChatModel, options ...AgentParamsOption) *Agent {
	params := AgentParams{
		Name:          name,
		Model:         model,
		Registry:      NewRegistry(),
		MaxIterations: defaultMaxIterations,
		ToolTimeout:   defaultToolCallTimeout,
		Logger:        slog.Default(),
	}
	for _, option := range options {
		option(&params)
	}
	if params.Registry == nil {
		params.Registry = NewRegistry()
	}
	if params.MaxIterations <= 0 {
		params.MaxIterations = defaultMaxIterations
	}
	if params.ToolTimeout <= 0 {
		params.ToolTimeout = defaultToolCallTimeout
	}
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	return &Agent{Name: name, params: params}
}

// Run executes the bounded ReAct loop (spec §4.8) for one user input and
// returns its terminal result: a populated FinalAnswer on success, or a
// non-nil error (ExceededIterations, Cancelled, or a propagated
// model/tool fault) otherwise.
func (a *Agent) Run(ctx context.Context, input string) (*AgentResponse, error) {
	return runLoop(ctx, &a.params, input)
}
