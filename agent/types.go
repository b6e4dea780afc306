package agent

import "encoding/json"

// Action is one tool call the model requested in an iteration, paired
// with its originating call-id (spec §4.8 step 3/4).
type Action struct {
	ToolCallID string
	ToolName   string
	Arguments  json.RawMessage
}

// Observation is one tool call's result, tagged with the originating
// call-id so it can be matched back to its Action (spec invariant 10).
type Observation struct {
	ToolCallID string
	Content    string
	IsError    bool
}

// AgentIteration records one think/act/observe pass: the model's
// text/reasoning content for the iteration ("thought"), the tool calls
// it requested ("actions"), and their results ("observations"), per spec
// §4.8 step 5. Invariant 10 requires Observations[j] to correspond to
// Actions[j] by position; the agent loop preserves this by dispatching
// concurrently but writing results into a pre-sized slice indexed by
// call position rather than by completion order.
type AgentIteration struct {
	Thought      string
	Actions      []Action
	Observations []Observation
}

// AgentResponse is the ReAct loop's terminal result: either Success
// (FinalAnswer populated) or a non-nil error (ExceededIterations,
// Cancelled, or a propagated model/tool fault), per spec §4.8/§7.
type AgentResponse struct {
	FinalAnswer     string
	Iterations      []AgentIteration
	TotalIterations int
}
