package agent

import (
	"fmt"

	"github.com/arashivan/agentrt/rterr"
)

// op names used when the agent loop wraps a failure into the shared
// rterr.Error taxonomy (spec §7), following chatmodel/errors.go's
// helper-constructor pattern built directly on rterr.Kind rather than a
// package-local error type — the teacher's separate AgentError
// (agent-go/errors.go) is intentionally not reintroduced here, since
// this module already carries one taxonomy across every component
// boundary and a second one would just be a translation layer.
const (
	opRun  = "agent.run"
	opTool = "agent.tool_call"
)

// newExceededIterationsError reports that run() reached its configured
// iteration cap without the model returning a tool-call-free response
// (spec §4.8's "ExceededIterations" terminal state).
func newExceededIterationsError(maxIterations int) *rterr.Error {
	return rterr.New(rterr.KindExceededIterations, opRun, fmt.Errorf("reached max_iterations=%d", maxIterations))
}

// newModelError wraps a ChatModel.Generate failure.
func newModelError(cause error) *rterr.Error {
	return rterr.New(rterr.KindIO, opRun, cause)
}

// newUnknownToolError reports a tool call naming a tool absent from the
// registry — a caller/model contract violation rather than a tool
// failure, so it is not surfaced as an Observation but aborts the run.
func newUnknownToolError(name string) *rterr.Error {
	return rterr.New(rterr.KindIO, opTool, fmt.Errorf("unknown tool %q", name)).WithPath(name)
}
