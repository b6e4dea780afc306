package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arashivan/agentrt/agent"
	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/rterr"
)

// lsTool is the scenario S6 tool descriptor: a no-argument "ls" listing
// whatever the sandbox path contains.
var lsTool = chatmodel.Tool{Name: "ls", Description: "list directory", Parameters: map[string]any{"type": "object"}}

func TestRunScenarioS6(t *testing.T) {
	var calls int32
	model := chatmodel.Func(func(ctx context.Context, req chatmodel.Request) (*chatmodel.Response, error) {
		n := atomic.AddInt32(&calls, 1)
		switch n {
		case 1:
			return &chatmodel.Response{
				ToolCalls: []chatmodel.ToolCallPart{{ToolCallID: "call-1", ToolName: "ls", Args: json.RawMessage(`{"path":"."}`)}},
			}, nil
		case 2:
			return &chatmodel.Response{Content: []chatmodel.Part{chatmodel.Text("done")}}, nil
		default:
			t.Fatalf("unexpected third model call")
			return nil, nil
		}
	})

	registry := agent.NewRegistry()
	registry.Register(lsTool, func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		return agent.ToolResult{Content: "a\nb\n"}, nil
	})

	a := agent.NewAgent("lister", model, agent.WithRegistry(registry))
	resp, err := a.Run(context.Background(), "list the current directory")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.FinalAnswer != "done" {
		t.Fatalf("FinalAnswer = %q, want %q", resp.FinalAnswer, "done")
	}
	if resp.TotalIterations != 2 {
		t.Fatalf("TotalIterations = %d, want 2", resp.TotalIterations)
	}
	if len(resp.Iterations) != 1 {
		t.Fatalf("expected one recorded iteration with tool calls, got %d", len(resp.Iterations))
	}
	obs := resp.Iterations[0].Observations
	if len(obs) != 1 || obs[0].Content != "a\nb\n" {
		t.Fatalf("Observations = %+v", obs)
	}
}

// TestRunExceedsIterations pins invariant 9: a model that never stops
// requesting tool calls causes run() to return within max_iterations
// round-trips, terminating with ExceededIterations rather than looping
// forever.
func TestRunExceedsIterations(t *testing.T) {
	model := chatmodel.Func(func(ctx context.Context, req chatmodel.Request) (*chatmodel.Response, error) {
		return &chatmodel.Response{
			ToolCalls: []chatmodel.ToolCallPart{{ToolCallID: "call-1", ToolName: "ls", Args: json.RawMessage(`{}`)}},
		}, nil
	})

	registry := agent.NewRegistry()
	registry.Register(lsTool, func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		return agent.ToolResult{Content: "x"}, nil
	})

	a := agent.NewAgent("looper", model, agent.WithRegistry(registry), agent.WithMaxIterations(3))
	_, err := a.Run(context.Background(), "go")
	if err == nil {
		t.Fatalf("expected ExceededIterations error")
	}
	if !rterr.Is(err, rterr.KindExceededIterations) {
		t.Fatalf("expected KindExceededIterations, got %v", err)
	}
}

// TestRunObservationOrdering pins invariant 10: observations[j] must
// correspond to actions[j] by position even though the tool calls
// complete out of order (the "fast" one sleeps least and would finish
// first if results were appended on completion instead of written by
// index).
func TestRunObservationOrdering(t *testing.T) {
	var calls int32
	model := chatmodel.Func(func(ctx context.Context, req chatmodel.Request) (*chatmodel.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return &chatmodel.Response{ToolCalls: []chatmodel.ToolCallPart{
				{ToolCallID: "slow", ToolName: "slow", Args: json.RawMessage(`{}`)},
				{ToolCallID: "fast", ToolName: "fast", Args: json.RawMessage(`{}`)},
			}}, nil
		}
		return &chatmodel.Response{Content: []chatmodel.Part{chatmodel.Text("done")}}, nil
	})

	registry := agent.NewRegistry()
	registry.Register(chatmodel.Tool{Name: "slow"}, func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		time.Sleep(30 * time.Millisecond)
		return agent.ToolResult{Content: "slow-result"}, nil
	})
	registry.Register(chatmodel.Tool{Name: "fast"}, func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		return agent.ToolResult{Content: "fast-result"}, nil
	})

	a := agent.NewAgent("racer", model, agent.WithRegistry(registry))
	resp, err := a.Run(context.Background(), "go")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	obs := resp.Iterations[0].Observations
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if obs[0].ToolCallID != "slow" || obs[0].Content != "slow-result" {
		t.Fatalf("observations[0] = %+v, want slow-result", obs[0])
	}
	if obs[1].ToolCallID != "fast" || obs[1].Content != "fast-result" {
		t.Fatalf("observations[1] = %+v, want fast-result", obs[1])
	}
}

func TestRunUnknownToolAbortsRun(t *testing.T) {
	model := chatmodel.Func(func(ctx context.Context, req chatmodel.Request) (*chatmodel.Response, error) {
		return &chatmodel.Response{
			ToolCalls: []chatmodel.ToolCallPart{{ToolCallID: "call-1", ToolName: "nonexistent", Args: json.RawMessage(`{}`)}},
		}, nil
	})

	a := agent.NewAgent("noop", model, agent.WithRegistry(agent.NewRegistry()))
	_, err := a.Run(context.Background(), "go")
	if err == nil {
		t.Fatalf("expected an error for an unknown tool call")
	}
}

func TestRunModelErrorPropagates(t *testing.T) {
	cause := errors.New("upstream unavailable")
	model := chatmodel.Func(func(ctx context.Context, req chatmodel.Request) (*chatmodel.Response, error) {
		return nil, cause
	})

	a := agent.NewAgent("failer", model, agent.WithRegistry(agent.NewRegistry()))
	_, err := a.Run(context.Background(), "go")
	if err == nil || !errors.Is(err, cause) {
		t.Fatalf("expected the model error to propagate, got %v", err)
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	model := chatmodel.Func(func(ctx context.Context, req chatmodel.Request) (*chatmodel.Response, error) {
		return &chatmodel.Response{
			ToolCalls: []chatmodel.ToolCallPart{{ToolCallID: "call-1", ToolName: "ls", Args: json.RawMessage(`{}`)}},
		}, nil
	})

	registry := agent.NewRegistry()
	registry.Register(lsTool, func(ctx context.Context, arguments json.RawMessage) (agent.ToolResult, error) {
		return agent.ToolResult{Content: "x"}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := agent.NewAgent("cancelled", model, agent.WithRegistry(registry))
	_, err := a.Run(ctx, "go")
	if !rterr.Is(err, rterr.KindCancelled) {
		t.Fatalf("expected KindCancelled, got %v", err)
	}
}
