package agent

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/arashivan/agentrt/chatmodel"
	"github.com/arashivan/agentrt/rterr"
)

// runLoop implements spec §4.8's state machine:
//
//	START -> SEND -> (tool_calls?)
//	                   yes -> EXECUTE_ALL -> APPEND_RESULTS -> SEND
//	                   no  -> RETURN(final_answer)
//
// grounded on agent-go/run.go's turn loop, trimmed of the teacher's
// generic resumable-item/streaming machinery: this module's run has no
// session state to resume and no stream to drive, just a bounded loop
// over one conversation buffer.
func runLoop(ctx context.Context, params *AgentParams, input string) (*AgentResponse, error) {
	span, ctx := newRunSpan(ctx, params.Name)
	log := params.Logger.With("agent", params.Name)

	messages := []chatmodel.Message{chatmodel.NewUserMessage(input)}
	systemPrompt := buildSystemPrompt(params.Instructions)
	tools := params.Registry.Descriptors()

	resp := &AgentResponse{}

	for iteration := 1; iteration <= params.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			cancelErr := rterr.New(rterr.KindCancelled, opRun, err)
			span.onError(cancelErr)
			return nil, cancelErr
		}

		modelResp, err := params.Model.Generate(ctx, chatmodel.Request{
			SystemPrompt: systemPrompt,
			Messages:     messages,
			Tools:        tools,
		})
		if err != nil {
			wrapped := newModelError(err)
			log.Error("model generate failed", "iteration", iteration, "error", err)
			span.onError(wrapped)
			return nil, wrapped
		}

		if len(modelResp.ToolCalls) == 0 {
			resp.FinalAnswer = modelResp.Text()
			resp.TotalIterations = iteration
			span.onEnd(resp)
			return resp, nil
		}

		assistantParts := append([]chatmodel.Part{}, modelResp.Content...)
		for _, tc := range modelResp.ToolCalls {
			assistantParts = append(assistantParts, chatmodel.Part{ToolCallPart: &tc})
		}
		messages = append(messages, chatmodel.NewAssistantMessage(assistantParts...))

		actions := make([]Action, len(modelResp.ToolCalls))
		for i, tc := range modelResp.ToolCalls {
			actions[i] = Action{ToolCallID: tc.ToolCallID, ToolName: tc.ToolName, Arguments: tc.Args}
		}

		observations, toolMessages, dispatchErr := dispatchToolCalls(ctx, params, log, actions)
		if dispatchErr != nil {
			span.onError(dispatchErr)
			return nil, dispatchErr
		}
		messages = append(messages, toolMessages...)

		resp.Iterations = append(resp.Iterations, AgentIteration{
			Thought:      modelResp.Text(),
			Actions:      actions,
			Observations: observations,
		})
	}

	err := newExceededIterationsError(params.MaxIterations)
	span.onError(err)
	return nil, err
}

// dispatchToolCalls runs actions concurrently via an errgroup (spec
// §4.8's "Parallelism of tool dispatch"), each bounded by its own
// per-call timeout, and writes each result into a slice pre-sized and
// indexed by call position — not append-on-completion — so that
// invariant 10 (iterations[i].observations[j] corresponds to
// iterations[i].actions[j] by position) holds regardless of which call
// finishes first. Grounded on agent-go/run.go's NewRunSession, which
// uses the identical sessions[i]-indexed-write-inside-errgroup.Go
// pattern for concurrent toolkit initialization.
//
// One tool message is produced per result (rather than one tool message
// carrying every result's part), following spec §4.8 step 4's wording
// literally: "one tool message per result, each tagged with the
// original call-id".
func dispatchToolCalls(ctx context.Context, params *AgentParams, log *slog.Logger, actions []Action) ([]Observation, []chatmodel.Message, error) {
	observations := make([]Observation, len(actions))
	g, gctx := errgroup.WithContext(ctx)

	for i, action := range actions {
		g.Go(func() error {
			callback, ok := params.Registry.Callback(action.ToolName)
			if !ok {
				return newUnknownToolError(action.ToolName)
			}

			callCtx, cancel := context.WithTimeout(gctx, params.ToolTimeout)
			defer cancel()

			result, err := startToolSpan(callCtx, action.ToolCallID, action.ToolName, func(spanCtx context.Context) (ToolResult, error) {
				return callback(spanCtx, action.Arguments)
			})
			if err != nil {
				if kind, ok := rterr.KindOf(err); ok && kind == rterr.KindCancelled {
					log.Debug("tool call abandoned on cancellation", "tool", action.ToolName, "call_id", action.ToolCallID)
					observations[i] = Observation{ToolCallID: action.ToolCallID, Content: err.Error(), IsError: true}
					return nil
				}
				log.Warn("tool call returned error", "tool", action.ToolName, "call_id", action.ToolCallID, "error", err)
				observations[i] = Observation{ToolCallID: action.ToolCallID, Content: err.Error(), IsError: true}
				return nil
			}

			observations[i] = Observation{ToolCallID: action.ToolCallID, Content: result.Content, IsError: result.IsError}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	messages := make([]chatmodel.Message, len(observations))
	for i, obs := range observations {
		messages[i] = chatmodel.NewToolMessage(chatmodel.Part{ToolResultPart: &chatmodel.ToolResultPart{
			ToolCallID: obs.ToolCallID,
			ToolName:   actions[i].ToolName,
			Content:    []chatmodel.Part{chatmodel.Text(obs.Content)},
			IsError:    obs.IsError,
		}})
	}

	return observations, messages, nil
}
