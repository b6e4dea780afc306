package agent

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is initialized lazily (package-level var, not in an init func)
// so a caller configuring the global TracerProvider before its first
// Run call still takes effect, following agent-go/opentelemetry.go's
// comment on the same pattern.
var tracer = otel.Tracer("github.com/arashivan/agentrt/agent")

// runSpan manages the span covering one Run call. Unlike
// agent-go/opentelemetry.go's AgentSpan, it tracks no ModelUsage/cost:
// chatmodel.Response carries no token-usage or pricing fields (spec §6
// deliberately omits them from the model interface), so there is
// nothing to accumulate here beyond the run's iteration count.
type runSpan struct {
	agentName string
	span      trace.Span
}

// newRunSpan starts the span for one agent Run.
func newRunSpan(ctx context.Context, agentName string) (*runSpan, context.Context) {
	newCtx, span := tracer.Start(ctx, "agent.run")
	return &runSpan{agentName: agentName, span: span}, newCtx
}

// onEnd records the run's outcome and ends the span.
func (s *runSpan) onEnd(resp *AgentResponse) {
	s.span.SetAttributes(
		attribute.String("gen_ai.operation.name", "invoke_agent"),
		attribute.String("gen_ai.agent.name", s.agentName),
		attribute.Int("agent.total_iterations", resp.TotalIterations),
	)
	s.span.End()
}

// onError records a run-terminating error and ends the span.
func (s *runSpan) onError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	s.span.End()
}

// startToolSpan wraps one tool dispatch in its own span, following
// agent-go/opentelemetry.go's startActiveToolSpan and the OpenTelemetry
// Gen AI semantic conventions for tool execution spans.
func startToolSpan(ctx context.Context, toolCallID, toolName string, fn func(context.Context) (ToolResult, error)) (ToolResult, error) {
	spanCtx, span := tracer.Start(ctx, fmt.Sprintf("agent.tool.%s", toolName))
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.operation.name", "execute_tool"),
		attribute.String("gen_ai.tool.call.id", toolCallID),
		attribute.String("gen_ai.tool.name", toolName),
		attribute.String("gen_ai.tool.type", "function"),
	)

	res, err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ToolResult{}, err
	}
	if res.IsError {
		span.SetStatus(codes.Error, "tool reported error result")
	}
	return res, nil
}
