package chatmodel

import "context"

// Request bundles a conversation and the tools available to the model
// for one completion call. Corresponds to spec §6's "chat(messages) →
// Response" interface, generalized to also carry the tool catalogue the
// agent loop (C8) advertises each iteration.
type Request struct {
	SystemPrompt string
	Messages     []Message
	Tools        []Tool
}

// Response is either a final assistant message (no tool calls) or one
// advertising tool calls to execute, per spec §6: "Response is either
// { content: string } or { content?: string, tool_calls: [...] }".
// Content and ToolCalls are not mutually exclusive: a model may emit
// reasoning/text alongside tool calls, in which case the agent loop
// still treats the presence of any tool call as non-terminal.
type Response struct {
	Content   []Part
	ToolCalls []ToolCallPart
}

// Text concatenates every TextPart in the response's content.
func (r Response) Text() string {
	var out string
	for _, p := range r.Content {
		if p.TextPart != nil {
			out += p.TextPart.Text
		}
	}
	return out
}

// ChatModel is the model-completion interface the agent loop consumes.
// Implementations adapt a specific provider SDK (or a test double) to
// this single method; the agent core never depends on a concrete
// provider.
type ChatModel interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Func adapts a plain function to ChatModel, the functional-adapter
// idiom used throughout this module's test doubles.
type Func func(ctx context.Context, req Request) (*Response, error)

func (f Func) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
