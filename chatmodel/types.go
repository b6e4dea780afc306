// Package chatmodel defines the model-completion interface the agent
// loop (C8) consumes: a conversation of Messages in, a Response with
// either final content or tool-call requests out.
//
// Grounded on sdk-go/types.go and sdk-go/languagemodel.go, trimmed of
// every concern spec §6 does not name for the agent's external
// interface: no image/audio/source parts, no streaming, no pricing or
// capability metadata, no provider selection. The model itself is an
// external collaborator (spec §1 non-goal); this package only pins down
// the shape of the conversation it is handed and the shape of what it
// returns.
package chatmodel

import (
	"encoding/json"
	"fmt"
)

// Role identifies who authored a Message, mirroring sdk-go's Role but
// restricted to the four roles spec §6 names.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType discriminates the tagged union Part carries.
type PartType string

const (
	PartTypeText       PartType = "text"
	PartTypeToolCall   PartType = "tool-call"
	PartTypeToolResult PartType = "tool-result"
	PartTypeReasoning  PartType = "reasoning"
)

// Part is a tagged union over one piece of message content. Exactly one
// field is non-nil; Type reports which.
type Part struct {
	TextPart       *TextPart       `json:"-"`
	ToolCallPart   *ToolCallPart   `json:"-"`
	ToolResultPart *ToolResultPart `json:"-"`
	ReasoningPart  *ReasoningPart  `json:"-"`
}

// TextPart carries plain text content.
type TextPart struct {
	Text string `json:"text"`
}

// ToolCallPart is a model request to invoke a tool. ToolCallID ties the
// eventual ToolResultPart back to this call.
type ToolCallPart struct {
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Args       json.RawMessage `json:"args"`
}

// ToolResultPart carries the outcome of a tool call back to the model.
type ToolResultPart struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Content    []Part `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

// ReasoningPart carries model-internal reasoning, when the model
// exposes it.
type ReasoningPart struct {
	Text      string  `json:"text"`
	Signature *string `json:"signature,omitempty"`
}

func (p Part) Type() PartType {
	switch {
	case p.TextPart != nil:
		return PartTypeText
	case p.ToolCallPart != nil:
		return PartTypeToolCall
	case p.ToolResultPart != nil:
		return PartTypeToolResult
	case p.ReasoningPart != nil:
		return PartTypeReasoning
	default:
		return ""
	}
}

// Text builds a Part wrapping plain text, a convenience used throughout
// the agent loop when appending the user prompt or a tool's textual
// result.
func Text(s string) Part {
	return Part{TextPart: &TextPart{Text: s}}
}

// MarshalJSON implements the tagged-union encoding, following
// sdk-go/types.go's Part.MarshalJSON pattern exactly.
func (p Part) MarshalJSON() ([]byte, error) {
	switch {
	case p.TextPart != nil:
		return json.Marshal(struct {
			Type PartType `json:"type"`
			*TextPart
		}{PartTypeText, p.TextPart})
	case p.ToolCallPart != nil:
		return json.Marshal(struct {
			Type PartType `json:"type"`
			*ToolCallPart
		}{PartTypeToolCall, p.ToolCallPart})
	case p.ToolResultPart != nil:
		return json.Marshal(struct {
			Type PartType `json:"type"`
			*ToolResultPart
		}{PartTypeToolResult, p.ToolResultPart})
	case p.ReasoningPart != nil:
		return json.Marshal(struct {
			Type PartType `json:"type"`
			*ReasoningPart
		}{PartTypeReasoning, p.ReasoningPart})
	default:
		return nil, fmt.Errorf("chatmodel: part has no content")
	}
}

// UnmarshalJSON implements the tagged-union decoding.
func (p *Part) UnmarshalJSON(data []byte) error {
	var temp struct {
		Type PartType `json:"type"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	switch temp.Type {
	case PartTypeText:
		var t TextPart
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		p.TextPart = &t
	case PartTypeToolCall:
		var tc ToolCallPart
		if err := json.Unmarshal(data, &tc); err != nil {
			return err
		}
		p.ToolCallPart = &tc
	case PartTypeToolResult:
		var tr ToolResultPart
		if err := json.Unmarshal(data, &tr); err != nil {
			return err
		}
		p.ToolResultPart = &tr
	case PartTypeReasoning:
		var r ReasoningPart
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		p.ReasoningPart = &r
	default:
		return fmt.Errorf("chatmodel: unknown part type: %s", temp.Type)
	}
	return nil
}

// Message is one turn in the conversation buffer the agent maintains.
type Message struct {
	Role    Role   `json:"role"`
	Content []Part `json:"content"`
}

// NewSystemMessage and NewUserMessage build single-text-part messages;
// NewAssistantMessage and NewToolMessage take any parts, including
// tool-call and tool-result parts.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: []Part{Text(text)}}
}

func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []Part{Text(text)}}
}

func NewAssistantMessage(parts ...Part) Message {
	return Message{Role: RoleAssistant, Content: parts}
}

func NewToolMessage(parts ...Part) Message {
	return Message{Role: RoleTool, Content: parts}
}

// ToolCalls returns every ToolCallPart in the message's content, in
// order, or nil if the message has none.
func (m Message) ToolCalls() []ToolCallPart {
	var calls []ToolCallPart
	for _, p := range m.Content {
		if p.ToolCallPart != nil {
			calls = append(calls, *p.ToolCallPart)
		}
	}
	return calls
}

// Text concatenates every TextPart in the message's content.
func (m Message) Text() string {
	var out string
	for _, p := range m.Content {
		if p.TextPart != nil {
			out += p.TextPart.Text
		}
	}
	return out
}

// Tool describes one callable tool offered to the model, mirroring
// sdk-go's Tool but dropping nothing: name, description and JSON Schema
// parameters are exactly what spec §6's model interface needs to
// advertise a tool.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
