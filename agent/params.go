package agent

import (
	"log/slog"
	"time"

	"github.com/arashivan/agentrt/chatmodel"
)

// defaultMaxIterations is spec §4.8's iteration cap default; kept small
// enough that a misbehaving model loop fails fast in tests.
const defaultMaxIterations = 10

// defaultToolCallTimeout bounds a single tool dispatch within an
// iteration (spec §4.8 step 3's "wrapped in a per-call timeout").
const defaultToolCallTimeout = 30 * time.Second

// AgentParams configures an Agent, following agent-go/params.go's
// functional-option idiom adapted to this module's narrower surface (no
// model sampling knobs — those are the ChatModel implementation's
// concern, not the ReAct loop's).
type AgentParams struct {
	Name          string
	Model         chatmodel.ChatModel
	Registry      *Registry
	Instructions  []string
	MaxIterations int
	ToolTimeout   time.Duration
	Logger        *slog.Logger
}

// AgentParamsOption configures an AgentParams at construction time.
type AgentParamsOption func(*AgentParams)

// WithInstructions sets the static system-prompt fragments joined ahead
// of the conversation.
func WithInstructions(instructions ...string) AgentParamsOption {
	return func(p *AgentParams) { p.Instructions = instructions }
}

// WithRegistry sets the tool-callback registry the loop dispatches
// model-requested tool calls through. Defaults to an empty registry.
func WithRegistry(registry *Registry) AgentParamsOption {
	return func(p *AgentParams) { p.Registry = registry }
}

// WithMaxIterations overrides the default iteration cap (spec §4.8).
func WithMaxIterations(maxIterations int) AgentParamsOption {
	return func(p *AgentParams) { p.MaxIterations = maxIterations }
}

// WithToolTimeout overrides the default per-call tool-dispatch timeout.
func WithToolTimeout(timeout time.Duration) AgentParamsOption {
	return func(p *AgentParams) { p.ToolTimeout = timeout }
}

// WithLogger attaches a structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) AgentParamsOption {
	return func(p *AgentParams) { p.Logger = logger }
}
