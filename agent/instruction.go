package agent

import "strings"

// buildSystemPrompt joins static instruction strings into one system
// prompt, in order. Simplified from agent-go/instruction.go's
// InstructionParam[C]{String, Func(contextVal C)} union: this module's
// tool callbacks carry no per-run context value (see registry.go), so
// the dynamic Func variant has nothing to close over and is dropped —
// every instruction here is a plain string.
func buildSystemPrompt(instructions []string) string {
	return strings.Join(instructions, "\n")
}
