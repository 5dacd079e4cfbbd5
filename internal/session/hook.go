package session

import (
	"context"

	"foodbridge/internal/foodai"
	"foodbridge/internal/llm"
	"foodbridge/internal/types"
)

var _ llm.PromptHook = (*Session)(nil)

var phaseLabels = map[string]string{
	foodai.PhaseVision:    "Analyze the uploaded food photo.",
	foodai.PhaseLogistics: "Run logistics optimization on available donations.",
}

// Before records the user action that triggered a model call.
func (s *Session) Before(ctx context.Context, phase, prompt string) {
	label, ok := phaseLabels[phase]
	if !ok {
		label = "Run " + phase + "."
	}
	s.AppendMessage(types.RoleUser, label)
}

// After records the raw model reply, or the failure, in the transcript.
func (s *Session) After(ctx context.Context, phase, reply string, err error) {
	if err != nil {
		s.AppendMessage(types.RoleModel, "Error: "+err.Error())
		return
	}
	s.AppendMessage(types.RoleModel, reply)
}
