package llm

import "context"

// PromptHook observes every provider call made with its context.
// After receives either the raw reply or the error.
type PromptHook interface {
	Before(ctx context.Context, phase, prompt string)
	After(ctx context.Context, phase, reply string, err error)
}

type ctxKeyHook struct{}
type ctxKeyPhase struct{}

// WithHook attaches a PromptHook to the context. WithHooks middleware calls it.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	if hook == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, ctxKeyPhase{}, phase)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// PhaseFrom returns the phase string stored in the context.
func PhaseFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyPhase{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
