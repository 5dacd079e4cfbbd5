package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	llmclient "foodbridge/internal/llmclient"
	"foodbridge/internal/tester"
)

type recordingHook struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHook) Before(ctx context.Context, phase, prompt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "before:"+phase)
}

func (h *recordingHook) After(ctx context.Context, phase, reply string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.events = append(h.events, "error:"+phase)
		return
	}
	h.events = append(h.events, "after:"+phase+":"+reply)
}

func TestHooks_BeforeAndAfter(t *testing.T) {
	hook := &recordingHook{}
	cli := Wrap(&fastClient{}, WithHooks())
	ctx := WithHook(WithPhase(context.Background(), "vision"), hook)

	_, err := cli.Generate(ctx, llmclient.Request{Prompt: "p"})
	tester.NoErr(t, err)
	tester.Eq(t, hook.events, []string{"before:vision", "after:vision:{}"})
}

func TestHooks_ErrorReachesAfter(t *testing.T) {
	fake := NewFakeClient()
	fake.Errs["logistics"] = errors.New("quota")
	hook := &recordingHook{}
	cli := Wrap(fake, WithHooks())
	ctx := WithHook(WithPhase(context.Background(), "logistics"), hook)

	_, err := cli.Generate(ctx, llmclient.Request{})
	tester.True(t, err != nil, "scripted error must surface")
	tester.Eq(t, hook.events, []string{"before:logistics", "error:logistics"})
}

func TestHooks_NoHookIsNoop(t *testing.T) {
	cli := Wrap(&fastClient{}, WithHooks())
	out, err := cli.Generate(context.Background(), llmclient.Request{})
	tester.NoErr(t, err)
	tester.Eq(t, out, "{}")
}

func TestPhaseFrom_Default(t *testing.T) {
	tester.Eq(t, PhaseFrom(context.Background()), "unknown")
	tester.Eq(t, PhaseFrom(WithPhase(context.Background(), "vision")), "vision")
}
