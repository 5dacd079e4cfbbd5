package llm

import (
	"context"
	"encoding/json"
	"sync"

	llmclient "foodbridge/internal/llmclient"
)

// FakeClient returns deterministic JSON payloads per phase for offline runs and tests.
// Replies and Errs override the defaults for a phase.
type FakeClient struct {
	Replies map[string]string
	Errs    map[string]error

	mu       sync.Mutex
	requests []FakeCall
}

// FakeCall is one request observed by FakeClient.
type FakeCall struct {
	Phase   string
	Request llmclient.Request
}

func NewFakeClient() *FakeClient {
	return &FakeClient{Replies: map[string]string{}, Errs: map[string]error{}}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	phase := PhaseFrom(ctx)
	f.mu.Lock()
	f.requests = append(f.requests, FakeCall{Phase: phase, Request: req})
	reply, scripted := f.Replies[phase]
	err := f.Errs[phase]
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	if scripted {
		return reply, nil
	}

	var obj any
	switch phase {
	case "vision":
		obj = map[string]any{
			"food_items": []any{
				map[string]any{
					"item":            "Mixed Vegetables",
					"quantity":        "1 crate",
					"expiry_estimate": "3 days",
					"category":        "Produce",
					"safety_check":    "Looks fresh, no visible spoilage",
				},
			},
		}
	case "logistics":
		obj = map[string]any{
			"matches": []any{},
			"summary": "fake logistics output",
		}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return string(b), nil
}

// Calls returns a copy of the requests observed so far.
func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.requests))
	copy(out, f.requests)
	return out
}
