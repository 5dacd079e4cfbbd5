package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	llmclient "foodbridge/internal/llmclient"
	"foodbridge/internal/metrics"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, logging, hooks, metrics).
type Middleware func(llmclient.LLMClient) llmclient.LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.LLMClient, mws ...Middleware) llmclient.LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit limits request rate with a token bucket.
// If rps <= 0, the limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next llmclient.LLMClient
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }
func (c *rateLimited) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.Generate(ctx, req)
}

// -------- Logging --------

// WithLogging logs request size and errors. Media embedded in the prompt
// text is redacted from debug output.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  zerolog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	phase := PhaseFrom(ctx)
	imgBytes := 0
	for _, img := range req.Images {
		imgBytes += len(img.Data)
	}
	l.log.Info().
		Str("phase", phase).
		Str("model", l.next.Name()).
		Int("prompt_bytes", len(req.Prompt)).
		Int("images", len(req.Images)).
		Int("image_bytes", imgBytes).
		Msg("llm request")
	l.log.Debug().Str("phase", phase).Str("prompt", RedactMedia(req.Prompt)).Msg("llm prompt")

	start := time.Now()
	reply, err := l.next.Generate(ctx, req)
	if err != nil {
		l.log.Error().Err(err).Str("phase", phase).Dur("elapsed", time.Since(start)).Msg("llm error")
		return reply, err
	}
	l.log.Info().Str("phase", phase).Int("reply_bytes", len(reply)).Dur("elapsed", time.Since(start)).Msg("llm reply")
	return reply, nil
}

// -------- Hooks --------

// WithHooks calls HookFrom(ctx).Before/After around Generate.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.LLMClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }
func (h *hooked) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, PhaseFrom(ctx), req.Prompt)
	}
	reply, err := h.next.Generate(ctx, req)
	if hook != nil {
		hook.After(ctx, PhaseFrom(ctx), reply, err)
	}
	return reply, err
}

// -------- Metrics --------

// WithMetrics records call counts and latency per phase.
func WithMetrics() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &measured{next: next}
	}
}

type measured struct{ next llmclient.LLMClient }

func (m *measured) Name() string { return m.next.Name() }
func (m *measured) Close() error { return m.next.Close() }
func (m *measured) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	phase := PhaseFrom(ctx)
	start := time.Now()
	reply, err := m.next.Generate(ctx, req)
	metrics.LLMRequestDurationSeconds.WithLabelValues(phase).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.LLMRequestsTotal.WithLabelValues(phase, outcome).Inc()
	return reply, err
}
