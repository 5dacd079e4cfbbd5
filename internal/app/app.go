package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"foodbridge/internal/config"
	"foodbridge/internal/feed"
	"foodbridge/internal/foodai"
	"foodbridge/internal/llm"
	llmclient "foodbridge/internal/llmclient"
	"foodbridge/internal/metrics"
	"foodbridge/internal/server"
	"foodbridge/internal/server/handler"
	"foodbridge/internal/session"
)

type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	client llmclient.LLMClient
	router http.Handler
	server *server.Server
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	metrics.Register()

	// Dependencies
	client, err := NewLLMClient(cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build llm client: %w", err)
	}
	hub := feed.NewHub(log)
	sessions := session.NewRegistry(session.RegistryOptions{
		TTL:         cfg.Session.TTL,
		MaxSessions: cfg.Session.MaxSessions,
		Seed:        cfg.Session.SeedDemo,
		Listener:    hub.Publish,
	}, log)
	gateway := foodai.New(client, log)

	h := handler.New(handler.Options{
		Sessions:       sessions,
		Gateway:        gateway,
		Hub:            hub,
		Log:            log,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Routing & Server
	router := server.NewRouter(h, log)
	srv := server.New(cfg.Port, router, log)

	log.Info().
		Str("env", cfg.Env).
		Str("llm", client.Name()).
		Bool("credential_set", cfg.LLM.APIKey != "").
		Bool("seed_demo", cfg.Session.SeedDemo).
		Msg("app initialized")

	return &App{cfg: cfg, log: log, client: client, router: router, server: srv}, nil
}

// NewLLMClient builds the provider client wrapped with the standard middleware chain.
func NewLLMClient(cfg config.LLMConfig, log zerolog.Logger) (llmclient.LLMClient, error) {
	var base llmclient.LLMClient
	switch cfg.Provider {
	case config.ProviderGemini, "":
		base = llmclient.NewGeminiClient(llmclient.GeminiOptions{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case config.ProviderFake:
		base = llm.NewFakeClient()
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	return llm.Wrap(base,
		llm.WithMetrics(),
		llm.WithLogging(log.With().Str("component", "llm").Logger()),
		llm.WithHooks(),
		llm.RateLimit(cfg.RPS, cfg.Burst),
	), nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.router }

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.client.Close(); err == nil {
		err = cerr
	}
	return err
}
