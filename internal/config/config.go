package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Env             string        `env:"APP_ENV" envDefault:"local"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LLM             LLMConfig
	Session         SessionConfig
}

type LLMConfig struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"gemini"`
	// APIKey is read from API_KEY, falling back to GEMINI_API_KEY.
	APIKey       string  `env:"API_KEY"`
	GeminiAPIKey string  `env:"GEMINI_API_KEY"`
	Model        string  `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL      string  `env:"GEMINI_BASE_URL"`
	RPS          float64 `env:"LLM_RPS" envDefault:"0"`
	Burst        int     `env:"LLM_BURST" envDefault:"1"`
}

type SessionConfig struct {
	TTL         time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	MaxSessions int           `env:"SESSION_MAX" envDefault:"1024"`
	SeedDemo    bool          `env:"SEED_DEMO" envDefault:"false"`
}

// Load reads .env (if present) and the process environment.
// A missing API key is not an error here; it fails the first model call.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if !strings.HasPrefix(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.LLM.APIKey = firstNonEmpty(strings.TrimSpace(c.LLM.APIKey), strings.TrimSpace(c.LLM.GeminiAPIKey))
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderFake:
	default:
		return fmt.Errorf("LLM_PROVIDER: unsupported provider %q", c.LLM.Provider)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.LLM.RPS < 0 {
		return fmt.Errorf("LLM_RPS must not be negative, got %v", c.LLM.RPS)
	}
	return nil
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == "development"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
