package llmclient

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the provider answered without any text.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrMissingCredential is returned when no provider API key is configured.
	ErrMissingCredential = errors.New("provider credential is not set")
)

// Image is an inline image part. Data holds the raw (decoded) bytes.
type Image struct {
	MIMEType string
	Data     []byte
}

// Request is a single generation call.
// JSON asks the provider for an application/json reply instead of prose.
type Request struct {
	Prompt string
	Images []Image
	JSON   bool
}

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	Name() string
	Close() error
	// Generate returns the raw reply text. It does not parse or validate it.
	Generate(ctx context.Context, req Request) (string, error)
}

// ConfigError means no request could be attempted because the client is
// misconfigured. Callers must surface it instead of folding it into a result.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm configuration: %s: %v", e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err (or anything it wraps) is a *ConfigError.
func IsConfigError(err error) bool {
	var cerr *ConfigError
	return errors.As(err, &cerr)
}
