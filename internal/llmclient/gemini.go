package llmclient

import (
	"context"
	"net/http"
	"strings"
	"sync"

	genai "google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint (tests, proxies).
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (rate limiting, logging, hooks, metrics) are applied via middleware.
//
// The genai client is built on the first call so that a missing API key
// fails that call rather than process startup.
type GeminiClient struct {
	opts  GeminiOptions
	model string

	mu  sync.Mutex
	cli *genai.Client
}

func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{opts: opts, model: model}
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

func (g *GeminiClient) client(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cli != nil {
		return g.cli, nil
	}
	key := strings.TrimSpace(g.opts.APIKey)
	if key == "" {
		return nil, &ConfigError{Setting: "API_KEY", Err: ErrMissingCredential}
	}
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.opts.HTTPClient,
	}
	if base := strings.TrimSpace(g.opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, &ConfigError{Setting: "genai client", Err: err}
	}
	g.cli = cli
	return cli, nil
}

// Generate sends the prompt followed by any inline images as one user turn.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	cli, err := g.client(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]*genai.Part, 0, 1+len(req.Images))
	parts = append(parts, &genai.Part{Text: req.Prompt})
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}})
	}
	cfg := &genai.GenerateContentConfig{}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: parts}},
		cfg,
	)
	if err != nil {
		return "", err
	}
	txt := replyText(resp)
	if strings.TrimSpace(txt) == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}

// replyText joins the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
