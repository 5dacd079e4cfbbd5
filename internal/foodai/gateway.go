package foodai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"foodbridge/internal/llm"
	llmclient "foodbridge/internal/llmclient"
	"foodbridge/internal/metrics"
	"foodbridge/internal/types"
	"foodbridge/internal/util/jsonutil"
)

const (
	// PhaseVision tags image analysis calls.
	PhaseVision = "vision"
	// PhaseLogistics tags matching calls.
	PhaseLogistics = "logistics"

	// FallbackSummary is the summary of a failed matching call.
	FallbackSummary = "Error during optimization."

	imageMIMEType = "image/jpeg"
)

var errInvalidImage = errors.New("image payload is not valid base64")

// Gateway sends donation data to the reasoning service and folds its replies
// into typed results. Provider and parse failures are returned as data; only
// configuration errors are returned as errors.
type Gateway struct {
	client llmclient.LLMClient
	log    zerolog.Logger
}

func New(client llmclient.LLMClient, log zerolog.Logger) *Gateway {
	return &Gateway{client: client, log: log.With().Str("component", "foodai").Logger()}
}

// AnalyzeImage asks the vision model to list the food items in image.
// image may be a data URL or bare base64.
func (g *Gateway) AnalyzeImage(ctx context.Context, image string) (types.AnalysisResult, error) {
	ctx = llm.WithPhase(ctx, PhaseVision)

	data, err := DecodeImage(image)
	if err != nil {
		return g.analysisFailed(err), nil
	}

	reply, err := g.client.Generate(ctx, llmclient.Request{
		Prompt: visionPrompt,
		Images: []llmclient.Image{{MIMEType: imageMIMEType, Data: data}},
		JSON:   true,
	})
	if err != nil {
		if llmclient.IsConfigError(err) {
			metrics.GatewayResultsTotal.WithLabelValues(PhaseVision, "config_error").Inc()
			return types.AnalysisResult{FoodItems: []types.FoodItemAnalysis{}}, err
		}
		return g.analysisFailed(err), nil
	}
	if strings.TrimSpace(reply) == "" {
		return g.analysisFailed(llmclient.ErrEmptyResponse), nil
	}

	res, err := jsonutil.Normalize[types.AnalysisResult](reply)
	if err != nil {
		return g.analysisFailed(err), nil
	}
	if res.FoodItems == nil {
		res.FoodItems = []types.FoodItemAnalysis{}
	}
	metrics.GatewayResultsTotal.WithLabelValues(PhaseVision, "ok").Inc()
	return res, nil
}

// MatchDonations asks the logistics model to pair donations with needs.
// donations are not filtered here; callers pass the available ones.
func (g *Gateway) MatchDonations(ctx context.Context, donations []types.Donation, needs []types.RecipientNeed) (types.MatchResult, error) {
	ctx = llm.WithPhase(ctx, PhaseLogistics)

	prompt, err := BuildMatchPrompt(donations, needs)
	if err != nil {
		return g.matchFailed(err), nil
	}

	reply, err := g.client.Generate(ctx, llmclient.Request{Prompt: prompt, JSON: true})
	if err != nil {
		if llmclient.IsConfigError(err) {
			metrics.GatewayResultsTotal.WithLabelValues(PhaseLogistics, "config_error").Inc()
			return types.MatchResult{Matches: []types.Match{}, Summary: FallbackSummary}, err
		}
		return g.matchFailed(err), nil
	}
	if strings.TrimSpace(reply) == "" {
		return g.matchFailed(llmclient.ErrEmptyResponse), nil
	}

	res, err := jsonutil.Normalize[types.MatchResult](reply)
	if err != nil {
		return g.matchFailed(err), nil
	}
	if res.Matches == nil {
		res.Matches = []types.Match{}
	}
	metrics.GatewayResultsTotal.WithLabelValues(PhaseLogistics, "ok").Inc()
	return res, nil
}

func (g *Gateway) analysisFailed(err error) types.AnalysisResult {
	metrics.GatewayResultsTotal.WithLabelValues(PhaseVision, outcomeOf(err)).Inc()
	g.log.Warn().Err(err).Str("phase", PhaseVision).Msg("image analysis failed")
	return types.AnalysisResult{FoodItems: []types.FoodItemAnalysis{}, Error: err.Error()}
}

func (g *Gateway) matchFailed(err error) types.MatchResult {
	metrics.GatewayResultsTotal.WithLabelValues(PhaseLogistics, outcomeOf(err)).Inc()
	g.log.Warn().Err(err).Str("phase", PhaseLogistics).Msg("donation matching failed")
	return types.MatchResult{Matches: []types.Match{}, Summary: FallbackSummary, Error: err.Error()}
}

func outcomeOf(err error) string {
	if errors.Is(err, jsonutil.ErrMalformedResponse) {
		return "malformed"
	}
	return "provider_error"
}

// StripDataURLPrefix drops everything up to and including the first comma,
// e.g. "data:image/jpeg;base64,". Input without a comma is returned as is.
func StripDataURLPrefix(image string) string {
	if i := strings.IndexByte(image, ','); i >= 0 {
		return image[i+1:]
	}
	return image
}

// DecodeImage strips a data URL prefix and decodes the base64 payload.
func DecodeImage(image string) ([]byte, error) {
	raw := strings.TrimSpace(StripDataURLPrefix(image))
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", errInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		if data, rerr := base64.RawStdEncoding.DecodeString(raw); rerr == nil {
			return data, nil
		}
		return nil, fmt.Errorf("%w: %v", errInvalidImage, err)
	}
	return data, nil
}
