package foodai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"foodbridge/internal/llm"
	llmclient "foodbridge/internal/llmclient"
	"foodbridge/internal/tester"
	"foodbridge/internal/types"
)

var jpeg = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}

func dataURL(b []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(b)
}

func newGateway(fake *llm.FakeClient) *Gateway {
	return New(fake, zerolog.Nop())
}

func TestAnalyzeImage_FencedEmptyList(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseVision] = "```json\n{\"food_items\":[]}\n```"
	res, err := newGateway(fake).AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.NoErr(t, err)
	tester.Eq(t, res, types.AnalysisResult{FoodItems: []types.FoodItemAnalysis{}})
	tester.False(t, res.Failed(), "fenced reply must not be an error")
}

func TestAnalyzeImage_SendsDecodedImage(t *testing.T) {
	fake := llm.NewFakeClient()
	res, err := newGateway(fake).AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.NoErr(t, err)
	tester.Eq(t, len(res.FoodItems), 1)

	calls := fake.Calls()
	tester.Eq(t, len(calls), 1)
	req := calls[0].Request
	tester.Eq(t, calls[0].Phase, PhaseVision)
	tester.True(t, req.JSON, "vision call must request JSON output")
	tester.Eq(t, len(req.Images), 1)
	tester.Eq(t, req.Images[0].MIMEType, "image/jpeg")
	tester.Eq(t, req.Images[0].Data, jpeg)
	tester.Contains(t, req.Prompt, `"expiry_estimate"`)
	tester.Contains(t, req.Prompt, `"safety_check"`)
}

func TestAnalyzeImage_BareBase64(t *testing.T) {
	fake := llm.NewFakeClient()
	_, err := newGateway(fake).AnalyzeImage(context.Background(), base64.StdEncoding.EncodeToString(jpeg))
	tester.NoErr(t, err)
	tester.Eq(t, fake.Calls()[0].Request.Images[0].Data, jpeg)
}

func TestAnalyzeImage_ProviderErrorBecomesResult(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Errs[PhaseVision] = errors.New("503 service unavailable")
	res, err := newGateway(fake).AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.NoErr(t, err)
	tester.Eq(t, len(res.FoodItems), 0)
	tester.True(t, res.FoodItems != nil, "failed result carries an empty, non-nil list")
	tester.Contains(t, res.Error, "503")
}

func TestAnalyzeImage_EmptyReplyBecomesResult(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseVision] = "  "
	res, err := newGateway(fake).AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.NoErr(t, err)
	tester.Eq(t, res.Error, llmclient.ErrEmptyResponse.Error())
}

func TestAnalyzeImage_InvalidImageSkipsProvider(t *testing.T) {
	fake := llm.NewFakeClient()
	res, err := newGateway(fake).AnalyzeImage(context.Background(), "data:image/jpeg;base64,%%%")
	tester.NoErr(t, err)
	tester.True(t, res.Failed(), "invalid payload must produce an error result")
	tester.Eq(t, len(fake.Calls()), 0)
}

func TestAnalyzeImage_SemanticValuesPassThrough(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseVision] = `{"food_items":[{"item":"Rocks","quantity":"-3","expiry_estimate":"never","category":"Minerals","safety_check":"Maybe"}]}`
	res, err := newGateway(fake).AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.NoErr(t, err)
	first, ok := res.First()
	tester.True(t, ok, "expected one item")
	tester.Eq(t, first.Category, "Minerals")
	tester.Eq(t, first.SafetyCheck, "Maybe")
}

func TestAnalyzeImage_MissingCredentialIsReturned(t *testing.T) {
	gw := New(llmclient.NewGeminiClient(llmclient.GeminiOptions{}), zerolog.Nop())
	_, err := gw.AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.ErrIs(t, err, llmclient.ErrMissingCredential)
}

func twoDonations() []types.Donation {
	return []types.Donation{
		{ID: 1, Item: "Sourdough Bread", Quantity: "5 loaves", Category: "Bakery", Expiry: "2 days", Status: types.StatusAvailable, ImageSource: dataURL([]byte("bread-pixels"))},
		{ID: 2, Item: "Canned Beans", Quantity: "10 cans", Category: "Canned", Expiry: "1 year", Status: types.StatusAvailable},
	}
}

func TestMatchDonations_MalformedReply(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseLogistics] = "I think the bread should go to the shelter."
	res, err := newGateway(fake).MatchDonations(context.Background(), twoDonations(), types.SeedNeeds())
	tester.NoErr(t, err)
	tester.Eq(t, res.Matches, []types.Match{})
	tester.Eq(t, res.Summary, FallbackSummary)
	tester.True(t, res.Error != "", "error message must be set")
}

func TestMatchDonations_PromptHasNoImage(t *testing.T) {
	fake := llm.NewFakeClient()
	donations := twoDonations()
	_, err := newGateway(fake).MatchDonations(context.Background(), donations, types.SeedNeeds())
	tester.NoErr(t, err)

	req := fake.Calls()[0].Request
	tester.Eq(t, fake.Calls()[0].Phase, PhaseLogistics)
	tester.True(t, req.JSON, "logistics call must request JSON output")
	tester.Eq(t, len(req.Images), 0)
	tester.NotContains(t, req.Prompt, "imageUrl")
	tester.NotContains(t, req.Prompt, "data:image")
	tester.NotContains(t, req.Prompt, base64.StdEncoding.EncodeToString([]byte("bread-pixels")))
	tester.Contains(t, req.Prompt, `"item": "Sourdough Bread"`)
	tester.Contains(t, req.Prompt, `"recipient": "Kids Kitchen"`)
	tester.Eq(t, donations[0].ImageSource != "", true)
}

func TestMatchDonations_DanglingIDAndScorePassThrough(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseLogistics] = "```\n{\"matches\":[{\"donation_id\":99,\"recipient_id\":\"Nobody\",\"score\":140,\"reasoning\":\"x\"}],\"summary\":\"ok\"}\n```"
	res, err := newGateway(fake).MatchDonations(context.Background(), twoDonations(), types.SeedNeeds())
	tester.NoErr(t, err)
	tester.Eq(t, res.Matches, []types.Match{{DonationID: 99, RecipientID: "Nobody", Score: 140, Reasoning: "x"}})
	tester.Eq(t, res.Summary, "ok")
}

func TestMatchDonations_DoesNotFilterStatus(t *testing.T) {
	fake := llm.NewFakeClient()
	donations := twoDonations()
	donations[1].Status = types.StatusClaimed
	_, err := newGateway(fake).MatchDonations(context.Background(), donations, nil)
	tester.NoErr(t, err)
	prompt := fake.Calls()[0].Request.Prompt
	tester.Contains(t, prompt, "Canned Beans")
	tester.Contains(t, prompt, "Recipient Needs:\n[]")
}

func TestMatchDonations_MissingCredentialIsReturned(t *testing.T) {
	gw := New(llmclient.NewGeminiClient(llmclient.GeminiOptions{}), zerolog.Nop())
	res, err := gw.MatchDonations(context.Background(), twoDonations(), types.SeedNeeds())
	tester.ErrIs(t, err, llmclient.ErrMissingCredential)
	tester.Eq(t, res.Summary, FallbackSummary)
}

func TestStripDataURLPrefix(t *testing.T) {
	tester.Eq(t, StripDataURLPrefix("data:image/png;base64,AAAA"), "AAAA")
	tester.Eq(t, StripDataURLPrefix("AAAA"), "AAAA")
	tester.True(t, !strings.Contains(StripDataURLPrefix("a,b,c"), "a,"), "only the first comma splits")
	tester.Eq(t, StripDataURLPrefix("a,b,c"), "b,c")
}

func TestAnalyzeImage_NumericQuantityPassesThrough(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseVision] = `{"food_items":[{"item":"Apples","quantity":3,"expiry_estimate":"5 days","category":"Produce","safety_check":true}]}`
	res, err := newGateway(fake).AnalyzeImage(context.Background(), dataURL(jpeg))
	tester.NoErr(t, err)
	tester.False(t, res.Failed(), "scalar type mismatch must not fail the result")
	first, ok := res.First()
	tester.True(t, ok, "expected one item")
	tester.Eq(t, first.Quantity, "3")
	tester.Eq(t, first.SafetyCheck, "true")
	tester.Eq(t, types.FormFromAnalysis(first).Quantity, "3")
}

func TestMatchDonations_StringIDAndScorePassThrough(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Replies[PhaseLogistics] = `{"matches":[{"donation_id":"1","recipient_id":"Downtown Shelter","score":"95","reasoning":"fresh"},{"donation_id":"bread","recipient_id":"Kids Kitchen","score":"top","reasoning":"?"}],"summary":"two"}`
	res, err := newGateway(fake).MatchDonations(context.Background(), twoDonations(), types.SeedNeeds())
	tester.NoErr(t, err)
	tester.False(t, res.Failed(), "string id and score must not fail the result")
	tester.Eq(t, res.Matches, []types.Match{
		{DonationID: 1, RecipientID: "Downtown Shelter", Score: 95, Reasoning: "fresh"},
		{RecipientID: "Kids Kitchen", Reasoning: "?", RawDonationID: "bread", RawScore: "top"},
	})
	tester.Eq(t, res.Summary, "two")
}
