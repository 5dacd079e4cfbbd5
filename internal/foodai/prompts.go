package foodai

import (
	"fmt"

	"foodbridge/internal/types"
	"foodbridge/internal/util/jsonutil"
)

const visionPrompt = `You are an expert food safety AI. Analyze this image.
Return a VALID JSON object with this exact structure:
{
  "food_items": [
    {
      "item": "Name",
      "quantity": "Estimate",
      "expiry_estimate": "Time",
      "category": "Type (Produce, Canned, Prepared Meal, Bakery, Other)",
      "safety_check": "Pass/Fail"
    }
  ]
}
Do NOT include markdown formatting.`

const logisticsPromptTmpl = `Act as a smart logistics coordinator.

Available Donations:
%s

Recipient Needs:
%s

Task:
Match donations to needs. Prioritize expiry and category match.

Output a JSON with keys: 'matches' (list) and 'summary' (string).
Example match object: { "donation_id": 1, "recipient_id": "Name of Recipient", "score": 90, "reasoning": "..." }`

// BuildMatchPrompt renders the logistics prompt. Donations are embedded
// through their sanitized projection, so image payloads never reach the text.
func BuildMatchPrompt(donations []types.Donation, needs []types.RecipientNeed) (string, error) {
	sanitized := make([]types.SanitizedDonation, 0, len(donations))
	for _, d := range donations {
		sanitized = append(sanitized, d.Sanitized())
	}
	if needs == nil {
		needs = []types.RecipientNeed{}
	}
	donationsJSON, err := jsonutil.MarshalNoEscapeIndent(sanitized, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode donations: %w", err)
	}
	needsJSON, err := jsonutil.MarshalNoEscapeIndent(needs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode needs: %w", err)
	}
	return fmt.Sprintf(logisticsPromptTmpl, donationsJSON, needsJSON), nil
}
