package types

import "encoding/json"

// Urgency levels of recipient needs.
const (
	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

// RecipientNeed is a stated demand from a recipient organization.
type RecipientNeed struct {
	Recipient string `json:"recipient"`
	Need      string `json:"need"`
	Urgency   string `json:"urgency"`
}

// Match proposes one donation for one recipient.
// DonationID is not checked against the request set and Score is not clamped.
// A donation_id or score that is not numeric keeps its reply text in
// RawDonationID or RawScore and is written back out as that text.
type Match struct {
	DonationID    int64      `json:"donation_id"`
	RecipientID   FlexString `json:"recipient_id"`
	Score         float64    `json:"score"`
	Reasoning     FlexString `json:"reasoning"`
	RawDonationID string     `json:"-"`
	RawScore      string     `json:"-"`
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type plain Match
	var aux struct {
		plain
		DonationID json.RawMessage `json:"donation_id"`
		Score      json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Match(aux.plain)
	if text, ok := scalarText(aux.DonationID); ok {
		if id, ok := parseID(text); ok {
			m.DonationID = id
		} else {
			m.RawDonationID = text
		}
	}
	if text, ok := scalarText(aux.Score); ok {
		if score, ok := parseScore(text); ok {
			m.Score = score
		} else {
			m.RawScore = text
		}
	}
	return nil
}

func (m Match) MarshalJSON() ([]byte, error) {
	type plain Match
	out := struct {
		plain
		DonationID any `json:"donation_id"`
		Score      any `json:"score"`
	}{plain: plain(m), DonationID: m.DonationID, Score: m.Score}
	if m.RawDonationID != "" {
		out.DonationID = m.RawDonationID
	}
	if m.RawScore != "" {
		out.Score = m.RawScore
	}
	return json.Marshal(out)
}

// MatchResult is the reply of the logistics call.
type MatchResult struct {
	Matches []Match    `json:"matches"`
	Summary FlexString `json:"summary"`
	Error   string     `json:"error,omitempty"`
}

// Failed reports whether the result carries an error.
func (r MatchResult) Failed() bool { return r.Error != "" }
