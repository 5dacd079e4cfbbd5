package session

import "foodbridge/internal/types"

// Snapshot is a deep copy of the session state for rendering.
type Snapshot struct {
	ID            string                `json:"id"`
	Tab           types.Tab             `json:"tab"`
	RecipientType string                `json:"recipientType"`
	Form          types.DonationForm    `json:"form"`
	SelectedImage string                `json:"selectedImage,omitempty"`
	Analysis      *types.AnalysisResult `json:"analysis"`
	MatchResult   *types.MatchResult    `json:"matchResult"`
	Donations     []types.Donation      `json:"donations"`
	Messages      []types.ChatMessage   `json:"messages"`
	Analyzing     bool                  `json:"analyzing"`
	Matching      bool                  `json:"matching"`
	// ClaimedCount is the number of donations handed over in this session.
	ClaimedCount int `json:"claimedCount"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:            s.id,
		Tab:           s.tab,
		RecipientType: s.recipientType,
		Form:          s.form,
		SelectedImage: s.selectedImage,
		Donations:     make([]types.Donation, len(s.donations)),
		Messages:      make([]types.ChatMessage, len(s.messages)),
		Analyzing:     s.inFlight[ActionAnalysis],
		Matching:      s.inFlight[ActionMatching],
	}
	copy(snap.Donations, s.donations)
	copy(snap.Messages, s.messages)
	for _, d := range s.donations {
		if d.Status == types.StatusClaimed {
			snap.ClaimedCount++
		}
	}
	if s.analysis != nil {
		a := copyAnalysis(*s.analysis)
		snap.Analysis = &a
	}
	if s.matchResult != nil {
		m := copyMatch(*s.matchResult)
		snap.MatchResult = &m
	}
	return snap
}
