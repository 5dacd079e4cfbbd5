package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"foodbridge/internal/metrics"
	"foodbridge/internal/types"
)

// ErrIncompleteForm is returned by SubmitDonation when a required field is blank.
var ErrIncompleteForm = errors.New("item, quantity and expiry are required")

// ErrStaleAnalysis is returned by ApplyAnalysis when the selected image
// changed while the analysis was running.
var ErrStaleAnalysis = errors.New("selected image changed during analysis")

// Action names a user-triggered gateway call guarded against duplicates.
type Action string

const (
	ActionAnalysis Action = "analysis"
	ActionMatching Action = "matching"
)

// ClaimOutcome tells what ClaimDonation did.
type ClaimOutcome int

const (
	ClaimClaimed ClaimOutcome = iota
	ClaimAlreadyClaimed
	ClaimNotFound
)

func (o ClaimOutcome) String() string {
	switch o {
	case ClaimClaimed:
		return "claimed"
	case ClaimAlreadyClaimed:
		return "already_claimed"
	default:
		return "not_found"
	}
}

// EventKind names a donation transition.
type EventKind string

const (
	EventDonationAdded   EventKind = "donation_added"
	EventDonationClaimed EventKind = "donation_claimed"
)

// DonationEvent is emitted after a donation transition has been committed.
type DonationEvent struct {
	Kind      EventKind      `json:"type"`
	SessionID string         `json:"sessionId"`
	Donation  types.Donation `json:"donation"`
}

// Listener receives donation events. It is called without the session lock held.
type Listener func(DonationEvent)

// Session holds the donations and UI state of one browser session.
// Every method is safe for concurrent use and returns copies.
type Session struct {
	id       string
	listener Listener
	now      func() time.Time

	mu            sync.RWMutex
	lastID        int64
	donations     []types.Donation
	tab           types.Tab
	recipientType string
	form          types.DonationForm
	selectedImage string
	analysis      *types.AnalysisResult
	matchResult   *types.MatchResult
	messages      []types.ChatMessage
	inFlight      map[Action]bool
}

// New creates an empty session. listener may be nil.
func New(id string, listener Listener) *Session {
	return &Session{
		id:            id,
		listener:      listener,
		now:           time.Now,
		tab:           types.TabDonor,
		recipientType: types.RecipientShelter,
		form:          types.EmptyDonationForm(),
		inFlight:      make(map[Action]bool),
	}
}

func (s *Session) ID() string { return s.id }

// AddDonation appends a new Available donation. Its id is strictly greater
// than any id assigned before in this session.
func (s *Session) AddDonation(in types.DonationInput) types.Donation {
	s.mu.Lock()
	d := s.addLocked(in)
	s.mu.Unlock()
	s.emit(EventDonationAdded, d)
	return d
}

func (s *Session) addLocked(in types.DonationInput) types.Donation {
	s.lastID++
	d := types.Donation{
		ID:          s.lastID,
		Item:        in.Item,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Expiry:      in.Expiry,
		Status:      types.StatusAvailable,
		ImageSource: in.ImageSource,
	}
	s.donations = append(s.donations, d)
	return d
}

// ClaimDonation moves an Available donation to Claimed. Claiming a donation
// that is already Claimed, or an unknown id, changes nothing.
func (s *Session) ClaimDonation(id int64) (types.Donation, ClaimOutcome) {
	s.mu.Lock()
	idx := -1
	for i := range s.donations {
		if s.donations[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return types.Donation{}, ClaimNotFound
	}
	if s.donations[idx].Status != types.StatusAvailable {
		d := s.donations[idx]
		s.mu.Unlock()
		return d, ClaimAlreadyClaimed
	}
	s.donations[idx].Status = types.StatusClaimed
	d := s.donations[idx]
	s.mu.Unlock()

	s.emit(EventDonationClaimed, d)
	return d, ClaimClaimed
}

// Donations returns all donations in insertion order.
func (s *Session) Donations() []types.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Donation, len(s.donations))
	copy(out, s.donations)
	return out
}

// Available returns the donations that can still be claimed.
func (s *Session) Available() []types.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.FilterAvailable(s.donations)
}

// SubmitDonation publishes form together with the selected image and resets
// the donor state.
func (s *Session) SubmitDonation(form types.DonationForm) (types.Donation, error) {
	if strings.TrimSpace(form.Item) == "" || strings.TrimSpace(form.Quantity) == "" || strings.TrimSpace(form.Expiry) == "" {
		return types.Donation{}, ErrIncompleteForm
	}
	s.mu.Lock()
	d := s.addLocked(types.DonationInput{
		Item:        form.Item,
		Quantity:    form.Quantity,
		Category:    form.Category,
		Expiry:      form.Expiry,
		ImageSource: s.selectedImage,
	})
	s.resetDonorLocked()
	s.mu.Unlock()

	s.emit(EventDonationAdded, d)
	return d, nil
}

// Form returns the current donor form.
func (s *Session) Form() types.DonationForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

func (s *Session) SetForm(f types.DonationForm) {
	s.mu.Lock()
	s.form = f
	s.mu.Unlock()
}

func (s *Session) SetTab(t types.Tab) bool {
	if !t.Valid() {
		return false
	}
	s.mu.Lock()
	s.tab = t
	s.mu.Unlock()
	return true
}

func (s *Session) SetRecipientType(rt string) bool {
	if !types.ValidRecipientType(rt) {
		return false
	}
	s.mu.Lock()
	s.recipientType = rt
	s.mu.Unlock()
	return true
}

// SelectImage stores the uploaded photo and discards the previous analysis.
func (s *Session) SelectImage(dataURL string) {
	s.mu.Lock()
	s.selectedImage = dataURL
	s.analysis = nil
	s.mu.Unlock()
}

func (s *Session) SelectedImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedImage
}

// ApplyAnalysis stores res, the analysis of image. A successful result
// prefills the form from its first item; a failed one leaves the form
// untouched. Nothing is stored if image is no longer the selected one.
func (s *Session) ApplyAnalysis(image string, res types.AnalysisResult) (types.DonationForm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedImage != image {
		return s.form, ErrStaleAnalysis
	}
	cp := copyAnalysis(res)
	s.analysis = &cp
	if !res.Failed() {
		if first, ok := res.First(); ok {
			s.form = types.FormFromAnalysis(first)
		}
	}
	return s.form, nil
}

// ResetDonor clears the selected image, the analysis and the form.
func (s *Session) ResetDonor() {
	s.mu.Lock()
	s.resetDonorLocked()
	s.mu.Unlock()
}

func (s *Session) resetDonorLocked() {
	s.selectedImage = ""
	s.analysis = nil
	s.form = types.EmptyDonationForm()
}

func (s *Session) SetMatchResult(res types.MatchResult) {
	s.mu.Lock()
	cp := copyMatch(res)
	s.matchResult = &cp
	s.mu.Unlock()
}

// AppendMessage adds an entry to the assistant transcript.
func (s *Session) AppendMessage(role types.ChatRole, content string) types.ChatMessage {
	msg := types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now().UnixMilli(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg
}

func (s *Session) Messages() []types.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Begin marks action as in flight. It returns false if the same action is
// already running; other actions are not affected.
func (s *Session) Begin(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[a] {
		return false
	}
	s.inFlight[a] = true
	return true
}

// End clears the in-flight mark of action.
func (s *Session) End(a Action) {
	s.mu.Lock()
	delete(s.inFlight, a)
	s.mu.Unlock()
}

// Busy reports whether any action is in flight.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inFlight) > 0
}

func (s *Session) emit(kind EventKind, d types.Donation) {
	metrics.DonationEventsTotal.WithLabelValues(string(kind)).Inc()
	if s.listener == nil {
		return
	}
	s.listener(DonationEvent{Kind: kind, SessionID: s.id, Donation: d})
}

func copyAnalysis(res types.AnalysisResult) types.AnalysisResult {
	items := make([]types.FoodItemAnalysis, len(res.FoodItems))
	copy(items, res.FoodItems)
	res.FoodItems = items
	return res
}

func copyMatch(res types.MatchResult) types.MatchResult {
	matches := make([]types.Match, len(res.Matches))
	copy(matches, res.Matches)
	res.Matches = matches
	return res
}
