package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"foodbridge/internal/feed"
	"foodbridge/internal/session"
	"foodbridge/internal/types"
)

// Gateway is the AI gateway used by the handlers.
type Gateway interface {
	AnalyzeImage(ctx context.Context, image string) (types.AnalysisResult, error)
	MatchDonations(ctx context.Context, donations []types.Donation, needs []types.RecipientNeed) (types.MatchResult, error)
}

// Handler serves the JSON API over the session store and the AI gateway.
type Handler struct {
	sessions       *session.Registry
	gateway        Gateway
	hub            *feed.Hub
	log            zerolog.Logger
	maxUploadBytes int64
}

type Options struct {
	Sessions       *session.Registry
	Gateway        Gateway
	Hub            *feed.Hub
	Log            zerolog.Logger
	MaxUploadBytes int64
}

func New(opts Options) *Handler {
	limit := opts.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	return &Handler{
		sessions:       opts.Sessions,
		gateway:        opts.Gateway,
		hub:            opts.Hub,
		log:            opts.Log.With().Str("component", "api").Logger(),
		maxUploadBytes: limit,
	}
}

// Routes registers the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.WithSession)

		r.Route("/api", func(r chi.Router) {
			r.Get("/session", h.GetSession)
			r.Put("/session/tab", h.SetTab)
			r.Put("/session/recipient-type", h.SetRecipientType)

			r.Put("/donor/form", h.SetForm)
			r.Post("/donor/image", h.UploadImage)
			r.Post("/donor/analysis", h.Analyze)

			r.Get("/donations", h.ListDonations)
			r.Post("/donations", h.SubmitDonation)
			r.Post("/donations/{id}/claim", h.ClaimDonation)

			r.Post("/logistics/matches", h.RunMatching)
			r.Get("/logistics/needs", h.ListNeeds)

			r.Get("/chat", h.Chat)
		})

		r.Get("/ws/feed", h.Feed)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
