package handler

import (
	"net/http"

	"foodbridge/internal/llm"
	"foodbridge/internal/session"
	"foodbridge/internal/types"
)

func (h *Handler) ListNeeds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.SeedNeeds())
}

// RunMatching asks the logistics model to match the available donations
// against the recipient needs. A failed call still answers 200 with the
// fallback result; its error field tells the client.
func (h *Handler) RunMatching(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if !sess.Begin(session.ActionMatching) {
		writeError(w, http.StatusConflict, "matching already in progress")
		return
	}
	defer sess.End(session.ActionMatching)

	ctx := llm.WithHook(r.Context(), sess)
	res, err := h.gateway.MatchDonations(ctx, sess.Available(), types.SeedNeeds())
	if err != nil {
		h.log.Error().Err(err).Str("session_id", sess.ID()).Msg("matching unavailable")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess.SetMatchResult(res)
	writeJSON(w, http.StatusOK, res)
}
