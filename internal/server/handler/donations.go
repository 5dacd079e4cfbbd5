package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"foodbridge/internal/session"
	"foodbridge/internal/types"
)

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	switch {
	case status == "":
		writeJSON(w, http.StatusOK, sess.Donations())
	case strings.EqualFold(status, string(types.StatusAvailable)):
		writeJSON(w, http.StatusOK, sess.Available())
	case strings.EqualFold(status, string(types.StatusClaimed)):
		out := []types.Donation{}
		for _, d := range sess.Donations() {
			if d.Status == types.StatusClaimed {
				out = append(out, d)
			}
		}
		writeJSON(w, http.StatusOK, out)
	default:
		writeError(w, http.StatusBadRequest, "unknown status: "+status)
	}
}

// SubmitDonation publishes the posted form, or the stored form when the body
// is empty, together with the selected image.
func (h *Handler) SubmitDonation(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	form := sess.Form()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}
	if strings.TrimSpace(form.Category) == "" {
		form.Category = types.CategoryProduce
	}

	d, err := sess.SubmitDonation(form)
	if err != nil {
		if errors.Is(err, session.ErrIncompleteForm) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.log.Info().Str("session_id", sess.ID()).Int64("donation_id", d.ID).Str("item", d.Item).Msg("donation added")
	writeJSON(w, http.StatusCreated, d)
}

type claimResponse struct {
	Donation types.Donation `json:"donation"`
	Outcome  string         `json:"outcome"`
}

func (h *Handler) ClaimDonation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid donation id")
		return
	}
	sess := sessionFrom(r)
	d, outcome := sess.ClaimDonation(id)
	if outcome == session.ClaimNotFound {
		writeError(w, http.StatusNotFound, "donation not found")
		return
	}
	if outcome == session.ClaimClaimed {
		h.log.Info().Str("session_id", sess.ID()).Int64("donation_id", d.ID).Msg("donation claimed")
	}
	writeJSON(w, http.StatusOK, claimResponse{Donation: d, Outcome: outcome.String()})
}
