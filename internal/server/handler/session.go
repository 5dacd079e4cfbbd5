package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"foodbridge/internal/session"
	"foodbridge/internal/types"
)

const (
	SessionCookie = "fb_session"
	SessionHeader = "X-Session-ID"
)

type ctxKeySession struct{}

// WithSession resolves the caller's session from the X-Session-ID header or
// the fb_session cookie, creating one when neither names a live session.
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
		}
		sess, created := h.sessions.GetOrCreate(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, sess.ID())
		ctx := context.WithValue(r.Context(), ctxKeySession{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(ctxKeySession{}).(*session.Session)
	return s
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

func (h *Handler) SetTab(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Tab types.Tab `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !sessionFrom(r).SetTab(in.Tab) {
		writeError(w, http.StatusBadRequest, "unknown tab: "+string(in.Tab))
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *Handler) SetRecipientType(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RecipientType string `json:"recipientType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !sessionFrom(r).SetRecipientType(in.RecipientType) {
		writeError(w, http.StatusBadRequest, "unknown recipient type: "+in.RecipientType)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": sess.Messages(),
		"thinking": sess.Busy(),
	})
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, sessionFrom(r).ID())
}
