package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader is the response header carrying the request id.
const RequestIDHeader = "X-Request-ID"

// EchoRequestID copies the id set by chi's RequestID middleware into the
// response headers. It must run after chimw.RequestID.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rid := chimw.GetReqID(r.Context()); rid != "" {
			w.Header().Set(RequestIDHeader, rid)
		}
		next.ServeHTTP(w, r)
	})
}
