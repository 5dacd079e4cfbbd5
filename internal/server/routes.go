package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"foodbridge/internal/server/handler"
	"foodbridge/internal/server/middleware"
)

func NewRouter(h *handler.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		middleware.EchoRequestID,
		chimw.RealIP,
		middleware.Logger(log),
		chimw.Recoverer,
		middleware.CORS,
	)

	r.Handle("/metrics", promhttp.Handler())
	h.Routes(r)

	return r
}
