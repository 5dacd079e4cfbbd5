package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodbridge/internal/feed"
	"foodbridge/internal/foodai"
	"foodbridge/internal/llm"
	"foodbridge/internal/metrics"
	"foodbridge/internal/server/handler"
	"foodbridge/internal/session"
)

func newRouter() http.Handler {
	metrics.Register()
	hub := feed.NewHub(zerolog.Nop())
	sessions := session.NewRegistry(session.RegistryOptions{TTL: time.Hour, Listener: hub.Publish}, zerolog.Nop())
	gw := foodai.New(llm.NewFakeClient(), zerolog.Nop())
	h := handler.New(handler.Options{Sessions: sessions, Gateway: gw, Hub: hub, Log: zerolog.Nop()})
	return NewRouter(h, zerolog.Nop())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(ln.Addr().String(), newRouter(), zerolog.Nop())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, err = http.Post(base+"/api/logistics/matches", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "foodbridge_gateway_results_total")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-errCh)
}
