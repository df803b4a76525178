package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bz888/roastbattle/internal/api"
	"github.com/bz888/roastbattle/internal/config"
	"github.com/bz888/roastbattle/internal/roast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeOllama(t *testing.T, chatStatus int, chatReply string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"}]}`))
		case "/api/chat":
			w.WriteHeader(chatStatus)
			_, _ = w.Write([]byte(chatReply))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func startServer(t *testing.T, cfg config.Config) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(ctx, cfg).Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down")
		}
	})
	return "http://" + ln.Addr().String()
}

func ollamaConfig(host string) config.Config {
	cfg := config.Default()
	cfg.Provider = config.ProviderOllama
	cfg.OllamaHost = host
	cfg.RateLimit = 0
	return cfg
}

func submit(t *testing.T, baseURL, text string) roast.Result {
	t.Helper()
	backend, err := api.NewBackend(baseURL)
	require.NoError(t, err)
	return roast.NewClient(backend).Submit(context.Background(), text)
}

func TestEndToEndRoast(t *testing.T) {
	host := fakeOllama(t, http.StatusOK, `{"message":{"role":"assistant","content":"Pen poyi? Ninte marks um athinte koode poyi."},"done":true}`)
	baseURL := startServer(t, ollamaConfig(host))

	res := submit(t, baseURL, "I lost my pen")

	require.True(t, res.OK(), res.String())
	assert.Equal(t, "Pen poyi? Ninte marks um athinte koode poyi.", res.Text)
}

func TestEndToEndProviderFailure(t *testing.T) {
	host := fakeOllama(t, http.StatusServiceUnavailable, `{"error":"overloaded"}`)
	baseURL := startServer(t, ollamaConfig(host))

	res := submit(t, baseURL, "I lost my pen")

	assert.Equal(t, roast.KindServer, res.Kind)
}

func TestEndToEndRateLimited(t *testing.T) {
	host := fakeOllama(t, http.StatusOK, `{"message":{"role":"assistant","content":"ok"},"done":true}`)
	cfg := ollamaConfig(host)
	cfg.RateLimit = 1
	baseURL := startServer(t, cfg)

	require.True(t, submit(t, baseURL, "one").OK())
	assert.Equal(t, roast.KindRateLimited, submit(t, baseURL, "two").Kind)
}

func TestMissingKeyStillServes(t *testing.T) {
	cfg := config.Default()
	cfg.GeminiAPIKey = ""
	baseURL := startServer(t, cfg)

	resp, err := http.Get(baseURL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	res := submit(t, baseURL, "my laptop fan sounds like a jet")
	assert.Equal(t, roast.KindServer, res.Kind)
}

func TestNewDoesNotHangOnSilentOllama(t *testing.T) {
	old := probeTimeout
	probeTimeout = 50 * time.Millisecond
	t.Cleanup(func() { probeTimeout = old })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	done := make(chan *Server, 1)
	go func() {
		done <- New(context.Background(), ollamaConfig(strings.TrimPrefix(srv.URL, "http://")))
	}()

	select {
	case s := <-done:
		assert.NotNil(t, s)
	case <-time.After(3 * time.Second):
		t.Fatal("startup blocked on the ollama availability check")
	}
}
