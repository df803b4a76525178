package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bz888/roastbattle/internal/api/server/client"
	"github.com/bz888/roastbattle/internal/api/server/handlers"
	"github.com/bz888/roastbattle/internal/config"
	"github.com/bz888/roastbattle/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// probeTimeout bounds the startup availability check of a local provider.
var probeTimeout = 5 * time.Second

// Server is the local roast backend.
type Server struct {
	cfg     config.Config
	handler *handlers.Handler
	log     *logger.Logger
}

// New builds the backend for cfg. A provider that cannot be configured (for
// example a missing API key) is logged and the server still starts; roast
// requests then fail with a 500 while /status reports server_working=false.
func New(ctx context.Context, cfg config.Config) *Server {
	localLogger := logger.NewLogger("Server")

	generator, err := initializeGenerator(ctx, cfg, localLogger)
	if err != nil {
		localLogger.Error("Roast provider unavailable:", err)
	}

	return &Server{
		cfg:     cfg,
		handler: handlers.NewHandler(generator, cfg.Provider, cfg.ModelName(), cfg.RateLimit),
		log:     localLogger,
	}
}

func initializeGenerator(ctx context.Context, cfg config.Config, localLogger *logger.Logger) (client.Generator, error) {
	generator, err := client.NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if ollama, ok := generator.(*client.OllamaClient); ok {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if err := ollama.Available(probeCtx); err != nil {
			// the model may still be pulled later, so keep going
			localLogger.Warn(err)
		}
	}

	localLogger.Info(generator.Name(), "client initialized.")
	return generator, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return registerRoutes(s.handler)
}

// Run serves on cfg.Addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server started on http://" + ln.Addr().String() + "/")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-errCh
	return nil
}
