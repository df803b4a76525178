package server

import (
	"net/http"

	"github.com/bz888/roastbattle/internal/api/server/handlers"
)

func registerRoutes(handler *handlers.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/roast", handler.RoastHandler)
	mux.HandleFunc("GET /status", handler.StatusHandler)
	return handlers.CORS(handlers.WithRequestID(mux))
}
