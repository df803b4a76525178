package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bz888/roastbattle/internal/api/server/client"
	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 64 << 10

// Handler serves the roast API on top of one Generator.
type Handler struct {
	generator client.Generator
	limiter   *rate.Limiter
	model     string
	provider  string
}

// NewHandler builds a handler. requestsPerMin of 0 disables rate limiting.
// generator may be nil when the provider could not be configured; every
// roast then fails with a server error.
func NewHandler(generator client.Generator, provider, model string, requestsPerMin int) *Handler {
	h := &Handler{
		generator: generator,
		provider:  provider,
		model:     model,
	}
	if requestsPerMin > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), requestsPerMin)
	}
	return h
}

// RoastHandler handles POST /api/roast.
func (h *Handler) RoastHandler(w http.ResponseWriter, r *http.Request) {
	localLogger := logger.NewLogger("RoastHandler").With(zap.String("request_id", RequestID(r.Context())))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var clientReq client.RoastRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&clientReq)
	if err != nil {
		localLogger.Warn("Failed to decode request:", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	defer r.Body.Close()

	userInput := strings.TrimSpace(clientReq.UserInput)
	if userInput == "" {
		writeError(w, http.StatusBadRequest, "userInput is required")
		return
	}

	if h.limiter != nil && !h.limiter.Allow() {
		localLogger.Warn("Rate limit exceeded")
		writeError(w, http.StatusTooManyRequests, roast.MsgRateLimited)
		return
	}

	if h.generator == nil {
		localLogger.Error("No generator configured")
		writeError(w, http.StatusInternalServerError, "roast provider is not configured")
		return
	}

	localLogger.Info("Generating roast with", h.generator.Name())
	text, err := h.generator.Generate(r.Context(), userInput)
	if err != nil {
		status, msg := statusFor(err)
		localLogger.Error("Failed to generate roast:", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, client.RoastResponse{Success: true, Roast: text})
}

// StatusHandler handles GET /status.
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, client.StatusResponse{
		PortWorking:   true,
		ServerWorking: h.generator != nil,
		Provider:      h.provider,
		Model:         h.model,
	})
}

// statusFor maps a generator failure to the HTTP status and message sent to
// the form. The status alone is enough for the form to classify it again.
func statusFor(err error) (int, string) {
	var re *roast.Error
	errors.As(err, &re)

	switch roast.Classify(err) {
	case roast.KindRateLimited:
		return http.StatusTooManyRequests, roast.MsgRateLimited
	case roast.KindSafetyBlocked:
		return http.StatusUnprocessableEntity, "Roast blocked by the safety filter"
	case roast.KindConnection, roast.KindUnexpectedFormat:
		return http.StatusBadGateway, "Failed to reach the roast provider"
	case roast.KindConfig:
		return http.StatusInternalServerError, "roast provider is not configured"
	default:
		if re != nil && re.Msg != "" && re.Kind == roast.KindUnknown {
			return http.StatusInternalServerError, "Failed to generate roast: " + re.Msg
		}
		return http.StatusInternalServerError, "Failed to generate roast"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.NewLogger("handlers").Error("Failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, client.ErrorResponse{Error: msg})
}
