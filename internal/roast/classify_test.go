package roast

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"typed", NewError(KindSafetyBlocked, "x", nil), KindSafetyBlocked},
		{"wrapped typed", fmt.Errorf("gemini: %w", StatusError(429, "")), KindRateLimited},
		{"url error", &url.Error{Op: "Post", URL: "http://localhost:5000/api/roast", Err: errors.New("connection refused")}, KindConnection},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, KindConnection},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindConnection},
		{"missing key", errors.New("GEMINI API key is required"), KindConfig},
		{"throttled", errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED"), KindRateLimited},
		{"server text", errors.New("HTTP error! status: 503"), KindServer},
		{"format text", errors.New("invalid character '<' looking for beginning of value"), KindUnexpectedFormat},
		{"safety text", errors.New("response blocked: SAFETY"), KindSafetyBlocked},
		{"unknown", errors.New("the moon is in the wrong house"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	// rate limiting outranks a server error mentioned in the same text
	assert.Equal(t, KindRateLimited, Classify(errors.New("429 after upstream 500")))
	// an unreachable backend on port 5000 is a connection problem, not a 500
	assert.Equal(t, KindConnection, Classify(errors.New("dial tcp 127.0.0.1:5000: connection refused")))
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, KindRateLimited, StatusError(429, "").Kind)
	assert.Equal(t, KindServer, StatusError(500, "").Kind)
	assert.Equal(t, KindServer, StatusError(502, "").Kind)
	assert.Equal(t, KindConfig, StatusError(401, "").Kind)
	assert.Equal(t, KindSafetyBlocked, StatusError(422, "blocked by safety filter").Kind)
	assert.Equal(t, KindUnknown, StatusError(400, "userInput is required").Kind)
	assert.Equal(t, "status 400: userInput is required", StatusError(400, "userInput is required").Error())
}

func TestFailureFromKeepsRawMessageForUnknown(t *testing.T) {
	res := FailureFrom(StatusError(400, "userInput is required"))
	assert.Equal(t, KindUnknown, res.Kind)
	assert.Equal(t, "userInput is required", res.Message)
}

func TestErrorKindNames(t *testing.T) {
	names := map[ErrorKind]string{
		KindValidation:       "ValidationError",
		KindConfig:           "ConfigError",
		KindConnection:       "ConnectionError",
		KindRateLimited:      "RateLimited",
		KindServer:           "ServerError",
		KindUnexpectedFormat: "UnexpectedFormat",
		KindSafetyBlocked:    "SafetyBlocked",
		KindUnknown:          "Unknown",
	}
	for kind, name := range names {
		assert.Equal(t, name, kind.String())
	}
}
