package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
	"github.com/tidwall/gjson"
)

const RoastPath = "/api/roast"

// Backend delegates submissions to the roast backend over HTTP.
type Backend struct {
	endpoint *url.URL
	http     *http.Client
	log      *logger.Logger
}

// NewBackend resolves the roast endpoint against baseURL.
func NewBackend(baseURL string) (*Backend, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme and host are required", baseURL)
	}

	if base.Path == "" {
		base.Path = "/"
	}

	return &Backend{
		endpoint: base.JoinPath(RoastPath),
		http:     &http.Client{},
		log:      logger.NewLogger("api client"),
	}, nil
}

func (b *Backend) URL() string {
	return b.endpoint.String()
}

// Send posts {"userInput": text} and extracts the roast from the reply.
func (b *Backend) Send(ctx context.Context, req roast.Request) (string, error) {
	requestData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint.String(), bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := b.http.Do(httpReq)
	if err != nil {
		b.log.Error("Failed to send request:", err)
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			b.log.Error("Failed to close response body:", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		b.log.Warn("Backend returned", resp.Status, msg)
		return "", roast.StatusError(resp.StatusCode, msg)
	}

	return roast.Extract(body)
}
