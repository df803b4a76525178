package client

import (
	"context"
	"net/http"
	"net/url"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Generator produces a roast for one prompt under the configured system
// instruction. Calls are single-turn; nothing is remembered between them.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Client is the plain HTTP base shared by providers without an SDK.
type Client struct {
	http      *http.Client
	modelsUrl *url.URL
	chatUrl   *url.URL
}

// ClientConfig holds the configuration for the client
type ClientConfig struct {
	Scheme     string
	Host       string
	ModelsPath string
	ChatPath   string
}

// NewClient creates a new API client with configurable base URL and endpoints
func NewClient(config ClientConfig) *Client {
	baseURL := &url.URL{Scheme: config.Scheme, Host: config.Host}
	return &Client{
		http:      &http.Client{},
		modelsUrl: baseURL.ResolveReference(&url.URL{Path: config.ModelsPath}),
		chatUrl:   baseURL.ResolveReference(&url.URL{Path: config.ChatPath}),
	}
}

func (c *Client) GetModelsURL() string {
	return c.modelsUrl.String()
}

func (c *Client) GetChatURL() string {
	return c.chatUrl.String()
}
