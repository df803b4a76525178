package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bz888/roastbattle/internal/config"
	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIConfig configures an OpenAIClient. BaseURL points it at any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Generation config.Generation
}

// OpenAIClient represents a client for the OpenAI chat completions API
type OpenAIClient struct {
	client openai.Client
	model  string
	gen    config.Generation
	log    *logger.Logger
}

// NewOpenAIClient creates a generator backed by the official SDK. The API key
// may only be omitted for a custom base URL.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, roast.NewError(roast.KindConfig, "OpenAI API key is required", nil)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		gen:    cfg.Generation,
		log:    logger.NewLogger("openai"),
	}, nil
}

func (c *OpenAIClient) Name() string {
	return "openai:" + c.model
}

// Generate makes a chat completion with the system instruction and prompt.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.gen.SystemInstruction),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(c.gen.Temperature)),
		TopP:        openai.Float(float64(c.gen.TopP)),
	}
	if c.gen.MaxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(c.gen.MaxOutputTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.log.Error("Chat completion failed:", err)
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
			se := roast.StatusError(apiErr.StatusCode, apiErr.Error())
			se.Err = err
			return "", se
		}
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", roast.NewError(roast.KindUnexpectedFormat, "openai returned no choices", nil)
	}
	choice := completion.Choices[0]
	if choice.FinishReason == "content_filter" {
		return "", roast.NewError(roast.KindSafetyBlocked, "response blocked by content filter", nil)
	}

	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", roast.NewError(roast.KindUnexpectedFormat, "openai returned an empty message", nil)
	}
	return text, nil
}
