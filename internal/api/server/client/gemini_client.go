package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bz888/roastbattle/internal/config"
	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Generation config.Generation
}

// GeminiClient calls a Gemini model through the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	log    *logger.Logger
}

var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// NewGeminiClient creates a Gemini generator. A missing API key is reported
// as a ConfigError.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, roast.NewError(roast.KindConfig, "Gemini API key is required", nil)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		config: generateConfig(cfg.Generation),
		log:    logger.NewLogger("gemini"),
	}, nil
}

func generateConfig(gen config.Generation) *genai.GenerateContentConfig {
	threshold := genai.HarmBlockThreshold(gen.SafetyThreshold)
	if threshold == "" {
		threshold = genai.HarmBlockThresholdBlockMediumAndAbove
	}

	safety := make([]*genai.SafetySetting, len(safetyCategories))
	for i, category := range safetyCategories {
		safety[i] = &genai.SafetySetting{Category: category, Threshold: threshold}
	}

	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(gen.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(gen.Temperature),
		TopK:              genai.Ptr(gen.TopK),
		TopP:              genai.Ptr(gen.TopP),
		MaxOutputTokens:   gen.MaxOutputTokens,
		SafetySettings:    safety,
	}
}

func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}

// Generate sends prompt as a single user turn.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		c.log.Error("GenerateContent failed:", err)
		return "", geminiError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		c.log.Warn("Prompt blocked:", resp.PromptFeedback.BlockReason)
		return "", roast.NewError(roast.KindSafetyBlocked, fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason), nil)
	}
	if len(resp.Candidates) == 0 {
		return "", roast.NewError(roast.KindUnexpectedFormat, "gemini returned no candidates", nil)
	}

	switch reason := resp.Candidates[0].FinishReason; reason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		c.log.Warn("Response blocked:", reason)
		return "", roast.NewError(roast.KindSafetyBlocked, fmt.Sprintf("response blocked: %s", reason), nil)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", roast.NewError(roast.KindUnexpectedFormat, "gemini returned an empty response", nil)
	}
	return text, nil
}

func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		se := roast.StatusError(apiErr.Code, apiErr.Message)
		se.Err = err
		return se
	}
	return fmt.Errorf("gemini: %w", err)
}
