package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bz888/roastbattle/internal/config"
	"github.com/bz888/roastbattle/internal/logger"
	"github.com/bz888/roastbattle/internal/roast"
)

// OllamaClient represents a client for a local Ollama server
type OllamaClient struct {
	Client
	model string
	gen   config.Generation
	log   *logger.Logger
}

// NewOllamaClient creates a new Ollama API client. host is host:port.
func NewOllamaClient(host, model string, gen config.Generation) *OllamaClient {
	if model == "" {
		model = "llama3:latest"
	}
	return &OllamaClient{
		Client: *NewClient(ClientConfig{
			Scheme:     "http",
			Host:       host,
			ModelsPath: "/api/tags",
			ChatPath:   "/api/chat",
		}),
		model: model,
		gen:   gen,
		log:   logger.NewLogger("ollama"),
	}
}

type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *OllamaOptions  `json:"options,omitempty"`
}

type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OllamaOptions struct {
	Temperature float32 `json:"temperature"`
	TopK        int     `json:"top_k,omitempty"`
	TopP        float32 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type OllamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
	Error     string        `json:"error,omitempty"`
}

type ModelsResponse struct {
	Models []OllamaModel `json:"models"`
}

type OllamaModel struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

type Families []string

// ModelDetails Details represents the details of a model.
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          Families `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

func (c *OllamaClient) Name() string {
	return "ollama:" + c.model
}

// GetModels lists the models pulled into the local Ollama.
func (c *OllamaClient) GetModels(ctx context.Context) ([]OllamaModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.GetModelsURL(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("failed to fetch data: " + resp.Status)
	}

	var response ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}
	return response.Models, nil
}

// Available checks that Ollama answers and has the configured model.
func (c *OllamaClient) Available(ctx context.Context) error {
	models, err := c.GetModels(ctx)
	if err != nil {
		return fmt.Errorf("ollama server not available: %w", err)
	}
	for _, m := range models {
		if m.Name == c.model {
			return nil
		}
	}
	return fmt.Errorf("ollama model %q is not pulled", c.model)
}

// Generate sends a non-streaming chat with the system instruction and prompt.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	data := OllamaChatRequest{
		Model: c.model,
		Messages: []OllamaMessage{
			{Role: RoleSystem, Content: c.gen.SystemInstruction},
			{Role: RoleUser, Content: prompt},
		},
		Options: &OllamaOptions{
			Temperature: c.gen.Temperature,
			TopK:        int(c.gen.TopK),
			TopP:        c.gen.TopP,
			NumPredict:  int(c.gen.MaxOutputTokens),
		},
	}

	bts, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GetChatURL(), bytes.NewReader(bts))
	if err != nil {
		c.log.Error("Failed to build ollama chat request:", err)
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	var apiResp OllamaChatResponse
	decodeErr := json.Unmarshal(body, &apiResp)

	if response.StatusCode != http.StatusOK {
		msg := apiResp.Error
		if decodeErr != nil || msg == "" {
			msg = "ollama returned " + response.Status
		}
		c.log.Error("Received error response:", msg)
		return "", roast.StatusError(response.StatusCode, msg)
	}
	if decodeErr != nil {
		c.log.Error("Raw response data:", string(body))
		return "", roast.NewError(roast.KindUnexpectedFormat, "failed to decode ollama response", decodeErr)
	}

	text := strings.TrimSpace(apiResp.Message.Content)
	if text == "" {
		return "", roast.NewError(roast.KindUnexpectedFormat, "ollama returned an empty message", nil)
	}
	return text, nil
}

// UnmarshalJSON handles the custom unmarshalling for Families.
func (f *Families) UnmarshalJSON(data []byte) error {
	// If the JSON data is "null", return an empty Families slice.
	if string(data) == "null" {
		*f = Families{}
		return nil
	}

	var families []string
	if err := json.Unmarshal(data, &families); err != nil {
		return err
	}
	*f = Families(families)
	return nil
}
