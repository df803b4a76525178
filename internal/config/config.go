package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	// ModeBackend posts submissions to the local backend.
	ModeBackend Mode = "backend"
	// ModeDirect calls the hosted model from the form process.
	ModeDirect Mode = "direct"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

const DefaultSystemInstruction = `You are a savage but good-natured Malayali roast comedian.
The user shares a small personal tragedy. Reply with a short roast (two to four sentences)
in Manglish, mixing Malayalam slang written in English letters with English.
Keep it playful: mock the situation, never the user's identity, and never use slurs.`

// Generation holds the parameters passed through to the hosted model.
type Generation struct {
	SystemInstruction string  `yaml:"system_instruction"`
	Temperature       float32 `yaml:"temperature"`
	TopK              float32 `yaml:"top_k"`
	TopP              float32 `yaml:"top_p"`
	MaxOutputTokens   int32   `yaml:"max_output_tokens"`
	SafetyThreshold   string  `yaml:"safety_threshold"`
}

// Config is read once at startup and never changed afterwards.
type Config struct {
	Dev     bool   `yaml:"dev"`
	LogPath string `yaml:"log_path"`

	Mode   Mode   `yaml:"mode"`
	APIURL string `yaml:"api_url"`

	Addr      string `yaml:"addr"`
	RateLimit int    `yaml:"rate_limit"`

	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OllamaHost    string `yaml:"ollama_host"`

	// Credentials come from the environment only.
	GeminiAPIKey string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`

	Generation Generation `yaml:"generation"`
}

func Default() Config {
	return Config{
		Mode:       ModeBackend,
		APIURL:     "http://localhost:5000",
		Addr:       ":5000",
		RateLimit:  30,
		Provider:   ProviderGemini,
		OllamaHost: "localhost:11434",
		Generation: Generation{
			SystemInstruction: DefaultSystemInstruction,
			Temperature:       0.9,
			TopK:              1,
			TopP:              1,
			MaxOutputTokens:   2048,
			SafetyThreshold:   "BLOCK_MEDIUM_AND_ABOVE",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the environment, in that
// order of precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	var mode string
	setString(&mode, "ROAST_MODE")
	if mode != "" {
		cfg.Mode = Mode(mode)
	}
	setString(&cfg.APIURL, "ROAST_API_URL", "VITE_API_URL")
	setString(&cfg.Provider, "ROAST_PROVIDER")
	setString(&cfg.Model, "ROAST_MODEL")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY", "API_KEY")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OllamaHost, "OLLAMA_HOST")

	if v := os.Getenv("ROAST_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROAST_RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit = n
	}
	return nil
}

// Validate reports settings that can never work. A missing API key is not
// an error here; it surfaces as a ConfigError on the first submission.
func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeBackend, ModeDirect:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q (want backend or direct)", c.Mode))
	}
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (want gemini, openai or ollama)", c.Provider))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}
	if strings.TrimSpace(c.Generation.SystemInstruction) == "" {
		errs = append(errs, errors.New("system instruction must not be empty"))
	}
	return errors.Join(errs...)
}

// ModelName returns the configured model or the provider's default.
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3:latest"
	default:
		return "gemini-2.0-flash"
	}
}
