package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	geminix "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/gemini"
	ollamax "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/ollama"
	openrouterx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/openrouter"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderOllama     = "ollama"
)

type Role string

const (
	RoleResponse   Role = "response"
	RoleSentiment  Role = "sentiment"
	RoleExtraction Role = "extraction"
)

type Config struct {
	Provider           string        `envconfig:"PROVIDER" split_words:"true" default:"openai"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-4"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"0s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ResponseModel         string  `envconfig:"RESPONSE_MODEL" split_words:"true"`
	SentimentModel        string  `envconfig:"SENTIMENT_MODEL" split_words:"true"`
	ExtractionModel       string  `envconfig:"EXTRACTION_MODEL" split_words:"true"`
	ResponseTemperature   float32 `envconfig:"RESPONSE_TEMPERATURE" split_words:"true" default:"-1"`
	SentimentTemperature  float32 `envconfig:"SENTIMENT_TEMPERATURE" split_words:"true" default:"-1"`
	ExtractionTemperature float32 `envconfig:"EXTRACTION_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderOpenAI
	}
	return p
}

func (c Config) Validate() error {
	switch c.ProviderName() {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if strings.TrimSpace(c.APIKey) == "" {
			return fmt.Errorf("%w: LLM_API_KEY is required for provider %s", contractx.ErrValidation, c.ProviderName())
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// For resolves the model name and temperature for a role; empty overrides and negative
// temperatures inherit the defaults.
func (c Config) For(role Role) (string, float32) {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override, overrideTemp := "", float32(-1)
	switch role {
	case RoleResponse:
		override, overrideTemp = c.ResponseModel, c.ResponseTemperature
	case RoleSentiment:
		override, overrideTemp = c.SentimentModel, c.SentimentTemperature
	case RoleExtraction:
		override, overrideTemp = c.ExtractionModel, c.ExtractionTemperature
	}
	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}
	if overrideTemp >= 0 {
		temp = overrideTemp
	}
	return modelName, temp
}

// BuilderFor returns the provider-specific chat model builder for a role.
func (c Config) BuilderFor(role Role) (openrouterx.LLMBuilder, error) {
	modelName, temp := c.For(role)
	baseURL := strings.TrimSpace(c.BaseURL)

	switch c.ProviderName() {
	case ProviderOpenAI, ProviderOpenRouter:
		if baseURL == "" {
			baseURL = openrouterx.DefaultOpenAIBaseURL
			if c.ProviderName() == ProviderOpenRouter {
				baseURL = openrouterx.DefaultBaseURL
			}
		}
		maxCompletionToken := c.MaxCompletionToken
		return &openrouterx.Config{
			BaseURL:            baseURL,
			APIKey:             strings.TrimSpace(c.APIKey),
			Model:              modelName,
			MaxCompletionToken: &maxCompletionToken,
			Temperature:        temp,
			Timeout:            c.Timeout,
			SiteURL:            strings.TrimSpace(c.SiteURL),
			SiteName:           strings.TrimSpace(c.SiteName),
		}, nil
	case ProviderGemini:
		return &geminix.Config{
			APIKey:      strings.TrimSpace(c.APIKey),
			BaseURL:     baseURL,
			Model:       modelName,
			Temperature: temp,
			MaxTokens:   c.MaxCompletionToken,
		}, nil
	case ProviderOllama:
		return &ollamax.Config{
			BaseURL: baseURL,
			Model:   modelName,
			Timeout: c.Timeout,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
}

// ProbeConfig returns the OpenAI-compatible client settings used to verify credentials.
func (c Config) ProbeConfig() (openrouterx.Config, bool) {
	b, err := c.BuilderFor(RoleResponse)
	if err != nil {
		return openrouterx.Config{}, false
	}
	cfg, ok := b.(*openrouterx.Config)
	if !ok {
		return openrouterx.Config{}, false
	}
	return *cfg, true
}
