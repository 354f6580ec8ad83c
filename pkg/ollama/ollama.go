package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
)

const DefaultBaseURL = "http://localhost:11434"

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// New connects to a local Ollama server; sampling options are left to the model file.
func (c *Config) New(ctx context.Context) (model.BaseChatModel, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	m, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   strings.TrimSpace(c.Model),
		Timeout: c.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: create chat model: %w", err)
	}
	return m, nil
}
