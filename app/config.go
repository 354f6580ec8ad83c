package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/llm"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/memory"
	promptx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/prompt"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/app/dashboard"
	configx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/config"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/database"
	logx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/logger"
)

type Config struct {
	LLM       llm.Config
	Memory    memory.Config
	Database  database.Config
	Log       logx.Config
	Dashboard dashboard.Config
	Prompt    promptx.BusinessConfig
}

// LoadConfig reads every section from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := load("LLM", &cfg.LLM); err != nil {
		return nil, err
	}
	if err := load("MEMORY", &cfg.Memory); err != nil {
		return nil, err
	}
	if err := load("DATABASE", &cfg.Database); err != nil {
		return nil, err
	}
	if err := load("LOG", &cfg.Log); err != nil {
		return nil, err
	}
	if err := load("DASHBOARD", &cfg.Dashboard); err != nil {
		return nil, err
	}
	if err := load("PROMPT", &cfg.Prompt); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load[T any](prefix string, dst *T) error {
	v, err := configx.New[T](prefix)
	if err != nil {
		return fmt.Errorf("load %s config: %w", prefix, err)
	}
	*dst = *v
	return nil
}

// ValidateConfig reports every missing or invalid setting at once.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var errs []error
	if err := cfg.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch cfg.Memory.BackendName() {
	case memory.BackendLocal:
	case memory.BackendRemote:
		if strings.TrimSpace(cfg.Memory.RemoteAPIKey) == "" {
			errs = append(errs, errors.New("MEMORY_REMOTE_API_KEY is required for the remote memory backend"))
		}
		if strings.TrimSpace(cfg.Memory.RemoteURL) == "" {
			errs = append(errs, errors.New("MEMORY_REMOTE_URL is required for the remote memory backend"))
		}
	case memory.BackendRedis:
		if strings.TrimSpace(cfg.Memory.RedisURL) == "" {
			errs = append(errs, errors.New("MEMORY_REDIS_URL is required for the redis memory backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown memory backend %q", cfg.Memory.Backend))
	}

	if cfg.Memory.MaxRetrieval <= 0 {
		errs = append(errs, fmt.Errorf("MEMORY_MAX_RETRIEVAL must be positive, got %d", cfg.Memory.MaxRetrieval))
	}

	return errors.Join(errs...)
}

// Describe returns the effective settings with secrets reduced to set/unset.
func (c *Config) Describe() [][2]string {
	secret := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "unset"
		}
		return "set"
	}
	orNone := func(v string) string {
		if v == "" {
			return "-"
		}
		return v
	}
	return [][2]string{
		{"LLM_PROVIDER", c.LLM.ProviderName()},
		{"LLM_MODEL", c.LLM.Model},
		{"LLM_BASE_URL", orNone(c.LLM.BaseURL)},
		{"LLM_API_KEY", secret(c.LLM.APIKey)},
		{"LLM_TEMPERATURE", fmt.Sprint(c.LLM.Temperature)},
		{"MEMORY_BACKEND", c.Memory.BackendName()},
		{"MEMORY_MAX_RETRIEVAL", fmt.Sprint(c.Memory.MaxRetrieval)},
		{"MEMORY_REMOTE_URL", orNone(c.Memory.RemoteURL)},
		{"MEMORY_REMOTE_API_KEY", secret(c.Memory.RemoteAPIKey)},
		{"MEMORY_REDIS_URL", secret(c.Memory.RedisURL)},
		{"DATABASE_URL", secret(c.Database.URL)},
		{"DASHBOARD_ADDR", c.Dashboard.Addr},
		{"PROMPT_BUSINESS_NAME", c.Prompt.Name()},
	}
}
