package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	redisx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/redis"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendRedis  = "redis"
)

type Config struct {
	Backend       string        `split_words:"true" default:"local"`
	MaxRetrieval  int           `split_words:"true" default:"5"`
	MaxListed     int           `split_words:"true" default:"20"`
	RemoteURL     string        `split_words:"true" default:"https://api.supermemory.ai"`
	RemoteAPIKey  string        `split_words:"true"`
	RemoteTimeout time.Duration `split_words:"true" default:"10s"`
	RedisURL      string        `split_words:"true"`
	RedisPrefix   string        `split_words:"true" default:"crm:memory:"`
}

func (c Config) BackendName() string {
	b := strings.ToLower(strings.TrimSpace(c.Backend))
	if b == "" {
		return BackendLocal
	}
	return b
}

// New builds the configured backend. Callers should close the result when it implements io.Closer.
func New(ctx context.Context, cfg Config) (contractx.MemoryStore, error) {
	switch cfg.BackendName() {
	case BackendLocal:
		return NewLocalStore(), nil
	case BackendRemote:
		return NewRemoteStore(RemoteConfig{
			URL:     cfg.RemoteURL,
			APIKey:  cfg.RemoteAPIKey,
			Timeout: cfg.RemoteTimeout,
		})
	case BackendRedis:
		rc := redisx.Config{URL: cfg.RedisURL}
		client, err := rc.New(ctx)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("%w: unknown memory backend %q", contractx.ErrValidation, cfg.Backend)
	}
}
