package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/uptrace/bun"

	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/contract"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/llm"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/memory"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/agent/profile"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/app/dashboard"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/database"
	logx "github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/logger"
	"github.com/tanpawarit/Chative-Client-Relationship-Agent/pkg/metrics"
)

// App owns the process-wide stores and the pipeline built on them.
type App struct {
	Config       *Config
	Profiles     *profile.Store
	Memory       contractx.MemoryStore
	Orchestrator *orchestrator.Orchestrator
	Metrics      *metrics.Pipeline
	Repository   *profile.Repository

	db *bun.DB
}

type Option func(*options)

type options struct {
	registry contractx.Registry
}

// WithRegistry skips model construction and uses r for every role.
func WithRegistry(r contractx.Registry) Option {
	return func(o *options) { o.registry = r }
}

func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.registry == nil {
		if err := ValidateConfig(cfg); err != nil {
			return nil, err
		}
		r, err := llm.NewRegistry(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("build model registry: %w", err)
		}
		o.registry = r
	}

	a := &App{
		Config:   cfg,
		Profiles: profile.NewStore(),
		Metrics:  metrics.New(),
	}

	mem, err := memory.New(ctx, cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("build memory store: %w", err)
	}
	a.Memory = mem

	if cfg.Database.Enabled() {
		if err := a.openRepository(ctx); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	orch, err := orchestrator.New(a.Profiles, a.Memory, o.registry, orchestrator.Config{
		BusinessName:   cfg.Prompt.Name(),
		RetrievalLimit: cfg.Memory.MaxRetrieval,
	}, orchestrator.WithMetrics(a.Metrics))
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Orchestrator = orch

	logx.Info().
		Str("memory_backend", cfg.Memory.BackendName()).
		Bool("persistence", a.Repository != nil).
		Int("profiles", a.Profiles.Len()).
		Msg("app initialized")
	return a, nil
}

func (a *App) openRepository(ctx context.Context) error {
	db, err := database.Open(a.Config.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db

	repo := profile.NewRepository(db)
	if err := repo.CreateTable(ctx); err != nil {
		return fmt.Errorf("create profile table: %w", err)
	}
	n, err := repo.Restore(ctx, a.Profiles)
	if err != nil {
		return fmt.Errorf("restore profiles: %w", err)
	}
	a.Repository = repo

	logx.Info().Int("profiles", n).Msg("profiles restored")
	return nil
}

// Dashboard builds the web UI over the app's stores.
func (a *App) Dashboard() *dashboard.Server {
	opts := []dashboard.Option{
		dashboard.WithMetrics(a.Metrics),
		dashboard.WithBusinessName(a.Config.Prompt.Name()),
		dashboard.WithMaxListed(a.Config.Memory.MaxListed),
	}
	if a.Repository != nil {
		opts = append(opts, dashboard.WithSaver(a.Repository))
	}
	return dashboard.New(a.Orchestrator, a.Profiles, a.Memory, opts...)
}

// SaveProfiles writes every profile when persistence is configured.
func (a *App) SaveProfiles(ctx context.Context) error {
	if a.Repository == nil {
		return nil
	}
	return a.Repository.SaveAll(ctx, a.Profiles.List())
}

func (a *App) Close() error {
	var errs []error
	if c, ok := a.Memory.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
