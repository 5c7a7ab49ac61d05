// Package app wires the refine server to its generator and store.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/refiner/internal/config"
	"github.com/abdulachik/refiner/internal/db"
	"github.com/abdulachik/refiner/internal/generator"
	"github.com/abdulachik/refiner/internal/server"
)

// App is the main application container holding all dependencies.
type App struct {
	Config    *config.Config
	Store     *db.Store // nil when DATABASE_PATH is empty
	Generator generator.Generator
	Health    *server.Health
	Server    *server.Server
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	gen, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	health := server.NewHealth()
	health.SetHealthy(server.ComponentGenerator, fmt.Sprintf("configured %s (%s)", gen.Name(), gen.Model()))

	a := &App{
		Config:    cfg,
		Generator: gen,
		Health:    health,
	}

	srvCfg := server.Config{
		Generator:       gen,
		Health:          health,
		GenerateTimeout: cfg.GenerateTimeout,
	}

	if cfg.DatabasePath != "" {
		store, err := OpenStore(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		a.Store = store
		srvCfg.Recorder = store
		health.SetHealthy(server.ComponentStore, "migrated")
	} else {
		slog.Info("usage metrics disabled", "reason", "DATABASE_PATH is empty")
	}

	a.Server = server.New(srvCfg)
	return a, nil
}

// NewGenerator creates the text generator for the configured provider.
func NewGenerator(ctx context.Context, cfg *config.Config) (generator.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		gen, err := generator.NewGemini(ctx, generator.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini generator: %w", err)
		}
		return gen, nil
	case config.ProviderOllama:
		return generator.NewOllama(generator.OllamaConfig{
			Host:  cfg.OllamaHost,
			Model: cfg.OllamaModel,
		}), nil
	case config.ProviderAnthropic:
		return generator.NewAnthropic(generator.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
		}), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// OpenStore connects to the database and applies migrations.
func OpenStore(ctx context.Context, path string) (*db.Store, error) {
	store, err := db.NewStore(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
