package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/internal/config"
	"github.com/aretw0/toria/pkg/adapters/cache"
	"github.com/aretw0/toria/pkg/adapters/llm"
	"github.com/aretw0/toria/pkg/adapters/memory"
	"github.com/aretw0/toria/pkg/adapters/mongo"
	"github.com/aretw0/toria/pkg/adapters/redis"
	"github.com/aretw0/toria/pkg/discovery"
	"github.com/aretw0/toria/pkg/notify"
	"github.com/aretw0/toria/pkg/observability"
	"github.com/aretw0/toria/pkg/persistence/middleware"
	"github.com/aretw0/toria/pkg/planner"
	"github.com/aretw0/toria/pkg/ports"
	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/genai"
)

// App is the fully wired backend shared by every command.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     ports.DocumentStore
	History   ports.HistoryStore
	Generator ports.Generator
	Assistant *toria.Assistant
	Discovery *discovery.Service
	Planner   *planner.Planner
	Notifier  *notify.Service
	Registry  *prometheus.Registry

	closers []func(context.Context) error
}

// Build wires stores, the language model, metrics and services from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	if err := app.buildStore(ctx); err != nil {
		return nil, err
	}

	var locker ports.DistributedLocker
	switch cfg.History {
	case "redis":
		history := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.HistoryTTL))
		if err := history.Ping(ctx); err != nil {
			_ = app.Close(ctx)
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		app.History = history
		app.closers = append(app.closers, func(context.Context) error { return history.Close() })
		if cfg.DistributedLock {
			locker = redis.NewLocker(history.Client(), "toria:")
		}
		logger.Info("Using Redis history", "addr", cfg.RedisAddr, "ttl", cfg.HistoryTTL, "distributed_lock", cfg.DistributedLock)
	default:
		app.History = memory.NewHistoryStore()
	}

	history, err := protectHistory(cfg, app.History)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.History = history

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Generator = gen

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(app.Registry)

	var preferences ports.PreferenceStore = app.Store
	if cfg.PreferenceCacheTTL > 0 {
		preferences = cache.NewUserStore(app.Store, cfg.PreferenceCacheTTL)
	}

	opts := []toria.Option{
		toria.WithLogger(logger),
		toria.WithLifecycleHooks(observability.Hooks(metrics, logger)),
		toria.WithHistoryStore(app.History),
		toria.WithGeneratorTimeout(cfg.GeneratorTimeout),
		toria.WithHistoryWindow(cfg.HistoryWindow),
	}
	if locker != nil {
		opts = append(opts, toria.WithLocker(locker))
	}
	app.Assistant, err = toria.New(preferences, app.Store, gen, opts...)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	app.Discovery = discovery.NewService(app.Store, discovery.WithLogger(logger))
	if cfg.SeedReels {
		if err := app.Discovery.Seed(ctx); err != nil {
			logger.Warn("Seeding reels failed", "err", err)
		}
	}
	app.Planner = planner.New(gen, app.Store, planner.WithLogger(logger))
	app.Notifier = notify.NewService(app.Store, notify.WithLogger(logger))

	return app, nil
}

func (a *App) buildStore(ctx context.Context) error {
	switch a.Config.Store {
	case "mongo":
		store, err := mongo.Connect(ctx, a.Config.MongoURL, a.Config.MongoDB)
		if err != nil {
			return fmt.Errorf("connecting to mongo: %w", err)
		}
		a.Store = store
		a.closers = append(a.closers, store.Close)
		a.Logger.Info("Using MongoDB store", "db", a.Config.MongoDB)
	default:
		a.Store = memory.NewDocumentStore()
	}
	return nil
}

// protectHistory wraps the history store with PII masking and encryption at
// rest when configured. Masking runs first so redacted text is what gets sealed.
func protectHistory(cfg *config.Config, store ports.HistoryStore) (ports.HistoryStore, error) {
	var mws []middleware.Middleware
	if cfg.RedactPII {
		patterns := cfg.PIIPatterns
		if len(patterns) == 0 {
			patterns = middleware.DefaultPIIPatterns
		}
		pii, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.HistoryEncryptionKey != "" {
		active, err := base64.StdEncoding.DecodeString(cfg.HistoryEncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("history_encryption_key: %w", err)
		}
		fallback := make([][]byte, 0, len(cfg.HistoryFallbackKeys))
		for _, raw := range cfg.HistoryFallbackKeys {
			key, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				return nil, fmt.Errorf("history_fallback_keys: %w", err)
			}
			fallback = append(fallback, key)
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (ports.Generator, error) {
	switch cfg.LLMProvider {
	case "openai":
		var opts []option.RequestOption
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.LLMModel, opts...), nil
	case "gemini":
		return llm.NewGemini(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		}, cfg.LLMModel)
	default:
		return llm.NewEcho(), nil
	}
}

// MetricsHandler serves the app's Prometheus registry.
func (a *App) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})
}

// Close releases external connections in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
