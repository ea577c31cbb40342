package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/internal/adapters/file"
	"github.com/aretw0/colloquy/internal/config"
	"github.com/aretw0/colloquy/internal/logging"
	"github.com/aretw0/colloquy/pkg/adapters/memory"
	"github.com/aretw0/colloquy/pkg/adapters/redis"
	"github.com/aretw0/colloquy/pkg/observability"
	"github.com/aretw0/colloquy/pkg/persistence/middleware"
	"github.com/aretw0/colloquy/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// lockPrefix namespaces distributed session locks in Redis.
const lockPrefix = "colloquy:"

// Options are the command-line inputs every command shares.
type Options struct {
	ConfigPath string
	Content    string // conversation directory or single document
	WorldPath  string // overrides world.seed
	LogLevel   string // overrides log.level
	LogOutput  io.Writer
}

// App is the wired application: an engine over the content, the starting
// world and, on demand, the configured suspension store.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Engine   *colloquy.Engine
	Seed     memory.Seed
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	store  ports.SuspensionStore
	locker ports.DistributedLocker
	client *backend.Client
}

// NewApp loads configuration and builds the engine.
func NewApp(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.WorldPath != "" {
		cfg.World.Seed = opts.WorldPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := logging.NewWithFormat(out, level, cfg.Log.Format)

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	engine, err := colloquy.New(opts.Content,
		colloquy.WithLogger(logger),
		colloquy.WithStepBudget(cfg.Engine.StepBudget),
		colloquy.WithLifecycleHooks(observability.Combine(
			observability.LogHooks(logger),
			metrics.Hooks(),
		)),
	)
	if err != nil {
		return nil, err
	}

	var seed memory.Seed
	if cfg.World.Seed != "" {
		if seed, err = memory.ReadSeedFile(cfg.World.Seed); err != nil {
			return nil, err
		}
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Engine:   engine,
		Seed:     seed,
		Metrics:  metrics,
		Registry: reg,
	}, nil
}

// World builds a fresh world from the seed.
func (a *App) World() (*memory.World, error) {
	return a.Seed.Build()
}

// Worlds returns a per-player world source seeded the same way.
func (a *App) Worlds() *memory.Worlds {
	return memory.NewWorlds(a.Seed)
}

// Store returns the configured suspension store, creating it on first use.
func (a *App) Store() (ports.SuspensionStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendMemory:
		a.store = memory.NewStore()
	case config.BackendFile:
		a.store = file.NewStore(cfg.Store.Dir)
	case config.BackendRedis:
		a.client = backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.store = redis.NewFromClient(a.client,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Store.TTL),
		)
		a.locker = redis.NewLocker(a.client, lockPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if cfg.Store.EncryptionKey != "" {
		mw, err := encryption(cfg.Store.EncryptionKey, cfg.Store.FallbackKeys)
		if err != nil {
			return nil, err
		}
		a.store = middleware.Chain(a.store, mw)
	}
	a.Logger.Debug("suspension store ready", "backend", cfg.Store.Backend, "encrypted", cfg.Store.EncryptionKey != "")
	return a.store, nil
}

func encryption(active string, fallbacks []string) (middleware.Middleware, error) {
	key, err := middleware.ParseKey(active)
	if err != nil {
		return nil, err
	}
	config := middleware.EncryptionConfig{ActiveKey: key}
	for _, f := range fallbacks {
		k, err := middleware.ParseKey(f)
		if err != nil {
			return nil, err
		}
		config.FallbackKeys = append(config.FallbackKeys, k)
	}
	return middleware.NewEncryptionMiddleware(config), nil
}

// Locker returns the distributed locker of the store backend, or nil when
// the backend is local to this process.
func (a *App) Locker() ports.DistributedLocker {
	return a.locker
}

// Close releases the store's connections.
func (a *App) Close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	if errors.Is(err, backend.ErrClosed) {
		return nil
	}
	return err
}
