package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/softpunk/emberfell/internal/dependencies/clock"
	"github.com/softpunk/emberfell/internal/dependencies/random"
	"github.com/softpunk/emberfell/internal/presence"
	"github.com/softpunk/emberfell/internal/realtime"
	"github.com/softpunk/emberfell/internal/services/character"
	"github.com/softpunk/emberfell/internal/storage"
	"github.com/softpunk/emberfell/internal/storage/memory"
	redisstorage "github.com/softpunk/emberfell/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CharacterController *character.Controller

	// Presence sync
	Registry    *presence.Registry
	Hub         *realtime.Hub
	Coordinator *realtime.Coordinator
	SyncHandler *realtime.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	characterController := character.NewController(store, clk)

	registry := presence.NewRegistry(logger)
	hub := realtime.NewHub(logger)
	coordinator := realtime.NewCoordinator(registry, hub, rnd, logger)
	syncHandler := realtime.NewHandler(coordinator, logger)

	return &App{
		Storage:             store,
		Clock:               clk,
		Random:              rnd,
		CharacterController: characterController,
		Registry:            registry,
		Hub:                 hub,
		Coordinator:         coordinator,
		SyncHandler:         syncHandler,
	}
}

// Start launches background components. It returns immediately.
func (a *App) Start() {
	go a.Hub.Run()
}

// Shutdown stops background components and releases storage resources
func (a *App) Shutdown() error {
	a.Hub.Close()

	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
