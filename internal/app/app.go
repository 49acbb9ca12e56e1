// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/domgraph/domgraph/internal/archive"
	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/logging"
	"github.com/domgraph/domgraph/internal/metrics"
	"github.com/domgraph/domgraph/internal/storage/memory"
	"github.com/domgraph/domgraph/internal/storage/neo4jstore"
	"github.com/domgraph/domgraph/internal/storage/postgres"
	"github.com/domgraph/domgraph/internal/storage/redisstore"
	"github.com/domgraph/domgraph/internal/storage/sqlite"
)

// App holds all the shared, long-lived services for the application. It is
// initialized once at startup and passed to the components that need it.
type App struct {
	Logger  *zap.Logger
	Store   crawler.EdgeStore
	Archive archive.Provider
	Metrics *metrics.Server
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.Logger
}

// GetStore exposes the configured edge store.
func (a *App) GetStore() crawler.EdgeStore {
	return a.Store
}

// GetArchive exposes the configured page archive provider.
func (a *App) GetArchive() archive.Provider {
	return a.Archive
}

// NewApp creates and initializes a new App based on the application's
// configuration. It reads configuration values from Viper and instantiates
// the appropriate providers. It fails fast if any critical service cannot be
// initialized.
func NewApp(ctx context.Context) (*App, error) {
	l, err := logging.New(viper.GetBool("logging.development"))
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	logging.SetLogger(l)
	l.Info("Initializing application services...")

	// 1. Initialize the edge store.
	// The edge store persists the directed link graph between root domains.
	store, err := newEdgeStore(ctx, l)
	if err != nil {
		return nil, err
	}

	// 2. Initialize the archive provider.
	// The archive keeps raw page snapshots next to the graph.
	arc, err := newArchiveProvider(ctx, l)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			l.Warn("Error closing edge store during failed startup", zap.Error(closeErr))
		}
		return nil, err
	}

	// 3. Optionally expose Prometheus metrics and health checks.
	var srv *metrics.Server
	if addr := viper.GetString("metrics.addr"); addr != "" {
		srv = metrics.NewServer(addr, l)
		srv.Start()
	}

	l.Info("Application services initialized successfully.")

	return &App{
		Logger:  l,
		Store:   store,
		Archive: arc,
		Metrics: srv,
	}, nil
}

func newEdgeStore(ctx context.Context, l *zap.Logger) (crawler.EdgeStore, error) {
	provider := viper.GetString("store.provider")
	switch provider {
	case "memory":
		l.Info("Using in-memory edge store. The graph will not survive this process.")
		return memory.NewEdgeStore(), nil
	case "sqlite":
		path := viper.GetString("store.sqlite.path")
		if path == "" {
			return nil, fmt.Errorf("store provider is 'sqlite' but store.sqlite.path is not set")
		}
		l.Info("Using SQLite edge store", zap.String("path", path))
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize edge store: %w", err)
		}
		return store, nil
	case "postgres":
		dsn := viper.GetString("store.postgres.dsn")
		if dsn == "" {
			return nil, fmt.Errorf("store provider is 'postgres' but store.postgres.dsn is not set")
		}
		l.Info("Connecting to PostgreSQL...")
		store, err := postgres.NewEdgeStore(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize edge store: %w", err)
		}
		return store, nil
	case "neo4j":
		uri := viper.GetString("store.neo4j.uri")
		if uri == "" {
			return nil, fmt.Errorf("store provider is 'neo4j' but store.neo4j.uri is not set")
		}
		l.Info("Connecting to Neo4j", zap.String("uri", uri))
		store, err := neo4jstore.NewEdgeStore(ctx, neo4jstore.Config{
			URI:      uri,
			Username: viper.GetString("store.neo4j.username"),
			Password: viper.GetString("store.neo4j.password"),
			Database: viper.GetString("store.neo4j.database"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize edge store: %w", err)
		}
		return store, nil
	case "redis":
		addr := viper.GetString("store.redis.addr")
		if addr == "" {
			return nil, fmt.Errorf("store provider is 'redis' but store.redis.addr is not set")
		}
		l.Info("Connecting to Redis", zap.String("addr", addr))
		store, err := redisstore.NewEdgeStore(ctx, redisstore.Config{
			Addr:     addr,
			Password: viper.GetString("store.redis.password"),
			DB:       viper.GetInt("store.redis.db"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize edge store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store provider: %s", provider)
	}
}

func newArchiveProvider(ctx context.Context, l *zap.Logger) (archive.Provider, error) {
	provider := viper.GetString("archive.provider")
	switch provider {
	case "none":
		l.Info("Using No-Op archive provider. Page snapshots will be discarded.")
		return &archive.NoOpProvider{}, nil
	case "local":
		dir := viper.GetString("archive.local.dir")
		if dir == "" {
			return nil, fmt.Errorf("archive provider is 'local' but archive.local.dir is not set")
		}
		l.Info("Using local archive provider", zap.String("dir", dir))
		p, err := archive.NewLocalProvider(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
		return p, nil
	case "gcs":
		bucket := viper.GetString("archive.gcs.bucket")
		if bucket == "" {
			return nil, fmt.Errorf("archive provider is 'gcs' but archive.gcs.bucket is not set")
		}
		l.Info("Using GCS archive provider", zap.String("bucket", bucket))
		p, err := archive.NewGCSProvider(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", provider)
	}
}

// Close gracefully shuts down all services in the App container. It is
// called by a Cobra hook after the command finishes execution.
func (a *App) Close() {
	a.Logger.Info("Shutting down application services...")

	if a.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.Metrics.Shutdown(ctx); err != nil {
			a.Logger.Warn("Error shutting down metrics server", zap.Error(err))
		}
		cancel()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("Error closing edge store", zap.Error(err))
		}
	}
	if a.Archive != nil {
		if err := a.Archive.Close(); err != nil {
			a.Logger.Warn("Error closing archive provider", zap.Error(err))
		}
	}

	// Flushing the logger buffer is best effort; syncing stderr fails on
	// some platforms.
	_ = a.Logger.Sync()
}
