// Package driver opens the configured document store backend.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/db/memory"
	"github.com/kailas-cloud/vetdir/internal/db/mongo"
	"github.com/kailas-cloud/vetdir/internal/db/postgres"
	"github.com/kailas-cloud/vetdir/internal/db/redis"
)

// Backend names accepted by Open.
const (
	Mongo    = "mongo"
	Redis    = "redis"
	Valkey   = "valkey"
	Postgres = "postgres"
	Memory   = "memory"
)

// ErrNoURL is returned when a networked backend has no connection URL.
var ErrNoURL = errors.New("database url is not configured")

// Config selects and parameterizes a backend.
type Config struct {
	Driver         string
	URL            string
	Name           string
	KeyPrefix      string
	ConnectTimeout time.Duration
}

// Open connects to the configured backend and wraps it with metrics and
// debug logging.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (db.Store, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.Driver != Memory && cfg.URL == "" {
		return nil, ErrNoURL
	}

	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case Mongo, "":
		store, err = mongo.NewStore(ctx, mongo.Config{
			URI:            cfg.URL,
			Database:       cfg.Name,
			ConnectTimeout: cfg.ConnectTimeout,
		})
	case Redis, Valkey:
		store, err = openRedis(ctx, cfg)
	case Postgres:
		store, err = postgres.NewStore(ctx, postgres.Config{
			DSN:            cfg.URL,
			ConnectTimeout: cfg.ConnectTimeout,
		})
	case Memory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driverName(cfg.Driver), err)
	}

	return db.NewInstrumentedStore(store, driverName(cfg.Driver), logger), nil
}

// Connect opens the backend and returns the process-wide handle. Failures
// are logged and yield an unavailable handle so the process keeps serving.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) *db.Handle {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("document store unavailable",
			zap.String("driver", driverName(cfg.Driver)),
			zap.Error(err),
		)
		return db.Unavailable(err)
	}
	logger.Info("document store connected", zap.String("driver", driverName(cfg.Driver)))
	return db.NewHandle(store)
}

func openRedis(ctx context.Context, cfg Config) (db.Store, error) {
	s, err := redis.NewStore(redis.Config{URL: cfg.URL, KeyPrefix: cfg.KeyPrefix})
	if err != nil {
		return nil, err
	}
	if err := s.WaitForReady(ctx, cfg.ConnectTimeout); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func driverName(d string) string {
	if d == "" {
		return Mongo
	}
	return d
}
