// Package redis implements db.Store on plain Redis keys via rueidis.
//
// Each document is a JSON string at <prefix><collection>:<id>; the set
// <prefix><collection>:ids lists the identifiers of a collection.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/vetdir/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
// URL takes precedence over Addrs when both are set.
type Config struct {
	URL       string
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements db.Store via rueidis.
type Store struct {
	client rueidis.Client
	prefix string
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	opt, err := clientOption(cfg)
	if err != nil {
		return nil, err
	}

	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: fmt.Errorf("failed to create client: %w", err)}
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

func clientOption(cfg Config) (rueidis.ClientOption, error) {
	if cfg.URL != "" {
		opt, err := rueidis.ParseURL(cfg.URL)
		if err != nil {
			return rueidis.ClientOption{}, fmt.Errorf("parse url: %w", err)
		}
		opt.DisableCache = true
		return opt, nil
	}
	if len(cfg.Addrs) == 0 {
		return rueidis.ClientOption{}, errors.New("url or addrs is required")
	}
	return rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return &db.Error{Op: db.OpConnect, Err: fmt.Errorf("timeout waiting for database: %w", ctx.Err())}
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

func (s *Store) docKey(collection, hex string) string {
	return s.prefix + collection + ":" + hex
}

func (s *Store) idsKey(collection string) string {
	return s.prefix + collection + ":ids"
}
