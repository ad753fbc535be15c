package vetdir

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/db/driver"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
	listingrepo "github.com/kailas-cloud/vetdir/internal/repository/listing"
	reviewrepo "github.com/kailas-cloud/vetdir/internal/repository/review"
	healthuc "github.com/kailas-cloud/vetdir/internal/usecase/health"
	listinguc "github.com/kailas-cloud/vetdir/internal/usecase/listing"
	reviewuc "github.com/kailas-cloud/vetdir/internal/usecase/review"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultKeyPrefix      = "vetdir:"
	defaultDatabase       = "vetdir"
)

// Внутренние интерфейсы для подмены в тестах.
type listingUseCase interface {
	Create(ctx context.Context, l domlisting.Listing) (string, error)
	Search(ctx context.Context, q domlisting.Query, limit int) ([]domlisting.Listing, error)
	Get(ctx context.Context, id string) (domlisting.Listing, error)
}

type reviewUseCase interface {
	Create(ctx context.Context, rv domreview.Review) (string, error)
	List(ctx context.Context, vetID string, limit int) ([]domreview.Review, error)
}

// Client is the vetdir SDK entry point.
type Client struct {
	store      db.Store
	listingSvc listingUseCase
	reviewSvc  reviewUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and connects to the configured backend.
// The provided context bounds the initial connect.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		database:       defaultDatabase,
		keyPrefix:      defaultKeyPrefix,
		connectTimeout: defaultConnectTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("vetdir: backend required (use WithMongo, WithRedis, WithPostgres or WithMemory)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := driver.Open(ctx, driver.Config{
		Driver:         cfg.driver,
		URL:            cfg.url,
		Name:           cfg.database,
		KeyPrefix:      cfg.keyPrefix,
		ConnectTimeout: cfg.connectTimeout,
	}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("vetdir: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	listings := listingrepo.New(store)
	reviews := reviewrepo.New(store)
	health := healthuc.New(db.NewHandle(store)).
		WithDatabase(cfg.driver, cfg.database, cfg.url != "")

	return &Client{
		store:      store,
		listingSvc: listinguc.New(listings).WithDefaultLimit(cfg.defaultLimit),
		reviewSvc:  reviewuc.New(reviews, listings).WithDefaultLimit(cfg.defaultLimit),
		healthSvc:  health,
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Listings returns the listing service.
func (c *Client) Listings() *ListingService {
	return &ListingService{svc: c.listingSvc, obs: c.obs}
}

// Reviews returns the review service.
func (c *Client) Reviews() *ReviewService {
	return &ReviewService{svc: c.reviewSvc, obs: c.obs}
}
