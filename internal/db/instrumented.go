package db

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
	"github.com/kailas-cloud/vetdir/internal/metrics"
)

// Compile-time check: InstrumentedStore implements Store.
var _ Store = (*InstrumentedStore)(nil)

// InstrumentedStore wraps a Store with Prometheus metrics and debug logging.
type InstrumentedStore struct {
	inner  Store
	driver string
	logger *zap.Logger
}

// NewInstrumentedStore wraps inner. driver labels the metrics.
func NewInstrumentedStore(inner Store, driver string, logger *zap.Logger) *InstrumentedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedStore{inner: inner, driver: driver, logger: logger}
}

func (s *InstrumentedStore) observe(op, collection string, start time.Time, err error) {
	duration := time.Since(start)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(s.driver, op, status).Inc()
	metrics.StoreOperationDuration.WithLabelValues(s.driver, op).Observe(duration.Seconds())

	if err != nil {
		s.logger.Debug("Store operation failed",
			zap.String("op", op),
			zap.String("collection", collection),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Store operation completed",
		zap.String("op", op),
		zap.String("collection", collection),
		zap.Duration("duration", duration),
	)
}

// Ping checks connectivity.
func (s *InstrumentedStore) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe(OpPing, "", start, err) }(time.Now())
	return s.inner.Ping(ctx) //nolint:wrapcheck // decorator
}

// CreateDocument inserts a document.
func (s *InstrumentedStore) CreateDocument(ctx context.Context, collection string, rec Record) (docID string, err error) {
	defer func(start time.Time) { s.observe(OpInsert, collection, start, err) }(time.Now())
	return s.inner.CreateDocument(ctx, collection, rec) //nolint:wrapcheck // decorator
}

// GetDocuments queries documents.
func (s *InstrumentedStore) GetDocuments(
	ctx context.Context, collection string, f filter.Expression, limit int,
) (recs []Record, err error) {
	defer func(start time.Time) { s.observe(OpFind, collection, start, err) }(time.Now())
	return s.inner.GetDocuments(ctx, collection, f, limit) //nolint:wrapcheck // decorator
}

// UpdateDocument sets fields on one document.
func (s *InstrumentedStore) UpdateDocument(ctx context.Context, collection string, docID id.ID, fields Record) (err error) {
	defer func(start time.Time) { s.observe(OpUpdate, collection, start, err) }(time.Now())
	return s.inner.UpdateDocument(ctx, collection, docID, fields) //nolint:wrapcheck // decorator
}

// Aggregate computes average and count of a field.
func (s *InstrumentedStore) Aggregate(
	ctx context.Context, collection string, f filter.Expression, field string,
) (agg Aggregation, err error) {
	defer func(start time.Time) { s.observe(OpAggregate, collection, start, err) }(time.Now())
	return s.inner.Aggregate(ctx, collection, f, field) //nolint:wrapcheck // decorator
}

// Close closes the inner store.
func (s *InstrumentedStore) Close() {
	s.inner.Close()
}
