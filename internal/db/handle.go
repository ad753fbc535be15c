package db

import (
	"context"

	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Compile-time check: Handle implements Store.
var _ Store = (*Handle)(nil)

// Handle is the process-wide store handle.
//
// It is created once at startup. When the store could not be configured or
// reached, the handle is unavailable: every operation fails with
// ErrUnavailable instead of crashing the process.
type Handle struct {
	store  Store
	reason error
}

// NewHandle wraps a connected store.
func NewHandle(s Store) *Handle {
	return &Handle{store: s}
}

// Unavailable returns a handle with no backing store. reason is reported by Reason.
func Unavailable(reason error) *Handle {
	if reason == nil {
		reason = ErrUnavailable
	}
	return &Handle{reason: reason}
}

// Available reports whether a backing store is attached.
func (h *Handle) Available() bool {
	return h != nil && h.store != nil
}

// Reason explains why the handle is unavailable; nil when available.
func (h *Handle) Reason() error {
	if h.Available() {
		return nil
	}
	if h == nil {
		return ErrUnavailable
	}
	return h.reason
}

func (h *Handle) unavailable(op string) error {
	return &Error{Op: op, Err: ErrUnavailable}
}

// Ping checks connectivity of the underlying store.
func (h *Handle) Ping(ctx context.Context) error {
	if !h.Available() {
		return h.unavailable(OpPing)
	}
	return h.store.Ping(ctx) //nolint:wrapcheck // transparent handle
}

// CreateDocument delegates to the underlying store.
func (h *Handle) CreateDocument(ctx context.Context, collection string, rec Record) (string, error) {
	if !h.Available() {
		return "", h.unavailable(OpInsert)
	}
	return h.store.CreateDocument(ctx, collection, rec) //nolint:wrapcheck // transparent handle
}

// GetDocuments delegates to the underlying store.
func (h *Handle) GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]Record, error) {
	if !h.Available() {
		return nil, h.unavailable(OpFind)
	}
	return h.store.GetDocuments(ctx, collection, f, limit) //nolint:wrapcheck // transparent handle
}

// UpdateDocument delegates to the underlying store.
func (h *Handle) UpdateDocument(ctx context.Context, collection string, docID id.ID, fields Record) error {
	if !h.Available() {
		return h.unavailable(OpUpdate)
	}
	return h.store.UpdateDocument(ctx, collection, docID, fields) //nolint:wrapcheck // transparent handle
}

// Aggregate delegates to the underlying store.
func (h *Handle) Aggregate(ctx context.Context, collection string, f filter.Expression, field string) (Aggregation, error) {
	if !h.Available() {
		return Aggregation{}, h.unavailable(OpAggregate)
	}
	return h.store.Aggregate(ctx, collection, f, field) //nolint:wrapcheck // transparent handle
}

// Close releases the underlying store, if any.
func (h *Handle) Close() {
	if h.Available() {
		h.store.Close()
	}
}
