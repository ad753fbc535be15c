package db

import (
	"context"

	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Store is the document store facade shared by every backend.
type Store interface {
	Pinger
	DocumentStore
	Aggregator
	Close()
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentStore provides generic document operations over named collections.
type DocumentStore interface {
	// CreateDocument inserts rec under a freshly generated identifier and returns it as a string.
	CreateDocument(ctx context.Context, collection string, rec Record) (string, error)
	// GetDocuments returns up to limit records matching f, in store order. limit <= 0 means no limit.
	GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]Record, error)
	// UpdateDocument sets fields on one document. Returns ErrKeyNotFound when docID does not exist.
	UpdateDocument(ctx context.Context, collection string, docID id.ID, fields Record) error
}

// Aggregation is the average and count of a numeric field over a set of documents.
type Aggregation struct {
	Average float64
	Count   int
}

// Aggregator provides grouping over a collection.
type Aggregator interface {
	Aggregate(ctx context.Context, collection string, f filter.Expression, field string) (Aggregation, error)
}
