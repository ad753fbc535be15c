// Package memory is an in-process document store.
// It serves tests, local development and the embedded client.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps documents per collection in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]db.Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]db.Record)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// CreateDocument stores a copy of rec under a new identifier.
func (s *Store) CreateDocument(_ context.Context, collection string, rec db.Record) (string, error) {
	doc, err := clone(rec)
	if err != nil {
		return "", &db.Error{Op: db.OpInsert, Err: err}
	}
	docID := id.New()
	doc[id.Field] = docID

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], doc)
	s.mu.Unlock()

	return docID.Hex(), nil
}

// GetDocuments returns copies of up to limit matching records.
func (s *Store) GetDocuments(_ context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]db.Record, 0)
	for _, doc := range s.collections[collection] {
		if limit > 0 && len(out) >= limit {
			break
		}
		if !filter.Match(f, doc) {
			continue
		}
		cp, err := clone(doc)
		if err != nil {
			return nil, &db.Error{Op: db.OpFind, Err: err}
		}
		cp[id.Field] = doc[id.Field]
		out = append(out, cp)
	}
	return out, nil
}

// UpdateDocument merges fields into the document with docID.
func (s *Store) UpdateDocument(_ context.Context, collection string, docID id.ID, fields db.Record) error {
	patch, err := clone(fields)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if id.String(doc[id.Field]) != docID.Hex() {
			continue
		}
		for k, v := range patch {
			if k == id.Field {
				continue
			}
			doc[k] = v
		}
		return nil
	}
	return db.ErrKeyNotFound
}

// Aggregate computes average and count of a numeric field over matching documents.
// Documents where the field is not numeric count but contribute nothing to the sum.
func (s *Store) Aggregate(_ context.Context, collection string, f filter.Expression, field string) (db.Aggregation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	var count, numeric int
	for _, doc := range s.collections[collection] {
		if !filter.Match(f, doc) {
			continue
		}
		count++
		if v, ok := doc[field]; ok && v != nil {
			sum += doc.Float(field, 0)
			numeric++
		}
	}

	agg := db.Aggregation{Count: count}
	if numeric > 0 {
		agg.Average = sum / float64(numeric)
	}
	return agg, nil
}

// clone deep-copies a record through JSON so stored documents hold the
// same value shapes a JSON-backed store would return.
func clone(rec db.Record) (db.Record, error) {
	withoutID := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != id.Field {
			withoutID[k] = v
		}
	}
	data, err := json.Marshal(withoutID)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var out db.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}
