package listing

import (
	"context"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createFn func(ctx context.Context, collection string, rec db.Record) (string, error)
	getFn    func(ctx context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error)
	updateFn func(ctx context.Context, collection string, docID id.ID, fields db.Record) error
}

func (m *mockStore) CreateDocument(ctx context.Context, collection string, rec db.Record) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, collection, rec)
	}
	return id.New().Hex(), nil
}

func (m *mockStore) GetDocuments(
	ctx context.Context, collection string, f filter.Expression, limit int,
) ([]db.Record, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collection, f, limit)
	}
	return []db.Record{}, nil
}

func (m *mockStore) UpdateDocument(ctx context.Context, collection string, docID id.ID, fields db.Record) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, collection, docID, fields)
	}
	return nil
}

func strPtr(s string) *string { return &s }
