package review

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
)

const (
	fieldVetID      = "vet_id"
	fieldAuthorName = "author_name"
	fieldRating     = "rating"
	fieldComment    = "comment"
)

// store is the consumer interface for reviews (ISP).
type store interface {
	CreateDocument(ctx context.Context, collection string, rec db.Record) (string, error)
	GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error)
	Aggregate(ctx context.Context, collection string, f filter.Expression, field string) (db.Aggregation, error)
}

// Repo implements usecase/review.Repository.
type Repo struct {
	store store
}

// New creates a review repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a review and returns its generated id.
func (r *Repo) Create(ctx context.Context, rv domreview.Review) (string, error) {
	rec := db.Record{
		fieldVetID:      rv.VetID,
		fieldAuthorName: rv.AuthorName,
		fieldRating:     rv.Rating,
	}
	if rv.Comment != nil {
		rec[fieldComment] = *rv.Comment
	}

	docID, err := r.store.CreateDocument(ctx, domreview.Collection, rec)
	if err != nil {
		return "", fmt.Errorf("create review: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return docID, nil
}

// ListByVet returns up to limit reviews referencing vetID.
func (r *Repo) ListByVet(ctx context.Context, vetID string, limit int) ([]domreview.Review, error) {
	recs, err := r.store.GetDocuments(ctx, domreview.Collection, filter.Equals(fieldVetID, vetID), limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews of %s: %w: %w", vetID, domain.ErrStoreUnavailable, err)
	}

	out := make([]domreview.Review, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domreview.Review{
			ID:         rec.ID(),
			VetID:      rec.String(fieldVetID),
			AuthorName: rec.String(fieldAuthorName),
			Rating:     rec.Int(fieldRating, 0),
			Comment:    rec.StringPtr(fieldComment),
		})
	}
	return out, nil
}

// Stats aggregates the ratings of every review referencing vetID.
func (r *Repo) Stats(ctx context.Context, vetID string) (domreview.Stats, error) {
	agg, err := r.store.Aggregate(ctx, domreview.Collection, filter.Equals(fieldVetID, vetID), fieldRating)
	if err != nil {
		return domreview.Stats{}, fmt.Errorf("aggregate reviews of %s: %w: %w", vetID, domain.ErrStoreUnavailable, err)
	}
	return domreview.Stats{Average: agg.Average, Count: agg.Count}, nil
}
