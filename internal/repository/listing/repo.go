package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/domain"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
)

// store is the consumer interface for listings (ISP).
type store interface {
	CreateDocument(ctx context.Context, collection string, rec db.Record) (string, error)
	GetDocuments(ctx context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error)
	UpdateDocument(ctx context.Context, collection string, docID id.ID, fields db.Record) error
}

// Repo implements usecase/listing.Repository.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a listing and returns its generated id.
func (r *Repo) Create(ctx context.Context, l domlisting.Listing) (string, error) {
	docID, err := r.store.CreateDocument(ctx, domlisting.Collection, toRecord(l))
	if err != nil {
		return "", storeErr("create listing", err)
	}
	return docID, nil
}

// Search returns up to limit listings matching q.
func (r *Repo) Search(ctx context.Context, q domlisting.Query, limit int) ([]domlisting.Listing, error) {
	recs, err := r.store.GetDocuments(ctx, domlisting.Collection, BuildFilter(q), limit)
	if err != nil {
		return nil, storeErr("search listings", err)
	}

	out := make([]domlisting.Listing, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// Get returns the listing with the given id.
func (r *Repo) Get(ctx context.Context, rawID string) (domlisting.Listing, error) {
	docID, err := id.Parse(rawID)
	if err != nil {
		return domlisting.Listing{}, err
	}

	recs, err := r.store.GetDocuments(ctx, domlisting.Collection, filter.IDEquals(docID), 1)
	if err != nil {
		return domlisting.Listing{}, storeErr("get listing "+rawID, err)
	}
	if len(recs) == 0 {
		return domlisting.Listing{}, fmt.Errorf("listing %s: %w", rawID, domain.ErrNotFound)
	}
	return fromRecord(recs[0]), nil
}

// UpdateRating writes the derived rating fields onto a listing.
func (r *Repo) UpdateRating(ctx context.Context, rawID string, average float64, count int) error {
	docID, err := id.Parse(rawID)
	if err != nil {
		return err
	}

	fields := db.Record{fieldRating: average, fieldReviewsCount: count}
	if err := r.store.UpdateDocument(ctx, domlisting.Collection, docID, fields); err != nil {
		return storeErr("update rating of "+rawID, err)
	}
	return nil
}

// BuildFilter turns search filters into a store predicate.
// city and region are substring matches; q matches name, city, any
// specialty or any service. Present clauses are conjoined; none matches all.
func BuildFilter(q domlisting.Query) filter.Expression {
	var clauses []filter.Expression
	if q.City != "" {
		clauses = append(clauses, filter.Contains(fieldCity, q.City))
	}
	if q.Region != "" {
		clauses = append(clauses, filter.Contains(fieldRegion, q.Region))
	}
	if q.Q != "" {
		clauses = append(clauses, filter.Or(
			filter.Contains(fieldName, q.Q),
			filter.Contains(fieldCity, q.Q),
			filter.AnyContains(fieldSpecialties, q.Q),
			filter.AnyContains(fieldServices, q.Q),
		))
	}
	return filter.And(clauses...)
}

// storeErr maps db errors to domain sentinels.
func storeErr(op string, err error) error {
	if errors.Is(err, db.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
