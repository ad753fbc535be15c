package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
	"github.com/kailas-cloud/vetdir/internal/logger"
)

// DefaultLimit caps listed reviews when the caller gives no limit.
const DefaultLimit = 50

// Service writes reviews and keeps listing ratings in step with them.
type Service struct {
	reviews      Repository
	ratings      RatingWriter
	defaultLimit int
}

// New creates a review service.
func New(reviews Repository, ratings RatingWriter) *Service {
	return &Service{reviews: reviews, ratings: ratings, defaultLimit: DefaultLimit}
}

// WithDefaultLimit overrides the list limit applied when none is given.
func (s *Service) WithDefaultLimit(n int) *Service {
	if n > 0 {
		s.defaultLimit = n
	}
	return s
}

// Create validates and persists a review, then recomputes the listing
// rating. Recompute failures are logged and do not fail the call.
func (s *Service) Create(ctx context.Context, rv domreview.Review) (string, error) {
	if err := rv.Validate(); err != nil {
		return "", err
	}

	docID, err := s.reviews.Create(ctx, rv)
	if err != nil {
		return "", fmt.Errorf("create review: %w", err)
	}

	if err := s.recompute(ctx, rv.VetID); err != nil {
		logger.FromContext(ctx).Warn("rating recompute failed",
			zap.String("vet_id", rv.VetID),
			zap.String("review_id", docID),
			zap.Error(err),
		)
	}
	return docID, nil
}

// List returns reviews of one listing. limit <= 0 selects the default.
func (s *Service) List(ctx context.Context, vetID string, limit int) ([]domreview.Review, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	items, err := s.reviews.ListByVet(ctx, vetID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return items, nil
}

// recompute writes avg/count of all reviews of vetID onto the listing.
// Last write wins between concurrent recomputes.
func (s *Service) recompute(ctx context.Context, vetID string) error {
	stats, err := s.reviews.Stats(ctx, vetID)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	if stats.Count == 0 {
		return nil
	}
	if err := s.ratings.UpdateRating(ctx, vetID, stats.Average, stats.Count); err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}
