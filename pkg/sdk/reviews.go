package vetdir

import (
	"context"
	"fmt"
	"time"
)

// ReviewService writes and lists reviews.
type ReviewService struct {
	svc reviewUseCase
	obs *observer
}

// Create stores a review and refreshes the listing's rating.
// The review is kept even if the refresh fails.
func (s *ReviewService) Create(ctx context.Context, r Review) (id string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.create", start, err) }()

	id, err = s.svc.Create(ctx, toDomainReview(r))
	if err != nil {
		return "", fmt.Errorf("create review: %w", err)
	}
	return id, nil
}

// List returns reviews of vetID. limit <= 0 selects the client default.
func (s *ReviewService) List(ctx context.Context, vetID string, limit int) (items []Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.list", start, err) }()

	found, err := s.svc.List(ctx, vetID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return fromDomainReviews(found), nil
}
