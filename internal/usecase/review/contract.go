package review

import (
	"context"

	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
)

// Repository defines the storage contract for reviews.
type Repository interface {
	Create(ctx context.Context, rv domreview.Review) (string, error)
	ListByVet(ctx context.Context, vetID string, limit int) ([]domreview.Review, error)
	Stats(ctx context.Context, vetID string) (domreview.Stats, error)
}

// RatingWriter stores the derived rating on a listing.
type RatingWriter interface {
	UpdateRating(ctx context.Context, vetID string, average float64, count int) error
}
