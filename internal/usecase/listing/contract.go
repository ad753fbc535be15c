package listing

import (
	"context"

	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
)

// Repository defines the storage contract for listings.
type Repository interface {
	Create(ctx context.Context, l domlisting.Listing) (string, error)
	Search(ctx context.Context, q domlisting.Query, limit int) ([]domlisting.Listing, error)
	Get(ctx context.Context, id string) (domlisting.Listing, error)
}
