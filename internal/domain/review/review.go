// Package review models a user review of a listing.
package review

import (
	"strings"

	"github.com/kailas-cloud/vetdir/internal/domain"
)

// Collection is the document collection holding reviews.
const Collection = "review"

// Rating bounds of a single review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a single rating/comment tied to a listing by VetID.
type Review struct {
	ID         string
	VetID      string
	AuthorName string
	Rating     int
	Comment    *string
}

// Validate checks required fields and the rating range.
func (r *Review) Validate() error {
	if strings.TrimSpace(r.VetID) == "" {
		return domain.NewValidationError("vet_id", "is required")
	}
	if strings.TrimSpace(r.AuthorName) == "" {
		return domain.NewValidationError("author_name", "is required")
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return domain.NewValidationError("rating", "must be between 1 and 5")
	}
	return nil
}

// Stats is the aggregate of all reviews of one listing.
type Stats struct {
	Average float64
	Count   int
}
