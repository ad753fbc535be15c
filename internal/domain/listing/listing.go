// Package listing models a veterinary business listing.
package listing

import (
	"strings"

	"github.com/kailas-cloud/vetdir/internal/domain"
)

// Collection is the document collection holding listings.
const Collection = "vet"

// Rating bounds of the derived average.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Listing is a veterinary business record.
// Rating and ReviewsCount are derived from reviews and only written by the rating recompute.
type Listing struct {
	ID           string
	Name         string
	Phone        *string
	Email        *string
	Website      *string
	Address      *string
	City         string
	Region       string
	Latitude     *float64
	Longitude    *float64
	Specialties  []string
	Services     []string
	Hours        map[string]any
	Rating       float64
	ReviewsCount int
	IsVerified   bool
	AvatarURL    *string
}

// Validate checks required fields and derived-field ranges.
func (l *Listing) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(l.City) == "" {
		return domain.NewValidationError("city", "is required")
	}
	if strings.TrimSpace(l.Region) == "" {
		return domain.NewValidationError("region", "is required")
	}
	if l.Rating < MinRating || l.Rating > MaxRating {
		return domain.NewValidationError("rating", "must be between 0 and 5")
	}
	if l.ReviewsCount < 0 {
		return domain.NewValidationError("reviews_count", "must be non-negative")
	}
	return nil
}

// Normalize replaces nil sequences with empty ones.
func (l *Listing) Normalize() {
	if l.Specialties == nil {
		l.Specialties = []string{}
	}
	if l.Services == nil {
		l.Services = []string{}
	}
}

// Query holds the optional search filters. Empty strings mean "not set".
type Query struct {
	City   string
	Region string
	Q      string
}
