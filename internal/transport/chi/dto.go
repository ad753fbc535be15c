package chi

import (
	"math"

	"github.com/kailas-cloud/vetdir/internal/domain"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
)

// ErrorResponseCode is the machine-readable error kind in error bodies.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeInvalidID        ErrorResponseCode = "invalid_id"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// MessageResponse is the root banner body.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Database HealthDatabase    `json:"database"`
}

// HealthDatabase describes the configured document store.
type HealthDatabase struct {
	Driver        string `json:"driver"`
	Name          string `json:"name,omitempty"`
	URLConfigured bool   `json:"url_configured"`
	Error         string `json:"error,omitempty"`
}

// CreateListingRequest is the body of POST /api/vets.
type CreateListingRequest struct {
	Name         string         `json:"name"`
	Phone        *string        `json:"phone"`
	Email        *string        `json:"email"`
	Website      *string        `json:"website"`
	Address      *string        `json:"address"`
	City         string         `json:"city"`
	Region       string         `json:"region"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Specialties  []string       `json:"specialties"`
	Services     []string       `json:"services"`
	Hours        map[string]any `json:"hours"`
	Rating       *float64       `json:"rating"`
	ReviewsCount *int           `json:"reviews_count"`
	IsVerified   *bool          `json:"is_verified"`
	AvatarURL    *string        `json:"avatar_url"`
}

// Listing is the public listing view. Unset optionals serialize as null.
type Listing struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Phone        *string        `json:"phone"`
	Email        *string        `json:"email"`
	Website      *string        `json:"website"`
	Address      *string        `json:"address"`
	City         string         `json:"city"`
	Region       string         `json:"region"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Specialties  []string       `json:"specialties"`
	Services     []string       `json:"services"`
	Hours        map[string]any `json:"hours"`
	Rating       float64        `json:"rating"`
	ReviewsCount int            `json:"reviews_count"`
	IsVerified   bool           `json:"is_verified"`
	AvatarURL    *string        `json:"avatar_url"`
}

// CreateReviewRequest is the body of POST /api/reviews.
// Rating accepts any JSON number with no fractional part, so 5 and 5.0 are equal.
type CreateReviewRequest struct {
	VetID      string  `json:"vet_id"`
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Comment    *string `json:"comment"`
}

// Review is the public review view.
type Review struct {
	ID         string  `json:"id"`
	VetID      string  `json:"vet_id"`
	AuthorName string  `json:"author_name"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment"`
}

// SearchListingsParams are the query parameters of GET /api/vets.
type SearchListingsParams struct {
	City   *string
	Region *string
	Q      *string
	Limit  *int
}

// ListReviewsParams are the query parameters of GET /api/vets/{id}/reviews.
type ListReviewsParams struct {
	Limit *int
}

func listingFromRequest(req CreateListingRequest) domlisting.Listing {
	l := domlisting.Listing{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Address:     req.Address,
		City:        req.City,
		Region:      req.Region,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Specialties: req.Specialties,
		Services:    req.Services,
		Hours:       req.Hours,
		AvatarURL:   req.AvatarURL,
	}
	if req.Rating != nil {
		l.Rating = *req.Rating
	}
	if req.ReviewsCount != nil {
		l.ReviewsCount = *req.ReviewsCount
	}
	if req.IsVerified != nil {
		l.IsVerified = *req.IsVerified
	}
	return l
}

func listingToView(l domlisting.Listing) Listing {
	l.Normalize()
	return Listing{
		ID:           l.ID,
		Name:         l.Name,
		Phone:        l.Phone,
		Email:        l.Email,
		Website:      l.Website,
		Address:      l.Address,
		City:         l.City,
		Region:       l.Region,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		Specialties:  l.Specialties,
		Services:     l.Services,
		Hours:        l.Hours,
		Rating:       l.Rating,
		ReviewsCount: l.ReviewsCount,
		IsVerified:   l.IsVerified,
		AvatarURL:    l.AvatarURL,
	}
}

func reviewFromRequest(req CreateReviewRequest) (domreview.Review, error) {
	if req.Rating != math.Trunc(req.Rating) || math.Abs(req.Rating) > math.MaxInt32 {
		return domreview.Review{}, domain.NewValidationError("rating", "must be a whole number")
	}
	return domreview.Review{
		VetID:      req.VetID,
		AuthorName: req.AuthorName,
		Rating:     int(req.Rating),
		Comment:    req.Comment,
	}, nil
}

func reviewToView(rv domreview.Review) Review {
	return Review{
		ID:         rv.ID,
		VetID:      rv.VetID,
		AuthorName: rv.AuthorName,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
