package vetdir

import (
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
)

// Listing is a veterinary business record.
// Rating and ReviewsCount are maintained from reviews; values passed to
// Create only seed them.
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

// Query filters a listing search. Empty fields are not applied.
// City and Region match case-insensitive substrings; Q matches the name,
// the city, any specialty or any service.
type Query struct {
	City   string
	Region string
	Q      string
}

// Review is a 1..5 rating of a listing.
type Review struct {
	ID         string
	VetID      string
	AuthorName string
	Rating     int
	Comment    *string
}

func toDomainListing(l Listing) domlisting.Listing {
	return domlisting.Listing{
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

func fromDomainListing(l domlisting.Listing) Listing {
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

func fromDomainListings(items []domlisting.Listing) []Listing {
	out := make([]Listing, len(items))
	for i, l := range items {
		out[i] = fromDomainListing(l)
	}
	return out
}

func toDomainReview(r Review) domreview.Review {
	return domreview.Review{
		ID:         r.ID,
		VetID:      r.VetID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Comment:    r.Comment,
	}
}

func fromDomainReviews(items []domreview.Review) []Review {
	out := make([]Review, len(items))
	for i, r := range items {
		out[i] = Review{
			ID:         r.ID,
			VetID:      r.VetID,
			AuthorName: r.AuthorName,
			Rating:     r.Rating,
			Comment:    r.Comment,
		}
	}
	return out
}
