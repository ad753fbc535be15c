package vetdir

import (
	"context"
	"fmt"
	"strings"
	"time"

	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
)

// ListingService creates and looks up listings.
type ListingService struct {
	svc listingUseCase
	obs *observer
}

// Create validates and stores a listing and returns its id.
func (s *ListingService) Create(ctx context.Context, l Listing) (id string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("listing.create", start, err) }()

	id, err = s.svc.Create(ctx, toDomainListing(l))
	if err != nil {
		return "", fmt.Errorf("create listing: %w", err)
	}
	return id, nil
}

// Search returns up to limit listings matching q, in store order.
// limit <= 0 selects the client default.
func (s *ListingService) Search(ctx context.Context, q Query, limit int) (items []Listing, err error) {
	start := time.Now()
	defer func() { s.obs.observe("listing.search", start, err) }()

	found, err := s.svc.Search(ctx, domlisting.Query{
		City:   strings.TrimSpace(q.City),
		Region: strings.TrimSpace(q.Region),
		Q:      strings.TrimSpace(q.Q),
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return fromDomainListings(found), nil
}

// Get returns one listing. Malformed ids fail with ErrInvalidID, missing
// ones with ErrNotFound.
func (s *ListingService) Get(ctx context.Context, id string) (l Listing, err error) {
	start := time.Now()
	defer func() { s.obs.observe("listing.get", start, err) }()

	found, err := s.svc.Get(ctx, id)
	if err != nil {
		return Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return fromDomainListing(found), nil
}
