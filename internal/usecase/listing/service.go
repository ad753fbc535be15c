package listing

import (
	"context"
	"fmt"

	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
)

// DefaultLimit caps search results when the caller gives no limit.
const DefaultLimit = 50

// Service handles listing creation and lookup.
type Service struct {
	repo         Repository
	defaultLimit int
}

// New creates a listing service.
func New(repo Repository) *Service {
	return &Service{repo: repo, defaultLimit: DefaultLimit}
}

// WithDefaultLimit overrides the search limit applied when none is given.
func (s *Service) WithDefaultLimit(n int) *Service {
	if n > 0 {
		s.defaultLimit = n
	}
	return s
}

// Create validates and persists a listing. Derived fields start at their
// zero values unless supplied.
func (s *Service) Create(ctx context.Context, l domlisting.Listing) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	l.Normalize()

	docID, err := s.repo.Create(ctx, l)
	if err != nil {
		return "", fmt.Errorf("create listing: %w", err)
	}
	return docID, nil
}

// Search returns listings matching q. limit <= 0 selects the default.
func (s *Service) Search(ctx context.Context, q domlisting.Query, limit int) ([]domlisting.Listing, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	items, err := s.repo.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return items, nil
}

// Get returns a listing by id.
func (s *Service) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}
