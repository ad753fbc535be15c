package review

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/vetdir/internal/db/memory"
	"github.com/kailas-cloud/vetdir/internal/domain"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
	domreview "github.com/kailas-cloud/vetdir/internal/domain/review"
	"github.com/kailas-cloud/vetdir/internal/logger"
	listingrepo "github.com/kailas-cloud/vetdir/internal/repository/listing"
	reviewrepo "github.com/kailas-cloud/vetdir/internal/repository/review"
)

// --- Mocks ---

type mockRepo struct {
	created  []domreview.Review
	createFn func(ctx context.Context, rv domreview.Review) (string, error)
	listFn   func(ctx context.Context, vetID string, limit int) ([]domreview.Review, error)
	statsFn  func(ctx context.Context, vetID string) (domreview.Stats, error)
}

func (m *mockRepo) Create(ctx context.Context, rv domreview.Review) (string, error) {
	m.created = append(m.created, rv)
	if m.createFn != nil {
		return m.createFn(ctx, rv)
	}
	return "rev-1", nil
}

func (m *mockRepo) ListByVet(ctx context.Context, vetID string, limit int) ([]domreview.Review, error) {
	if m.listFn != nil {
		return m.listFn(ctx, vetID, limit)
	}
	return []domreview.Review{}, nil
}

func (m *mockRepo) Stats(ctx context.Context, vetID string) (domreview.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, vetID)
	}
	return domreview.Stats{Average: 5, Count: 1}, nil
}

type ratingCall struct {
	vetID   string
	average float64
	count   int
}

type mockRatings struct {
	calls []ratingCall
	err   error
}

func (m *mockRatings) UpdateRating(_ context.Context, vetID string, average float64, count int) error {
	m.calls = append(m.calls, ratingCall{vetID, average, count})
	return m.err
}

func observedCtx() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return logger.ContextWithLogger(context.Background(), zap.New(core)), logs
}

// --- Tests ---

func TestCreate_ValidationBoundaries(t *testing.T) {
	tests := []struct {
		rating  int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{5, false},
		{6, true},
	}

	for _, tt := range tests {
		repo := &mockRepo{}
		svc := New(repo, &mockRatings{})
		_, err := svc.Create(context.Background(), domreview.Review{VetID: "v", AuthorName: "a", Rating: tt.rating})

		if tt.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("rating %d: expected ErrValidation, got %v", tt.rating, err)
			}
			if len(repo.created) != 0 {
				t.Errorf("rating %d: review must not be persisted", tt.rating)
			}
			continue
		}
		if err != nil {
			t.Errorf("rating %d: unexpected error: %v", tt.rating, err)
		}
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc := New(&mockRepo{}, &mockRatings{})

	for _, rv := range []domreview.Review{
		{AuthorName: "a", Rating: 3},
		{VetID: "v", AuthorName: "  ", Rating: 3},
	} {
		if _, err := svc.Create(context.Background(), rv); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%+v: expected ErrValidation, got %v", rv, err)
		}
	}
}

func TestCreate_RecomputesRating(t *testing.T) {
	ratings := &mockRatings{}
	svc := New(&mockRepo{statsFn: func(_ context.Context, vetID string) (domreview.Stats, error) {
		if vetID != "v1" {
			t.Errorf("stats for %q", vetID)
		}
		return domreview.Stats{Average: 4.5, Count: 2}, nil
	}}, ratings)

	got, err := svc.Create(context.Background(), domreview.Review{VetID: "v1", AuthorName: "a", Rating: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "rev-1" {
		t.Errorf("id = %q", got)
	}
	if len(ratings.calls) != 1 || ratings.calls[0] != (ratingCall{"v1", 4.5, 2}) {
		t.Errorf("rating calls = %+v", ratings.calls)
	}
}

func TestCreate_RecomputeFailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name    string
		statsFn func(context.Context, string) (domreview.Stats, error)
		rateErr error
	}{
		{
			name: "aggregate fails",
			statsFn: func(context.Context, string) (domreview.Stats, error) {
				return domreview.Stats{}, domain.ErrStoreUnavailable
			},
		},
		{name: "listing not found", rateErr: domain.ErrNotFound},
		{name: "vet id not an identifier", rateErr: domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, logs := observedCtx()
			svc := New(&mockRepo{statsFn: tt.statsFn}, &mockRatings{err: tt.rateErr})

			got, err := svc.Create(ctx, domreview.Review{VetID: "v1", AuthorName: "a", Rating: 3})
			if err != nil {
				t.Fatalf("recompute failure must not fail the call: %v", err)
			}
			if got != "rev-1" {
				t.Errorf("id = %q", got)
			}
			if logs.FilterMessage("rating recompute failed").Len() != 1 {
				t.Errorf("expected one warning, got %v", logs.All())
			}
		})
	}
}

func TestCreate_PersistFailure(t *testing.T) {
	ratings := &mockRatings{}
	svc := New(&mockRepo{createFn: func(context.Context, domreview.Review) (string, error) {
		return "", domain.ErrStoreUnavailable
	}}, ratings)

	_, err := svc.Create(context.Background(), domreview.Review{VetID: "v", AuthorName: "a", Rating: 3})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(ratings.calls) != 0 {
		t.Error("no recompute expected when persist fails")
	}
}

func TestList_DefaultLimit(t *testing.T) {
	var gotLimit int
	svc := New(&mockRepo{listFn: func(_ context.Context, _ string, limit int) ([]domreview.Review, error) {
		gotLimit = limit
		return []domreview.Review{}, nil
	}}, &mockRatings{})

	got, err := svc.List(context.Background(), "v1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
	if gotLimit != DefaultLimit {
		t.Errorf("limit = %d, want %d", gotLimit, DefaultLimit)
	}
}

// End-to-end over the memory store: three reviews leave the listing at 4.0/3.
func TestCreate_AggregatesOntoListing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	listings := listingrepo.New(store)
	svc := New(reviewrepo.New(store), listings)

	vetID, err := listings.Create(ctx, domlisting.Listing{Name: "Clinic", City: "Athens", Region: "Attica"})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	before, err := listings.Get(ctx, vetID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if before.Rating != 0 || before.ReviewsCount != 0 {
		t.Errorf("new listing rating = %v/%d, want 0/0", before.Rating, before.ReviewsCount)
	}

	for _, rating := range []int{5, 3, 4} {
		if _, err := svc.Create(ctx, domreview.Review{VetID: vetID, AuthorName: "a", Rating: rating}); err != nil {
			t.Fatalf("create review: %v", err)
		}
	}

	after, err := listings.Get(ctx, vetID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if after.Rating != 4.0 || after.ReviewsCount != 3 {
		t.Errorf("rating = %v/%d, want 4/3", after.Rating, after.ReviewsCount)
	}

	reviews, err := svc.List(ctx, vetID, 0)
	if err != nil || len(reviews) != 3 {
		t.Errorf("List = %d reviews, err %v", len(reviews), err)
	}
}

func TestCreate_DanglingVetID(t *testing.T) {
	ctx, logs := observedCtx()
	store := memory.NewStore()
	svc := New(reviewrepo.New(store), listingrepo.New(store))

	got, err := svc.Create(ctx, domreview.Review{VetID: "not-a-listing", AuthorName: "a", Rating: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Error("expected review id")
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}
