package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/db/memory"
	"github.com/kailas-cloud/vetdir/internal/domain"
	"github.com/kailas-cloud/vetdir/internal/domain/filter"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
)

func seed(t *testing.T, r *Repo, listings ...domlisting.Listing) []string {
	t.Helper()
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		docID, err := r.Create(context.Background(), l)
		if err != nil {
			t.Fatalf("Create(%s): %v", l.Name, err)
		}
		ids = append(ids, docID)
	}
	return ids
}

func TestCreateGet_RoundTrip(t *testing.T) {
	r := New(memory.NewStore())
	lat := 37.98
	in := domlisting.Listing{
		Name:        "Acropolis Vet",
		Phone:       strPtr("+30 210 000"),
		City:        "Athens",
		Region:      "Attica",
		Latitude:    &lat,
		Specialties: []string{"Surgery"},
		Hours:       map[string]any{"mon": "9-17"},
		IsVerified:  true,
	}

	docID := seed(t, r, in)[0]
	got, err := r.Get(context.Background(), docID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.ID != docID || got.Name != in.Name || got.City != "Athens" || got.Region != "Attica" {
		t.Errorf("unexpected listing: %+v", got)
	}
	if got.Phone == nil || *got.Phone != "+30 210 000" {
		t.Errorf("phone = %v", got.Phone)
	}
	if got.Email != nil || got.Website != nil || got.Longitude != nil || got.AvatarURL != nil {
		t.Error("expected unset optionals to stay nil")
	}
	if got.Latitude == nil || *got.Latitude != lat {
		t.Errorf("latitude = %v", got.Latitude)
	}
	if len(got.Specialties) != 1 || got.Specialties[0] != "Surgery" {
		t.Errorf("specialties = %v", got.Specialties)
	}
	if got.Services == nil || len(got.Services) != 0 {
		t.Errorf("services = %#v, want empty slice", got.Services)
	}
	if got.Hours["mon"] != "9-17" {
		t.Errorf("hours = %v", got.Hours)
	}
	if got.Rating != 0 || got.ReviewsCount != 0 || !got.IsVerified {
		t.Errorf("derived fields = %v/%d verified=%v", got.Rating, got.ReviewsCount, got.IsVerified)
	}
}

func TestGet_InvalidID(t *testing.T) {
	r := New(memory.NewStore())
	_, err := r.Get(context.Background(), "not-an-id")
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := New(memory.NewStore())
	_, err := r.Get(context.Background(), id.New().Hex())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	r := New(memory.NewStore())
	seed(t, r,
		domlisting.Listing{Name: "Acropolis Vet", City: "Athens", Region: "Attica", Services: []string{"Vaccination"}},
		domlisting.Listing{Name: "Piraeus Pets", City: "Piraeus", Region: "Attica", Specialties: []string{"Dentistry"}},
		domlisting.Listing{Name: "White Tower Clinic", City: "Thessaloniki", Region: "Central Macedonia"},
	)

	tests := []struct {
		name  string
		query domlisting.Query
		limit int
		want  []string
	}{
		{"no filters", domlisting.Query{}, 50, []string{"Acropolis Vet", "Piraeus Pets", "White Tower Clinic"}},
		{"city substring case-insensitive", domlisting.Query{City: "ATH"}, 50, []string{"Acropolis Vet"}},
		{"region", domlisting.Query{Region: "attica"}, 50, []string{"Acropolis Vet", "Piraeus Pets"}},
		{"q matches specialty", domlisting.Query{Q: "dent"}, 50, []string{"Piraeus Pets"}},
		{"q matches service", domlisting.Query{Q: "vaccin"}, 50, []string{"Acropolis Vet"}},
		{"q matches city", domlisting.Query{Q: "thessa"}, 50, []string{"White Tower Clinic"}},
		{"clauses conjoined", domlisting.Query{Region: "Attica", Q: "pets"}, 50, []string{"Piraeus Pets"}},
		{"no match", domlisting.Query{City: "Patras"}, 50, []string{}},
		{"limit", domlisting.Query{}, 2, []string{"Acropolis Vet", "Piraeus Pets"}},
		{"literal metacharacters", domlisting.Query{Q: ".*"}, 50, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Search(context.Background(), tt.query, tt.limit)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d listings, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("got[%d] = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestUpdateRating(t *testing.T) {
	r := New(memory.NewStore())
	docID := seed(t, r, domlisting.Listing{Name: "Clinic", City: "Athens", Region: "Attica"})[0]

	if err := r.UpdateRating(context.Background(), docID, 4.0, 3); err != nil {
		t.Fatalf("UpdateRating: %v", err)
	}

	got, err := r.Get(context.Background(), docID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rating != 4.0 || got.ReviewsCount != 3 {
		t.Errorf("rating = %v/%d, want 4/3", got.Rating, got.ReviewsCount)
	}
	if got.Name != "Clinic" {
		t.Errorf("update clobbered name: %q", got.Name)
	}
}

func TestUpdateRating_Errors(t *testing.T) {
	r := New(memory.NewStore())

	if err := r.UpdateRating(context.Background(), "bad", 1, 1); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if err := r.UpdateRating(context.Background(), id.New().Hex(), 1, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreErrors_MapToUnavailable(t *testing.T) {
	cause := &db.Error{Op: db.OpFind, Err: errors.New("connection refused")}
	r := New(&mockStore{
		createFn: func(context.Context, string, db.Record) (string, error) { return "", cause },
		getFn: func(context.Context, string, filter.Expression, int) ([]db.Record, error) {
			return nil, cause
		},
	})

	if _, err := r.Create(context.Background(), domlisting.Listing{Name: "x"}); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("Create: expected ErrStoreUnavailable, got %v", err)
	}
	_, err := r.Search(context.Background(), domlisting.Query{}, 10)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("Search: expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Search: expected cause to be preserved, got %v", err)
	}
	if _, err := r.Get(context.Background(), id.New().Hex()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("Get: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestStoreErrors_UnavailableHandle(t *testing.T) {
	r := New(db.Unavailable(nil))
	_, err := r.Search(context.Background(), domlisting.Query{}, 10)
	if !errors.Is(err, domain.ErrStoreUnavailable) || !errors.Is(err, db.ErrUnavailable) {
		t.Errorf("expected store unavailable, got %v", err)
	}
}

func TestGet_PassesIDFilterAndLimit(t *testing.T) {
	docID := id.New()
	var gotFilter filter.Expression
	var gotLimit int
	r := New(&mockStore{
		getFn: func(_ context.Context, collection string, f filter.Expression, limit int) ([]db.Record, error) {
			if collection != domlisting.Collection {
				t.Errorf("collection = %q", collection)
			}
			gotFilter, gotLimit = f, limit
			return []db.Record{{id.Field: docID, "name": "Clinic"}}, nil
		},
	})

	l, err := r.Get(context.Background(), docID.Hex())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if l.ID != docID.Hex() {
		t.Errorf("ID = %q", l.ID)
	}
	if gotFilter.Op() != filter.OpIDEquals || gotFilter.ID() != docID || gotLimit != 1 {
		t.Errorf("filter = %s, limit = %d", gotFilter, gotLimit)
	}
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name  string
		query domlisting.Query
		rec   map[string]any
		want  bool
	}{
		{"empty matches all", domlisting.Query{}, map[string]any{}, true},
		{"city hit", domlisting.Query{City: "ath"}, map[string]any{"city": "Athens"}, true},
		{"city miss", domlisting.Query{City: "ath"}, map[string]any{"city": "Patras"}, false},
		{"q via services", domlisting.Query{Q: "GROOM"}, map[string]any{"services": []any{"Grooming"}}, true},
		{"q and city", domlisting.Query{City: "ath", Q: "groom"}, map[string]any{"city": "Athens"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Match(BuildFilter(tt.query), tt.rec); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}

	if !BuildFilter(domlisting.Query{}).IsAll() {
		t.Error("empty query should build the match-all filter")
	}
}
