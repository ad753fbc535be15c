package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/vetdir/internal/db"
	"github.com/kailas-cloud/vetdir/internal/db/memory"
	"github.com/kailas-cloud/vetdir/internal/domain/id"
	listingrepo "github.com/kailas-cloud/vetdir/internal/repository/listing"
	reviewrepo "github.com/kailas-cloud/vetdir/internal/repository/review"
	healthuc "github.com/kailas-cloud/vetdir/internal/usecase/health"
	listinguc "github.com/kailas-cloud/vetdir/internal/usecase/listing"
	reviewuc "github.com/kailas-cloud/vetdir/internal/usecase/review"
)

func newTestHandler(store *db.Handle) http.Handler {
	listings := listingrepo.New(store)
	s := NewServer(
		listinguc.New(listings),
		reviewuc.New(reviewrepo.New(store), listings),
		healthuc.New(store),
		nil,
	)
	return Handler(s, ServerOptions{})
}

func newMemoryHandler() http.Handler {
	return newTestHandler(db.NewHandle(memory.NewStore()))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func createListing(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/vets", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("create listing: status %d body %s", rr.Code, rr.Body.String())
	}
	return decode[string](t, rr)
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorResponseCode) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	if got := decode[ErrorResponse](t, rr); got.Code != code {
		t.Errorf("code = %q, want %q", got.Code, code)
	}
}

func TestRoot(t *testing.T) {
	rr := do(t, newMemoryHandler(), http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decode[MessageResponse](t, rr); got.Message != Banner {
		t.Errorf("message = %q", got.Message)
	}
}

func TestCreateAndGetListing(t *testing.T) {
	h := newMemoryHandler()
	docID := createListing(t, h, `{"name":"Acropolis Vet","city":"Athens","region":"Attica","phone":"210"}`)

	rr := do(t, h, http.MethodGet, "/api/vets/"+docID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rr.Code, rr.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if raw["id"] != docID || raw["name"] != "Acropolis Vet" || raw["phone"] != "210" {
		t.Errorf("unexpected view: %v", raw)
	}
	for _, k := range []string{"email", "website", "address", "latitude", "longitude", "hours", "avatar_url"} {
		v, ok := raw[k]
		if !ok || v != nil {
			t.Errorf("%s = %v (present=%v), want null", k, v, ok)
		}
	}
	for _, k := range []string{"specialties", "services"} {
		if arr, ok := raw[k].([]any); !ok || len(arr) != 0 {
			t.Errorf("%s = %#v, want []", k, raw[k])
		}
	}
	if raw["rating"] != 0.0 || raw["reviews_count"] != 0.0 || raw["is_verified"] != false {
		t.Errorf("defaults = %v/%v/%v", raw["rating"], raw["reviews_count"], raw["is_verified"])
	}
}

func TestCreateListing_Validation(t *testing.T) {
	h := newMemoryHandler()
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"city":"Athens","region":"Attica"}`},
		{"missing region", `{"name":"x","city":"Athens"}`},
		{"rating out of range", `{"name":"x","city":"Athens","region":"Attica","rating":7}`},
		{"negative reviews_count", `{"name":"x","city":"Athens","region":"Attica","reviews_count":-2}`},
		{"wrong type", `{"name":"x","city":"Athens","region":"Attica","rating":"high"}`},
		{"malformed body", `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, do(t, h, http.MethodPost, "/api/vets", tt.body),
				http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed)
		})
	}
}

func TestGetListing_Errors(t *testing.T) {
	h := newMemoryHandler()
	assertError(t, do(t, h, http.MethodGet, "/api/vets/not-an-id", ""), http.StatusBadRequest, ErrorResponseCodeInvalidID)
	assertError(t, do(t, h, http.MethodGet, "/api/vets/"+id.New().Hex(), ""), http.StatusNotFound, ErrorResponseCodeNotFound)
}

func TestSearchListings(t *testing.T) {
	h := newMemoryHandler()
	createListing(t, h, `{"name":"Acropolis Vet","city":"Athens","region":"Attica","services":["Vaccination"]}`)
	createListing(t, h, `{"name":"Piraeus Pets","city":"Piraeus","region":"Attica","specialties":["Dentistry"]}`)
	createListing(t, h, `{"name":"White Tower","city":"Thessaloniki","region":"Central Macedonia"}`)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Acropolis Vet", "Piraeus Pets", "White Tower"}},
		{"?city=athens", []string{"Acropolis Vet"}},
		{"?city=", []string{"Acropolis Vet", "Piraeus Pets", "White Tower"}},
		{"?region=Attica&q=dent", []string{"Piraeus Pets"}},
		{"?q=VACC", []string{"Acropolis Vet"}},
		{"?limit=1", []string{"Acropolis Vet"}},
		{"?city=Patras", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := do(t, h, http.MethodGet, "/api/vets"+tt.query, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d body %s", rr.Code, rr.Body.String())
			}
			if strings.TrimSpace(rr.Body.String()) == "null" {
				t.Fatal("empty result must encode as []")
			}
			got := decode[[]Listing](t, rr)
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

func TestSearchListings_BadLimit(t *testing.T) {
	h := newMemoryHandler()
	for _, q := range []string{"?limit=0", "?limit=-3", "?limit=abc"} {
		t.Run(q, func(t *testing.T) {
			assertError(t, do(t, h, http.MethodGet, "/api/vets"+q, ""),
				http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed)
		})
	}
}

func TestReviewsFlow(t *testing.T) {
	h := newMemoryHandler()
	vetID := createListing(t, h, `{"name":"Clinic","city":"Athens","region":"Attica"}`)

	for _, rating := range []string{"5", "3", "4"} {
		rr := do(t, h, http.MethodPost, "/api/reviews",
			`{"vet_id":"`+vetID+`","author_name":"Maria","rating":`+rating+`,"comment":"ok"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("create review: status %d body %s", rr.Code, rr.Body.String())
		}
		if decode[string](t, rr) == "" {
			t.Error("expected review id")
		}
	}

	listing := decode[Listing](t, do(t, h, http.MethodGet, "/api/vets/"+vetID, ""))
	if listing.Rating != 4.0 || listing.ReviewsCount != 3 {
		t.Errorf("rating = %v/%d, want 4/3", listing.Rating, listing.ReviewsCount)
	}

	rr := do(t, h, http.MethodGet, "/api/vets/"+vetID+"/reviews", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list reviews: status %d", rr.Code)
	}
	reviews := decode[[]Review](t, rr)
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want 3", len(reviews))
	}
	if reviews[0].VetID != vetID || reviews[0].Comment == nil || *reviews[0].Comment != "ok" {
		t.Errorf("unexpected review: %+v", reviews[0])
	}

	limited := decode[[]Review](t, do(t, h, http.MethodGet, "/api/vets/"+vetID+"/reviews?limit=2", ""))
	if len(limited) != 2 {
		t.Errorf("limit=2 returned %d reviews", len(limited))
	}
}

func TestListReviews_Empty(t *testing.T) {
	rr := do(t, newMemoryHandler(), http.MethodGet, "/api/vets/"+id.New().Hex()+"/reviews", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestCreateReview_Validation(t *testing.T) {
	h := newMemoryHandler()
	tests := []struct {
		name string
		body string
	}{
		{"rating zero", `{"vet_id":"v","author_name":"a","rating":0}`},
		{"rating six", `{"vet_id":"v","author_name":"a","rating":6}`},
		{"missing rating", `{"vet_id":"v","author_name":"a"}`},
		{"missing author", `{"vet_id":"v","rating":3}`},
		{"missing vet_id", `{"author_name":"a","rating":3}`},
		{"fractional rating", `{"vet_id":"v","author_name":"a","rating":3.5}`},
		{"whole float out of range", `{"vet_id":"v","author_name":"a","rating":6.0}`},
		{"string rating", `{"vet_id":"v","author_name":"a","rating":"5"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, do(t, h, http.MethodPost, "/api/reviews", tt.body),
				http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed)
		})
	}

	for _, rating := range []string{"1", "5", "5.0", "4.00", "3e0"} {
		rr := do(t, h, http.MethodPost, "/api/reviews", `{"vet_id":"v","author_name":"a","rating":`+rating+`}`)
		if rr.Code != http.StatusOK {
			t.Errorf("rating %s: status %d body %s", rating, rr.Code, rr.Body.String())
		}
	}
}

func TestStoreUnavailable(t *testing.T) {
	h := newTestHandler(db.Unavailable(nil))

	assertError(t, do(t, h, http.MethodGet, "/api/vets", ""), http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable)
	assertError(t, do(t, h, http.MethodPost, "/api/vets", `{"name":"x","city":"y","region":"z"}`),
		http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable)
	assertError(t, do(t, h, http.MethodGet, "/api/vets/"+id.New().Hex(), ""),
		http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable)
	assertError(t, do(t, h, http.MethodPost, "/api/reviews", `{"vet_id":"v","author_name":"a","rating":3}`),
		http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable)
	assertError(t, do(t, h, http.MethodGet, "/api/vets/x/reviews", ""),
		http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable)

	// Validation still wins over availability.
	assertError(t, do(t, h, http.MethodPost, "/api/reviews", `{"vet_id":"v","author_name":"a","rating":9}`),
		http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed)
}

func TestHealthCheck(t *testing.T) {
	rr := do(t, newMemoryHandler(), http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[HealthResponse](t, rr)
	if got.Status != "ok" || got.Checks["database"] != "ok" {
		t.Errorf("unexpected health: %+v", got)
	}

	rr = do(t, newTestHandler(db.Unavailable(nil)), http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	got = decode[HealthResponse](t, rr)
	if got.Status != "degraded" || got.Checks["database"] != "not_initialized" {
		t.Errorf("unexpected health: %+v", got)
	}
	if got.Database.Error != db.ErrUnavailable.Error() {
		t.Errorf("expected unavailable reason, got %q", got.Database.Error)
	}
}

func TestHealthCheck_DatabaseDetails(t *testing.T) {
	store := db.Unavailable(errors.New("mongo: no URI configured"))
	s := NewServer(nil, nil, healthuc.New(store).WithDatabase("mongo", "vetdir", false), nil)
	rr := do(t, Handler(s, ServerOptions{}), http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}

	got := decode[HealthResponse](t, rr)
	want := HealthDatabase{
		Driver:        "mongo",
		Name:          "vetdir",
		URLConfigured: false,
		Error:         "mongo: no URI configured",
	}
	if got.Database != want {
		t.Errorf("expected %+v, got %+v", want, got.Database)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, ok := raw["database"]["url_configured"]; !ok || v != false {
		t.Errorf("url_configured must always be present, got %v", raw["database"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := do(t, newMemoryHandler(), http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("expected exposition body")
	}
}

func TestSafeDomainMessage_HidesInternals(t *testing.T) {
	if got := safeDomainMessage(&InvalidParamFormatError{ParamName: "x", Err: http.ErrBodyNotAllowed}); got != "internal error" {
		t.Errorf("got %q", got)
	}
}
