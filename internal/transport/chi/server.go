package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vetdir/internal/domain"
	domlisting "github.com/kailas-cloud/vetdir/internal/domain/listing"
	healthuc "github.com/kailas-cloud/vetdir/internal/usecase/health"
	listinguc "github.com/kailas-cloud/vetdir/internal/usecase/listing"
	reviewuc "github.com/kailas-cloud/vetdir/internal/usecase/review"
)

// Banner is the root endpoint message.
const Banner = "Greek Vets Directory API ready"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the API handlers.
type Server struct {
	listings      *listinguc.Service
	reviews       *reviewuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	listings *listinguc.Service,
	reviews *reviewuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		listings: listings,
		reviews:  reviews,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidID, http.StatusBadRequest, ErrorResponseCodeInvalidID),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, ErrorResponseCodeStoreUnavailable),
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: Banner})
}

// CreateListing handles POST /api/vets.
func (s *Server) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed, "invalid request body")
		return
	}

	id, err := s.listings.Create(r.Context(), listingFromRequest(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, id)
}

// SearchListings handles GET /api/vets.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request, params SearchListingsParams) {
	limit, err := limitParam(params.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	q := domlisting.Query{
		City:   deref(params.City),
		Region: deref(params.Region),
		Q:      deref(params.Q),
	}
	items, err := s.listings.Search(r.Context(), q, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := make([]Listing, len(items))
	for i, l := range items {
		resp[i] = listingToView(l)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetListing handles GET /api/vets/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request, id string) {
	l, err := s.listings.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listingToView(l))
}

// CreateReview handles POST /api/reviews.
func (s *Server) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed, "invalid request body")
		return
	}

	rv, err := reviewFromRequest(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	id, err := s.reviews.Create(r.Context(), rv)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, id)
}

// ListReviews handles GET /api/vets/{id}/reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request, id string, params ListReviewsParams) {
	limit, err := limitParam(params.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items, err := s.reviews.List(r.Context(), id, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := make([]Review, len(items))
	for i, rv := range items {
		resp[i] = reviewToView(rv)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if !report.Healthy() {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
		Database: HealthDatabase{
			Driver:        report.Database.Driver,
			Name:          report.Database.Name,
			URLConfigured: report.Database.URLConfigured,
			Error:         report.Database.Error,
		},
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// limitParam validates an optional limit. Absent yields 0, which the
// services replace with their default.
func limitParam(p *int) (int, error) {
	if p == nil {
		return 0, nil
	}
	if *p < 1 {
		return 0, domain.NewValidationError("limit", "must be a positive integer")
	}
	return *p, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation errors carry the offending field.
func safeDomainMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrInvalidID,
		domain.ErrNotFound,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
