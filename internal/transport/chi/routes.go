package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerOptions configures route registration.
type ServerOptions struct {
	// BaseRouter receives the routes; a new router is created when nil.
	BaseRouter chi.Router
	// ErrorHandlerFunc reports parameter binding failures. Defaults to a 422 validation error.
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler registers every API route on options.BaseRouter and returns it.
func Handler(s *Server, options ServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusUnprocessableEntity, ErrorResponseCodeValidationFailed, err.Error())
		}
	}
	wrapper := &paramBinder{server: s, onError: options.ErrorHandlerFunc}

	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Post("/vets", s.CreateListing)
		r.Get("/vets", wrapper.SearchListings)
		r.Get("/vets/{id}", wrapper.GetListing)
		r.Get("/vets/{id}/reviews", wrapper.ListReviews)
		r.Post("/reviews", s.CreateReview)
	})
	return r
}

// paramBinder decodes path and query parameters before calling the Server.
type paramBinder struct {
	server  *Server
	onError func(w http.ResponseWriter, r *http.Request, err error)
}

func (b *paramBinder) SearchListings(w http.ResponseWriter, r *http.Request) {
	var params SearchListingsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "city", query, &params.City); err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "city", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "region", query, &params.Region); err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "region", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "q", query, &params.Q); err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	b.server.SearchListings(w, r, params)
}

func (b *paramBinder) GetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r)
	if !ok {
		return
	}
	b.server.GetListing(w, r, id)
}

func (b *paramBinder) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := b.pathID(w, r)
	if !ok {
		return
	}

	var params ListReviewsParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	b.server.ListReviews(w, r, id, params)
}

func (b *paramBinder) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.onError(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

// InvalidParamFormatError reports a parameter that could not be decoded.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return "invalid format for parameter " + e.ParamName + ": " + e.Err.Error()
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }
