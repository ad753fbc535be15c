package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates the component is configured but not answering.
	CheckError CheckResult = "error"
	// CheckNotInitialized indicates the component was never configured or connected.
	CheckNotInitialized CheckResult = "not_initialized"
)

const pingTimeout = 2 * time.Second

// notConfigured is reported when no store handle was wired at all.
const notConfigured = "database handle not configured"

// Database describes the configured document store. Error carries the
// unavailability reason or the ping failure of the last check.
type Database struct {
	Driver        string
	Name          string
	URLConfigured bool
	Error         string
}

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Database Database
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool { return r.Status == Healthy }

// Service coordinates health checks.
type Service struct {
	store Store
	db    Database
}

// New creates a Service.
func New(store Store) *Service {
	return &Service{store: store}
}

// WithDatabase attaches the store configuration echoed in every report.
func (s *Service) WithDatabase(driver, name string, urlConfigured bool) *Service {
	s.db = Database{Driver: driver, Name: name, URLConfigured: urlConfigured}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	info := s.db
	result, detail := s.checkStore(ctx)
	info.Error = detail
	checks := map[string]CheckResult{"database": result}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, Database: info}
}

// checkStore returns the check outcome and, on failure, the error text.
func (s *Service) checkStore(ctx context.Context) (CheckResult, string) {
	if s.store == nil {
		return CheckNotInitialized, notConfigured
	}
	if !s.store.Available() {
		if err := s.store.Reason(); err != nil {
			return CheckNotInitialized, err.Error()
		}
		return CheckNotInitialized, notConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return CheckError, err.Error()
	}
	return CheckOK, ""
}
