package vetdir

import (
	"context"

	healthuc "github.com/kailas-cloud/vetdir/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status   string            // "ok" or "degraded"
	Checks   map[string]string // component → "ok"/"error"/"not_initialized"
	Database DatabaseStatus
}

// DatabaseStatus describes the configured backend.
type DatabaseStatus struct {
	Driver        string
	Name          string
	URLConfigured bool
	Error         string // last ping failure, empty when healthy
}

// Healthy reports whether every component check passed.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Health checks the document store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
		Database: DatabaseStatus{
			Driver:        report.Database.Driver,
			Name:          report.Database.Name,
			URLConfigured: report.Database.URLConfigured,
			Error:         report.Database.Error,
		},
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
