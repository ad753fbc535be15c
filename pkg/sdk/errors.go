package vetdir

import "github.com/kailas-cloud/vetdir/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation       = domain.ErrValidation
	ErrInvalidID        = domain.ErrInvalidID
	ErrNotFound         = domain.ErrNotFound
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)

// ValidationError names the field a rejected input failed on.
type ValidationError = domain.ValidationError
