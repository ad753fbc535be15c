package health

import "context"

// Store reports whether the document store handle is initialized and reachable.
type Store interface {
	Available() bool
	Reason() error
	Ping(ctx context.Context) error
}
