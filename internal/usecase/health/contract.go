package health

import "context"

// Pinger checks a dependency's availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
