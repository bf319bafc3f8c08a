package counters

import "context"

type Repository interface {
	// IncrementAndRead advances the named counter by one and returns the
	// new value as a single atomic statement. It must never be realized as
	// a client-side read followed by a write.
	IncrementAndRead(ctx context.Context, name string) (int64, error)
}
