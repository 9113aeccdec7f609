package port

import "context"

type IdempotencyStore interface {
	// Reserve claims a request id, returning false if it was already claimed.
	Reserve(ctx context.Context, key string) (bool, error)

	// Release frees a claimed request id so the request may be retried.
	Release(ctx context.Context, key string) error
}
