package metadata

import (
	"context"
)

// Repository is a flat key/value store. Get returns (nil, nil) for a missing
// key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
