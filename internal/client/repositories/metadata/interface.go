// Package metadata is a small key/value table in the local database. The
// client keeps its persisted session record here.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key and a non-nil empty slice for a key stored with no value.
// Everything in the table belongs to the signed-in account, so Clear is how
// a full sign-out forgets it.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}
