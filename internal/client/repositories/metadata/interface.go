// Package metadata persists small named values of the client (the auth token
// slot among them) in the SQLite metadata table.
package metadata

import (
	"context"
)

// Repository is a string key/value store. Get reports ok=false for a
// missing key instead of returning an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
