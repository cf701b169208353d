// Package cache stores the derived announcement strings. Entries have no
// expiry; the announcement service overwrites or deletes them.
package cache

import "context"

// Cache is a string key/value store. Get reports ok=false for a missing key.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
