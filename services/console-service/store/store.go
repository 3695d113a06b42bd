// store/store.go
package store

import (
	"context"
)

// KeyValueStore is the flat client-local storage the console persists its
// counters in. Get reports found=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
