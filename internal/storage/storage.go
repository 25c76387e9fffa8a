// Package storage defines the on-device key/value backend the persisted
// stores write through. Each store owns exactly one key; values are opaque
// serialized blobs with last-write-wins semantics.
package storage

import "context"

// Store is the persistence backend contract.
//
// Get reports found=false for a missing key without an error. Any failure
// to reach the backend is returned wrapped in apperror.ErrStorageUnavailable
// so callers can degrade to in-memory state instead of crashing.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keys under which the stores persist their state. No two stores share a
// key, so per-key replace-on-write is the only discipline needed.
const (
	KeyAuthStore    = "auth-store"
	KeyAdminStore   = "admin-store"
	KeyPaymentStore = "payment-store"
)
