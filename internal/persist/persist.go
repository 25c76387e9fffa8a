// Package persist gives a store a mapping-backed persistence lifecycle:
// rehydrate from the key/value backend before first read, write the full
// state back after every mutation.
//
// The persisted shape is a single JSON envelope per store. The envelope
// carries a schema version so a future layout change can migrate (or
// discard) old state instead of misreading it.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobilearn/appcore/internal/apperror"
	"github.com/mobilearn/appcore/internal/storage"
)

// SchemaVersion is stamped into every envelope written by this build.
const SchemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Container binds a state type to one storage key.
//
// Writes are awaited: Save returns only after the backend accepted the
// value, and the error is the caller's to log or retry. Reads that cannot
// reach the backend fall back to the provided default so the store keeps
// operating in memory for the session.
type Container[T any] struct {
	store storage.Store
	key   string
}

// NewContainer wraps key on the given backend.
func NewContainer[T any](store storage.Store, key string) *Container[T] {
	return &Container[T]{store: store, key: key}
}

// Key returns the storage key this container owns.
func (c *Container[T]) Key() string { return c.key }

// Load rehydrates the persisted state. The returned value is def when no
// state is stored, when the stored envelope has a different schema version,
// or when the backend is unavailable; in the last case the error is also
// returned so the caller can log the degraded mode.
func (c *Container[T]) Load(ctx context.Context, def T) (T, error) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return def, apperror.StorageUnavailable(
			fmt.Sprintf("decode key %q", c.key), err)
	}
	if env.Version != SchemaVersion {
		// Unknown layout: treat as no stored state rather than guessing.
		return def, nil
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return def, apperror.StorageUnavailable(
			fmt.Sprintf("decode key %q", c.key), err)
	}
	return value, nil
}

// Save serializes the full state and replaces the stored value.
func (c *Container[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("persist: encoding state for key %q: %w", c.key, err)
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return fmt.Errorf("persist: encoding envelope for key %q: %w", c.key, err)
	}
	return c.store.Put(ctx, c.key, raw)
}

// Clear removes the stored state.
func (c *Container[T]) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, c.key)
}
