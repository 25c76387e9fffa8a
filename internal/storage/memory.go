package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mobilearn/appcore/internal/apperror"
)

// Memory is a map-backed Store. It backs tests and serves as the fallback
// when the sqlite backend cannot be opened: the app keeps working for the
// current process, it just loses state on exit.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes Put/Delete fail with a storage-unavailable error.
	// Tests use it to exercise the degrade-to-memory paths.
	FailWrites bool
	// FailReads does the same for Get.
	FailReads bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailReads {
		return nil, false, errUnavailable("get", key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errUnavailable("put", key)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errUnavailable("delete", key)
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

func errUnavailable(op, key string) error {
	return apperror.StorageUnavailable(
		fmt.Sprintf("%s key %q", op, key),
		errors.New("simulated backend failure"),
	)
}
