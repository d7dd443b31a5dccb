// Package memory implements an in-process blob transport for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/jobbook/internal/blob"
)

type Transport struct {
	mu   sync.RWMutex
	objs map[string][]byte
}

func New() *Transport {
	return &Transport{objs: make(map[string][]byte)}
}

func (t *Transport) Download(_ context.Context, path string) ([]byte, error) {
	t.mu.RLock()
	data, ok := t.objs[path]
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("download %s: %w", path, blob.ErrNotFound)
	}

	return clone(data), nil
}

func (t *Transport) Upload(_ context.Context, path string, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.objs[path] = clone(data)

	return nil
}

// Len returns the number of stored blobs.
func (t *Transport) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.objs)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}
