package blobs

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory Repository used by tests and as a
// scratch store for dry runs. Safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]string

	// FailWrites, when set, makes Set and SetMany return the given
	// error. Tests use it to exercise persistence-failure paths.
	FailWrites error
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]string)}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[key], nil
}

func (r *MemoryRepository) Set(ctx context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return r.FailWrites
	}
	r.items[key] = value
	return nil
}

// SetMany is atomic: FailWrites is checked before any pair is stored.
func (r *MemoryRepository) SetMany(ctx context.Context, values map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return r.FailWrites
	}
	for key, value := range values {
		r.items[key] = value
	}
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]string)
	return nil
}
