package fraud

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	flags []Flag
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create stores a fraud flag record.
func (r *MemoryRepo) Create(ctx context.Context, flag Flag) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = append(r.flags, flag)
	return nil
}

// GetByEntity returns the most recent flag for an entity.
func (r *MemoryRepo) GetByEntity(ctx context.Context, entityType, entityID string) (Flag, error) {
	if err := ctx.Err(); err != nil {
		return Flag{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.flags) - 1; i >= 0; i-- {
		if r.flags[i].EntityType == entityType && r.flags[i].EntityID == entityID {
			return r.flags[i], nil
		}
	}
	return Flag{}, ErrNotFound
}

// Count returns the number of stored flags.
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.flags)
}

var _ Repo = (*MemoryRepo)(nil)
