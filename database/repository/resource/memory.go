package resourceRepo

import (
	"context"
	"fmt"
	"sync"

	"reservo/database/repository"
	"reservo/models"
)

// MemoryResourceRepo keeps resources in process. It backs the "memory"
// storage driver and the engine tests.
type MemoryResourceRepo struct {
	mu        sync.RWMutex
	resources map[string]models.Resource
}

func NewMemoryResourceRepo(resources ...models.Resource) *MemoryResourceRepo {
	r := &MemoryResourceRepo{resources: make(map[string]models.Resource)}
	for _, res := range resources {
		r.Put(res)
	}
	return r
}

// Put stores a copy of res, replacing any resource with the same id.
func (r *MemoryResourceRepo) Put(res models.Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[res.ID] = cloneResource(res)
}

func (r *MemoryResourceRepo) GetByID(_ context.Context, resourceID string) (*models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.resources[resourceID]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", resourceID, repository.ErrNotFound)
	}
	out := cloneResource(res)
	return &out, nil
}

func (r *MemoryResourceRepo) UpdateLedger(_ context.Context, resourceID string, expectedVersion int, entries []models.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.resources[resourceID]
	if !ok {
		return fmt.Errorf("resource %s: %w", resourceID, repository.ErrNotFound)
	}
	if res.LedgerVersion != expectedVersion {
		return fmt.Errorf("resource %s at version %d: %w", resourceID, expectedVersion, repository.ErrVersionConflict)
	}
	res.Ledger = append([]models.LedgerEntry{}, entries...)
	res.LedgerVersion++
	r.resources[resourceID] = res
	return nil
}

func (r *MemoryResourceRepo) EnsureIndexes(context.Context) error { return nil }

func cloneResource(res models.Resource) models.Resource {
	res.Slots = append([]models.Slot(nil), res.Slots...)
	res.Ledger = append([]models.LedgerEntry(nil), res.Ledger...)
	return res
}
