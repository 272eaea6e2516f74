package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/tieubaoca/docqa-be/types"
)

// memoryCacheRepo keeps cache entries in process memory. Used by the
// standalone CLI mode and by tests, entries do not survive a restart.
type memoryCacheRepo struct {
	mu      sync.RWMutex
	entries map[string]types.CacheEntry
}

func NewMemoryCacheRepo() CacheRepo {
	return &memoryCacheRepo{
		entries: make(map[string]types.CacheEntry),
	}
}

func (r *memoryCacheRepo) Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[fingerprint]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *memoryCacheRepo) Put(ctx context.Context, entry *types.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Fingerprint] = *entry
	return nil
}

func (r *memoryCacheRepo) Delete(ctx context.Context, fingerprint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, fingerprint)
	return nil
}

func (r *memoryCacheRepo) List(ctx context.Context) ([]types.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]types.CacheEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entry.Chunks = nil
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProcessedAt < entries[j].ProcessedAt
	})
	return entries, nil
}

func (r *memoryCacheRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]types.CacheEntry)
	return nil
}
