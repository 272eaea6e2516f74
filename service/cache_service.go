package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/tieubaoca/docqa-be/repository"
	"github.com/tieubaoca/docqa-be/types"
	"golang.org/x/sync/singleflight"
)

// CacheService deduplicates document processing by content fingerprint.
// Identical bytes under the same declared format are the same document and
// are never re-extracted, re-embedded, or re-indexed.
type CacheService struct {
	repo  repository.CacheRepo
	group singleflight.Group
}

func NewCacheService(repo repository.CacheRepo) *CacheService {
	return &CacheService{
		repo: repo,
	}
}

// Fingerprint hashes the declared format into the key domain alongside the
// raw bytes, the same bytes uploaded as a different format must not collide.
func Fingerprint(data []byte, format types.DocumentFormat) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GetOrCompute returns the stored entry for the document's fingerprint, or
// runs compute and persists its result. The singleflight group guarantees at
// most one in-flight compute per fingerprint, concurrent callers share the
// first caller's result. A failed compute stores nothing, the fingerprint
// stays eligible for retry.
func (s *CacheService) GetOrCompute(
	ctx context.Context,
	data []byte,
	format types.DocumentFormat,
	compute func(fingerprint string) (*types.CacheEntry, error),
) (*types.CacheEntry, bool, error) {
	fingerprint := Fingerprint(data, format)

	entry, err := s.repo.Get(ctx, fingerprint)
	if err != nil {
		return nil, false, err
	}
	if entry != nil {
		return entry, true, nil
	}

	result, err, _ := s.group.Do(fingerprint, func() (interface{}, error) {
		// Re-check under the flight, another caller may have just stored it.
		entry, err := s.repo.Get(ctx, fingerprint)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}

		computed, err := compute(fingerprint)
		if err != nil {
			return nil, err
		}
		computed.Fingerprint = fingerprint
		if err := s.repo.Put(ctx, computed); err != nil {
			return nil, err
		}
		return computed, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.(*types.CacheEntry), false, nil
}

func (s *CacheService) Get(ctx context.Context, fingerprint string) (*types.CacheEntry, error) {
	return s.repo.Get(ctx, fingerprint)
}

func (s *CacheService) Delete(ctx context.Context, fingerprint string) error {
	return s.repo.Delete(ctx, fingerprint)
}

func (s *CacheService) List(ctx context.Context) ([]types.CacheEntry, error) {
	return s.repo.List(ctx)
}

func (s *CacheService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
