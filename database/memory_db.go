package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tieubaoca/docqa-be/types"
)

// MemoryStore is a brute-force cosine-similarity vector store. It backs the
// standalone mode (no Weaviate instance required) and keeps retrieval fully
// deterministic: ties are broken by insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []memoryRecord
}

type memoryRecord struct {
	id          string
	fingerprint string
	filename    string
	chunk       types.DocumentChunk
	embedding   []float32
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) UpsertChunks(ctx context.Context, fingerprint, filename string, chunks []types.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteLocked(fingerprint)
	for _, chunk := range chunks {
		embedding := make([]float32, len(chunk.Embedding))
		copy(embedding, chunk.Embedding)
		s.records = append(s.records, memoryRecord{
			id:          fmt.Sprintf("%s/%d", fingerprint, chunk.Index),
			fingerprint: fingerprint,
			filename:    filename,
			chunk:       chunk,
			embedding:   embedding,
		})
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, embedding []float32, limit int) ([]types.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	scored := make([]types.ScoredChunk, 0, len(s.records))
	for _, record := range s.records {
		scored = append(scored, types.ScoredChunk{
			ID:          record.id,
			Fingerprint: record.fingerprint,
			Filename:    record.filename,
			Index:       record.chunk.Index,
			Page:        record.chunk.Page,
			Content:     record.chunk.Content,
			Score:       cosineSimilarity(record.embedding, embedding),
		})
	}

	// Stable keeps insertion order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	return scored[:limit], nil
}

func (s *MemoryStore) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(fingerprint)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *MemoryStore) deleteLocked(fingerprint string) {
	kept := s.records[:0]
	for _, record := range s.records {
		if record.fingerprint != fingerprint {
			kept = append(kept, record)
		}
	}
	s.records = kept
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
