package database

import (
	"context"

	"github.com/tieubaoca/docqa-be/types"
)

// VectorDatabase is the narrow interface the pipeline needs from the external
// vector index: replace-on-upsert by document fingerprint, similarity query,
// and removal by fingerprint. Implementations must wrap connectivity failures
// with types.ErrStoreUnavailable instead of returning empty results.
type VectorDatabase interface {
	// UpsertChunks removes every record previously stored for fingerprint and
	// inserts the given chunks, so a reprocessed document never leaves stale
	// chunks queryable.
	UpsertChunks(ctx context.Context, fingerprint, filename string, chunks []types.DocumentChunk) error

	// Query returns up to limit records ordered by descending similarity,
	// ties broken by insertion order.
	Query(ctx context.Context, embedding []float32, limit int) ([]types.ScoredChunk, error)

	// DeleteByFingerprint removes all records for one document.
	DeleteByFingerprint(ctx context.Context, fingerprint string) error

	// Count reports how many chunk records are currently stored.
	Count(ctx context.Context) (int, error)

	// Reset drops and recreates the collection.
	Reset(ctx context.Context) error
}
