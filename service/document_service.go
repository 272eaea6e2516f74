package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/types"
)

// Chunks are embedded in groups this size so one oversized document does not
// produce a single giant model request.
const EMBED_BATCH_SIZE = 32

// DocumentService runs the document-to-index pipeline: extract, chunk,
// embed, upsert, all deduplicated through the cache.
type DocumentService struct {
	extractor Extractor
	chunker   *ChunkerService
	cache     *CacheService
	vectorDB  database.VectorDatabase
	ai        AIService
}

func NewDocumentService(
	extractor Extractor,
	chunker *ChunkerService,
	cache *CacheService,
	vectorDB database.VectorDatabase,
	ai AIService,
) *DocumentService {
	return &DocumentService{
		extractor: extractor,
		chunker:   chunker,
		cache:     cache,
		vectorDB:  vectorDB,
		ai:        ai,
	}
}

// ProcessDocument is the ingest entry point. A cache hit skips extraction,
// embedding and indexing entirely. On a miss the whole pipeline runs inside
// the per-fingerprint flight and the cache entry is only persisted after the
// vector store upsert succeeded, a partial result is never committed.
func (s *DocumentService) ProcessDocument(ctx context.Context, data []byte, format types.DocumentFormat, filename string) (*types.ProcessingStats, error) {
	entry, cached, err := s.cache.GetOrCompute(ctx, data, format, func(fingerprint string) (*types.CacheEntry, error) {
		return s.computeEntry(ctx, data, format, filename, fingerprint)
	})
	if err != nil {
		return nil, err
	}

	if cached {
		log.Printf("document %s already processed as %s, serving from cache", filename, entry.Fingerprint)
	} else if err := s.evictSuperseded(ctx, entry); err != nil {
		return nil, err
	}

	return &types.ProcessingStats{
		Fingerprint: entry.Fingerprint,
		Filename:    entry.Filename,
		Format:      entry.Format,
		ChunkCount:  entry.ChunkCount,
		WordCount:   entry.WordCount,
		TotalPages:  entry.TotalPages,
		FailedPages: entry.FailedPages,
		Cached:      cached,
		Duration:    time.Duration(entry.DurationMs) * time.Millisecond,
	}, nil
}

func (s *DocumentService) computeEntry(ctx context.Context, data []byte, format types.DocumentFormat, filename, fingerprint string) (*types.CacheEntry, error) {
	started := time.Now()

	extracted, err := s.extractor.Extract(data, format)
	if err != nil {
		return nil, err
	}
	for _, failure := range extracted.FailedPages {
		log.Printf("document %s: page %d failed: %s", filename, failure.Page, failure.Reason)
	}

	chunks := s.chunker.ChunkSegments(extracted.Segments)

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if err := s.vectorDB.UpsertChunks(ctx, fingerprint, filename, chunks); err != nil {
		return nil, err
	}

	wordCount := 0
	for _, segment := range extracted.Segments {
		wordCount += len(strings.Fields(segment.Text))
	}

	return &types.CacheEntry{
		Fingerprint: fingerprint,
		Filename:    filename,
		Format:      format,
		ByteSize:    len(data),
		ChunkCount:  len(chunks),
		WordCount:   wordCount,
		TotalPages:  extracted.TotalPages,
		FailedPages: extracted.FailedPages,
		Chunks:      chunks,
		ProcessedAt: started.Unix(),
		DurationMs:  time.Since(started).Milliseconds(),
	}, nil
}

func (s *DocumentService) embedChunks(ctx context.Context, chunks []types.DocumentChunk) error {
	for i := 0; i < len(chunks); i += EMBED_BATCH_SIZE {
		end := i + EMBED_BATCH_SIZE
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			texts = append(texts, chunks[j].Content)
		}
		embeddings, err := s.ai.Embed(ctx, texts)
		if err != nil {
			return err
		}
		for j := i; j < end; j++ {
			chunks[j].Embedding = embeddings[j-i]
		}
	}
	return nil
}

// evictSuperseded removes earlier versions of the same file. Changed content
// means a new fingerprint, so without this the old version's chunks would
// stay queryable next to the new ones.
func (s *DocumentService) evictSuperseded(ctx context.Context, current *types.CacheEntry) error {
	entries, err := s.cache.List(ctx)
	if err != nil {
		return err
	}
	for _, old := range entries {
		if old.Filename != current.Filename || old.Fingerprint == current.Fingerprint {
			continue
		}
		log.Printf("document %s: evicting superseded version %s", current.Filename, old.Fingerprint)
		if err := s.DeleteDocument(ctx, old.Fingerprint); err != nil {
			return err
		}
	}
	return nil
}

// DeleteDocument evicts a cached document and removes its index records.
func (s *DocumentService) DeleteDocument(ctx context.Context, fingerprint string) error {
	if err := s.vectorDB.DeleteByFingerprint(ctx, fingerprint); err != nil {
		return err
	}
	return s.cache.Delete(ctx, fingerprint)
}

// ListDocuments returns the processed-document inventory without chunk
// payloads.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]types.CacheEntry, error) {
	return s.cache.List(ctx)
}

// Stats reports corpus totals across the cache and the index.
func (s *DocumentService) Stats(ctx context.Context) (*types.CorpusStats, error) {
	entries, err := s.cache.List(ctx)
	if err != nil {
		return nil, err
	}
	chunkCount, err := s.vectorDB.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &types.CorpusStats{
		TotalDocuments: len(entries),
		TotalChunks:    chunkCount,
	}, nil
}

// ClearAll drops the whole cache and resets the vector index.
func (s *DocumentService) ClearAll(ctx context.Context) error {
	if err := s.vectorDB.Reset(ctx); err != nil {
		return err
	}
	return s.cache.Clear(ctx)
}
