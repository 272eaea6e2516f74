package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

var (
	CHUNK_CLASS        = "DocumentChunk"
	CHUNK_CLASS_OBJECT = &models.Class{
		Class: CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "filename", DataType: []string{"text"}},
			{Name: "fingerprint", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "page", DataType: []string{"int"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		// Embeddings are computed client-side by the pipeline so query and
		// chunk vectors always come from the same model.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(config config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(config.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(config.Host, scheme+"://")
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if config.APIKey != "" {
		cfg.AuthConfig = auth.ApiKey{
			Value: config.APIKey,
		}
	}
	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	store := &WeaviateStore{client: client}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *WeaviateStore) ensureSchema(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get schema: %v", types.ErrStoreUnavailable, err)
	}
	for _, class := range schema.Classes {
		if class.Class == CHUNK_CLASS {
			return nil
		}
	}
	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s class: %v", types.ErrStoreUnavailable, CHUNK_CLASS, err)
	}
	return nil
}

// UpsertChunks replaces every record stored for fingerprint. Delete first so
// a shrunken document cannot leave stale chunks queryable.
func (s *WeaviateStore) UpsertChunks(ctx context.Context, fingerprint, filename string, chunks []types.DocumentChunk) error {
	if err := s.DeleteByFingerprint(ctx, fingerprint); err != nil {
		return err
	}

	now := time.Now().Unix()
	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"content":     chunks[j].Content,
				"filename":    filename,
				"fingerprint": fingerprint,
				"chunkIndex":  chunks[j].Index,
				"page":        chunks[j].Page,
				"createdAt":   now,
			}
			batcher = batcher.WithObjects(&models.Object{
				ID:         chunkObjectID(fingerprint, chunks[j].Index),
				Class:      CHUNK_CLASS,
				Properties: properties,
				Vector:     chunks[j].Embedding,
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return fmt.Errorf("%w: failed to insert batch %d-%d: %v", types.ErrStoreUnavailable, i, end, err)
		}
	}

	return nil
}

func (s *WeaviateStore) Query(ctx context.Context, embedding []float32, limit int) ([]types.ScoredChunk, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "filename"},
		{Name: "fingerprint"},
		{Name: "chunkIndex"},
		{Name: "page"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(embedding)

	result, err := s.client.GraphQL().Get().
		WithClassName(CHUNK_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreUnavailable, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: query failed: %v", types.ErrStoreUnavailable, result.Errors[0].Message)
	}

	var scored []types.ScoredChunk
	if data, ok := result.Data["Get"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok {
		for _, item := range data {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			chunk := types.ScoredChunk{
				Content:     stringProp(obj, "content"),
				Filename:    stringProp(obj, "filename"),
				Fingerprint: stringProp(obj, "fingerprint"),
				Index:       intProp(obj, "chunkIndex"),
				Page:        intProp(obj, "page"),
			}
			if additional, ok := obj["_additional"].(map[string]interface{}); ok {
				if id, ok := additional["id"].(string); ok {
					chunk.ID = id
				}
				if distance, ok := additional["distance"].(float64); ok {
					// Weaviate reports cosine distance, convert to similarity.
					chunk.Score = float32(1 - distance)
				}
			}
			scored = append(scored, chunk)
		}
	}
	return scored, nil
}

func (s *WeaviateStore) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	where := filters.Where().
		WithPath([]string{"fingerprint"}).
		WithOperator(filters.Equal).
		WithValueString(fingerprint)

	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(CHUNK_CLASS).
		WithWhere(where).
		WithOutput("minimal").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to delete chunks for %s: %v", types.ErrStoreUnavailable, fingerprint, err)
	}
	return nil
}

func (s *WeaviateStore) Count(ctx context.Context) (int, error) {
	result, err := s.client.GraphQL().Aggregate().
		WithClassName(CHUNK_CLASS).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrStoreUnavailable, err)
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("%w: aggregate failed: %v", types.ErrStoreUnavailable, result.Errors[0].Message)
	}

	if data, ok := result.Data["Aggregate"].(map[string]interface{})[CHUNK_CLASS].([]interface{}); ok && len(data) > 0 {
		if meta, ok := data[0].(map[string]interface{})["meta"].(map[string]interface{}); ok {
			if count, ok := meta["count"].(float64); ok {
				return int(count), nil
			}
		}
	}
	return 0, nil
}

func (s *WeaviateStore) Reset(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(CHUNK_CLASS).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to delete %s class: %v", types.ErrStoreUnavailable, CHUNK_CLASS, err)
	}
	err = s.client.Schema().ClassCreator().WithClass(CHUNK_CLASS_OBJECT).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s class: %v", types.ErrStoreUnavailable, CHUNK_CLASS, err)
	}
	return nil
}

// chunkObjectID derives a stable object id so re-upserting the same document
// overwrites rather than duplicates.
func chunkObjectID(fingerprint string, index int) strfmt.UUID {
	return strfmt.UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d", fingerprint, index))).String())
}

// Helper functions
func stringProp(obj map[string]interface{}, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func intProp(obj map[string]interface{}, key string) int {
	if v, ok := obj[key].(float64); ok {
		return int(v)
	}
	return 0
}
