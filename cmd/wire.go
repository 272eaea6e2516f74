package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/tieubaoca/docqa-be/config"
	"github.com/tieubaoca/docqa-be/database"
	"github.com/tieubaoca/docqa-be/repository"
	"github.com/tieubaoca/docqa-be/service"
)

// pipeline bundles the wired core so every subcommand builds it the same
// way.
type pipeline struct {
	config          *config.Config
	vectorDB        database.VectorDatabase
	documentService *service.DocumentService
	ragService      *service.RAGService
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	var vectorDB database.VectorDatabase
	switch cfg.VectorStore {
	case "weaviate":
		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Weaviate: %w", err)
		}
		vectorDB = store
	case "memory":
		vectorDB = database.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown vector store %q", cfg.VectorStore)
	}

	var cacheRepo repository.CacheRepo
	switch cfg.CacheStore {
	case "mongo":
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		cacheRepo = repository.NewCacheRepo(client.Database("docqa").Collection("cache_entries"))
	case "memory":
		log.Println("using in-memory cache store, entries will not survive a restart")
		cacheRepo = repository.NewMemoryCacheRepo()
	default:
		return nil, fmt.Errorf("unknown cache store %q", cfg.CacheStore)
	}

	var aiService service.AIService
	switch cfg.AIProvider {
	case "openai":
		aiService = service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel)
	case "gemini":
		gemini, err := service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini service: %w", err)
		}
		aiService = gemini
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}

	chunker, err := service.NewChunkerService(cfg.Chunking)
	if err != nil {
		return nil, err
	}

	cacheService := service.NewCacheService(cacheRepo)
	documentService := service.NewDocumentService(
		service.NewDocumentExtractor(),
		chunker,
		cacheService,
		vectorDB,
		aiService,
	)
	ragService := service.NewRAGService(aiService, vectorDB, cfg.Retrieval)

	return &pipeline{
		config:          cfg,
		vectorDB:        vectorDB,
		documentService: documentService,
		ragService:      ragService,
	}, nil
}
