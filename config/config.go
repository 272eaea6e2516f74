package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/tieubaoca/docqa-be/types"
)

type Config struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`

	// AI model host. Provider is "openai" (any OpenAI-compatible local host,
	// e.g. LM Studio or Ollama) or "gemini".
	AIProvider     string   `mapstructure:"ai_provider"`
	AIEndpoint     string   `mapstructure:"ai_endpoint"`
	Model          string   `mapstructure:"model"`
	EmbeddingModel string   `mapstructure:"embedding_model"`
	OpenAIAPIKey   string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  []string `mapstructure:"GEMINI_API_KEYS"`

	Chunking  types.ChunkingConfig  `mapstructure:"chunking"`
	Retrieval types.RetrievalConfig `mapstructure:"retrieval"`

	// VectorStore is "weaviate" or "memory".
	VectorStore         string              `mapstructure:"vector_store"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`

	// CacheStore is "mongo" or "memory".
	CacheStore string `mapstructure:"cache_store"`
	MongoURI   string `mapstructure:"MONGODB_URI"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("ai_endpoint", "http://localhost:11434/v1")
	v.SetDefault("chunking.target_size", 1000)
	v.SetDefault("chunking.overlap", 200)
	v.SetDefault("retrieval.top_k", 5)
	v.SetDefault("retrieval.max_context_units", 8000)
	v.SetDefault("vector_store", "weaviate")
	v.SetDefault("cache_store", "mongo")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEYS")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
