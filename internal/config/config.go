package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds the service settings read from the environment.
type AppConfig struct {
	// DatabaseURL is the PostgreSQL connection string. Required.
	DatabaseURL string

	// GeminiAPIKey enables generative skill extraction when set. Optional;
	// without it extraction runs rules-only.
	GeminiAPIKey string

	// Embedding provider settings (OpenAI-compatible endpoint).
	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string
	EmbeddingDim     int

	// DataDir holds the jobs/courses/demo CV JSON corpus.
	DataDir string
	// EmbeddingsDir holds the persisted embedding matrices.
	EmbeddingsDir string
	// UploadDir holds uploaded CV files.
	UploadDir string
}

// NewAppConfig reads the application configuration from environment
// variables, applying defaults for everything except DATABASE_URL.
func NewAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		EmbeddingBaseURL: os.Getenv("EMBEDDING_BASE_URL"),
		EmbeddingAPIKey:  os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:   getenvDefault("EMBEDDING_MODEL", "BAAI/bge-m3"),
		DataDir:          getenvDefault("DATA_DIR", "data"),
		EmbeddingsDir:    getenvDefault("EMBEDDINGS_DIR", "embeddings"),
		UploadDir:        getenvDefault("UPLOAD_DIR", "uploads"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	dimStr := getenvDefault("EMBEDDING_DIM", "1024")
	dim, err := strconv.Atoi(dimStr)
	if err != nil || dim < 1 {
		return nil, fmt.Errorf("invalid EMBEDDING_DIM: %q", dimStr)
	}
	cfg.EmbeddingDim = dim

	return cfg, nil
}

// EmbeddingEnabled reports whether an embedding endpoint is configured.
func (c *AppConfig) EmbeddingEnabled() bool {
	return c.EmbeddingBaseURL != ""
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
