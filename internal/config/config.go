// ABOUTME: Centralized configuration for the newschat pipeline and server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for ingestion and serving
type Config struct {
	// Astra DB settings
	DBNamespace  string
	DBCollection string
	DBEndpoint   string
	DBToken      string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Pipeline settings
	VectorDimension  int
	SimilarityMetric string
	TopK             int
	ChunkSize        int
	ChunkOverlap     int

	// Server settings
	ListenAddr string
}

// Load reads configuration from environment variables. A missing required
// variable is a fatal condition: no request may be served without it.
func Load() (*Config, error) {
	cfg := &Config{
		DBNamespace:  os.Getenv("ASTRA_DB_NAMESPACE"),
		DBCollection: os.Getenv("ASTRA_DB_COLLECTION"),
		DBEndpoint:   os.Getenv("ASTRA_DB_API_ENDPOINT"),
		DBToken:      os.Getenv("ASTRA_DB_APPLICATION_TOKEN"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),

		ChatModel:      getEnv("NEWSCHAT_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("NEWSCHAT_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		VectorDimension:  getEnvInt("VECTOR_DIMENSION", 768),
		SimilarityMetric: getEnv("SIMILARITY_METRIC", "dot_product"),
		TopK:             getEnvInt("RETRIEVAL_TOP_K", 10),
		ChunkSize:        getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap:     getEnvInt("CHUNK_OVERLAP", 100),

		ListenAddr: getEnv("NEWSCHAT_ADDR", ":8080"),
	}

	return cfg, cfg.Validate()
}

// Validate checks required variables and value ranges
func (c *Config) Validate() error {
	var missing []string
	for _, v := range []struct{ name, value string }{
		{"ASTRA_DB_NAMESPACE", c.DBNamespace},
		{"ASTRA_DB_COLLECTION", c.DBCollection},
		{"ASTRA_DB_API_ENDPOINT", c.DBEndpoint},
		{"ASTRA_DB_APPLICATION_TOKEN", c.DBToken},
		{"OPENAI_API_KEY", c.OpenAIKey},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("RETRIEVAL_TOP_K must be positive, got %d", c.TopK)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
