package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	pkgRetry "github.com/botforge/chatbot-backend/internal/pkg/retry"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	EmbeddingsCfg EmbeddingsConfig `envPrefix:"EMBEDDINGS_"`
	LLMCfg        LLMConfig        `envPrefix:"LLM_"`
	AuthCfg       AuthConnectorConfig `envPrefix:"AUTH_"`

	// Local storage configurations
	VectorStoreCfg VectorStoreConfig `envPrefix:"VECTOR_STORE_"`
	BlobStoreCfg   BlobStoreConfig   `envPrefix:"BLOB_STORE_"`

	// Chat configuration
	ChatCfg ChatConfig `envPrefix:"CHAT_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// EmbeddingsConfig configures the embedding model endpoint.
type EmbeddingsConfig struct {
	BaseURL string               `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model   string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	APIKey  string               `env:"API_KEY"`
	Retry   pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// LLMConfig configures the chat completion endpoint.
type LLMConfig struct {
	BaseURL       string `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey        string `env:"API_KEY"`
	DefaultModel  string `env:"DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	MaxToolRounds int    `env:"MAX_TOOL_ROUNDS" envDefault:"5"`
}

// VectorStoreConfig configures the embedded vector database.
type VectorStoreConfig struct {
	Path     string `env:"PATH,notEmpty"`
	Compress bool   `env:"COMPRESS" envDefault:"false"`
}

// BlobStoreConfig configures the file blob store.
type BlobStoreConfig struct {
	Root string `env:"ROOT,notEmpty"`
}

// ChatConfig holds chat hot-path settings.
type ChatConfig struct {
	ConfigCacheTTL     time.Duration `env:"CONFIG_CACHE_TTL" envDefault:"5m"`
	ConfigCacheCleanup time.Duration `env:"CONFIG_CACHE_CLEANUP" envDefault:"10m"`
	RetrievalTopK      int           `env:"RETRIEVAL_TOP_K" envDefault:"5"`
}

// AuthConnectorConfig configures the session introspection service.
type AuthConnectorConfig struct {
	HTTPClientConfig
	IntrospectEndpoint string               `env:"INTROSPECT_ENDPOINT,notEmpty"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE,notEmpty"`   // per file
	MaxTotalSize  int64 `env:"MAX_TOTAL_SIZE,notEmpty"`  // per request
	MaxFileCount  int   `env:"MAX_FILE_COUNT,notEmpty"`  // per request
	MaxImageSize  int64 `env:"MAX_IMAGE_SIZE,notEmpty"`  // chatbot picture
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE,notEmpty"` // multipart memory limit
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.LLMCfg.MaxToolRounds < 1 || cfg.LLMCfg.MaxToolRounds > 20 {
		errs = append(errs, fmt.Sprintf("LLM_MAX_TOOL_ROUNDS must be between 1 and 20, got %d", cfg.LLMCfg.MaxToolRounds))
	}

	if cfg.ChatCfg.RetrievalTopK < 1 || cfg.ChatCfg.RetrievalTopK > 50 {
		errs = append(errs, fmt.Sprintf("CHAT_RETRIEVAL_TOP_K must be between 1 and 50, got %d", cfg.ChatCfg.RetrievalTopK))
	}

	// Real connectors need credentials; mocks run without them.
	if !cfg.EnableMocks {
		if cfg.EmbeddingsCfg.APIKey == "" {
			errs = append(errs, "EMBEDDINGS_API_KEY is required when mocks are disabled")
		}
		if cfg.LLMCfg.APIKey == "" {
			errs = append(errs, "LLM_API_KEY is required when mocks are disabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
