package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the due-diligence API server.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Collectors CollectorsConfig
	AI         AIConfig
	Pipeline   PipelineConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsDir   string
}

type RedisConfig struct {
	URL string
}

type CacheConfig struct {
	LocalMaxEntries int
	LocalTTLCap     time.Duration
}

type CollectorsConfig struct {
	DinumBaseURL      string
	InseeBaseURL      string
	InseeAPIKey       string
	InfogreffeBaseURL string
	BodaccBaseURL     string
	NewsBaseURL       string
	NewsAPIKey        string
	Timeout           time.Duration
}

type AIConfig struct {
	Provider         string
	InferenceTimeout time.Duration
	Gemini           GeminiConfig
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
}

type PipelineConfig struct {
	PhaseTimeout time.Duration
	JobRetention time.Duration
}

var validProviders = map[string]bool{
	"gemini": true,
	"mock":   true,
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value
// is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("DD_PORT", 8080),
			Env:  envString("DD_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsDir:   envString("DATABASE_MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Cache: CacheConfig{
			LocalMaxEntries: envInt("CACHE_LOCAL_MAX_ENTRIES", 2048),
			LocalTTLCap:     envDuration("CACHE_LOCAL_TTL_CAP", 5*time.Minute),
		},
		Collectors: CollectorsConfig{
			DinumBaseURL:      envString("DINUM_API_URL", "https://recherche-entreprises.api.gouv.fr"),
			InseeBaseURL:      envString("INSEE_API_URL", "https://api.insee.fr/entreprises/sirene/V3.11"),
			InseeAPIKey:       os.Getenv("INSEE_API_KEY"),
			InfogreffeBaseURL: envString("INFOGREFFE_API_URL", "https://opendata-rncs.infogreffe.fr/api/v1"),
			BodaccBaseURL:     envString("BODACC_API_URL", "https://bodacc-datadila.opendatasoft.com/api/v2"),
			NewsBaseURL:       envString("NEWS_API_URL", "https://newsapi.org/v2"),
			NewsAPIKey:        os.Getenv("NEWS_API_KEY"),
			Timeout:           envDuration("COLLECTOR_TIMEOUT", 15*time.Second),
		},
		AI: AIConfig{
			Provider:         os.Getenv("AI_PROVIDER"),
			InferenceTimeout: envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 60*time.Second),
			Gemini: GeminiConfig{
				APIKey:         os.Getenv("GEMINI_API_KEY"),
				Model:          envString("GEMINI_MODEL", "gemini-1.5-flash"),
				EmbeddingModel: envString("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			},
		},
		Pipeline: PipelineConfig{
			PhaseTimeout: envDuration("PIPELINE_PHASE_TIMEOUT", 20*time.Second),
			JobRetention: envDuration("PIPELINE_JOB_RETENTION", 30*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	// DATABASE_URL is optional: without it the server runs with the
	// in-memory chunk store and retrieval does not survive restarts.

	for name, u := range map[string]string{
		"DINUM_API_URL":      c.Collectors.DinumBaseURL,
		"INSEE_API_URL":      c.Collectors.InseeBaseURL,
		"INFOGREFFE_API_URL": c.Collectors.InfogreffeBaseURL,
		"BODACC_API_URL":     c.Collectors.BodaccBaseURL,
		"NEWS_API_URL":       c.Collectors.NewsBaseURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must start with http:// or https://, got %q", name, u)
		}
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of gemini, mock; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "gemini" && c.AI.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is gemini")
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
