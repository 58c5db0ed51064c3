// Package config loads the pipeline configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendGemini = "gemini"
	BackendOllama = "ollama"
	BackendOpenAI = "openai"

	DedupJaccard = "jaccard"
	DedupHash    = "hash"

	UnparsableSkip     = "skip"
	UnparsableFallback = "fallback"

	NoTemplateKeep = "keep"
	NoTemplateSkip = "skip"
)

type Config struct {
	// LLM settings
	LLMBackend    string // gemini | ollama | openai
	GeminiAPIKeys []string
	GeminiModel   string
	OllamaURL     string
	OllamaModel   string
	OpenAIAPIKey  string
	OpenAIModel   string

	// Per-credential admission control
	MaxCallsPerKeyPerMinute int

	// Template store settings
	DatabaseURL string

	// Ingestion settings
	SourcesConfigPath string
	NewsJSONDir       string // optional directory with scraper news_data_*.json files
	OutputDir         string

	// Dedup/ranking settings
	DedupStrategy       string // jaccard | hash
	SimilarityThreshold float64
	MinBuzzScore        int

	// Template matching
	TemplateMatchThreshold float64

	// Failure policies
	OnUnparsable string // skip | fallback
	OnNoTemplate string // keep | skip

	// App settings
	Debug               bool
	FetchTemplateAssets bool
	RequestTimeout      time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	CacheTTLHours  int
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		LLMBackend:              getEnvOrDefault("LLM_BACKEND", BackendGemini),
		GeminiModel:             getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash-lite"),
		OllamaURL:               getEnvOrDefault("OLLAMA_URL", "http://localhost:11434/api/generate"),
		OllamaModel:             getEnvOrDefault("OLLAMA_MODEL", "llama3.2:latest"),
		OpenAIModel:             getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		MaxCallsPerKeyPerMinute: getEnvIntOrDefault("MAX_CALLS_PER_KEY_PER_MINUTE", 10),
		SourcesConfigPath:       getEnvOrDefault("SOURCES_CONFIG_PATH", "configs/sources.yaml"),
		NewsJSONDir:             os.Getenv("NEWS_JSON_DIR"),
		OutputDir:               getEnvOrDefault("OUTPUT_DIR", "output"),
		DedupStrategy:           getEnvOrDefault("DEDUP_STRATEGY", DedupJaccard),
		SimilarityThreshold:     getEnvFloatOrDefault("SIMILARITY_THRESHOLD", 0.7),
		MinBuzzScore:            getEnvIntOrDefault("MIN_BUZZ_SCORE", 5),
		TemplateMatchThreshold:  getEnvFloatOrDefault("TEMPLATE_MATCH_THRESHOLD", 0.5),
		OnUnparsable:            getEnvOrDefault("ON_UNPARSABLE", UnparsableSkip),
		OnNoTemplate:            getEnvOrDefault("ON_NO_TEMPLATE", NoTemplateKeep),
		RequestTimeout:          30 * time.Second,
		RetryAttempts:           3,
		RetryDelay:              5 * time.Second,
		CacheTTLHours:           getEnvIntOrDefault("CACHE_TTL_HOURS", 48),
	}

	// Numbered keys first (GEMINI_API_KEY_1..4), single GEMINI_API_KEY as fallback
	for i := 1; i <= 4; i++ {
		if key := os.Getenv(fmt.Sprintf("GEMINI_API_KEY_%d", i)); key != "" {
			cfg.GeminiAPIKeys = append(cfg.GeminiAPIKeys, key)
		}
	}
	if len(cfg.GeminiAPIKeys) == 0 {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			cfg.GeminiAPIKeys = append(cfg.GeminiAPIKeys, key)
		}
	}

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.DatabaseURL = getEnvOrDefault("TEMPLATE_DB_URL", os.Getenv("DATABASE_URL"))

	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryAttempts = val
		}
	}
	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryDelay = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}
	if os.Getenv("FETCH_TEMPLATE_ASSETS") == "true" {
		cfg.FetchTemplateAssets = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Validate enforces the fatal configuration cases: the pipeline refuses to
// start without usable credentials or a reachable template store.
func (c *Config) Validate() error {
	switch c.LLMBackend {
	case BackendGemini:
		if len(c.GeminiAPIKeys) == 0 {
			return fmt.Errorf("no GEMINI_API_KEY_1..4 or GEMINI_API_KEY set")
		}
	case BackendOllama:
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for the ollama backend")
		}
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	default:
		return fmt.Errorf("LLM_BACKEND must be 'gemini', 'ollama' or 'openai'")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("TEMPLATE_DB_URL is required")
	}
	if c.DedupStrategy != DedupJaccard && c.DedupStrategy != DedupHash {
		return fmt.Errorf("DEDUP_STRATEGY must be 'jaccard' or 'hash'")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in (0,1]")
	}
	if c.TemplateMatchThreshold <= 0 || c.TemplateMatchThreshold > 1 {
		return fmt.Errorf("TEMPLATE_MATCH_THRESHOLD must be in (0,1]")
	}
	if c.MaxCallsPerKeyPerMinute <= 0 {
		return fmt.Errorf("MAX_CALLS_PER_KEY_PER_MINUTE must be positive")
	}
	if c.OnUnparsable != UnparsableSkip && c.OnUnparsable != UnparsableFallback {
		return fmt.Errorf("ON_UNPARSABLE must be 'skip' or 'fallback'")
	}
	if c.OnNoTemplate != NoTemplateKeep && c.OnNoTemplate != NoTemplateSkip {
		return fmt.Errorf("ON_NO_TEMPLATE must be 'keep' or 'skip'")
	}
	return nil
}
