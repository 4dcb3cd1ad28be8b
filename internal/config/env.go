package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvVars struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"dev"`
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`

	LLMProvider string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	LLMApiKey   string        `envconfig:"LLM_API_KEY"`
	LLMBaseURL  string        `envconfig:"LLM_BASE_URL"`
	LLMModel    string        `envconfig:"LLM_MODEL"`
	LLMTimeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"10s"`

	CacheSize       int  `envconfig:"CACHE_SIZE" default:"1000"`
	FallbackEnabled bool `envconfig:"FALLBACK_ENABLED" default:"false"`

	BatchLimit   int `envconfig:"BATCH_LIMIT" default:"100"`
	BatchWorkers int `envconfig:"BATCH_WORKERS" default:"4"`

	PatternsDir string `envconfig:"PATTERNS_DIR" default:"definitions"`

	// Gateway auth and rate limiting (disabled when empty/zero)
	APIKey     string        `envconfig:"API_KEY"`
	RateLimit  int           `envconfig:"RATE_LIMIT" default:"0"`
	RateWindow time.Duration `envconfig:"RATE_WINDOW" default:"1m"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadEnv reads a local .env file when present and resolves EnvVars.
func LoadEnv() (*EnvVars, error) {
	_ = godotenv.Load()

	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Validate checks the combinations envconfig tags cannot express.
func (v *EnvVars) Validate() error {
	switch v.LLMProvider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", v.LLMProvider)
	}
	// Ollama runs locally without credentials; remote providers need a key.
	if v.LLMProvider != "ollama" && v.LLMApiKey == "" {
		return fmt.Errorf("config: LLM_API_KEY is required for provider %q", v.LLMProvider)
	}
	if v.CacheSize < 0 {
		return fmt.Errorf("config: CACHE_SIZE must be >= 0")
	}
	if v.BatchLimit < 1 {
		return fmt.Errorf("config: BATCH_LIMIT must be >= 1")
	}
	if v.BatchWorkers < 1 {
		return fmt.Errorf("config: BATCH_WORKERS must be >= 1")
	}
	return nil
}
