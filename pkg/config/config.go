package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Task names used to key per-task sampling defaults. They match the
// entities.TaskKind values plus the follow-up suggestion pass of the FAQ flow.
const (
	TaskDescribe     = "describe"
	TaskRelated      = "related_specialties"
	TaskDistribution = "distribution_analysis"
	TaskTriage       = "symptom_triage"
	TaskSearch       = "semantic_search"
	TaskFaq          = "faq_turn"
	TaskFollowUp     = "faq_follow_up"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Completion CompletionConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int

	// WarmInterval is how often cached aggregates are refreshed. Zero
	// disables warming.
	WarmInterval time.Duration
}

// Sampling holds the sampling parameters sent with one completion call.
type Sampling struct {
	Temperature float64
	MaxTokens   int
}

// CompletionConfig holds the completion capability configuration.
type CompletionConfig struct {
	Provider        string
	APIKey          string
	Model           string
	GeminiAPIKey    string
	GeminiModel     string
	Timeout         time.Duration
	RateLimitRPM    int
	RateLimitBurst  int
	RetryAttempts   int
	UrgencyFallback string
	Tasks           map[string]Sampling
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// DefaultSampling returns the per-task sampling defaults.
func DefaultSampling() map[string]Sampling {
	return map[string]Sampling{
		TaskDescribe:     {Temperature: 0.7, MaxTokens: 300},
		TaskRelated:      {Temperature: 0.5, MaxTokens: 250},
		TaskDistribution: {Temperature: 0.6, MaxTokens: 350},
		TaskTriage:       {Temperature: 0.3, MaxTokens: 300},
		TaskSearch:       {Temperature: 0.4, MaxTokens: 250},
		TaskFaq:          {Temperature: 0.7, MaxTokens: 400},
		TaskFollowUp:     {Temperature: 0.6, MaxTokens: 150},
	}
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8000),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "provider_vault"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			WarmInterval: getEnvAsDuration("CACHE_WARM_INTERVAL", 10*time.Minute),
		},
		Completion: CompletionConfig{
			Provider:        strings.ToLower(getEnv("COMPLETION_PROVIDER", "openai")),
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			Model:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:         getEnvAsDuration("COMPLETION_TIMEOUT", 30*time.Second),
			RateLimitRPM:    getEnvAsInt("COMPLETION_RATE_LIMIT_RPM", 60),
			RateLimitBurst:  getEnvAsInt("COMPLETION_RATE_LIMIT_BURST", 5),
			RetryAttempts:   getEnvAsInt("COMPLETION_RETRY_ATTEMPTS", 2),
			UrgencyFallback: strings.ToLower(getEnv("TRIAGE_URGENCY_FALLBACK", "medium")),
			Tasks:           loadSampling(),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "provider-vault-ai"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "2.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.Completion.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown completion provider %q", c.Completion.Provider)
	}

	switch c.Completion.UrgencyFallback {
	case "low", "medium", "high", "emergency":
	default:
		return fmt.Errorf("invalid TRIAGE_URGENCY_FALLBACK %q", c.Completion.UrgencyFallback)
	}

	for task, s := range c.Completion.Tasks {
		if s.Temperature < 0 || s.Temperature > 1 {
			return fmt.Errorf("temperature for %s must be within [0, 1], got %v", task, s.Temperature)
		}
		if s.MaxTokens <= 0 {
			return fmt.Errorf("max tokens for %s must be positive, got %d", task, s.MaxTokens)
		}
	}

	if c.Completion.Timeout <= 0 {
		return fmt.Errorf("COMPLETION_TIMEOUT must be positive")
	}
	return nil
}

// SamplingFor returns the sampling parameters of a task, falling back to the
// built-in defaults for tasks missing from the map.
func (c *CompletionConfig) SamplingFor(task string) Sampling {
	if s, ok := c.Tasks[task]; ok {
		return s
	}
	return DefaultSampling()[task]
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadSampling() map[string]Sampling {
	tasks := DefaultSampling()
	for task, s := range tasks {
		prefix := "COMPLETION_" + strings.ToUpper(task)
		s.Temperature = getEnvAsFloat(prefix+"_TEMPERATURE", s.Temperature)
		s.MaxTokens = getEnvAsInt(prefix+"_MAX_TOKENS", s.MaxTokens)
		tasks[task] = s
	}
	return tasks
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
