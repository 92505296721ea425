package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Search   SearchConfig
	Safety   SafetyConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "none"
	OllamaBaseURL     string
	EmbeddingModel    string
	EmbeddingRetries  int
	LLMProvider       string // "ollama", "openai", "huggingface"
	LLMModel          string
	LLMBaseURL        string
	LLMAPIKey         string
}

type SearchConfig struct {
	VectorWeight float64
	TextWeight   float64
	MinScore     float64
	SafetyFirst  bool
	TopK         int
}

type SafetyConfig struct {
	// Empty means the built-in trigger phrase list.
	AllergyTriggers []string
}

type SessionConfig struct {
	TTLMinutes  int
	MaxTurns    int
	RedisPrefix string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingRetries:  getEnvAsInt("EMBEDDING_MAX_RETRIES", 3),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		},
		Search: SearchConfig{
			VectorWeight: getEnvAsFloat("SEARCH_VECTOR_WEIGHT", 0.6),
			TextWeight:   getEnvAsFloat("SEARCH_TEXT_WEIGHT", 0.4),
			MinScore:     getEnvAsFloat("SEARCH_MIN_SCORE", 0.05),
			SafetyFirst:  getEnvAsBool("SEARCH_SAFETY_FIRST", true),
			TopK:         getEnvAsInt("SEARCH_TOP_K", 10),
		},
		Safety: SafetyConfig{
			AllergyTriggers: getEnvAsList("ALLERGY_TRIGGER_PHRASES"),
		},
		Session: SessionConfig{
			TTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
			MaxTurns:    getEnvAsInt("SESSION_MAX_TURNS", 20),
			RedisPrefix: getEnv("SESSION_REDIS_PREFIX", "chef:turns"),
		},
	}

	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value; empty entries are dropped.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
