package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Analyst  AnalystConfig
	Feedback FeedbackConfig
	Auth     AuthConfig
	Render   RenderConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AnalystLogFilePath string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
	SessionTTL         time.Duration
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
	// Warehouse is where generated SQL runs. Empty means the durable store connection.
	WarehouseConnection string
}

type AnalystConfig struct {
	BaseURL      string
	EndpointPath string
	Token        string
	TokenType    string
	Timeout      time.Duration
}

type FeedbackConfig struct {
	SharedUsername       string
	DefaultLang          string
	KeyQuestionLimit     int
	PopularQuestionLimit int
	CacheTTL             time.Duration
}

type AuthConfig struct {
	// JWTSecret enables reading the username claim of a bearer token issued by the host runtime
	JWTSecret      string
	IdentityHeader string
}

type RenderConfig struct {
	MaxPreviewRows int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AnalystLogFilePath: getEnv("ANALYST_LOG_FILE_PATH", "logs/analyst.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", 1*time.Hour),
		},
		Database: DatabaseConfig{
			Driver:              getEnv("DB_DRIVER", "postgres"),
			Connection:          getEnv("DB_CONNECTION_STRING", ""),
			WarehouseConnection: getEnv("WAREHOUSE_CONNECTION_STRING", ""),
		},
		Analyst: AnalystConfig{
			BaseURL:      getEnv("ANALYST_BASE_URL", ""),
			EndpointPath: getEnv("ANALYST_ENDPOINT_PATH", "/api/v2/cortex/analyst/message"),
			Token:        getEnv("ANALYST_TOKEN", ""),
			TokenType:    getEnv("ANALYST_TOKEN_TYPE", "OAUTH"),
			Timeout:      time.Duration(getEnvAsInt("ANALYST_TIMEOUT_MS", 30000)) * time.Millisecond,
		},
		Feedback: FeedbackConfig{
			SharedUsername:       getEnv("SHARED_BOOKMARK_USERNAME", "ALL"),
			DefaultLang:          getEnv("BOOKMARK_DEFAULT_LANG", "FR"),
			KeyQuestionLimit:     getEnvAsInt("KEY_QUESTION_LIMIT", 6),
			PopularQuestionLimit: getEnvAsInt("POPULAR_QUESTION_LIMIT", 4),
			CacheTTL:             getEnvAsDuration("FEEDBACK_CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			IdentityHeader: getEnv("IDENTITY_HEADER", "X-Remote-User"),
		},
		Render: RenderConfig{
			MaxPreviewRows: getEnvAsInt("RENDER_MAX_ROWS", 1000),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "cortex-analyst-be"),
		},
	}
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
