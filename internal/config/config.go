package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Platform PlatformConfig
	Workflow WorkflowConfig
	Broker   BrokerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	AllowedOrigins        string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines how identity-provider bearer tokens are verified.
// Token issuance is the provider's job; we only validate its HS256 signature.
type AuthConfig struct {
	IdentityJWTSecret string
	ChatProvider      string
}

// PlatformConfig holds chat-platform gateway values.
type PlatformConfig struct {
	BotToken           string
	SupportChannelName string
	AdminChannelName   string
	TicketLogChannel   string
	DashboardURL       string
}

// WorkflowConfig tunes the ticket/report workflow core.
type WorkflowConfig struct {
	TicketCooldownSeconds   int
	TicketInactivitySeconds int
	CooldownBackend         string
}

// BrokerConfig holds the optional AMQP bridge settings.
type BrokerConfig struct {
	URL       string
	QueueName string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "moderation-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			AllowedOrigins:        getEnv("HTTP_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			IdentityJWTSecret: getEnv("IDENTITY_JWT_SECRET", "dev-secret"),
			ChatProvider:      getEnv("IDENTITY_CHAT_PROVIDER", "discord"),
		},
		Platform: PlatformConfig{
			BotToken:           os.Getenv("BOT_TOKEN"),
			SupportChannelName: getEnv("SUPPORT_CHANNEL_NAME", "report-an-issue"),
			AdminChannelName:   getEnv("ADMIN_CHANNEL_NAME", "admin-controls"),
			TicketLogChannel:   getEnv("TICKET_LOG_CHANNEL_NAME", "ticket-logs"),
			DashboardURL:       getEnv("DASHBOARD_URL", "http://localhost:5173"),
		},
		Workflow: WorkflowConfig{
			TicketCooldownSeconds:   getEnvAsInt("TICKET_COOLDOWN_SECONDS", 120),
			TicketInactivitySeconds: getEnvAsInt("TICKET_INACTIVITY_SECONDS", 1200),
			CooldownBackend:         getEnv("COOLDOWN_BACKEND", "memory"),
		},
		Broker: BrokerConfig{
			URL:       os.Getenv("AMQP_URL"),
			QueueName: getEnv("AMQP_QUEUE_NAME", "moderation.events"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TicketCooldown returns the minimum interval between ticket creations per user.
func (w WorkflowConfig) TicketCooldown() time.Duration {
	return time.Duration(w.TicketCooldownSeconds) * time.Second
}

// TicketInactivity returns the idle period after which a ticket auto-archives.
func (w WorkflowConfig) TicketInactivity() time.Duration {
	return time.Duration(w.TicketInactivitySeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
