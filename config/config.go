package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	ResetToken ResetTokenConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	S3         S3Config
	SMTP       SMTPConfig
	Bootstrap  BootstrapConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig configures the session token carried in the session cookie.
type JWTConfig struct {
	Secret         string
	SessionExpiry  time.Duration
	CookieName     string
	CookieSecure   bool
	RevalidateRole bool
}

type ResetTokenConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	Backend       string // memory, redis
	Window        time.Duration
	MaxRequests   int
	MaxKeys       int
	SweepSchedule string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	Endpoint        string // S3-compatible endpoint (MinIO, localstack); empty for AWS
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
	ResetURL string // frontend page receiving ?email=&token=
}

// BootstrapConfig holds the superadmin account created on first migration.
type BootstrapConfig struct {
	SuperadminEmail    string
	SuperadminPassword string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			TrustedProxies: parseSlice(getEnv("TRUSTED_PROXIES", "")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "jobnest"),
			Password: getEnv("DB_PASSWORD", "jobnest"),
			DBName:   getEnv("DB_NAME", "jobnest"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "your-secret-key"),
			SessionExpiry:  parseDuration(getEnv("SESSION_EXPIRY", "15m"), 15*time.Minute),
			CookieName:     getEnv("SESSION_COOKIE_NAME", "session"),
			CookieSecure:   parseBool(getEnv("SESSION_COOKIE_SECURE", "false")),
			RevalidateRole: parseBool(getEnv("SESSION_REVALIDATE_ROLE", "true")),
		},
		ResetToken: ResetTokenConfig{
			TTL: parseDuration(getEnv("RESET_TOKEN_TTL", "1h"), time.Hour),
		},
		RateLimit: RateLimitConfig{
			Backend:       getEnv("RATE_LIMIT_BACKEND", "memory"),
			Window:        parseDuration(getEnv("RATE_LIMIT_WINDOW", "60s"), time.Minute),
			MaxRequests:   parseInt(getEnv("RATE_LIMIT_MAX_REQUESTS", "20"), 20),
			MaxKeys:       parseInt(getEnv("RATE_LIMIT_MAX_KEYS", "100000"), 100000),
			SweepSchedule: getEnv("RATE_LIMIT_SWEEP_SCHEDULE", "@every 1m"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "jobnest-documents"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			From:     getEnv("SMTP_EMAIL", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			ResetURL: getEnv("PASSWORD_RESET_URL", "http://localhost:3000/reset-password"),
		},
		Bootstrap: BootstrapConfig{
			SuperadminEmail:    getEnv("SUPERADMIN_EMAIL", ""),
			SuperadminPassword: getEnv("SUPERADMIN_PASSWORD", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the rate limiter and token lifecycle cannot run with.
func (c *Config) Validate() error {
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window)
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.Backend != "memory" && c.RateLimit.Backend != "redis" {
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend)
	}
	if c.ResetToken.TTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive, got %s", c.ResetToken.TTL)
	}
	if c.Server.Environment == "production" && c.JWT.Secret == "your-secret-key" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
