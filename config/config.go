package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string
	GinMode    string
	LogLevel   string

	// Database configuration
	DBDriver      string // postgres or sqlite
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Authentication
	TokenTTL time.Duration

	// CORS
	CORSAllowedOrigins string

	// Media storage
	S3BucketName string
	S3Region     string
	S3PresignTTL time.Duration

	// Write endpoint rate limiting
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// LoadConfig creates a new Config instance with values from the environment,
// an optional .env file and Docker secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the environment may be fully populated already.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort: getenv("SERVER_PORT", "8080"),
		ServerHost: getenv("SERVER_HOST", "0.0.0.0"),
		GinMode:    getenv("GIN_MODE", defaultGinMode()),
		LogLevel:   getenv("LOG_LEVEL", "info"),

		DBDriver:      getenv("DB_DRIVER", "postgres"),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    secretOrEnv("db_password", "DB_PASSWORD", ""),
		DBName:        getenv("DB_NAME", "recipes"),
		DBSSLMode:     getenv("DB_SSL_MODE", "disable"),
		SQLitePath:    getenv("SQLITE_PATH", "recipes.db"),
		MigrationsDir: getenv("MIGRATIONS_DIR", "migrations"),

		RedisHost:     getenv("REDIS_HOST", "localhost"),
		RedisPort:     getenv("REDIS_PORT", "6379"),
		RedisPassword: secretOrEnv("redis_password", "REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),
		RedisURL:      getenv("REDIS_URL", ""),

		TokenTTL: getdur("TOKEN_TTL", 24*time.Hour),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		S3BucketName: secretOrEnv("s3_bucket_name", "S3_BUCKET_NAME", ""),
		S3Region:     getenv("AWS_REGION", "us-east-1"),
		S3PresignTTL: getdur("S3_PRESIGN_TTL", 15*time.Minute),

		RateLimitWindow: getdur("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    getint("RATE_LIMIT_MAX", 30),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// PostgresDSN returns the key/value DSN used by the postgres drivers
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// CORSOrigins returns the allowed origins as a slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// secretOrEnv prefers a Docker secret over the environment variable
func secretOrEnv(secret, key, def string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return getenv(key, def)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
