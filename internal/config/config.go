package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverNone   = "none"
	DriverDrive  = "drive"
)

type Config struct {
	APIPort        string
	AllowedOrigins []string
	GinMode        string
	LogLevel       string
	LogFormat      string

	JWTSecret    []byte
	SessionTTL   time.Duration
	CookieSecure bool

	StorageDriver string
	MongoURI      string
	MongoDatabase string

	SessionDriver string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BackupDriver        string
	BackupTimeout       time.Duration
	GoogleDriveFolderID string
	GoogleClientEmail   string
	GooglePrivateKey    string

	DefaultAdminUsername string
	DefaultAdminPassword string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		APIPort:        getEnv("API_PORT", "8080"),
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),

		SessionTTL:   time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24*7)) * time.Hour,
		CookieSecure: getEnvAsBool("COOKIE_SECURE", false),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "appointments"),

		SessionDriver: strings.ToLower(getEnv("SESSION_DRIVER", DriverMemory)),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		BackupDriver:        strings.ToLower(getEnv("BACKUP_DRIVER", DriverNone)),
		BackupTimeout:       time.Duration(getEnvAsInt("BACKUP_TIMEOUT_SECONDS", 30)) * time.Second,
		GoogleDriveFolderID: getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),
		GoogleClientEmail:   getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:    getEnv("GOOGLE_PRIVATE_KEY", ""),

		DefaultAdminUsername: getEnv("DEFAULT_ADMIN_USERNAME", "admin"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 10),
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	} else {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = []byte(hex.EncodeToString(b))
		log.Warn().Msg("JWT_SECRET is NOT SET; using a random secret, sessions end on restart")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverMongo:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.SessionDriver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", c.SessionDriver)
	}
	switch c.BackupDriver {
	case DriverNone, DriverDrive:
	default:
		return fmt.Errorf("unknown BACKUP_DRIVER %q", c.BackupDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
