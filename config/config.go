package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store and session backends
const (
	StoreSQL   = "sql"
	StoreMongo = "mongo"

	SessionCookie = "cookie"
	SessionRedis  = "redis"
)

type Config struct {
	HTTPPort        string        `yaml:"http_port"`
	StoreBackend    string        `yaml:"store_backend"`
	DBDriver        string        `yaml:"db_driver"`
	DBDSN           string        `yaml:"db_dsn"`
	MongoURI        string        `yaml:"mongo_uri"`
	MongoDatabase   string        `yaml:"mongo_database"`
	SessionBackend  string        `yaml:"session_backend"`
	RedisAddr       string        `yaml:"redis_uri"`
	SessionSecret   string        `yaml:"session_secret"`
	SessionTTL      time.Duration `yaml:"-"`
	SessionTTLHours int           `yaml:"session_ttl_hours"`
	DefaultExamSize int           `yaml:"default_exam_size"`
	CORSOrigins     string        `yaml:"cors_allowed_origins"` // "*" serves same-origin sessions only; list origins for a cross-origin front end
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		HTTPPort:        "8080",
		StoreBackend:    StoreSQL,
		DBDriver:        "sqlite3",
		DBDSN:           "data/certprep.db",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "certprep",
		SessionBackend:  SessionCookie,
		RedisAddr:       "localhost:6379",
		SessionSecret:   "certprep-secret-key",
		SessionTTLHours: 24,
		DefaultExamSize: 10,
		CORSOrigins:     "*",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, a .env file and the process environment, in that order.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", getEnv("PORT", cfg.HTTPPort))
	cfg.StoreBackend = getEnv("STORE_BACKEND", cfg.StoreBackend)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.SessionBackend = getEnv("SESSION_BACKEND", cfg.SessionBackend)
	cfg.RedisAddr = getEnv("REDIS_URI", cfg.RedisAddr)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTLHours = getEnvInt("SESSION_TTL_HOURS", cfg.SessionTTLHours)
	cfg.DefaultExamSize = getEnvInt("DEFAULT_EXAM_SIZE", cfg.DefaultExamSize)
	cfg.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)

	// Remove redis:// prefix if present
	if len(cfg.RedisAddr) > 8 && cfg.RedisAddr[:8] == "redis://" {
		cfg.RedisAddr = cfg.RedisAddr[8:]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SessionTTL = time.Duration(cfg.SessionTTLHours) * time.Hour
	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQL, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionBackend {
	case SessionCookie, SessionRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.DefaultExamSize <= 0 {
		return fmt.Errorf("DEFAULT_EXAM_SIZE must be positive")
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}
