package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	minSecretKeyLength = 32
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrInsecureSecret = errors.New("insecure SECRET_KEY")
)

var placeholderSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port                 string `toml:"port"`
	Store                string `toml:"store"`
	DBPath               string `toml:"db_path"`
	RedisAddr            string `toml:"redis_addr"`
	RedisPassword        string `toml:"redis_password"`
	RedisDB              int    `toml:"redis_db"`
	SecretKey            string `toml:"secret_key"`
	LogLevel             string `toml:"log_level"`
	LogFormatJSON        bool   `toml:"log_format_json"`
	LogsPath             string `toml:"logs_path"`
	LogToStdout          bool   `toml:"log_to_stdout"`
	PredictionCacheMB    int    `toml:"prediction_cache_mb"`
	MergeAdjacentPeriods bool   `toml:"merge_adjacent_periods"`
	TZ                   string `toml:"tz"`
}

func Default() *Config {
	return &Config{
		Port:                 "8080",
		Store:                StoreSQLite,
		DBPath:               filepath.Join("data", "lunacycle.db"),
		RedisAddr:            "localhost:6379",
		LogLevel:             "info",
		LogToStdout:          true,
		PredictionCacheMB:    8,
		MergeAdjacentPeriods: true,
		TZ:                   "UTC",
	}
}

// Load layers the TOML file at path (optional), a .env file in the working
// directory and the process environment over the defaults, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
			}
			log.Debugf("config file %s not found, using defaults", path)
		}
	}

	if err := godotenv.Load(); err == nil {
		log.Debugln("loaded .env from working directory")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.Store = strings.ToLower(getEnv("STORE", c.Store))
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.SecretKey = getEnv("SECRET_KEY", c.SecretKey)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogsPath = getEnv("LOGS_PATH", c.LogsPath)
	c.TZ = getEnv("TZ", c.TZ)

	var err error
	if c.RedisDB, err = getEnvInt("REDIS_DB", c.RedisDB); err != nil {
		return err
	}
	if c.PredictionCacheMB, err = getEnvInt("PREDICTION_CACHE_MB", c.PredictionCacheMB); err != nil {
		return err
	}
	if c.LogFormatJSON, err = getEnvBool("LOG_FORMAT_JSON", c.LogFormatJSON); err != nil {
		return err
	}
	if c.LogToStdout, err = getEnvBool("LOG_TO_STDOUT", c.LogToStdout); err != nil {
		return err
	}
	if c.MergeAdjacentPeriods, err = getEnvBool("MERGE_ADJACENT_PERIODS", c.MergeAdjacentPeriods); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("%w: port %q", ErrInvalidConfig, c.Port)
	}
	switch c.Store {
	case StoreSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("%w: db_path is required for the sqlite store", ErrInvalidConfig)
		}
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.PredictionCacheMB < 0 {
		return fmt.Errorf("%w: prediction_cache_mb must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ResolveSecretKey returns the token signing key, refusing empty, placeholder
// and short values.
func (c *Config) ResolveSecretKey() (string, error) {
	secret := strings.TrimSpace(c.SecretKey)
	if secret == "" {
		return "", fmt.Errorf("%w: SECRET_KEY is required", ErrInsecureSecret)
	}
	if _, placeholder := placeholderSecrets[strings.ToLower(secret)]; placeholder {
		return "", fmt.Errorf("%w: SECRET_KEY uses a placeholder value", ErrInsecureSecret)
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("%w: SECRET_KEY must be at least %d characters", ErrInsecureSecret, minSecretKeyLength)
	}
	return secret, nil
}

func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.TZ)
	if err != nil {
		log.Warnf("invalid TZ %q, falling back to UTC", c.TZ)
		return time.UTC
	}
	return location
}

// LogFileName is empty when file logging is disabled.
func (c *Config) LogFileName() string {
	if strings.TrimSpace(c.LogsPath) == "" {
		return ""
	}
	return filepath.Join(c.LogsPath, "lunacycle.log")
}

func (c *Config) PredictionCacheBytes() int {
	return c.PredictionCacheMB * 1024 * 1024
}

func getEnv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, value)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, value)
	}
	return parsed, nil
}
