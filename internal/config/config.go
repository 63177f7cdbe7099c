package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/router-for-me/calculator-api/internal/settings"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath     = "CONFIG_PATH"
	EnvDBConnection   = "DB_CONNECTION"
	EnvJWTSecret      = "JWT_SECRET"
	EnvJWTExpiry      = "JWT_EXPIRY"
	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvRedisAddr      = "RATE_LIMIT_REDIS_ADDR"
	EnvRedisPassword  = "RATE_LIMIT_REDIS_PASSWORD"
	defaultSQLiteDSN  = "calculator.db"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	defaultConfigFile = "./config.yaml"
)

// ErrMissingJWTSecret indicates no signing key was configured.
var ErrMissingJWTSecret = errors.New("missing jwt secret (set `jwt.secret` in config file or JWT_SECRET)")

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = defaultConfigFile
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// RateLimitConfig holds per-second request limits and the optional Redis backend.
type RateLimitConfig struct {
	Login         int    `yaml:"login"`
	Calculator    int    `yaml:"calculator"`
	RedisEnabled  bool   `yaml:"redis-enabled"`
	RedisAddr     string `yaml:"redis-addr"`
	RedisPassword string `yaml:"redis-password"`
	RedisDB       int    `yaml:"redis-db"`
	RedisPrefix   string `yaml:"redis-prefix"`
}

// LogConfig controls logrus level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the immutable process configuration built once at startup.
type Config struct {
	Port        int
	DatabaseDSN string
	JWT         JWTConfig
	Log         LogConfig
	RateLimit   RateLimitConfig
}

// fileConfig maps the YAML layout of the config file.
type fileConfig struct {
	Port        int    `yaml:"port"`
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	JWT struct {
		Secret string `yaml:"secret"`
		Expiry string `yaml:"expiry"`
	} `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	RateLimit RateLimitConfig `yaml:"rate-limit"`
}

// readFileConfig parses configPath. A missing file yields an empty config.
func readFileConfig(configPath string) (fileConfig, error) {
	var cfg fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if errors.Is(errRead, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("parse config file: %w", errUnmarshal)
	}
	return cfg, nil
}

// Load builds the process configuration from the config file and environment.
func Load(configPath string) (Config, error) {
	fileCfg, errRead := readFileConfig(configPath)
	if errRead != nil {
		return Config{}, errRead
	}

	dsn, errDSN := LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return Config{}, errDSN
	}
	jwtCfg, errJWT := LoadJWTConfig(configPath)
	if errJWT != nil {
		return Config{}, errJWT
	}
	if strings.TrimSpace(jwtCfg.Secret) == "" {
		return Config{}, ErrMissingJWTSecret
	}

	cfg := Config{
		Port:        fileCfg.Port,
		DatabaseDSN: dsn,
		JWT:         jwtCfg,
		Log:         fileCfg.Log,
		RateLimit:   fileCfg.RateLimit,
	}

	if portRaw := strings.TrimSpace(os.Getenv(EnvPort)); portRaw != "" {
		port, errParse := strconv.Atoi(portRaw)
		if errParse != nil {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvPort, portRaw)
		}
		cfg.Port = port
	}
	if cfg.Port == 0 {
		cfg.Port = settings.DefaultPort
	}

	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.Log.Level = level
	}
	if format := strings.TrimSpace(os.Getenv(EnvLogFormat)); format != "" {
		cfg.Log.Format = format
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if strings.TrimSpace(cfg.Log.Format) == "" {
		cfg.Log.Format = defaultLogFormat
	}

	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		cfg.RateLimit.RedisAddr = addr
		cfg.RateLimit.RedisEnabled = true
	}
	if password := os.Getenv(EnvRedisPassword); password != "" {
		cfg.RateLimit.RedisPassword = password
	}
	if cfg.RateLimit.Login < 0 {
		cfg.RateLimit.Login = settings.DefaultLoginRateLimit
	}
	if cfg.RateLimit.Calculator < 0 {
		cfg.RateLimit.Calculator = settings.DefaultCalculatorRateLimit
	}
	return cfg, nil
}

// LoadDatabaseDSN resolves the database DSN from env or the YAML config file,
// falling back to a local SQLite database.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	cfg, errRead := readFileConfig(configPath)
	if errRead != nil {
		return "", errRead
	}
	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return defaultSQLiteDSN, nil
}

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 30 * time.Minute

// LoadJWTConfig loads JWT settings from the YAML config file.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	result := JWTConfig{Expiry: defaultJWTExpiry}

	cfg, errRead := readFileConfig(configPath)
	if errRead == nil {
		result.Secret = cfg.JWT.Secret
		if expiry, ok := parseExpiry(cfg.JWT.Expiry); ok {
			result.Expiry = expiry
		}
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.Secret = secret
	}
	if expiry, ok := parseExpiry(os.Getenv(EnvJWTExpiry)); ok {
		result.Expiry = expiry
	}

	if result.Expiry <= 0 {
		result.Expiry = defaultJWTExpiry
	}
	return result, nil
}

// parseExpiry accepts a Go duration ("45m") or a bare number of minutes ("45").
func parseExpiry(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if minutes, errAtoi := strconv.Atoi(raw); errAtoi == nil {
		if minutes <= 0 {
			return 0, false
		}
		return time.Duration(minutes) * time.Minute, true
	}
	expiry, errParse := time.ParseDuration(raw)
	if errParse != nil || expiry <= 0 {
		return 0, false
	}
	return expiry, true
}
