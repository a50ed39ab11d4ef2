package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Env      string         `yaml:"env"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
	Auth     AuthConfig     `yaml:"auth"`
	Prefs    PrefsConfig    `yaml:"prefs"`
	Redis    RedisConfig    `yaml:"redis"`
	Dev      DevConfig      `yaml:"dev"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level     string `yaml:"level"`
	AddSource bool   `yaml:"add_source"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// RemoteConfig points at the backends the service clients talk to.
type RemoteConfig struct {
	BaseURL      string        `yaml:"base_url"`       // primary product/order backend
	GRPCAddress  string        `yaml:"grpc_address"`   // optional gRPC health endpoint of the order backend
	PriceBaseURL string        `yaml:"price_base_url"` // third-party price comparison API
	PriceAPIKey  string        `yaml:"price_api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"` // signs local session tokens
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// PrefsConfig selects where key/value preferences live: "sqlite" or "redis".
type PrefsConfig struct {
	Backend string `yaml:"backend"`
}

// RedisConfig is used when Prefs.Backend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DevConfig configures cmd/devbackend.
type DevConfig struct {
	Address     string `yaml:"address"`
	GRPCAddress string `yaml:"grpc_address"` // empty disables the health endpoint
}

// Load loads configuration from environment variables with sensible defaults,
// optionally overlaid on a YAML file named by CONFIG_FILE. JWT_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	cfg := &Config{
		Env:      "dev",
		Log:      LogConfig{Level: "info"},
		Database: DatabaseConfig{Path: "shop.db"},
		Remote: RemoteConfig{
			BaseURL:      "http://localhost:8080/api",
			PriceBaseURL: "http://localhost:8080/price",
			Timeout:      10 * time.Second,
		},
		Auth:  AuthConfig{JWTSecret: defaultSecret, SessionTTL: 30 * 24 * time.Hour},
		Prefs: PrefsConfig{Backend: "sqlite"},
		Redis: RedisConfig{Addr: "localhost:6379", Prefix: "shop:prefs:"},
		Dev:   DevConfig{Address: ":8080"},
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	switch cfg.Prefs.Backend {
	case "sqlite", "redis", "memory":
	default:
		return nil, fmt.Errorf("PREFS_BACKEND must be sqlite, redis or memory, got %q", cfg.Prefs.Backend)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides file/default values with any variables that are set.
func applyEnv(cfg *Config) error {
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Remote.BaseURL = getEnv("API_BASE_URL", cfg.Remote.BaseURL)
	cfg.Remote.GRPCAddress = getEnv("API_GRPC_ADDRESS", cfg.Remote.GRPCAddress)
	cfg.Remote.PriceBaseURL = getEnv("PRICE_API_BASE_URL", cfg.Remote.PriceBaseURL)
	cfg.Remote.PriceAPIKey = getEnv("PRICE_API_KEY", cfg.Remote.PriceAPIKey)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Prefs.Backend = getEnv("PREFS_BACKEND", cfg.Prefs.Backend)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Dev.Address = getEnv("DEV_ADDRESS", cfg.Dev.Address)
	cfg.Dev.GRPCAddress = getEnv("DEV_GRPC_ADDRESS", cfg.Dev.GRPCAddress)

	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	if cfg.Remote.Timeout, err = getEnvDuration("API_TIMEOUT", cfg.Remote.Timeout); err != nil {
		return err
	}
	if cfg.Auth.SessionTTL, err = getEnvDuration("SESSION_TTL", cfg.Auth.SessionTTL); err != nil {
		return err
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, DB: %s, API: %s, Price: %s (key %s), Prefs: %s, Auth: *** (masked) ***}",
		c.Env, c.Database.Path, c.Remote.BaseURL, c.Remote.PriceBaseURL, mask(c.Remote.PriceAPIKey), c.Prefs.Backend)
}

func mask(s string) string {
	if s == "" {
		return "unset"
	}
	return "***"
}
