package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	State     StateConfig     `yaml:"state"`
	Checklist ChecklistConfig `yaml:"checklist"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// AuthConfig guards mutating endpoints. An empty secret leaves them open.
type AuthConfig struct {
	WriteTokenSecret string `yaml:"writeTokenSecret"`
}

// DatasetConfig lists where category datasets come from, in fetch order.
type DatasetConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Bundled bool          `yaml:"bundled"`
}

// MirrorConfig points at an S3-compatible bucket holding {prefix}{category}.json.
type MirrorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
}

// StateConfig selects the persistence backend for the checklist state.
type StateConfig struct {
	Backend  string         `yaml:"backend"`
	Key      string         `yaml:"key"`
	FilePath string         `yaml:"filePath"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for the key-value backend.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ChecklistConfig holds domain defaults.
type ChecklistConfig struct {
	DefaultHemisphere string `yaml:"defaultHemisphere"`
	Timezone          string `yaml:"timezone"`
	SuggestionLimit   int    `yaml:"suggestionLimit"`
}

// State backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("AUTH_WRITE_TOKEN_SECRET"); v != "" {
		cfg.Auth.WriteTokenSecret = v
	}
	if v, ok := os.LookupEnv("DATASET_BASE_URL"); ok {
		cfg.Dataset.BaseURL = v
	}
	if v := os.Getenv("DATASET_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Dataset.Timeout = parsed
		}
	}
	if v := os.Getenv("DATASET_BUNDLED"); v != "" {
		cfg.Dataset.Bundled = parseBool(v)
	}
	if v := os.Getenv("DATASET_MIRROR_ENABLED"); v != "" {
		cfg.Dataset.Mirror.Enabled = parseBool(v)
	}
	if v := os.Getenv("DATASET_MIRROR_ENDPOINT"); v != "" {
		cfg.Dataset.Mirror.Endpoint = v
	}
	if v := os.Getenv("DATASET_MIRROR_ACCESS_KEY"); v != "" {
		cfg.Dataset.Mirror.AccessKey = v
	}
	if v := os.Getenv("DATASET_MIRROR_SECRET_KEY"); v != "" {
		cfg.Dataset.Mirror.SecretKey = v
	}
	if v := os.Getenv("DATASET_MIRROR_BUCKET"); v != "" {
		cfg.Dataset.Mirror.Bucket = v
	}
	if v := os.Getenv("DATASET_MIRROR_PREFIX"); v != "" {
		cfg.Dataset.Mirror.Prefix = v
	}
	if v := os.Getenv("DATASET_MIRROR_REGION"); v != "" {
		cfg.Dataset.Mirror.Region = v
	}
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		cfg.State.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("STATE_KEY"); v != "" {
		cfg.State.Key = v
	}
	if v := os.Getenv("STATE_FILE_PATH"); v != "" {
		cfg.State.FilePath = v
	}
	if v := os.Getenv("STATE_VALKEY_ADDR"); v != "" {
		cfg.State.Valkey.Addr = v
	}
	if v := os.Getenv("STATE_POSTGRES_DSN"); v != "" {
		cfg.State.Postgres.DSN = v
	}
	if v := os.Getenv("STATE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.State.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STATE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.State.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("CHECKLIST_DEFAULT_HEMISPHERE"); v != "" {
		cfg.Checklist.DefaultHemisphere = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CHECKLIST_TIMEZONE"); v != "" {
		cfg.Checklist.Timezone = v
	}
	if v := os.Getenv("CHECKLIST_SUGGESTION_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Checklist.SuggestionLimit = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             40,
			},
		},
		Dataset: DatasetConfig{
			Timeout: 10 * time.Second,
			Bundled: true,
		},
		State: StateConfig{
			Backend:  BackendFile,
			Key:      "acnh_checklist_v4.1",
			FilePath: "data/state.json",
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
		Checklist: ChecklistConfig{
			DefaultHemisphere: "north",
			SuggestionLimit:   3,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Dataset.Timeout < 0 {
		return errors.New("dataset.timeout cannot be negative")
	}
	if c.Dataset.Mirror.Enabled {
		if strings.TrimSpace(c.Dataset.Mirror.Endpoint) == "" {
			return errors.New("dataset.mirror.endpoint cannot be empty when the mirror is enabled")
		}
		if strings.TrimSpace(c.Dataset.Mirror.Bucket) == "" {
			return errors.New("dataset.mirror.bucket cannot be empty when the mirror is enabled")
		}
	}
	if strings.TrimSpace(c.Dataset.BaseURL) == "" && !c.Dataset.Mirror.Enabled && !c.Dataset.Bundled {
		return errors.New("dataset: at least one of baseUrl, mirror or bundled must be configured")
	}
	if strings.TrimSpace(c.State.Key) == "" {
		return errors.New("state.key cannot be empty")
	}
	switch c.State.Backend {
	case BackendMemory:
	case BackendFile:
		if strings.TrimSpace(c.State.FilePath) == "" {
			return errors.New("state.filePath cannot be empty for the file backend")
		}
	case BackendValkey:
		if strings.TrimSpace(c.State.Valkey.Addr) == "" {
			return errors.New("state.valkey.addr cannot be empty for the valkey backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.State.Postgres.DSN) == "" {
			return errors.New("state.postgres.dsn cannot be empty for the postgres backend")
		}
		if c.State.Postgres.MaxConns < 0 || c.State.Postgres.MinConns < 0 {
			return errors.New("state.postgres pool sizes cannot be negative")
		}
	default:
		return fmt.Errorf("state.backend %q is not one of memory, file, valkey, postgres", c.State.Backend)
	}
	switch c.Checklist.DefaultHemisphere {
	case "north", "south":
	default:
		return fmt.Errorf("checklist.defaultHemisphere %q must be north or south", c.Checklist.DefaultHemisphere)
	}
	if c.Checklist.SuggestionLimit < 0 {
		return errors.New("checklist.suggestionLimit cannot be negative")
	}
	if c.Checklist.Timezone != "" {
		if _, err := time.LoadLocation(c.Checklist.Timezone); err != nil {
			return fmt.Errorf("checklist.timezone: %w", err)
		}
	}
	return nil
}
