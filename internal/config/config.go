package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Path resolution
	BackendDir   string   `yaml:"backend_dir"`
	AllowedRoots []string `yaml:"allowed_roots"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// Extraction audit log; empty disables it
	DatabasePath string `yaml:"database_path"`

	// S3-compatible source for s3:// paths; empty endpoint disables it
	S3Endpoint        string `yaml:"s3_endpoint"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key"`
	S3UseSSL          bool   `yaml:"s3_use_ssl"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	MaxRequestBytes int64 `yaml:"max_request_bytes"`
}

func Default() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               "8000",
		LogLevel:           "info",
		BackendDir:         "backend",
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       120 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxRequestBytes:    1 << 20,
	}
}

// Load builds the configuration from defaults, then the optional CONFIG_FILE,
// then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.BackendDir = getEnv("BACKEND_DIR", cfg.BackendDir)
	cfg.AllowedRoots = getEnvList("ALLOWED_ROOTS", cfg.AllowedRoots)
	cfg.CORSAllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)
	cfg.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", cfg.S3AccessKeyID)
	cfg.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", cfg.S3SecretAccessKey)
	if v := os.Getenv("S3_USE_SSL"); v != "" {
		cfg.S3UseSSL = v == "true"
	}

	var err error
	if cfg.ReadTimeout, err = getEnvDuration("READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDuration("WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return nil, err
	}
	if cfg.IdleTimeout, err = getEnvDuration("IDLE_TIMEOUT", cfg.IdleTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.BackendDir == "" {
		return fmt.Errorf("BACKEND_DIR must not be empty")
	}
	if c.S3Endpoint != "" && (c.S3AccessKeyID == "" || c.S3SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_ENDPOINT is set")
	}
	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("max_request_bytes must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
