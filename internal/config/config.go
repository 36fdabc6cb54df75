// Package config loads runtime settings from an optional YAML file, the
// environment (prefix TBRITE_) and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	DB      DBConfig      `mapstructure:"db"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Blob    BlobConfig    `mapstructure:"blob"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	// DSN is empty for the default SQLite file location.
	DSN string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Addr        string          `mapstructure:"addr"`
	CORSOrigins []string        `mapstructure:"cors_origins"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type RefreshConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	SnapshotKeep int           `mapstructure:"snapshot_keep"`
}

type BlobConfig struct {
	Driver   string      `mapstructure:"driver"`
	BasePath string      `mapstructure:"base_path"`
	Minio    MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Default returns a configuration that works without any file or
// environment.
func Default() *Config {
	return &Config{
		DB: DBConfig{Driver: "sqlite"},
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
			RateLimit:   RateLimitConfig{Requests: 120, Window: time.Minute},
		},
		Log: LogConfig{Level: "info", MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30},
		Refresh: RefreshConfig{
			Interval:     5 * time.Minute,
			SnapshotKeep: 50,
		},
		Blob: BlobConfig{Driver: "fs", BasePath: "exports"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db.driver", d.DB.Driver)
	v.SetDefault("db.dsn", d.DB.DSN)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.rate_limit.requests", d.Server.RateLimit.Requests)
	v.SetDefault("server.rate_limit.window", d.Server.RateLimit.Window)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("refresh.interval", d.Refresh.Interval)
	v.SetDefault("refresh.snapshot_keep", d.Refresh.SnapshotKeep)
	v.SetDefault("blob.driver", d.Blob.Driver)
	v.SetDefault("blob.base_path", d.Blob.BasePath)
	v.SetDefault("blob.minio.endpoint", "")
	v.SetDefault("blob.minio.access_key", "")
	v.SetDefault("blob.minio.secret_key", "")
	v.SetDefault("blob.minio.bucket", "")
	v.SetDefault("blob.minio.use_ssl", false)
}

// Load reads configuration. path names an explicit config file; when empty,
// tbrite.yaml is searched in the working directory and
// $XDG_CONFIG_HOME/tbrite. A missing file is not an error. A .env file in
// the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TBRITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Only leaf keys are bound; TBRITE_DB must not shadow the db section.
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tbrite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configHome(); dir != "" {
			v.AddConfigPath(filepath.Join(dir, "tbrite"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// TBRITE_DB is the short form used by the CLI; TBRITE_DB_DSN wins.
	if dsn := os.Getenv("TBRITE_DB"); dsn != "" && os.Getenv("TBRITE_DB_DSN") == "" {
		cfg.DB.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "sqlite", "postgres", "pgx", "pg":
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	switch strings.ToLower(c.Blob.Driver) {
	case "", "fs":
	case "minio":
		if c.Blob.Minio.Endpoint == "" || c.Blob.Minio.Bucket == "" {
			return fmt.Errorf("config: blob.minio.endpoint and blob.minio.bucket are required for the minio driver")
		}
	default:
		return fmt.Errorf("config: unsupported blob.driver %q", c.Blob.Driver)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log.level %q", c.Log.Level)
	}
	if c.Server.RateLimit.Requests < 0 {
		return fmt.Errorf("config: server.rate_limit.requests must not be negative")
	}
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("config: refresh.interval must not be negative")
	}
	return nil
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
