// Package config loads the gameplaytags.yaml file that tells tools where
// the tag universe lives and how to log.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/mkislenko/com.radiodecadance.gameplaytags/source"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up by LoadFromDir.
const FileName = "gameplaytags.yaml"

// Source types.
const (
	SourceStatic = "static"
	SourceFile   = "file"
	SourceRedis  = "redis"
	SourceEtcd   = "etcd"
)

// Config is the root of gameplaytags.yaml.
type Config struct {
	Source SourceConfig `yaml:"source" mapstructure:"source"`

	Watch *WatchConfig `yaml:"watch,omitempty" mapstructure:"watch"`

	// LogLevel is one of debug, info, warn, error. Default: info
	LogLevel string `yaml:"log_level,omitempty" mapstructure:"log_level"`

	// LogFormat is text or json. Default: text
	LogFormat string `yaml:"log_format,omitempty" mapstructure:"log_format"`
}

// SourceConfig selects and parameterizes the tag source.
type SourceConfig struct {
	// Type is static, file, redis or etcd
	Type string `yaml:"type" mapstructure:"type"`

	// Paths lists the tags for the static source.
	Paths []string `yaml:"paths,omitempty" mapstructure:"paths"`

	// File is the tag list for the file source, relative to the config file.
	File string `yaml:"file,omitempty" mapstructure:"file"`

	// Format overrides extension detection for the file source.
	Format string `yaml:"format,omitempty" mapstructure:"format"`

	Redis *RedisConfig `yaml:"redis,omitempty" mapstructure:"redis"`

	Etcd *EtcdConfig `yaml:"etcd,omitempty" mapstructure:"etcd"`
}

// RedisConfig configures the Redis source.
type RedisConfig struct {
	URL            string            `yaml:"url" mapstructure:"url"`
	Key            string            `yaml:"key,omitempty" mapstructure:"key"`
	Mode           string            `yaml:"mode,omitempty" mapstructure:"mode"` // "list" or "set"
	ConnectTimeout string            `yaml:"connect_timeout,omitempty" mapstructure:"connect_timeout"`
	TLS            *source.TLSConfig `yaml:"tls,omitempty" mapstructure:"tls"`
}

// EtcdConfig configures the etcd source.
type EtcdConfig struct {
	Endpoints   []string          `yaml:"endpoints" mapstructure:"endpoints"`
	Prefix      string            `yaml:"prefix,omitempty" mapstructure:"prefix"`
	DialTimeout string            `yaml:"dial_timeout,omitempty" mapstructure:"dial_timeout"`
	TLS         *source.TLSConfig `yaml:"tls,omitempty" mapstructure:"tls"`
}

// WatchConfig controls live reload.
type WatchConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Debounce is the quiet period before a file reload (e.g. "250ms").
	Debounce string `yaml:"debounce,omitempty" mapstructure:"debounce"`
}

// Defaults returns a config reading tags.yaml next to the working directory.
func Defaults() *Config {
	return &Config{
		Source: SourceConfig{
			Type: SourceFile,
			File: "tags.yaml",
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// GetDebounce parses the debounce string.
// Returns the default value if not set or invalid.
func (w *WatchConfig) GetDebounce() time.Duration {
	if w == nil || w.Debounce == "" {
		return source.DefaultDebounce
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return source.DefaultDebounce
	}
	return d
}

// WatchEnabled reports whether live reload is on.
func (c *Config) WatchEnabled() bool {
	return c.Watch != nil && c.Watch.Enabled
}

// Validate checks that the selected source has what it needs.
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return gameplaytags.NewConfigurationError("Config.Validate", fmt.Errorf(format, args...))
	}

	switch c.Source.Type {
	case SourceStatic:
		if len(c.Source.Paths) == 0 {
			return fail("static source needs paths")
		}
	case SourceFile:
		if c.Source.File == "" {
			return fail("file source needs a file")
		}
		if c.Source.Format != "" {
			if _, err := source.ParseFormat(c.Source.Format); err != nil {
				return fail("file source format %q: %w", c.Source.Format, err)
			}
		}
	case SourceRedis:
		if c.Source.Redis == nil || c.Source.Redis.URL == "" {
			return fail("redis source needs a url")
		}
		switch source.RedisMode(c.Source.Redis.Mode) {
		case "", source.RedisList, source.RedisSet:
		default:
			return fail("redis mode %q must be list or set", c.Source.Redis.Mode)
		}
		if err := c.Source.Redis.TLS.Validate(); err != nil {
			return fail("redis tls: %w", err)
		}
	case SourceEtcd:
		if c.Source.Etcd == nil || len(c.Source.Etcd.Endpoints) == 0 {
			return fail("etcd source needs endpoints")
		}
		if err := c.Source.Etcd.TLS.Validate(); err != nil {
			return fail("etcd tls: %w", err)
		}
	default:
		return fail("unknown source type %q", c.Source.Type)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return fail("%w", err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fail("log format %q must be text or json", c.LogFormat)
	}

	return nil
}

// OpenSource opens the configured source. Redis and etcd sources hold a
// connection; close them with gameplaytags.CloseWithLog when the returned
// value implements io.Closer.
func (c *Config) OpenSource(ctx context.Context, logger *slog.Logger) (gameplaytags.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Source.Type {
	case SourceStatic:
		return gameplaytags.StaticSource(c.Source.Paths), nil

	case SourceFile:
		opts := []source.FileOption{source.WithFileLogger(logger)}
		if c.Source.Format != "" {
			format, _ := source.ParseFormat(c.Source.Format)
			opts = append(opts, source.WithFormat(format))
		}
		return source.NewFile(c.Source.File, opts...), nil

	case SourceRedis:
		rc := c.Source.Redis
		src, err := source.NewRedis(source.RedisOptions{
			URL:            rc.URL,
			Key:            rc.Key,
			Mode:           source.RedisMode(rc.Mode),
			TLS:            rc.TLS,
			ConnectTimeout: parseDuration(rc.ConnectTimeout, 5*time.Second),
			Logger:         logger,
		})
		if err != nil {
			return nil, gameplaytags.NewSourceError("Config.Source", err)
		}
		return src, nil

	default:
		ec := c.Source.Etcd
		src, err := source.NewEtcd(source.EtcdOptions{
			Endpoints:   ec.Endpoints,
			Prefix:      ec.Prefix,
			DialTimeout: parseDuration(ec.DialTimeout, 5*time.Second),
			TLS:         ec.TLS,
			Logger:      logger,
		})
		if err != nil {
			return nil, gameplaytags.NewSourceError("Config.Source", err)
		}
		return src, nil
	}
}

// Logger builds the slog logger described by LogLevel and LogFormat.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Load reads and parses a config file from the given path.
// If the path is a directory, it looks for gameplaytags.yaml in that directory.
// A relative source file is resolved against the config file's directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, gameplaytags.NewConfigurationError("config.Load", fmt.Errorf("failed to parse config file: %w", err)).
			WithContext(map[string]any{"path": configPath})
	}

	if cfg.Source.Type == SourceFile && cfg.Source.File != "" && !filepath.IsAbs(cfg.Source.File) {
		cfg.Source.File = filepath.Join(filepath.Dir(configPath), cfg.Source.File)
	}

	return cfg, nil
}

// LoadFromDir searches for gameplaytags.yaml starting from the given directory
// and walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(absDir, FileName)); err == nil {
			return Load(absDir)
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no %s found in %s or parent directories", FileName, dir)
		}
		absDir = parent
	}
}
