// Package config loads anyexec settings from defaults, an optional TOML file
// and ANYEXEC_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvLogLevel      = "ANYEXEC_LOG_LEVEL"
	EnvLogFormat     = "ANYEXEC_LOG_FORMAT"
	EnvOTelEndpoint  = "ANYEXEC_OTEL_ENDPOINT"
	EnvOTelService   = "ANYEXEC_OTEL_SERVICE"
	EnvQueueCapacity = "ANYEXEC_QUEUE_CAPACITY"
	EnvTasks         = "ANYEXEC_TASKS"
)

type Config struct {
	LogLevel      string
	LogFormat     string
	OTelEndpoint  string
	OTelService   string
	QueueCapacity int
	Tasks         int
}

func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "console",
		OTelService: "anyexec",
		Tasks:       8,
	}
}

// anyexec.toml key mapping.
type fileConfig struct {
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	OTelEndpoint  string `toml:"otel_endpoint"`
	OTelService   string `toml:"otel_service"`
	QueueCapacity int    `toml:"queue_capacity"`
	Tasks         int    `toml:"tasks"`
}

// Load returns the effective configuration. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("queue_capacity must not be negative, got %d", c.QueueCapacity))
	}
	if c.Tasks < 0 {
		errs = append(errs, fmt.Errorf("tasks must not be negative, got %d", c.Tasks))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("otel_endpoint") {
		cfg.OTelEndpoint = strings.TrimSpace(raw.OTelEndpoint)
	}
	if meta.IsDefined("otel_service") {
		cfg.OTelService = strings.TrimSpace(raw.OTelService)
	}
	if meta.IsDefined("queue_capacity") {
		cfg.QueueCapacity = raw.QueueCapacity
	}
	if meta.IsDefined("tasks") {
		cfg.Tasks = raw.Tasks
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.LogLevel = getenv(EnvLogLevel, cfg.LogLevel)
	cfg.LogFormat = getenv(EnvLogFormat, cfg.LogFormat)
	cfg.OTelEndpoint = getenv(EnvOTelEndpoint, cfg.OTelEndpoint)
	cfg.OTelService = getenv(EnvOTelService, cfg.OTelService)

	var err error
	if cfg.QueueCapacity, err = getenvInt(EnvQueueCapacity, cfg.QueueCapacity); err != nil {
		return err
	}
	if cfg.Tasks, err = getenvInt(EnvTasks, cfg.Tasks); err != nil {
		return err
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
