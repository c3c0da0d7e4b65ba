// Package config loads the backend's YAML configuration file.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all backend configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Updates  UpdatesConfig  `yaml:"updates"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // optional log file, in addition to stdout/stderr
}

// SlogLevel parses the configured level name.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid logging level %q: %w", l.Level, err)
	}
	return level, nil
}

// UpdatesConfig configures the release version check on /info.
type UpdatesConfig struct {
	FetchLatest bool `yaml:"fetch_latest"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8000},
		Database: DatabaseConfig{Path: "partsdb.sqlite"},
		Logging:  LoggingConfig{Level: "info"},
		Updates:  UpdatesConfig{FetchLatest: true},
	}
}

// Load reads the YAML config at path, applying defaults for anything
// unset. A missing file is not an error: the defaults are returned so
// the server runs without any configuration at all.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return cfg, fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if _, err := cfg.Logging.SlogLevel(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
