package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rzbill/ralphmc/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	LogDir        string       `json:"logDir" yaml:"logDir"`
	CurrentLog    string       `json:"currentLog" yaml:"currentLog"`
	ArchivePrefix string       `json:"archivePrefix" yaml:"archivePrefix"`
	ArchiveExt    string       `json:"archiveExt" yaml:"archiveExt"`
	Server        ServerConfig `json:"server" yaml:"server"`
	Stream        StreamConfig `json:"stream" yaml:"stream"`
	Logging       log.Config   `json:"logging" yaml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr"`
	Gzip     *bool  `json:"gzip" yaml:"gzip"`
}

// GzipEnabled reports whether JSON responses should be compressed. Nil means
// the default, which is on.
func (s ServerConfig) GzipEnabled() bool {
	return s.Gzip == nil || *s.Gzip
}

// StreamConfig tunes the tail stream sessions.
type StreamConfig struct {
	PollIntervalMs int `json:"pollIntervalMs" yaml:"pollIntervalMs"`
}

// PollInterval returns the poll cadence as a duration.
func (s StreamConfig) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

// Default returns built-in defaults, matching the conventions the ralph run
// loop writes with.
func Default() Config {
	return Config{
		LogDir:        DefaultLogDir(),
		CurrentLog:    "current-run.jsonl",
		ArchivePrefix: "ralph_",
		ArchiveExt:    ".jsonl",
		Server: ServerConfig{
			HTTPAddr: ":8888",
		},
		Stream: StreamConfig{
			PollIntervalMs: 500,
		},
		Logging: log.Config{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse json config: %w", err)
		}
	}
	return cfg, nil
}

// Validate reports the first problem that would keep the server from running.
func (c Config) Validate() error {
	if c.LogDir == "" {
		return fmt.Errorf("logDir must not be empty")
	}
	if c.CurrentLog == "" || c.CurrentLog != filepath.Base(c.CurrentLog) {
		return fmt.Errorf("currentLog must be a bare file name, got %q", c.CurrentLog)
	}
	if !strings.HasPrefix(c.ArchiveExt, ".") {
		return fmt.Errorf("archiveExt must start with a dot, got %q", c.ArchiveExt)
	}
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.httpAddr must not be empty")
	}
	if c.Stream.PollIntervalMs <= 0 {
		return fmt.Errorf("stream.pollIntervalMs must be positive, got %d", c.Stream.PollIntervalMs)
	}
	return nil
}
