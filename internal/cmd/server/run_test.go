package serverrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RALPHMC_HTTP_ADDR", "")
	t.Setenv("RALPHMC_LOG_DIR", "")
	t.Setenv("RALPHMC_POLL_INTERVAL_MS", "")

	cfg, err := loadConfig(Options{})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.HTTPAddr != ":8888" {
		t.Errorf("HTTPAddr = %q, want :8888", cfg.Server.HTTPAddr)
	}
	if cfg.CurrentLog != "current-run.jsonl" {
		t.Errorf("CurrentLog = %q, want current-run.jsonl", cfg.CurrentLog)
	}
	if cfg.Stream.PollIntervalMs != 500 {
		t.Errorf("PollIntervalMs = %d, want 500", cfg.Stream.PollIntervalMs)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("RALPHMC_HTTP_ADDR", "")
	t.Setenv("RALPHMC_LOG_DIR", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "logDir: /var/lib/ralph/runs\nserver:\n  httpAddr: \":9999\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.LogDir != "/var/lib/ralph/runs" {
		t.Errorf("LogDir = %q, want value from file", cfg.LogDir)
	}
	if cfg.Server.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.Server.HTTPAddr)
	}
	// Settings the file does not mention keep their defaults.
	if cfg.Stream.PollIntervalMs != 500 {
		t.Errorf("PollIntervalMs = %d, want default 500", cfg.Stream.PollIntervalMs)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("RALPHMC_HTTP_ADDR", ":7777")

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server":{"httpAddr":":9999"}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Environment beats the file.
	cfg, err := loadConfig(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.HTTPAddr != ":7777" {
		t.Errorf("HTTPAddr = %q, want env value :7777", cfg.Server.HTTPAddr)
	}

	// Command line beats both.
	cfg, err = loadConfig(Options{ConfigPath: path, HTTPAddr: ":6666", PollMs: 25})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Server.HTTPAddr != ":6666" {
		t.Errorf("HTTPAddr = %q, want flag value :6666", cfg.Server.HTTPAddr)
	}
	if cfg.Stream.PollIntervalMs != 25 {
		t.Errorf("PollIntervalMs = %d, want flag value 25", cfg.Stream.PollIntervalMs)
	}
}

func TestLoadConfigBadPath(t *testing.T) {
	if _, err := loadConfig(Options{ConfigPath: "/does/not/exist.yaml"}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("stream:\n  pollIntervalMs: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(Options{ConfigPath: path}); err == nil {
		t.Fatal("expected validation error for negative poll interval")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "current-run.jsonl"), []byte("{\"a\":1}\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := Run(ctx, Options{
		LogDir:   dir,
		HTTPAddr: "127.0.0.1:0",
		LogLevel: "error",
		PollMs:   5,
	})
	if err != nil {
		t.Fatalf("Run returned %v, want nil after context cancel", err)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	err := Run(context.Background(), Options{ConfigPath: "/does/not/exist.yaml"})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
