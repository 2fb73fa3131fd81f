package config

import (
	"os"
	"strconv"
)

// FromEnv overlays RALPHMC_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("RALPHMC_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("RALPHMC_CURRENT_LOG"); v != "" {
		cfg.CurrentLog = v
	}
	if v := os.Getenv("RALPHMC_ARCHIVE_PREFIX"); v != "" {
		cfg.ArchivePrefix = v
	}
	if v := os.Getenv("RALPHMC_ARCHIVE_EXT"); v != "" {
		cfg.ArchiveExt = v
	}
	if v := os.Getenv("RALPHMC_HTTP_ADDR"); v != "" {
		cfg.Server.HTTPAddr = v
	}
	if v := os.Getenv("RALPHMC_GZIP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Gzip = &b
		}
	}
	if v := os.Getenv("RALPHMC_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Stream.PollIntervalMs = n
		}
	}
	if v := os.Getenv("RALPHMC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RALPHMC_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RALPHMC_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
