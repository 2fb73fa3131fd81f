package config

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the run-log directory read when none is configured.
// The RALPH_LOG_DIR environment variable, which the run loop itself honors,
// wins; otherwise the conventional ./ralph-logs next to the checkout is
// used, falling back to a ralph-logs sibling when running from elsewhere.
func DefaultLogDir() string {
	if dir := os.Getenv("RALPH_LOG_DIR"); dir != "" {
		return dir
	}
	if isDir("ralph-logs") {
		return "ralph-logs"
	}
	if isDir(filepath.Join("..", "ralph-logs")) {
		return filepath.Join("..", "ralph-logs")
	}
	return "ralph-logs"
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
