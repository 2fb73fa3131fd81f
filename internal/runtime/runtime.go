package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/rzbill/ralphmc/internal/config"
	"github.com/rzbill/ralphmc/internal/runlog"
	"github.com/rzbill/ralphmc/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config

	// Logger overrides the logger built from Config.Logging. Tests inject a
	// nop logger here.
	Logger log.Logger
}

// Runtime wires config, logging, and the run-log store for a single server
// instance.
type Runtime struct {
	config cfgpkg.Config
	logger log.Logger
	store  *runlog.Store
}

// Open validates the configuration and builds the Runtime.
func Open(opts Options) (*Runtime, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = log.ApplyConfig(opts.Config.Logging)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}

	store := runlog.NewStore(runlog.Options{
		Dir:           opts.Config.LogDir,
		CurrentName:   opts.Config.CurrentLog,
		ArchivePrefix: opts.Config.ArchivePrefix,
		ArchiveExt:    opts.Config.ArchiveExt,
	})

	return &Runtime{config: opts.Config, logger: logger, store: store}, nil
}

// CheckHealth performs a simple health check. A log directory that does not
// exist yet is healthy (the run loop has not started); a non-directory at
// that path is a misconfiguration.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.store == nil {
		return errors.New("store not initialized")
	}
	fi, err := os.Stat(r.config.LogDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat log dir: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("log path %s is not a directory", r.config.LogDir)
	}
	return nil
}

// LogDirPresent reports whether the run-log directory exists right now.
func (r *Runtime) LogDirPresent() bool {
	fi, err := os.Stat(r.config.LogDir)
	return err == nil && fi.IsDir()
}

// Store returns the run-log store.
func (r *Runtime) Store() *runlog.Store { return r.store }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the runtime logger.
func (r *Runtime) Logger() log.Logger { return r.logger }
