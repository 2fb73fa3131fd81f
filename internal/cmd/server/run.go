package serverrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/rzbill/ralphmc/internal/config"
	"github.com/rzbill/ralphmc/internal/runtime"
	httpserver "github.com/rzbill/ralphmc/internal/server/http"
	tailsvc "github.com/rzbill/ralphmc/internal/services/tail"
	logpkg "github.com/rzbill/ralphmc/pkg/log"
)

// Options are the command line knobs for the server process. Every field is
// optional; set fields override the config file and environment.
type Options struct {
	ConfigPath string
	LogDir     string
	HTTPAddr   string
	LogLevel   string
	LogFormat  string
	PollMs     int
}

// Run boots the server and blocks until ctx is cancelled or a termination
// signal arrives.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logpkg.ApplyConfig(cfg.Logging)
	if err != nil {
		logger = logpkg.NewLogger()
		logger.Warn("invalid logging config, using defaults", logpkg.Err(err))
	}
	restore := logpkg.RedirectStdLog(logger)
	defer restore()

	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
	if err != nil {
		return fmt.Errorf("open runtime: %w", err)
	}

	logger.Info("starting ralphmc server",
		logpkg.Str("http", cfg.Server.HTTPAddr),
		logpkg.Str("log_dir", cfg.LogDir),
		logpkg.Str("current_log", cfg.CurrentLog),
		logpkg.Dur("poll", cfg.Stream.PollInterval()),
	)
	if !rt.LogDirPresent() {
		logger.Warn("log directory does not exist yet, serving empty until it appears",
			logpkg.Str("log_dir", cfg.LogDir))
	}

	srv := httpserver.NewWithService(rt, tailsvc.NewWithLogger(rt, logger), logger)
	defer srv.Close()

	if err := srv.ListenAndServe(sctx, cfg.Server.HTTPAddr); err != nil && sctx.Err() == nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// loadConfig merges defaults, the optional config file, RALPHMC_* environment
// variables, and command line options, in that order.
func loadConfig(opts Options) (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(opts.ConfigPath)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)

	if opts.LogDir != "" {
		cfg.LogDir = opts.LogDir
	}
	if opts.HTTPAddr != "" {
		cfg.Server.HTTPAddr = opts.HTTPAddr
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
	if opts.PollMs > 0 {
		cfg.Stream.PollIntervalMs = opts.PollMs
	}

	if err := cfg.Validate(); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, nil
}
