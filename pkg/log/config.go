package log

import "fmt"

// Config declares a logger: minimum level, output format, and an optional
// file destination. The zero value means info-level text logging to stderr.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ApplyConfig builds a Logger from a declarative Config.
func ApplyConfig(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch cfg.Format {
	case "json":
		formatter = &JSONFormatter{}
	case "", "text", "console":
		formatter = &TextFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var output Output
	if cfg.File != "" {
		output, err = NewFileOutput(cfg.File)
		if err != nil {
			return nil, err
		}
	} else {
		output = NewConsoleOutput()
	}

	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(output),
	), nil
}
