package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes formatted entries to a writer, stderr by default.
// Writes are serialized so interleaved goroutines produce whole lines.
type ConsoleOutput struct {
	Writer io.Writer

	mu sync.Mutex
}

// NewConsoleOutput returns a ConsoleOutput writing to stderr.
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{Writer: os.Stderr}
}

// Write implements Output.
func (c *ConsoleOutput) Write(_ *Entry, formattedEntry []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.Writer
	if w == nil {
		w = os.Stderr
	}
	_, err := w.Write(formattedEntry)
	return err
}

// Close implements Output. The console is never closed.
func (c *ConsoleOutput) Close() error {
	return nil
}

// FileOutput appends formatted entries to a file.
type FileOutput struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileOutput opens (or creates) the file at path for appending.
func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &FileOutput{file: f}, nil
}

// Write implements Output.
func (f *FileOutput) Write(_ *Entry, formattedEntry []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.file.Write(formattedEntry)
	return err
}

// Close implements Output.
func (f *FileOutput) Close() error {
	return f.file.Close()
}

// NullOutput discards all entries.
type NullOutput struct{}

// Write implements Output.
func (NullOutput) Write(*Entry, []byte) error { return nil }

// Close implements Output.
func (NullOutput) Close() error { return nil }
