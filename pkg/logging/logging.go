// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options control where and how verbosely log lines are written.
type Options struct {
	// Level is a zerolog level name (debug, info, warn, error). Empty means info.
	Level string
	// File, when set, receives log output instead of Output.
	File string
	// Output is used when File is empty. Nil means stderr.
	Output io.Writer
}

var (
	mu      sync.Mutex
	logFile *os.File
)

// Setup replaces the global logger according to opts. It returns the resolved
// log file path, or "" when logging to a stream.
func Setup(opts Options) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return "", fmt.Errorf("logging: %w", err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	closeFileLocked()

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	path := ""
	if opts.File != "" {
		path = filepath.Clean(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return "", fmt.Errorf("logging: open %s: %w", path, err)
		}
		logFile = f
		out = f
	}

	if isInteractive(out) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return path, nil
}

// Close releases the log file opened by Setup, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeFileLocked()
}

func closeFileLocked() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	return err
}

// New returns a child of the global logger tagged with component.
func New(tag string) zerolog.Logger {
	return log.Logger.With().Str("tag", tag).Logger()
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
