// Package logging sets up the process logger: leveled slog output to a
// rotating file under the user's home, optionally mirrored to the console.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultFileName   = "framework.log"
	DefaultMaxSizeMB  = 5
	DefaultMaxBackups = 5
)

// Options configure the process logger. Zero values fall back to the
// defaults above and ~/.trading_framework/logs.
type Options struct {
	Level      slog.Level
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int

	// Console mirrors every line to ConsoleOut (stderr when nil).
	Console    bool
	ConsoleOut io.Writer

	// JSON switches from one text line per event to JSON lines.
	JSON bool
}

// ParseLevel converts string (debug|info|warn|error) to slog.Level. Unknown → info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Manager owns the log file sink. Configure may be called repeatedly; the
// same file is never opened twice.
type Manager struct {
	mu     sync.Mutex
	file   *lumberjack.Logger
	logger *slog.Logger
}

func NewManager() *Manager {
	return &Manager{}
}

// Configure (re)builds the logger. Pointing at a different file closes the
// previous one.
func (m *Manager) Configure(opts Options) (*slog.Logger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("logging: resolve home dir: %w", err)
		}
		opts.Dir = filepath.Join(home, ".trading_framework", "logs")
	}
	if opts.FileName == "" {
		opts.FileName = DefaultFileName
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = DefaultMaxSizeMB
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = DefaultMaxBackups
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create %s: %w", opts.Dir, err)
	}

	path := filepath.Join(opts.Dir, opts.FileName)
	if m.file != nil && m.file.Filename != path {
		if err := m.file.Close(); err != nil {
			return nil, fmt.Errorf("logging: close %s: %w", m.file.Filename, err)
		}
		m.file = nil
	}
	if m.file == nil {
		m.file = &lumberjack.Logger{Filename: path}
	}
	m.file.MaxSize = opts.MaxSizeMB
	m.file.MaxBackups = opts.MaxBackups

	var w io.Writer = m.file
	if opts.Console {
		out := opts.ConsoleOut
		if out == nil {
			out = os.Stderr
		}
		w = io.MultiWriter(m.file, out)
	}

	ho := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, ho)
	} else {
		h = slog.NewTextHandler(w, ho)
	}
	m.logger = slog.New(h)
	return m.logger, nil
}

// Logger returns the configured logger, or slog.Default before Configure.
func (m *Manager) Logger() *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Path returns the active log file, or "" before Configure.
func (m *Manager) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return ""
	}
	return m.file.Filename
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	m.logger = nil
	return err
}
