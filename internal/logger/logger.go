// Package logger writes diagnostics to a file with zerolog. The terminal
// belongs to the TUI, so nothing is ever written to stdout from here.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Config describes logger settings.
type Config struct {
	Level string
	File  string
}

var (
	mu    sync.RWMutex
	base  zerolog.Logger = zerolog.Nop()
	file  *os.File
	ready bool
)

// Init opens the log file and installs the logger. Until Init succeeds every
// helper is a no-op.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if cfg.File == "" {
		return fmt.Errorf("logger: no log file configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("logger: open log file: %w", err)
	}

	closeLocked()
	file = f
	install(f, cfg.Level)
	return nil
}

// InitWriter installs a logger writing to w. Plain mode falls back to
// stderr with it when the log file cannot be opened.
func InitWriter(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	install(w, level)
}

// must be called with mu held
func install(w io.Writer, level string) {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	base = zerolog.New(cw).Level(parseLevel(level)).With().Timestamp().Int("pid", os.Getpid()).Logger()
	ready = true
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if file != nil {
		file.Close()
		file = nil
	}
	base = zerolog.Nop()
	ready = false
}

// Debug logs a debug message with key/value pairs.
func Debug(msg string, kv ...any) { emit(zerolog.DebugLevel, msg, kv) }

// Info logs an info message with key/value pairs.
func Info(msg string, kv ...any) { emit(zerolog.InfoLevel, msg, kv) }

// Warn logs a warning with key/value pairs.
func Warn(msg string, kv ...any) { emit(zerolog.WarnLevel, msg, kv) }

// Error logs an error with key/value pairs.
func Error(msg string, kv ...any) { emit(zerolog.ErrorLevel, msg, kv) }

func emit(level zerolog.Level, msg string, kv []any) {
	// held until the write completes so Close cannot pull the file away
	mu.RLock()
	defer mu.RUnlock()
	if !ready {
		return
	}

	ev := base.WithLevel(level)
	if ev == nil {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if err, isErr := kv[i+1].(error); isErr {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
