package log

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

// current log file handle, nil when writing to stderr
var current *os.File

// Setup installs the process-wide logger: JSON records at the given level,
// written to the named file, or stderr when file is empty.
func Setup(level, file string) {
	install(level, file)

	if file != "" {
		setupLogRotation(level, file)
	}
}

func install(level, file string) {
	writer := configureLogWriter(file)

	opts := &slog.HandlerOptions{
		AddSource: false,
		Level:     LevelFromString(level),
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(writer, opts)))

	if current != nil {
		current.Close()
	}
	if writer != os.Stderr {
		current = writer
	} else {
		current = nil
	}
}

func configureLogWriter(logFile string) *os.File {
	if logFile == "" {
		return os.Stderr
	}

	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	logWriter, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", logFile, err)
		return os.Stderr
	}
	return logWriter
}

/*
 * When logging to a file, listen for SIGHUP so the file can be rotated:
 * mv monkey.log monkey.bak && kill -HUP <pid>
 */
func setupLogRotation(level, file string) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			install(level, file)
		}
	}()
}

// LevelFromString maps a configuration string onto a slog level. Unknown
// names fall back to error, the quietest level that still reports failures.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Close releases the log file handle if one is open.
func Close() {
	if current != nil {
		_ = current.Close()
		current = nil
	}
}
