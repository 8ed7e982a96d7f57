// Package iologger sets up the default slog logger of the application.
// Logs go to a file in the log directory, to STDOUT or to STDERR.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnames/gnharmony/pkg/config"
)

// LogFile is the name of the log file in the log directory.
const LogFile = "gnharmony.log"

var (
	mu   sync.Mutex
	file *os.File
)

// Init sets the default logger according to the configuration. With the
// "file" destination the log file in logDir is truncated, so it keeps
// only the latest run. A log file opened by a previous call is closed.
func Init(logDir string, cfg config.LogConfig) error {
	w, f, err := writer(logDir, cfg.Destination)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	slog.SetDefault(slog.New(newHandler(w, cfg)))
	if file != nil {
		file.Close()
	}
	file = f
	return nil
}

// Close closes the log file, if there is one, and sends further logs to
// STDERR.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	err := file.Close()
	file = nil
	return err
}

func writer(logDir, dest string) (io.Writer, *os.File, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil, nil
	case "file":
		path := filepath.Join(logDir, LogFile)
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, CreateLogFileError(path, err)
		}
		return f, f, nil
	default:
		return os.Stderr, nil, nil
	}
}

// newHandler creates JSON handler unless text output is requested. The
// tint format is rendered by the text handler.
func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	switch cfg.Format {
	case "text", "tint":
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func parseLevel(level string) slog.Level {
	var res slog.Level
	if err := res.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return res
}
