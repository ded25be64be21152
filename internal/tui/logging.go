package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
)

// SessionLog is a per-launch log file under the config directory. The
// terminal is owned by the dashboard, so diagnostics go here instead.
type SessionLog struct {
	*log.Logger
	ID   string
	Path string
	file *os.File
}

// OpenSessionLog creates a new log file under the config directory and
// returns a logger writing to it at level.
func OpenSessionLog(level string) (*SessionLog, error) {
	cfgDir, err := config.EnsureDir()
	if err != nil {
		return nil, fmt.Errorf("prepare log directory: %w", err)
	}
	logDir := filepath.Join(cfgDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("session_%s.log", time.Now().Format("20060102_150405"))
	path := filepath.Join(logDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "dashtabs",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	id := uuid.NewString()
	logger = logger.With("session", id[:8])
	logger.Info("session started", "id", id, "pid", os.Getpid())
	return &SessionLog{Logger: logger, ID: id, Path: path, file: f}, nil
}

// Close ends the session log. It is safe to call more than once.
func (s *SessionLog) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	s.Info("session ended")
	err := s.file.Close()
	s.file = nil
	return err
}
