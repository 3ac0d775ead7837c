package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Logger is a logrus.Logger configured with boorudex's standard
// timestamp/caller formatting.
type Logger struct {
	*logrus.Logger
}

// LogConfig controls where and how verbosely a Logger writes.
type LogConfig struct {
	Level    string
	FilePath string
}

// NewLogger builds a Logger from config, falling back to info level on
// an unrecognized Level string and logging to stderr when FilePath is
// empty.
func NewLogger(config LogConfig) (*Logger, error) {
	logger := &Logger{Logger: logrus.New()}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	})

	if config.FilePath != "" {
		if err := logger.setupFileOutput(config.FilePath); err != nil {
			return nil, err
		}
	}

	return logger, nil
}

func (l *Logger) setupFileOutput(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.SetOutput(file)
	return nil
}

// GetDefaultConfig returns the logging configuration used absent an
// operator override: info level, stderr output.
func GetDefaultConfig() LogConfig {
	return LogConfig{Level: "info"}
}
