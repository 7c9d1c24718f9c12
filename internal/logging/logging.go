// Package logging builds the logrus logger shared by all components.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"docsearch/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger from cfg. The terminal belongs to the UI, so logs go
// to cfg.File unless it is "-" or "stderr". The returned closer releases the
// log file.
func New(cfg config.LoggingConfig, fields logrus.Fields) (*logrus.Entry, io.Closer, error) {
	root := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	root.SetLevel(level)

	switch cfg.Format {
	case "json":
		root.SetFormatter(new(logrus.JSONFormatter))
	default:
		root.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	var closer io.Closer = nopCloser{}
	switch cfg.File {
	case "-", "stderr":
		root.SetOutput(os.Stderr)
	case "":
		root.SetOutput(io.Discard)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		root.SetOutput(f)
		closer = f
	}
	return root.WithFields(fields), closer, nil
}
