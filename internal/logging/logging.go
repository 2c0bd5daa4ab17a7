// Package logging builds the portal's logrus loggers from configuration.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/godmath04/newsfront/internal/config"
)

// New creates a logger from the log configuration. Unknown levels fall
// back to info rather than failing startup.
func New(cfg *config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg != nil && cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "time",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "msg",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FullTimestamp:   true,
		})
	}

	level := logrus.InfoLevel
	if cfg != nil {
		if parsed, err := logrus.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)

	logger.AddHook(&serviceFieldHook{service: "newsfront"})
	return logger
}

// SetLevel applies a level string to an existing logger, for hot
// reloads. Unknown levels leave the logger unchanged.
func SetLevel(logger *logrus.Logger, level string) {
	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
}

// Quiet returns a logger that discards everything; used by tests and as
// a safe zero-config fallback.
func Quiet() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// serviceFieldHook stamps every entry with the service name for log
// aggregation.
type serviceFieldHook struct {
	service string
}

func (h *serviceFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *serviceFieldHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.service
	return nil
}
