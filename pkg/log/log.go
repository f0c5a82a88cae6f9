// Package log configures the process-wide logrus logger and threads a
// per-request/per-command *logrus.Entry through context.Context, the
// ambient logging stack every other package in this runtime builds its
// component logger on top of.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logger's level and formatter. Called
// once at process startup by cmd/betula.
func Setup(logLevel string) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	return logger
}

// WithModule returns a logger entry from the standard logger tagged with
// a "module" field; cmd/betula uses it for its top-level errors. The
// runner and web packages tag their own loggers with a "component" field
// instead.
func WithModule(module string) *logrus.Entry {
	return logrus.StandardLogger().WithField("module", module)
}
