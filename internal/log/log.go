package log

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const loggerKey ctxKey = iota

// Init configures the standard logrus logger. format is "json" or "text".
func Init(level logrus.Level, format string) {
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func ParseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func ToContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, entry)
}

// FromContext returns the request-scoped entry, or one on the standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
