package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// New builds a structured logger tagged with the service name. An empty
// level means info.
func New(service, level, format string) (*logrus.Entry, error) {
	return NewWithOutput(os.Stdout, service, level, format)
}

func NewWithOutput(out io.Writer, service, level, format string) (*logrus.Entry, error) {
	log := logrus.New()
	log.SetOutput(out)

	switch format {
	case "", FormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	case FormatText:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	log.SetLevel(logrus.InfoLevel)
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		log.SetLevel(lvl)
	}

	return log.WithField("service", service), nil
}

// Discard returns a logger that drops everything.
func Discard() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// OrDiscard returns log, or a discarding logger when log is nil.
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}
