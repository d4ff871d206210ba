package logging

import (
	"context"
	"maps"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter routes library logging through a logrus.Logger so that
// applications already standardized on logrus see a single log stream.
type LogrusAdapter struct {
	logger *logrus.Logger
	fields Fields
}

// NewLogrusAdapter wraps an existing logrus logger. A nil logger uses
// the logrus standard logger.
func NewLogrusAdapter(logger *logrus.Logger) *LogrusAdapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusAdapter{
		logger: logger,
		fields: make(Fields),
	}
}

func (l *LogrusAdapter) entry(fields ...Fields) *logrus.Entry {
	allFields := make(logrus.Fields, len(l.fields))
	for k, v := range l.fields {
		allFields[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			allFields[k] = v
		}
	}
	return l.logger.WithFields(allFields)
}

func (l *LogrusAdapter) Debug(msg string, fields ...Fields) {
	l.entry(fields...).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, fields ...Fields) {
	l.entry(fields...).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Fields) {
	l.entry(fields...).Warn(msg)
}

func (l *LogrusAdapter) Error(err error, msg string, fields ...Fields) {
	l.entry(fields...).WithError(err).Error(msg)
}

func (l *LogrusAdapter) Fatal(err error, msg string, fields ...Fields) {
	l.entry(fields...).WithError(err).Fatal(msg)
}

func (l *LogrusAdapter) WithFields(fields Fields) Logger {
	newFields := make(Fields)
	maps.Copy(newFields, l.fields)
	maps.Copy(newFields, fields)

	return &LogrusAdapter{
		logger: l.logger,
		fields: newFields,
	}
}

func (l *LogrusAdapter) WithContext(ctx context.Context) Logger {
	if fields, ok := ctx.Value(loggerFieldsKey{}).(Fields); ok {
		return l.WithFields(fields)
	}
	return l
}

// SetLevel maps the library level onto the logrus level scale
func (l *LogrusAdapter) SetLevel(level Level) {
	switch level {
	case DebugLevel:
		l.logger.SetLevel(logrus.DebugLevel)
	case InfoLevel:
		l.logger.SetLevel(logrus.InfoLevel)
	case WarnLevel:
		l.logger.SetLevel(logrus.WarnLevel)
	case ErrorLevel:
		l.logger.SetLevel(logrus.ErrorLevel)
	case FatalLevel:
		l.logger.SetLevel(logrus.FatalLevel)
	}
}
