package log

import (
	"go.uber.org/zap"
)

// Fields to be added to a logger
type Fields map[string]interface{}

// Logger carries a zap sugared logger and accumulated fields
type Logger struct {
	logger *zap.SugaredLogger
	fields []interface{}
}

var zapSugaredLogger *zap.SugaredLogger

func init() {
	zapLogger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	zapSugaredLogger = zapLogger.Sugar()
}

// SetDebug swaps the process logger for zap's development config
func SetDebug() {
	zapLogger, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	zapSugaredLogger = zapLogger.Sugar()
}

// Log returns an empty field logger backed by the process logger
func Log() Logger {
	return Logger{
		logger: zapSugaredLogger,
		fields: []interface{}{},
	}
}

// New wraps an existing zap logger, mostly useful in tests
func New(z *zap.Logger) Logger {
	return Logger{
		logger: z.Sugar(),
		fields: []interface{}{},
	}
}

// WithField add a key/value pair to its fields
func (l Logger) WithField(key string, value interface{}) Logger {
	fields := make([]interface{}, 0, len(l.fields)+2)
	fields = append(fields, l.fields...)
	l.fields = append(fields, key, value)
	return l
}

// WithFields add multiple key/value pairs to its fields
func (l Logger) WithFields(kvs Fields) Logger {
	for k, v := range kvs {
		l = l.WithField(k, v)
	}
	return l
}

// Debug log
func (l Logger) Debug(args ...interface{}) {
	l.sugar().With(l.fields...).Debug(args...)
}

// Info log
func (l Logger) Info(args ...interface{}) {
	l.sugar().With(l.fields...).Info(args...)
}

// Warn log
func (l Logger) Warn(args ...interface{}) {
	l.sugar().With(l.fields...).Warn(args...)
}

// Error log
func (l Logger) Error(args ...interface{}) {
	l.sugar().With(l.fields...).Error(args...)
}

// Errorf log
func (l Logger) Errorf(template string, args ...interface{}) {
	l.sugar().With(l.fields...).Errorf(template, args...)
}

// the zero Logger falls back to the process logger
func (l Logger) sugar() *zap.SugaredLogger {
	if l.logger == nil {
		return zapSugaredLogger
	}
	return l.logger
}
