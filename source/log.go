package source

import (
	"github.com/sirupsen/logrus"
)

// leveledLogger adapts a logrus entry to retryablehttp's LeveledLogger.
type leveledLogger struct {
	log *logrus.Entry
}

func (l leveledLogger) fields(kv []interface{}) *logrus.Entry {
	e := l.log
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			e = e.WithField(k, kv[i+1])
		}
	}
	return e
}

func (l leveledLogger) Error(msg string, kv ...interface{}) {
	l.fields(kv).Error(msg)
}

func (l leveledLogger) Info(msg string, kv ...interface{}) {
	l.fields(kv).Debug(msg)
}

func (l leveledLogger) Debug(msg string, kv ...interface{}) {
	l.fields(kv).Debug(msg)
}

func (l leveledLogger) Warn(msg string, kv ...interface{}) {
	l.fields(kv).Warn(msg)
}
