package handlers_test

import (
	"context"
	"sync"

	"github.com/turtacn/sample-app/pkg/constants"
	"github.com/turtacn/sample-app/pkg/logger"
)

type logEntry struct {
	level  string
	msg    string
	fields logger.Fields
}

type logSink struct {
	mu      sync.Mutex
	entries []logEntry
}

// recordingLogger keeps every entry in memory. Children created by WithFields
// share the sink and carry their own base fields.
type recordingLogger struct {
	sink *logSink
	base logger.Fields
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{sink: &logSink{}, base: logger.Fields{}}
}

func (l *recordingLogger) record(level, msg string, fields []logger.Fields) {
	merged := logger.Fields{}
	for k, v := range l.base {
		merged[k] = v
	}
	for _, f := range fields {
		for k, v := range f {
			merged[k] = v
		}
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, logEntry{level: level, msg: msg, fields: merged})
}

func (l *recordingLogger) Entries() []logEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return append([]logEntry(nil), l.sink.entries...)
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, fields ...logger.Fields) {
	l.record("debug", msg, fields)
}

func (l *recordingLogger) Info(ctx context.Context, msg string, fields ...logger.Fields) {
	l.record("info", msg, fields)
}

func (l *recordingLogger) Warn(ctx context.Context, msg string, fields ...logger.Fields) {
	l.record("warn", msg, fields)
}

func (l *recordingLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Fields) {
	l.record("error", msg, append(fields, logger.Fields{"error": err}))
}

func (l *recordingLogger) Fatal(ctx context.Context, msg string, err error, fields ...logger.Fields) {
	l.record("fatal", msg, append(fields, logger.Fields{"error": err}))
}

func (l *recordingLogger) WithFields(fields logger.Fields) logger.Logger {
	child := &recordingLogger{sink: l.sink, base: logger.Fields{}}
	for k, v := range l.base {
		child.base[k] = v
	}
	for k, v := range fields {
		child.base[k] = v
	}
	return child
}

func (l *recordingLogger) ForContext(ctx context.Context) logger.Logger {
	if ctxLogger, ok := ctx.Value(constants.ContextKeyLogger).(logger.Logger); ok {
		return ctxLogger
	}
	return l
}

func (l *recordingLogger) SetLevel(level string) error {
	return nil
}
