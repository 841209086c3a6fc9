package logging

import (
	"context"
	"fmt"
	"strings"
)

// BadgerLogger adapts a Logger to the printf-style logger interface expected
// by badger. Badger's informational chatter is demoted to debug level.
type BadgerLogger struct {
	l Logger
}

func NewBadgerLogger(l Logger) *BadgerLogger {
	return &BadgerLogger{l: l.With("module", "badger")}
}

func (b *BadgerLogger) Errorf(format string, args ...any) {
	b.l.Error(context.Background(), line(format, args...))
}

func (b *BadgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(context.Background(), line(format, args...))
}

func (b *BadgerLogger) Infof(format string, args ...any) {
	b.l.Debug(context.Background(), line(format, args...))
}

func (b *BadgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(context.Background(), line(format, args...))
}

func line(format string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
