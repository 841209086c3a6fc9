package logging

import (
	"bytes"
	"log/slog"
	"testing"
)

// newTestLogger returns a debug-level text logger writing into the returned buffer.
func newTestLogger(t *testing.T) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))), &buf
}
