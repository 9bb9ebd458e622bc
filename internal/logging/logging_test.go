package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := levelFromString(in); got != want {
			t.Errorf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("source failed", "firm", "a16z")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "firm=a16z") {
		t.Errorf("expected structured attribute in output: %q", out)
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) != slog.Default() {
		t.Error("OrDefault(nil) should return slog.Default()")
	}
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if OrDefault(l) != l {
		t.Error("OrDefault should keep the provided logger")
	}
}
