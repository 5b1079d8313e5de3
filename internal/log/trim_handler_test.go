package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTrimHandlerCapsLongStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil), 10))

	logger.Info("record", "description", strings.Repeat("x", 100))

	out := buf.String()
	if !strings.Contains(out, strings.Repeat("x", 10)+TrimMarker) {
		t.Errorf("output not trimmed: %q", out)
	}
	if strings.Contains(out, strings.Repeat("x", 11)) {
		t.Errorf("more than limit runes survived: %q", out)
	}
}

func TestTrimHandlerKeepsShortStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil), 50))

	logger.Info("record", "name", "SQL Injection")

	out := buf.String()
	if !strings.Contains(out, "SQL Injection") {
		t.Errorf("short value altered: %q", out)
	}
	if strings.Contains(out, TrimMarker) {
		t.Errorf("unexpected trim marker: %q", out)
	}
}

func TestTrimHandlerRuneSafe(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil), 3))

	logger.Info("record", "name", "ééééé")

	out := buf.String()
	if !strings.Contains(out, "ééé"+TrimMarker) {
		t.Errorf("multi-byte trim wrong: %q", out)
	}
}

func TestTrimHandlerNonStringAttrsUntouched(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil), 5))

	logger.Info("record", "count", 1234567890)

	if !strings.Contains(buf.String(), "1234567890") {
		t.Errorf("numeric attribute altered: %q", buf.String())
	}
}

func TestTrimHandlerGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil), 4))

	logger.Info("record", slog.Group("finding", slog.String("description", "abcdefgh")))

	if !strings.Contains(buf.String(), "abcd"+TrimMarker) {
		t.Errorf("grouped attribute not trimmed: %q", buf.String())
	}
}

func TestTrimHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewTrimHandler(slog.NewTextHandler(&buf, nil), 4))

	logger.With("source", "abcdefgh").Info("record")

	if !strings.Contains(buf.String(), "abcd"+TrimMarker) {
		t.Errorf("With attribute not trimmed: %q", buf.String())
	}
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)
		logger.Debug("hidden")
		logger.Info("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("debug message logged without verbose")
		}
		if !strings.Contains(out, "shown") {
			t.Error("info message missing")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		logger.Debug("visible")

		if !strings.Contains(buf.String(), "visible") {
			t.Error("debug message missing in verbose mode")
		}
	})
}

func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, false)
	logger.Info("record", "host", "web01")

	out := buf.String()
	if !strings.Contains(out, `"host":"web01"`) {
		t.Errorf("JSON output = %q", out)
	}
}
