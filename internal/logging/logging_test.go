package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tipctl/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectError bool
		expectJSON  bool
	}{
		{name: "text info", level: "info", format: "text"},
		{name: "json debug", level: "debug", format: "json", expectJSON: true},
		{name: "defaults", level: "", format: ""},
		{name: "unknown level", level: "verbose", format: "text", expectError: true},
		{name: "unknown format", level: "info", format: "xml", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(tt.level, tt.format, &buf)
			if tt.expectError {
				if !errors.IsErrorType(err, errors.ConfigErrorType) {
					t.Errorf("expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			logger.Info("ran", "line", 3)
			out := buf.String()
			if tt.expectJSON && !strings.Contains(out, `"line":3`) {
				t.Errorf("expected json output, got %q", out)
			}
			if !tt.expectJSON && !strings.Contains(out, "line=3") {
				t.Errorf("expected text output, got %q", out)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "text", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn record missing: %q", buf.String())
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a discarding logger for an empty context")
	}

	var buf bytes.Buffer
	logger, _ := New("info", "text", &buf)
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected record written through context logger, got %q", buf.String())
	}
}

func TestDailyWriterRollsOver(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)

	w, err := NewDailyWriter(dir, "tipctl", func() time.Time { return now })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("first\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	first := w.Path()

	now = now.Add(2 * time.Minute)
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	second := w.Path()

	if filepath.Base(first) != "tipctl-2024-03-01.log" {
		t.Errorf("unexpected first file %s", first)
	}
	if filepath.Base(second) != "tipctl-2024-03-02.log" {
		t.Errorf("unexpected second file %s", second)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("failed to read %s: %v", first, err)
	}
	if string(data) != "first\n" {
		t.Errorf("unexpected content of first file %q", data)
	}
}

func TestDailyWriterClosed(t *testing.T) {
	w, err := NewDailyWriter(t.TempDir(), "tipctl", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("expected write after close to fail")
	}
}

func TestDailyWriterEmptyDir(t *testing.T) {
	if _, err := NewDailyWriter("  ", "tipctl", nil); !errors.IsErrorType(err, errors.ConfigErrorType) {
		t.Errorf("expected config error, got %v", err)
	}
}
