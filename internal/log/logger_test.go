package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentStore, Output: &buf})

	logger.Info("saved", FieldExpenseID, "abc")
	logger.Debug("hidden")
	logger.WithComponent(ComponentTips).Warn("slow")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (debug filtered), got %d", len(lines))
	}
	if lines[0][FieldComponent] != ComponentStore || lines[0][FieldExpenseID] != "abc" {
		t.Errorf("unexpected first line: %v", lines[0])
	}
	if lines[1][FieldComponent] != ComponentTips {
		t.Errorf("expected tips component, got %v", lines[1][FieldComponent])
	}
}

func TestNewDefaultsComponent(t *testing.T) {
	logger := New(Config{Output: &bytes.Buffer{}})
	if logger.Component() != ComponentApp {
		t.Errorf("Component() = %q, want %q", logger.Component(), ComponentApp)
	}
}

func TestNewContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Output: &buf}).With(FieldRequestID, "req-1")

	ctx := NewContext(context.Background(), logger.WithComponent(ComponentHTTP))
	FromContext(ctx).Info("handled")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0][FieldRequestID] != "req-1" || lines[0][FieldComponent] != ComponentHTTP {
		t.Errorf("unexpected line: %v", lines[0])
	}
}

func TestFromContextFallsBack(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil || logger.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %+v", logger)
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: "json", Output: &buf}))

	sl.LogExpenseSaved(context.Background(), OpCreate, "id-1", "Lunch", "12.50", "Food")
	sl.LogError(context.Background(), "save failed", errors.New("disk full"), ComponentStore, OpUpdate, nil)

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0][FieldExpenseTitle] != "Lunch" || lines[0][FieldOperation] != OpCreate {
		t.Errorf("unexpected saved line: %v", lines[0])
	}
	if lines[1][FieldError] != "disk full" || lines[1]["level"] != "ERROR" {
		t.Errorf("unexpected error line: %v", lines[1])
	}
}
