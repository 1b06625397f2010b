package diaglog

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		n        int
		expected []string
	}{
		{name: "zero", n: 0, expected: nil},
		{name: "partial", n: 5, expected: all[5:]},
		{name: "exact", n: 10, expected: all},
		{name: "more than exists", n: 20, expected: all},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.n)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Tail(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestNew_WritesParsableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taskflow.log")
	logger, err := New(Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("api request", zap.String("method", "GET"), zap.Int("status", 200))
	_ = logger.Sync()

	lines, err := Tail(path, 10)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %v, want 1 line", lines)
	}
	entry := ParseLine(lines[0])
	if entry.Level != "debug" || entry.Message != "api request" {
		t.Fatalf("entry = %#v, want debug/api request", entry)
	}
	if entry.Time.IsZero() {
		t.Fatalf("entry.Time is zero, want parsed timestamp from %q", lines[0])
	}
	if got := entry.FieldString(); got != "method=GET status=200" {
		t.Fatalf("FieldString = %q, want method=GET status=200", got)
	}
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("logger without path should be a no-op")
	}
}

func TestParseLine_PlainText(t *testing.T) {
	entry := ParseLine("not json")
	if entry.Message != "not json" || entry.Level != "" || entry.FieldString() != "" {
		t.Fatalf("ParseLine(plain) = %#v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("warn") != zapcore.WarnLevel {
		t.Fatalf("ParseLevel(warn) != WarnLevel")
	}
	if ParseLevel("loud") != zapcore.InfoLevel {
		t.Fatalf("ParseLevel(loud) should default to info")
	}
}
