package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("expected json formatter")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("expected logfmt formatter")
	}
	if ParseFormatter("fancy") != log.TextFormatter {
		t.Error("expected text formatter for unknown name")
	}
}

func TestNewFromConfig_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	var sink Sink = NewFromConfig(&buf, "debug", "logfmt")

	sink.Error("update failed", "task_id", "42")

	out := buf.String()
	if !strings.Contains(out, "update failed") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "task_id=42") {
		t.Errorf("expected task_id field in output, got %q", out)
	}
}

func TestNewFromConfig_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	sink := NewFromConfig(&buf, "error", "text")

	sink.Debug("noise")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be filtered, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard.Error("x", "k", "v")
	Discard.Debug("x")
}
