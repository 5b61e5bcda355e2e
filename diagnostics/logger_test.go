package diagnostics

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelWarn)
	defer SetLevel(LevelInfo)

	log := WithComponent("test")
	log.Debug("should not appear")
	log.Info("should not appear either")
	log.Warn("warning %d", 1)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected sub-threshold lines to be suppressed, got %q", out)
	}
	if !strings.Contains(out, "warning 1") {
		t.Fatalf("expected warn line in output, got %q", out)
	}
	if !strings.Contains(out, "[test]") {
		t.Fatalf("expected component tag in output, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
