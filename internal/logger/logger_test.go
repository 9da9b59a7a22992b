package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New("tpv-analyzer", "info", false)
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected output to contain message, got: %s", buf.String())
	}
}

func TestContextCarry(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf)
	ctx := WithContext(context.Background(), testLog)

	carried := FromContext(ctx)
	carried.Info().Msg("carried")

	if !strings.Contains(buf.String(), "carried") {
		t.Error("logger from context did not reach the test writer")
	}
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("default logger must be enabled")
	}
}

func TestWithJob(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithJob(NewWithWriter(buf), "job-42")

	log.Info().Msg("working")

	out := buf.String()
	if !strings.Contains(out, "job_id") || !strings.Contains(out, "job-42") {
		t.Errorf("expected job_id field, got: %s", out)
	}
}
