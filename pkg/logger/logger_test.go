package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONWithService(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Output: &buf, Service: "commerce-api"})
	log.Debug().Int64("order_id", 7).Msg("order created")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["service"] != "commerce-api" || entry["message"] != "order created" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["order_id"] != float64(7) {
		t.Fatalf("missing field: %v", entry)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var firstBuf, secondBuf bytes.Buffer
	first := Init(Options{Output: &firstBuf})
	again := Init(Options{Output: &secondBuf})
	again.Info().Msg("hello")
	first.Info().Msg("world")

	if secondBuf.Len() != 0 {
		t.Fatalf("second Init must not replace the writer, got %q", secondBuf.String())
	}
	if n := bytes.Count(firstBuf.Bytes(), []byte("\n")); n != 2 {
		t.Fatalf("expected both entries on the first writer, got %d: %q", n, firstBuf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
