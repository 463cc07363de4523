package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestZerologAdapter_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZerologAdapterWithOptions(&buf, Options{Level: "debug", Format: FormatJSON})
	if err != nil {
		t.Fatalf("NewZerologAdapterWithOptions() error: %v", err)
	}

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	logger.Info("report",
		String("context", "/app"),
		Uint64("size", 42),
		Bool("portable", true),
		Time("oldest", ts),
		Err(errors.New("boom")),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "report" {
		t.Errorf("message = %v, want report", entry["message"])
	}
	if entry["context"] != "/app" {
		t.Errorf("context = %v, want /app", entry["context"])
	}
	if entry["size"] != float64(42) {
		t.Errorf("size = %v, want 42", entry["size"])
	}
	if entry["portable"] != true {
		t.Errorf("portable = %v, want true", entry["portable"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZerologAdapterWithOptions(&buf, Options{Level: "warn", Format: FormatJSON})
	if err != nil {
		t.Fatalf("NewZerologAdapterWithOptions() error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn entry, got %s", out)
	}
}

func TestNewZerologAdapterWithOptions_Invalid(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewZerologAdapterWithOptions(&buf, Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := NewZerologAdapterWithOptions(&buf, Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
