package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNew_JSONCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Level:   INFO,
		Format:  JSON,
		Output:  &buf,
		Service: "assistant",
	})

	log.Info("Booking registered", "booking_id", "abc123", "department", "Cardiology")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "Booking registered" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry[SERVICE] != "assistant" {
		t.Errorf("service = %v", entry[SERVICE])
	}
	if entry["booking_id"] != "abc123" || entry["department"] != "Cardiology" {
		t.Errorf("fields missing: %v", entry)
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Output: &buf})

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected warn entry, got %s", out)
	}
}

func TestWith_AddsContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf}).With("operation", "confirm_appointment")

	log.Error("failed")

	if !strings.Contains(buf.String(), `"operation":"confirm_appointment"`) {
		t.Errorf("expected operation field, got %s", buf.String())
	}
}
