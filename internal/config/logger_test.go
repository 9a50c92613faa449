package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_Production(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("production", &buf)

	logger.Debug("hidden")
	logger.Info("composition finished", "run_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("production log is not JSON: %v", err)
	}
	if entry["msg"] != "composition finished" || entry["run_id"] != "abc" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["source"]; ok {
		t.Errorf("production logs should not carry source")
	}
}

func TestNewLogger_Development(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("development", &buf)

	logger.Debug("visible")

	out := buf.String()
	if !strings.Contains(out, "msg=visible") {
		t.Errorf("expected text handler output, got %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("expected source in development logs, got %q", out)
	}
}
