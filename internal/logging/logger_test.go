package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONLoggerEmitsNormalizedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hello", Args(String("file", "/tmp/a.png"))...)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("parse log line: %v", err)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want info", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("expected ts key in JSON output")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWithContextAddsFileAndSlot(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := WithSlot(WithFile(context.Background(), "/tmp/clip.mkv"), "transcribe")
	WithContext(ctx, logger).Debug("step")

	line := buf.String()
	if !strings.Contains(line, "/tmp/clip.mkv") {
		t.Errorf("log line missing file attr: %s", line)
	}
	if !strings.Contains(line, "transcribe") {
		t.Errorf("log line missing slot attr: %s", line)
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := NewComponentLogger(nil, "cache")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("should not panic")
}
