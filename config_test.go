package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got != path {
		t.Fatalf("path = %q, want %q", got, path)
	}
	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "server_url: https://report.example.com/ \npixels_per_cell: 6\nrequest_timeout: 5s\ndatabase: \" tasks.db \"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := appConfig{
		ServerURL:      "https://report.example.com",
		Database:       "tasks.db",
		PixelsPerCell:  6,
		RequestTimeout: 5 * time.Second,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pixels_per_cell: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestSessionLoggerWritesJSON(t *testing.T) {
	t.Setenv("TASK_REPORT_USER", "tester")
	path := filepath.Join(t.TempDir(), "logs", "session.log")
	log, closer, err := newSessionLogger(path)
	if err != nil {
		t.Fatalf("newSessionLogger: %v", err)
	}
	log.WithField("kind", "idle").Info("status message")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	if entry["msg"] != "status message" || entry["kind"] != "idle" || entry["user_id"] != "tester" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if id, _ := entry["session_id"].(string); len(id) != 32 {
		t.Fatalf("session_id = %v", entry["session_id"])
	}
}
