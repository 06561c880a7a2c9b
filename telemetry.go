package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// newSessionLogger opens the JSONL session log. Every entry carries the
// session and user identifiers.
func newSessionLogger(path string) (*logrus.Entry, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(resolveConfigDir(), "session.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.SetOutput(f)
	logger.SetLevel(logrus.InfoLevel)

	fields := logrus.Fields{"session_id": newSessionID()}
	if user := resolveUserID(); user != "" {
		fields["user_id"] = user
	}
	return logger.WithFields(fields), f, nil
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("%x", time.Now().UnixNano())
}

func resolveUserID() string {
	candidates := []string{
		os.Getenv("TASK_REPORT_USER"),
		os.Getenv("USER"),
		os.Getenv("USERNAME"),
	}
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
