package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerURL      = "http://127.0.0.1:8000"
	defaultPixelsPerCell  = 8
	defaultRequestTimeout = 30 * time.Second
)

type appConfig struct {
	ServerURL      string        `yaml:"server_url,omitempty"`
	Database       string        `yaml:"database,omitempty"`
	PixelsPerCell  int           `yaml:"pixels_per_cell,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	LogPath        string        `yaml:"log_path,omitempty"`
}

func defaultConfig() appConfig {
	return appConfig{
		ServerURL:      defaultServerURL,
		PixelsPerCell:  defaultPixelsPerCell,
		RequestTimeout: defaultRequestTimeout,
	}
}

// loadConfig reads the YAML config. A missing file yields the defaults.
func loadConfig(path string) (appConfig, string, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(resolveConfigDir(), "config.yaml")
	}
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, path, nil
	}
	if err != nil {
		return cfg, path, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), path, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, path, nil
}

func (c *appConfig) normalize() {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	c.Database = strings.TrimSpace(c.Database)
	c.LogPath = strings.TrimSpace(c.LogPath)
	if c.PixelsPerCell <= 0 {
		c.PixelsPerCell = defaultPixelsPerCell
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "task-report")
}
