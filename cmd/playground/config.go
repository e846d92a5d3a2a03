package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/katalvlaran/gridfleet/grid"
)

// Config holds the playground server settings.
// Fields omitted from a config file keep their DefaultConfig values.
type Config struct {
	Listen         string   `json:"listen"`
	TickInterval   string   `json:"tick_interval"` // duration string like "250ms"
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	MaxAgents      int      `json:"max_agents"`
	LogLevel       string   `json:"log_level"`
	LogFormat      string   `json:"log_format"` // "text" or "json"
	AllowedOrigins []string `json:"allowed_origins"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen:       ":8080",
		TickInterval: "300ms",
		Width:        grid.DefaultSize,
		Height:       grid.DefaultSize,
		MaxAgents:    10,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// LoadConfig overlays the JSON file at path onto DefaultConfig.
// The file must have a .json extension and be at most 1MB.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 << 20
	if fileInfo.Size() > maxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and formats.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen must not be empty")
	}
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return fmt.Errorf("invalid tick_interval %q: %w", c.TickInterval, err)
	}
	if d <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", d)
	}
	if c.Width < grid.MinSize || c.Width > grid.MaxSize {
		return fmt.Errorf("width must be between %d and %d, got %d", grid.MinSize, grid.MaxSize, c.Width)
	}
	if c.Height < grid.MinSize || c.Height > grid.MaxSize {
		return fmt.Errorf("height must be between %d and %d, got %d", grid.MinSize, grid.MaxSize, c.Height)
	}
	if c.MaxAgents <= 0 {
		return fmt.Errorf("max_agents must be positive, got %d", c.MaxAgents)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return nil
}

// Tick returns the parsed autoplay interval. Call Validate first.
func (c Config) Tick() time.Duration {
	d, _ := time.ParseDuration(c.TickInterval)
	return d
}

// NewLogger builds a logger from the log settings. Call Validate first.
func (c Config) NewLogger() *log.Logger {
	logger := log.New()
	level, _ := log.ParseLevel(c.LogLevel)
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}
