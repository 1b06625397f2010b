package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings taskflow reads from its TOML file.
type Config struct {
	APIBaseURL  string
	Timeout     time.Duration
	LogFile     string
	LogLevel    string
	Locale      string
	MetricsAddr string
	Theme       string
}

const (
	defaultConfigPath = "~/.config/taskflow/config.toml"
	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultTimeout    = 5 * time.Second
	defaultLogFile    = "~/.local/state/taskflow/taskflow.log"
	defaultLogLevel   = "info"
	defaultLocale     = "en"
	defaultTheme      = "Dracula"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL: defaultAPIBaseURL,
		Timeout:    defaultTimeout,
		LogFile:    mustExpand(defaultLogFile),
		LogLevel:   defaultLogLevel,
		Locale:     defaultLocale,
		Theme:      defaultTheme,
	}
}

// DefaultPath returns the config location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Blank values also fall back to defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL  string `toml:"api_base_url"`
		Timeout     string `toml:"timeout"`
		LogFile     string `toml:"log_file"`
		LogLevel    string `toml:"log_level"`
		Locale      string `toml:"locale"`
		MetricsAddr string `toml:"metrics_addr"`
		Theme       string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(raw.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timeout %q: %w", v, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: timeout must be positive, got %s", d)
		}
		cfg.Timeout = d
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Locale); v != "" {
		cfg.Locale = v
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
