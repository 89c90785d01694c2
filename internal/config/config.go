// Package config loads storefront configuration from a YAML file
// with environment variable overrides.
//
// Config file format (bookshop.yaml):
//
//	api_url: "http://localhost:8000/api"
//	state_dir: "~/.local/state/bookshop"
//	requests_per_second: 10
//
// Configuration sources, in increasing priority order:
//  1. Built-in defaults
//  2. YAML config file (located by FindConfigFile or explicit path)
//  3. Environment variables (BOOKSHOP_API_URL, BOOKSHOP_STATE_DIR,
//     BOOKSHOP_RPS)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront configuration.
type Config struct {
	// APIBaseURL is the root of the backend REST API, without a
	// trailing slash.
	APIBaseURL string `yaml:"api_url"`

	// StateDir is where cart, wishlist and tokens are persisted.
	// A leading ~ is expanded to the user's home directory.
	StateDir string `yaml:"state_dir"`

	// RequestsPerSecond caps outbound calls to the backend.
	RequestsPerSecond int `yaml:"requests_per_second"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		APIBaseURL:        "http://localhost:8000/api",
		StateDir:          "~/.local/state/bookshop",
		RequestsPerSecond: 10,
	}
}

// Load reads configuration from the YAML file at path (if non-empty),
// then applies environment variable overrides on top. If path is
// empty, only defaults and environment variables are applied.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if v := os.Getenv("BOOKSHOP_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("BOOKSHOP_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("BOOKSHOP_RPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestsPerSecond = n
		}
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.StateDir = expandHome(cfg.StateDir)
	return cfg, nil
}

// FindConfigFile returns the path to the first config file found in
// the standard search order, or "" if none is found.
//
// Search order:
//  1. BOOKSHOP_CONFIG environment variable (explicit override)
//  2. ./bookshop.yaml (current working directory)
//  3. ~/.config/bookshop/config.yaml (XDG user config)
func FindConfigFile() string {
	if p := os.Getenv("BOOKSHOP_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("bookshop.yaml"); err == nil {
		return "bookshop.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "bookshop", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
