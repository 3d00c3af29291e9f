// Package config provides persistent configuration for ramadan-live.
//
// Configuration is stored as JSON at ~/.config/ramadan-live/config.json
// (XDG-compliant). The merge priority is:
// CLI flags > environment (.env) > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-live/internal/calendar"
	"github.com/smokyabdulrahman/ramadan-live/internal/preset"
)

const (
	configDirName  = "ramadan-live"
	configFileName = "config.json"

	// LocationAuto selects the preset nearest to the detected IP location.
	LocationAuto = "auto"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"location",
	"time_format",
	"cache_dir",
	"start_date",
	"total_days",
	"match",
	"listen_addr",
	"redis_addr",
	"log_level",
}

// Config is the on-disk file. Zero values mean "not set".
type Config struct {
	Location   string `json:"location,omitempty"`    // preset key or "auto"
	TimeFormat string `json:"time_format,omitempty"` // "12h" or "24h"
	CacheDir   string `json:"cache_dir,omitempty"`
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD
	TotalDays  int    `json:"total_days,omitempty"`
	Match      string `json:"match,omitempty"` // "dates" or "hijri"
	ListenAddr string `json:"listen_addr,omitempty"`
	RedisAddr  string `json:"redis_addr,omitempty"`
	LogLevel   string `json:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	season := calendar.DefaultSeason()
	return Config{
		Location:   preset.DefaultKey,
		TimeFormat: "24h",
		StartDate:  season.Start.Format("2006-01-02"),
		TotalDays:  season.TotalDays,
		Match:      string(season.Match),
		ListenAddr: ":8080",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// A missing file is an empty Config; invalid JSON is an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "location":
		if err := ValidateLocation(value); err != nil {
			return err
		}
		c.Location = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "cache_dir":
		c.CacheDir = value
	case "start_date":
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return fmt.Errorf("invalid start_date %q: must be YYYY-MM-DD", value)
		}
		c.StartDate = value
	case "total_days":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid total_days %q: must be an integer", value)
		}
		if v < 1 || v > 60 {
			return fmt.Errorf("invalid total_days %q: must be between 1 and 60", value)
		}
		c.TotalDays = v
	case "match":
		if _, err := calendar.ParseMatchMode(value); err != nil {
			return err
		}
		c.Match = value
	case "listen_addr":
		c.ListenAddr = value
	case "redis_addr":
		c.RedisAddr = value
	case "log_level":
		switch value {
		case "trace", "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log_level %q: must be trace, debug, info, warn or error", value)
		}
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "location":
		return c.Location, nil
	case "time_format":
		return c.TimeFormat, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "start_date":
		return c.StartDate, nil
	case "total_days":
		if c.TotalDays == 0 {
			return "", nil
		}
		return strconv.Itoa(c.TotalDays), nil
	case "match":
		return c.Match, nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// ValidateLocation accepts "auto" or a known preset key.
func ValidateLocation(value string) error {
	if strings.EqualFold(strings.TrimSpace(value), LocationAuto) {
		return nil
	}
	_, err := preset.MustDefault().Get(value)
	return err
}
