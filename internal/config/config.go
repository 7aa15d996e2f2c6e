// Package config loads blockstudio configuration from the user config
// directory, with defaults for everything so a fresh install needs no
// file at all.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds blockstudio configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Editor   EditorConfig   `toml:"editor"`
	Autosave AutosaveConfig `toml:"autosave"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Driver string `toml:"driver"` // "sqlite", "postgres", "mysql"
	DSN    string `toml:"dsn"`    // file path for sqlite, full DSN otherwise
}

// EditorConfig tunes the editor core.
type EditorConfig struct {
	Language   string `toml:"language"`
	HistoryCap int    `toml:"history_cap"`
}

// AutosaveConfig tunes the persistence gateway.
type AutosaveConfig struct {
	DebounceMs int    `toml:"debounce_ms"`
	Checkpoint string `toml:"checkpoint"` // cron spec
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":5000"},
		Storage:  StorageConfig{Driver: "sqlite", DSN: filepath.Join(DataDir(), "sessions.db")},
		Editor:   EditorConfig{Language: "python", HistoryCap: 50},
		Autosave: AutosaveConfig{DebounceMs: 1000, Checkpoint: "@every 5m"},
	}
}

// ConfigDir returns the blockstudio config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "blockstudio")
}

// DataDir returns the blockstudio data directory path.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "blockstudio")
}

// BlocksDir returns the user block-catalog plugin directory.
func BlocksDir() string {
	return filepath.Join(ConfigDir(), "blocks")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, falling back to defaults when it doesn't
// exist or fails to parse.
func Load() *Config {
	cfg := Default()
	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes the config file, creating the config directory if needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0755); err != nil {
		return err
	}
	f, err := os.Create(configPath())
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
