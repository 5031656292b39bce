package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ClientConfig is the terminal client's configuration file.
type ClientConfig struct {
	ServerURL   string `toml:"server_url"`
	APIToken    string `toml:"api_token"`
	DebounceMS  int    `toml:"debounce_ms"`
	Suggestions int    `toml:"suggestions"` // rows of the autocomplete panel
}

// DefaultClientConfig returns the settings used when no file exists.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerURL:   "http://localhost:5000",
		DebounceMS:  300,
		Suggestions: 8,
	}
}

// Debounce returns the reload debounce delay.
func (c ClientConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// DefaultClientConfigPath returns $XDG_CONFIG_HOME/tvshows/client.toml,
// falling back to ~/.config when the user config dir is unknown.
func DefaultClientConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tvshows", "client.toml")
}

// LoadClientConfig reads the TOML file at path.  A missing file yields the
// defaults; zero values in the file are replaced by defaults too.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read client config: %w", err)
	}

	var fileCfg ClientConfig
	if err := toml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse client config %s: %w", path, err)
	}
	if fileCfg.ServerURL != "" {
		cfg.ServerURL = fileCfg.ServerURL
	}
	cfg.APIToken = fileCfg.APIToken
	if fileCfg.DebounceMS > 0 {
		cfg.DebounceMS = fileCfg.DebounceMS
	}
	if fileCfg.Suggestions > 0 {
		cfg.Suggestions = fileCfg.Suggestions
	}
	return cfg, nil
}

// SaveClientConfig writes cfg to path, creating parent directories.
func SaveClientConfig(path string, cfg ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode client config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write client config: %w", err)
	}
	return nil
}
