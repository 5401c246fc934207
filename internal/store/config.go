package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds per-user settings shared by the CLI and the TUI.
type Config struct {
	// Server is the base URL of the blog admin API (e.g. "http://127.0.0.1:8000").
	Server string `json:"server,omitempty"`

	// Session is the admin session cookie value sent with every request.
	Session string `json:"session,omitempty"`

	// Format is the default CLI output format ("json" or "table").
	Format string `json:"format,omitempty"`

	// DeviceID is a stable per-machine identifier. It is recorded with journal
	// entries so histories copied between machines stay distinguishable.
	DeviceID string `json:"deviceId,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces the background assumption ("light", "dark", or "auto").
	Theme string `json:"theme,omitempty"`
	// Glyphs selects the glyph set (e.g. "unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// Markdown selects the markdown render style for post previews.
	Markdown string `json:"markdown,omitempty"`
}

// TUIPrefs returns the TUI preferences, never nil.
func (c *Config) TUIPrefs() TUIConfig {
	if c == nil || c.TUI == nil {
		return TUIConfig{}
	}
	return *c.TUI
}

// Set applies a `config set` key/value pair. Unknown keys are an error so
// typos do not silently write dead fields.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "server":
		c.Server = strings.TrimRight(value, "/")
	case "session":
		c.Session = value
	case "format":
		if value != "" && value != "json" && value != "table" {
			return fmt.Errorf("format must be json or table, got %q", value)
		}
		c.Format = value
	case "tui.theme":
		c.ensureTUI().Theme = value
	case "tui.glyphs":
		c.ensureTUI().Glyphs = value
	case "tui.markdown":
		c.ensureTUI().Markdown = value
	default:
		return fmt.Errorf("unknown config key: %s (known: server, session, format, tui.theme, tui.glyphs, tui.markdown)", key)
	}
	return nil
}

func (c *Config) ensureTUI() *TUIConfig {
	if c.TUI == nil {
		c.TUI = &TUIConfig{}
	}
	return c.TUI
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.curator).
	if v := strings.TrimSpace(os.Getenv("CURATOR_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".curator"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Best-effort safety net: keep a copy of the previous config to make recovery from
	// accidental overwrites easier. Ignore errors to avoid blocking normal usage.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		// Use a unique temp file name + atomic rename to avoid cross-process corruption.
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}

	// Use a unique temp file name to avoid cross-process clobbering/corruption when
	// CLI and TUI processes write config concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
