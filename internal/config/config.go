// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatview/internal/render"
)

// =============================================================================
// CONFIGURATION TYPES
// =============================================================================

// Config is the root chatview configuration.
type Config struct {
	Renderer RendererConfig       `toml:"renderer" json:"renderer"`
	Channel  render.ChannelConfig `toml:"channel" json:"channel"`
	Server   ServerConfig         `toml:"server" json:"server"`
	Storage  StorageConfig        `toml:"storage" json:"storage"`
}

// RendererConfig controls default rendering behavior.
type RendererConfig struct {
	// Theme names the inner-class theme token, e.g. "simple" yields
	// "message-simple-text-inner".
	Theme string `toml:"theme" json:"theme"`

	// DisplayIconOnError prefixes error banners with a warning icon.
	DisplayIconOnError bool `toml:"display_icon_on_error" json:"display_icon_on_error"`
}

// ServerConfig controls the preview HTTP server.
type ServerConfig struct {
	Port               int    `toml:"port" json:"port"`
	BearerToken        string `toml:"bearer_token" json:"bearer_token"`
	AuthEnabled        bool   `toml:"auth_enabled" json:"auth_enabled"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute" json:"rate_limit_per_minute"`
}

// StorageConfig controls message persistence.
type StorageConfig struct {
	DatabasePath string `toml:"database_path" json:"database_path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Renderer: RendererConfig{
			Theme:              "simple",
			DisplayIconOnError: false,
		},
		Channel: render.ChannelConfig{
			MarkdownEnabled: true,
			HTMLTrusted:     false,
		},
		Server: ServerConfig{
			Port:               8420,
			AuthEnabled:        false,
			RateLimitPerMinute: 120,
		},
		Storage: StorageConfig{
			DatabasePath: "", // resolved to ConfigDir()/messages.db on load
		},
	}
}

// ConfigDir returns the chatview configuration directory (~/.chatview).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".chatview"), nil
}

// ConfigPath returns the path to the TOML configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the default path, applies environment
// overrides, and validates. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from a specific file path. A missing
// file is not an error; the defaults apply.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies CHATVIEW_* environment variables on top of the
// loaded values. Environment always wins over the file.
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("CHATVIEW_THEME"); theme != "" {
		c.Renderer.Theme = theme
	}
	if icon := os.Getenv("CHATVIEW_ERROR_ICON"); icon != "" {
		c.Renderer.DisplayIconOnError = isTruthy(icon)
	}
	if md := os.Getenv("CHATVIEW_MARKDOWN"); md != "" {
		c.Channel.MarkdownEnabled = isTruthy(md)
	}
	if trusted := os.Getenv("CHATVIEW_HTML_TRUSTED"); trusted != "" {
		c.Channel.HTMLTrusted = isTruthy(trusted)
	}
	if port := os.Getenv("CHATVIEW_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if token := os.Getenv("CHATVIEW_TOKEN"); token != "" {
		c.Server.BearerToken = token
		c.Server.AuthEnabled = true
	}
	if db := os.Getenv("CHATVIEW_DB"); db != "" {
		c.Storage.DatabasePath = db
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

// SetDefaults fills zero values that have a sensible default.
func (c *Config) SetDefaults() {
	if c.Renderer.Theme == "" {
		c.Renderer.Theme = "simple"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8420
	}
	if c.Server.RateLimitPerMinute == 0 {
		c.Server.RateLimitPerMinute = 120
	}
	if c.Storage.DatabasePath == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Storage.DatabasePath = filepath.Join(dir, "messages.db")
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %q (value: %v): %s", e.Field, e.Value, e.Message)
}

// Validate checks configuration values and clamps out-of-range numbers.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		}
	}

	if c.Server.AuthEnabled && c.Server.BearerToken == "" {
		return &ValidationError{
			Field:   "server.bearer_token",
			Value:   "",
			Message: "required when auth is enabled",
		}
	}

	// Clamp rather than reject: a wild rate limit is a tuning mistake,
	// not a reason to refuse startup.
	if c.Server.RateLimitPerMinute < 1 {
		c.Server.RateLimitPerMinute = 1
	}
	if c.Server.RateLimitPerMinute > 100000 {
		c.Server.RateLimitPerMinute = 100000
	}

	for _, r := range c.Renderer.Theme {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return &ValidationError{
				Field:   "renderer.theme",
				Value:   c.Renderer.Theme,
				Message: "must be lowercase letters, digits, or hyphens",
			}
		}
	}

	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default path with 0600 permissions.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath writes the configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# chatview configuration file")
	fmt.Fprintln(file, "# Generated by chatview - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// RenderOptions converts the renderer section into render options.
func (c *Config) RenderOptions() *render.Options {
	return &render.Options{
		Theme:              c.Renderer.Theme,
		DisplayIconOnError: c.Renderer.DisplayIconOnError,
		UnsafeHTML:         c.Channel.HTMLTrusted,
	}
}
