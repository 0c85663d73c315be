// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	User    UserConfig    `toml:"user"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Events  EventsConfig  `toml:"events"`
	Log     LogConfig     `toml:"log"`
}

// UserConfig identifies whose listening is shown.
type UserConfig struct {
	ID       string `toml:"id"`
	Timezone string `toml:"timezone"` // IANA name; decides which date "today" is
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme      string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
	DebounceMs int    `toml:"debounce_ms"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// CacheConfig sizes the weekly event cache.
type CacheConfig struct {
	Size int `toml:"size"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// EventsConfig holds import event publishing settings. No brokers means
// events are not published.
type EventsConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty logs to stderr
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		User: UserConfig{
			ID:       defaultUserID(),
			Timezone: "UTC",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:      "frappe",
			DebounceMs: 300,
		},
		Cache: CacheConfig{
			Size: 64,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Events: EventsConfig{
			Topic: "tuneweek.plays-imported",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultUserID() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "me"
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tuneweek.db"
	}
	return filepath.Join(home, ".local", "share", "tuneweek", "tuneweek.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tuneweek", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TUNEWEEK_USER_ID"); v != "" {
		cfg.User.ID = v
	}
	if v := os.Getenv("TUNEWEEK_TIMEZONE"); v != "" {
		cfg.User.Timezone = v
	}

	// LLM overrides
	if v := os.Getenv("TUNEWEEK_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("TUNEWEEK_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("TUNEWEEK_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("TUNEWEEK_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("TUNEWEEK_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TUNEWEEK_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUNEWEEK_DEBOUNCE_MS: %w", err)
		}
		cfg.UI.DebounceMs = n
	}

	if v := os.Getenv("TUNEWEEK_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TUNEWEEK_CACHE_SIZE: %w", err)
		}
		cfg.Cache.Size = n
	}

	if v := os.Getenv("TUNEWEEK_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TUNEWEEK_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("TUNEWEEK_KAFKA_BROKERS"); v != "" {
		cfg.Events.Brokers = splitList(v)
	}
	if v := os.Getenv("TUNEWEEK_KAFKA_TOPIC"); v != "" {
		cfg.Events.Topic = v
	}

	if v := os.Getenv("TUNEWEEK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TUNEWEEK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validThemes = map[string]bool{
	"mocha":     true,
	"macchiato": true,
	"frappe":    true,
	"latte":     true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User.ID) == "" {
		return errors.New("user id must be set")
	}
	if _, err := time.LoadLocation(c.User.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.User.Timezone, err)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.UI.Theme != "" && !validThemes[strings.ToLower(c.UI.Theme)] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if c.UI.DebounceMs < 0 {
		return errors.New("debounce_ms must not be negative")
	}
	if c.Cache.Size < 0 {
		return errors.New("cache size must not be negative")
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		return errors.New("events topic must be set when brokers are configured")
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.User.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Debounce returns the navigation debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMs) * time.Millisecond
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
