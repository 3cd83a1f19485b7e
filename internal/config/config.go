// Package config loads stackcost settings from TOML, .env, and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all stackcost configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	APIs       APIsConfig       `toml:"apis"`
	Preparer   PreparerConfig   `toml:"preparer"`
	Report     ReportConfig     `toml:"report"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
	Store      StoreConfig      `toml:"store"`
	Pricing    PricingOverrides `toml:"pricing"`
}

// GeneralConfig holds catalog and pricing defaults.
type GeneralConfig struct {
	Catalog  string `toml:"catalog"`
	Currency string `toml:"currency,omitempty"`
	Cycle    string `toml:"cycle"`
}

// APIsConfig overrides the service URLs embedded in the catalog.
type APIsConfig struct {
	RatesURL        string  `toml:"rates_url,omitempty"`
	ChartURL        string  `toml:"chart_url,omitempty"`
	IconSearchURL   string  `toml:"icon_search_url,omitempty"`
	IconRetrieveURL string  `toml:"icon_retrieve_url,omitempty"`
	ChartRenderer   string  `toml:"chart_renderer"` // "remote" or "local"
	TimeoutSec      int     `toml:"timeout_sec"`
	RequestsPerSec  float64 `toml:"requests_per_sec"`
}

// PreparerConfig is the default report identity.
type PreparerConfig struct {
	Name    string `toml:"name,omitempty"`
	Address string `toml:"address,omitempty"`
	Logo    string `toml:"logo,omitempty"`
}

// ReportConfig holds report export settings.
type ReportConfig struct {
	OutputDir          string `toml:"output_dir,omitempty"`
	Format             string `toml:"format"`
	ChartFallbackLocal bool   `toml:"chart_fallback_local"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// StoreConfig locates the saved-stack database.
type StoreConfig struct {
	Path string `toml:"path,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Catalog: "data.json",
			Cycle:   "monthly",
		},
		APIs: APIsConfig{
			ChartRenderer:  "remote",
			TimeoutSec:     10,
			RequestsPerSec: 5,
		},
		Report: ReportConfig{
			Format: "html",
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8790",
			RateLimit: 10,
			Burst:     20,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stackcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stackcost")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "stackcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "stackcost")
}

// StorePath returns the saved-stack database path.
func StorePath(cfg Config) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	return filepath.Join(CacheDir(), "stacks.db")
}

// Load reads the config file and applies environment overrides,
// returning defaults if no file exists.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a config file at path. A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is chosen by the local user
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // see LoadFrom
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Production reports whether STACKCOST_ENV selects production logging.
func Production() bool {
	return strings.EqualFold(os.Getenv("STACKCOST_ENV"), "production")
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"STACKCOST_CATALOG", &cfg.General.Catalog},
		{"STACKCOST_CURRENCY", &cfg.General.Currency},
		{"STACKCOST_CYCLE", &cfg.General.Cycle},
		{"STACKCOST_RATES_URL", &cfg.APIs.RatesURL},
		{"STACKCOST_CHART_URL", &cfg.APIs.ChartURL},
		{"STACKCOST_LOG_LEVEL", &cfg.Log.Level},
		{"STACKCOST_ADDR", &cfg.Server.Addr},
		{"STACKCOST_STORE", &cfg.Store.Path},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}
