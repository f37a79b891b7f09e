package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Catalog  CatalogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path           string
	MigrationsPath string
}

// CatalogConfig holds catalog source settings.
type CatalogConfig struct {
	SourcesPath  string
	DefaultScope string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	EntryHeight int
}

// Load reads configuration from file and env. Env var overrides use prefix JASKMODS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskmods", "catalog.db"))
	v.SetDefault("database.migrations_path", "internal/database/migrations")
	v.SetDefault("catalog.sources_path", filepath.Join(os.Getenv("HOME"), ".config", "jaskmods", "sources.toml"))
	v.SetDefault("catalog.default_scope", "featured")
	v.SetDefault("ui.entry_height", 2)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKMODS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jaskmods"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKMODS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.EntryHeight < 1 {
		c.UI.EntryHeight = 2
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Used by the TUI settings surface for non-sensitive preferences.
func Save(cfg Config) error {
	path := os.Getenv("JASKMODS_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "jaskmods", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations_path", cfg.Database.MigrationsPath)
	v.Set("catalog.sources_path", cfg.Catalog.SourcesPath)
	v.Set("catalog.default_scope", cfg.Catalog.DefaultScope)
	v.Set("ui.entry_height", cfg.UI.EntryHeight)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
