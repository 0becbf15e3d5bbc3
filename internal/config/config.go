package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"`
	// MigrationsPath, when set, replaces the embedded migrations with a directory.
	MigrationsPath string `mapstructure:"migrations_path"`
}

// StoreConfig tunes the contact service.
type StoreConfig struct {
	Latency time.Duration `mapstructure:"latency"`
}

// LogConfig controls the file logger. The terminal belongs to the UI.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	RestoreSession bool   `mapstructure:"restore_session"`
	Watch          bool   `mapstructure:"watch"`
	MarkdownStyle  string `mapstructure:"markdown_style"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "contacts")
}

// Path returns the config file location: $CONTACTS_CONFIG or ~/.config/contacts/config.toml.
func Path() string {
	if p := os.Getenv("CONTACTS_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "contacts", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix CONTACTS_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "contacts.db"))
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.migrations_path", "")
	v.SetDefault("store.latency", "0s")
	v.SetDefault("log.path", filepath.Join(dataDir(), "contacts.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.restore_session", true)
	v.SetDefault("ui.watch", true)
	v.SetDefault("ui.markdown_style", "dark")

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("CONTACTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file just means defaults
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.migrations_path", cfg.Database.MigrationsPath)
	v.Set("store.latency", cfg.Store.Latency.String())
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.restore_session", cfg.UI.RestoreSession)
	v.Set("ui.watch", cfg.UI.Watch)
	v.Set("ui.markdown_style", cfg.UI.MarkdownStyle)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
