// Package config handles loading addressbook configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Source kinds.
const (
	SourceSQLite      = "sqlite"      // database created by sqlitestore
	SourceAddressBook = "addressbook" // macOS Contacts database
	SourceVCard       = "vcard"       // exported .vcf file
)

// Config represents the addressbook configuration.
type Config struct {
	Source SourceConfig `toml:"source"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`

	// Computed paths (not from config file)
	HomeDir  string `toml:"-"`
	FilePath string `toml:"-"`
}

// SourceConfig selects the backend contacts are read from.
type SourceConfig struct {
	Kind string `toml:"kind" env:"ADDRESSBOOK_SOURCE"`
	// Path is the database or .vcf file. For the addressbook kind an empty
	// path means the first discovered database.
	Path string `toml:"path" env:"ADDRESSBOOK_PATH"`
}

// ServerConfig holds HTTP API server configuration.
type ServerConfig struct {
	Addr string `toml:"addr" env:"ADDRESSBOOK_ADDR"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `toml:"level" env:"ADDRESSBOOK_LOG_LEVEL"`   // debug, info, warn, error
	Format string `toml:"format" env:"ADDRESSBOOK_LOG_FORMAT"` // text or json
}

// DefaultHome returns the default addressbook home directory.
// Respects the ADDRESSBOOK_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("ADDRESSBOOK_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".addressbook"
	}
	return filepath.Join(home, ".addressbook")
}

// Overrides are command-line settings applied after the file and the
// environment. Empty fields leave the loaded value alone.
type Overrides struct {
	SourceKind string
	SourcePath string
}

// Default returns the configuration used when no file exists. Source.Path is
// left empty; Load fills in DefaultSQLitePath only for the sqlite kind.
func Default(homeDir string) *Config {
	return &Config{
		HomeDir: homeDir,
		Source: SourceConfig{
			Kind: SourceSQLite,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultSQLitePath returns the database used by the sqlite kind when no
// path is configured.
func (c *Config) DefaultSQLitePath() string {
	return filepath.Join(c.HomeDir, "contacts.db")
}

// Load reads the configuration from path, then applies environment
// overrides and finally o. If path is empty, uses
// $ADDRESSBOOK_HOME/config.toml. A missing file is not an error.
//
// Source defaults depend on the final kind: sqlite without a path reads
// DefaultSQLitePath, addressbook without a path discovers the database.
func Load(path string, o Overrides) (*Config, error) {
	homeDir := DefaultHome()
	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}
	path = expandPath(path)

	cfg := Default(homeDir)
	cfg.FilePath = path

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if o.SourceKind != "" {
		cfg.Source.Kind = o.SourceKind
	}
	if o.SourcePath != "" {
		cfg.Source.Path = o.SourcePath
	}

	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	cfg.Source.Path = expandPath(cfg.Source.Path)
	if cfg.Source.Kind == SourceSQLite && cfg.Source.Path == "" {
		cfg.Source.Path = cfg.DefaultSQLitePath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings no backend or logger can use.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceVCard:
		if c.Source.Path == "" {
			return fmt.Errorf("config: source %q needs a path", c.Source.Kind)
		}
	case SourceSQLite, SourceAddressBook:
	default:
		return fmt.Errorf("config: unknown source kind %q (want %s, %s or %s)",
			c.Source.Kind, SourceSQLite, SourceAddressBook, SourceVCard)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the slog logger described by c, writing to w.
// verbose forces debug level.
func (c LogConfig) NewLogger(w io.Writer, verbose bool) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch c.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
