package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ADDRESSBOOK_SOURCE", "ADDRESSBOOK_PATH", "ADDRESSBOOK_ADDR",
		"ADDRESSBOOK_LOG_LEVEL", "ADDRESSBOOK_LOG_FORMAT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("ADDRESSBOOK_HOME", home)

	cfg, err := Load("", Overrides{})
	be.Err(t, err, nil)
	be.Equal(t, cfg.HomeDir, home)
	be.Equal(t, cfg.FilePath, filepath.Join(home, "config.toml"))
	be.Equal(t, cfg.Source, SourceConfig{Kind: SourceSQLite, Path: filepath.Join(home, "contacts.db")})
	be.Equal(t, cfg.Server.Addr, "127.0.0.1:8080")
	be.Equal(t, cfg.Log, LogConfig{Level: "info", Format: "text"})
}

func TestLoadAddressBookKeepsEmptyPath(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("ADDRESSBOOK_HOME", home)

	t.Setenv("ADDRESSBOOK_SOURCE", "addressbook")
	cfg, err := Load("", Overrides{})
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source, SourceConfig{Kind: SourceAddressBook})

	os.Unsetenv("ADDRESSBOOK_SOURCE")
	cfg, err = Load("", Overrides{SourceKind: "addressbook"})
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source, SourceConfig{Kind: SourceAddressBook})

	path := filepath.Join(home, "config.toml")
	be.Err(t, os.WriteFile(path, []byte("[source]\nkind = \"addressbook\"\n"), 0o644), nil)
	cfg, err = Load(path, Overrides{})
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source.Path, "")

	// A file that picks sqlite without a path, overridden to addressbook.
	be.Err(t, os.WriteFile(path, []byte("[source]\nkind = \"sqlite\"\n"), 0o644), nil)
	cfg, err = Load(path, Overrides{SourceKind: "addressbook"})
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source, SourceConfig{Kind: SourceAddressBook})

	cfg, err = Load(path, Overrides{})
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source.Path, filepath.Join(home, "contacts.db"))
}

func TestLoadOverridesWin(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("ADDRESSBOOK_HOME", home)
	t.Setenv("ADDRESSBOOK_SOURCE", "sqlite")
	t.Setenv("ADDRESSBOOK_PATH", "/env/contacts.db")

	cfg, err := Load("", Overrides{SourceKind: "vcard", SourcePath: "/flag/export.vcf"})
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source, SourceConfig{Kind: SourceVCard, Path: "/flag/export.vcf"})
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("ADDRESSBOOK_HOME", home)

	path := filepath.Join(home, "config.toml")
	be.Err(t, os.WriteFile(path, []byte(`
[source]
kind = "VCard"
path = "~/contacts.vcf"

[server]
addr = ":9000"

[log]
level = "debug"
`), 0o644), nil)

	t.Setenv("ADDRESSBOOK_ADDR", "127.0.0.1:7000")
	t.Setenv("ADDRESSBOOK_LOG_FORMAT", "json")

	cfg, err := Load(path, Overrides{})
	be.Err(t, err, nil)

	userHome, err := os.UserHomeDir()
	be.Err(t, err, nil)
	be.Equal(t, cfg.Source, SourceConfig{Kind: SourceVCard, Path: filepath.Join(userHome, "contacts.vcf")})
	be.Equal(t, cfg.Server.Addr, "127.0.0.1:7000")
	be.Equal(t, cfg.Log, LogConfig{Level: "debug", Format: "json"})
}

func TestLoadRejectsBadConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("ADDRESSBOOK_HOME", home)

	path := filepath.Join(home, "config.toml")
	be.Err(t, os.WriteFile(path, []byte("[source\n"), 0o644), nil)
	_, err := Load(path, Overrides{})
	be.Err(t, err, "decode config")

	t.Setenv("ADDRESSBOOK_SOURCE", "ldap")
	_, err = Load(filepath.Join(home, "absent.toml"), Overrides{})
	be.Err(t, err, `unknown source kind "ldap"`)
}

func TestValidate(t *testing.T) {
	cfg := Default(t.TempDir())
	be.Err(t, cfg.Validate(), nil)

	cfg.Source = SourceConfig{Kind: SourceAddressBook}
	be.Err(t, cfg.Validate(), nil)

	cfg.Source = SourceConfig{Kind: SourceSQLite}
	be.Err(t, cfg.Validate(), nil)

	cfg.Source = SourceConfig{Kind: SourceVCard}
	be.Err(t, cfg.Validate(), "needs a path")

	cfg = Default(t.TempDir())
	cfg.Log.Level = "loud"
	be.Err(t, cfg.Validate(), "log level")

	cfg = Default(t.TempDir())
	cfg.Log.Format = "xml"
	be.Err(t, cfg.Validate(), "unknown log format")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf, false)
	be.Err(t, err, nil)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	be.True(t, !strings.Contains(out, "hidden"))
	be.True(t, strings.Contains(out, `"msg":"shown"`))

	buf.Reset()
	logger, err = LogConfig{Level: "error"}.NewLogger(&buf, true)
	be.Err(t, err, nil)
	logger.Debug("verbose wins")
	be.True(t, strings.Contains(buf.String(), "msg=\"verbose wins\""))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	be.Err(t, err, nil)
	be.Equal(t, expandPath("~/x.db"), filepath.Join(home, "x.db"))
	be.Equal(t, expandPath("/abs/x.db"), "/abs/x.db")
	be.Equal(t, expandPath("~user/x"), "~user/x")
	be.Equal(t, expandPath(""), "")
}
