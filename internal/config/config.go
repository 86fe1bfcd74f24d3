// Package config loads the optional habitgrid TOML file and layers command
// line overrides on top of it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/dates"
)

type Config struct {
	// Storage is a SQLite path, a .json path or a postgres:// URL
	Storage string `toml:"storage"`
	// Timezone decides what "today" is. Empty or "Local" uses the system zone.
	Timezone string `toml:"timezone"`
	// Locale is a BCP 47 tag used to sort habit names
	Locale string `toml:"locale"`
	Debug  bool   `toml:"debug"`
}

// Overrides holds flag values; empty fields leave the file value alone
type Overrides struct {
	Storage  string
	Timezone string
	Locale   string
	Debug    bool
}

func Defaults() Config {
	return Config{
		Storage:  constants.DefaultConfigPath,
		Timezone: "Local",
		Locale:   "und",
	}
}

// Dir returns ~/.config/habitgrid
func Dir() string {
	return ExpandPath(constants.DefaultConfigDir)
}

func DefaultPath() string {
	return filepath.Join(Dir(), constants.ConfigFileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q in config %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// Apply returns cfg with the non-empty overrides applied. Debug can only
// be switched on.
func (c Config) Apply(o Overrides) Config {
	if o.Storage != "" {
		c.Storage = o.Storage
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.Locale != "" {
		c.Locale = o.Locale
	}
	c.Debug = c.Debug || o.Debug
	c.Storage = ExpandPath(c.Storage)
	return c
}

// Location resolves the configured timezone
func (c Config) Location() (*time.Location, error) {
	loc, err := dates.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Language parses the configured locale
func (c Config) Language() (language.Tag, error) {
	if strings.TrimSpace(c.Locale) == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// Validate checks the values that would otherwise fail later at startup
func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage) == "" {
		return fmt.Errorf("storage location cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	_, err := c.Language()
	return err
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

const defaultFile = `# habitgrid configuration

# Where habits are stored: a SQLite file, a .json file, or a
# postgres:// URL without a password (see "habitgrid keyring set").
# storage = "~/.config/habitgrid/habitgrid.db"

# IANA timezone that decides what "today" is.
# timezone = "Local"

# Locale used to sort habit names, e.g. "en", "de", "sv".
# locale = "und"

# debug = false
`

// CreateDefault writes a commented template at path unless a file is
// already there. It reports whether a file was written.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultFile), 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
