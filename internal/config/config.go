// Package config loads session settings from objrepl.yaml, a .env file and
// OBJREPL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/objrepl/internal/catalog"
	"github.com/funvibe/objrepl/internal/logger"
)

// Config is the top-level objrepl.yaml document.
type Config struct {
	// Prompt printed before each interactive line.
	Prompt string `yaml:"prompt,omitempty"`

	// History is the liner history file. Relative paths are resolved against
	// the user's home directory. "-" disables history.
	History string `yaml:"history,omitempty"`

	// Banner toggles the start-up help text. Defaults to true.
	Banner *bool `yaml:"banner,omitempty"`

	// Imports are package prefixes searched, in order, for simple class
	// names. Defaults to catalog.DefaultImports.
	Imports []string `yaml:"imports,omitempty"`

	// Aliases give classes short names, e.g. {class: java.util.ArrayList, as: List}.
	Aliases []Alias `yaml:"aliases,omitempty"`

	// Disable hides classes from construction.
	Disable []string `yaml:"disable,omitempty"`

	Log LogConfig `yaml:"log,omitempty"`

	// path of the file the config was loaded from, empty for defaults
	path string
}

type Alias struct {
	Class string `yaml:"class"`
	As    string `yaml:"as"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Path returns the file the configuration came from, if any.
func (c *Config) Path() string { return c.path }

// ShowBanner reports whether the banner is enabled.
func (c *Config) ShowBanner() bool { return c.Banner == nil || *c.Banner }

// LoadConfig reads and parses a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses config content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.path = path
	return &cfg, nil
}

// FindConfig searches for objrepl.yaml starting from dir and walking up
// to parent directories. Returns "" with a nil error when nothing is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// Load resolves the configuration for a session: the explicit path when
// given, otherwise the nearest objrepl.yaml above dir, otherwise defaults.
// A .env file in dir and the process environment are applied on top.
func Load(explicit, dir string) (*Config, error) {
	var cfg *Config
	path := explicit
	if path == "" {
		found, err := FindConfig(dir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = Default()
	}

	if err := LoadDotEnv(dir); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, EnvFile)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from OBJREPL_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvPrefix + "PROMPT"); v != "" {
		c.Prompt = v
	}
	if v := getenv(EnvPrefix + "HISTORY"); v != "" {
		c.History = v
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv(EnvPrefix + "BANNER"); v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("%sBANNER: %w", EnvPrefix, err)
		}
		c.Banner = &b
	}
	return c.validate("environment")
}

// Apply configures a registry: imports, aliases and disabled classes.
func (c *Config) Apply(reg *catalog.Registry) error {
	reg.SetImports(c.Imports)
	for _, a := range c.Aliases {
		if err := reg.Alias(a.As, a.Class); err != nil {
			return fmt.Errorf("%s: %w", c.source(), err)
		}
	}
	for _, name := range c.Disable {
		if err := reg.Disable(name); err != nil {
			return fmt.Errorf("%s: %w", c.source(), err)
		}
	}
	return nil
}

func (c *Config) source() string {
	if c.path == "" {
		return "config"
	}
	return c.path
}

func (c *Config) setDefaults() {
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.History == "" {
		c.History = DefaultHistoryFile
	}
	if c.Imports == nil {
		c.Imports = append([]string(nil), catalog.DefaultImports...)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	for i, imp := range c.Imports {
		if imp == "" || strings.ContainsAny(imp, " \t") || strings.HasSuffix(imp, ".") {
			return fmt.Errorf("%s: imports[%d]: invalid package prefix %q", path, i, imp)
		}
	}

	seen := make(map[string]string)
	for i, a := range c.Aliases {
		if a.Class == "" {
			return fmt.Errorf("%s: aliases[%d]: class is required", path, i)
		}
		if a.As == "" {
			return fmt.Errorf("%s: aliases[%d]: as is required", path, i)
		}
		if strings.ContainsAny(a.As, ". \t") {
			return fmt.Errorf("%s: aliases[%d]: alias %q must be a simple name", path, i, a.As)
		}
		if prev, ok := seen[a.As]; ok && prev != a.Class {
			return fmt.Errorf("%s: aliases[%d]: alias %q already used for %s", path, i, a.As, prev)
		}
		seen[a.As] = a.Class
	}

	for i, name := range c.Disable {
		if name == "" {
			return fmt.Errorf("%s: disable[%d]: class name is empty", path, i)
		}
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%s: log.level: %w", path, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%s: log.format: must be %q or %q, got %q", path, logger.FormatText, logger.FormatJSON, c.Log.Format)
	}
	return nil
}
