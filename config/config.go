// Package config loads the optional journal configuration.
//
// Settings come from a YAML file and from environment variables, which may
// be placed in a .env file. Command-line flags override both.
//
// Example config.yaml:
//
//	files:
//	  - ~/finance/main.journal
//	aliases:
//	  - name: checking
//	    target: Assets:Bank:Checking
//	color: auto
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/output"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the default
// config file location.
const EnvConfigPath = "JOURNAL_CONFIG"

// Config represents the configuration file.
type Config struct {
	Files       []string `yaml:"files"`
	Aliases     []Alias  `yaml:"aliases"`
	Color       string   `yaml:"color"`
	LogLevel    string   `yaml:"log_level"`
	ErrorFormat string   `yaml:"error_format"`

	path string
}

// Alias rewrites postings to Name, or to an account below it, into Target.
type Alias struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// LoadEnv loads environment variables from .env files. Without paths it
// tries ".env" in the working directory and ignores a missing file.
// Variables that are already set are not overridden.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// DefaultPath returns the config file used when none is given: the value
// of JOURNAL_CONFIG, or config.yaml in the user's config directory.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "journal", "config.yaml")
}

// Load reads the config file at path. An empty path loads DefaultPath and
// yields an empty config when that file does not exist; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path

	return cfg, nil
}

// Parse decodes and validates a config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if _, err := output.ParseColorMode(c.Color); err != nil {
		return err
	}
	switch c.ErrorFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid error_format %q (expected text or json)", c.ErrorFormat)
	}
	for i, alias := range c.Aliases {
		if alias.Name == "" || alias.Target == "" {
			return fmt.Errorf("alias %d: name and target are required", i+1)
		}
	}
	return nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// JournalFiles returns the configured journal files. A leading "~/" is
// expanded to the home directory and relative paths are resolved against
// the directory of the config file.
func (c *Config) JournalFiles() []string {
	files := make([]string, 0, len(c.Files))
	for _, file := range c.Files {
		if rest, ok := strings.CutPrefix(file, "~/"); ok {
			if home, err := os.UserHomeDir(); err == nil {
				file = filepath.Join(home, rest)
			}
		}
		if !filepath.IsAbs(file) && c.path != "" {
			file = filepath.Join(filepath.Dir(c.path), file)
		}
		files = append(files, file)
	}
	return files
}

// AccountAliases converts the configured aliases for the parser.
func (c *Config) AccountAliases() []*ast.Alias {
	aliases := make([]*ast.Alias, 0, len(c.Aliases))
	for _, alias := range c.Aliases {
		aliases = append(aliases, &ast.Alias{
			Pos:    ast.Position{Filename: c.path},
			Name:   alias.Name,
			Target: alias.Target,
		})
	}
	return aliases
}
