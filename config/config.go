// Package config loads bindexpr.toml project files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "bindexpr.toml"

type Config struct {
	Check  Check  `toml:"check"`
	Format Format `toml:"format"`
	LSP    LSP    `toml:"lsp"`

	// Path is the file the configuration was loaded from, empty for the
	// defaults.
	Path string `toml:"-"`
}

// Check selects the layout files scanned by "bindexpr check". Patterns are
// slash separated and may use ** to match any number of directories.
type Check struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type Format struct {
	// MaxColumn is the width above which .bind files break conditional
	// expressions over several lines. Zero disables breaking.
	MaxColumn int `toml:"max_column"`
}

type LSP struct {
	LogFile   string `toml:"log_file"`
	Verbosity int    `toml:"verbosity"`
}

var (
	defaultInclude = []string{"**/layout*/*.xml"}
	defaultExclude = []string{"**/build/**"}
)

func Default() *Config {
	cfg := &Config{
		Format: Format{
			MaxColumn: 100,
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Check.Include == nil {
		c.Check.Include = append([]string(nil), defaultInclude...)
	}
	if c.Check.Exclude == nil {
		c.Check.Exclude = append([]string(nil), defaultExclude...)
	}
}

// Decode reads a configuration from r. Keys that are not part of the
// configuration are an error; keys that are absent keep their defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := &Config{Format: Format{MaxColumn: 100}}
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parse config: %s", strict.String())
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Find looks for bindexpr.toml in dir and its parents and loads the first
// one found. Without a configuration file it returns Default.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("find config: %w", err)
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("find config: %w", err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
