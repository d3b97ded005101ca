package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/fsdgo/fsd/format"
)

const configFileName = ".fsd.toml"

// fileConfig is the content of a config file. Flags override it.
type fileConfig struct {
	ExcludeTags []string     `toml:"exclude_tags" validate:"dive,required"`
	Color       string       `toml:"color" validate:"omitempty,oneof=auto on off"`
	MaxErrors   int          `toml:"max_errors" validate:"min=0"`
	Format      formatConfig `toml:"format"`
}

type formatConfig struct {
	IndentWidth int  `toml:"indent_width" validate:"min=0,max=8"`
	UseTabs     bool `toml:"use_tabs"`
}

func (f formatConfig) options() format.Options {
	return format.Options{IndentWidth: f.IndentWidth, UseTabs: f.UseTabs}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// findConfig looks for the config file in startDir and its parents.
func findConfig(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// loadConfig reads the config at path, or the nearest config file when
// path is empty. A missing config file gives the zero config.
func loadConfig(path string) (fileConfig, error) {
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil || !ok {
			return fileConfig{}, err
		}
		path = found
	}

	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := validateConfig(cfg); err != nil {
		return fileConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func validateConfig(cfg fileConfig) error {
	err := configValidator.Struct(cfg)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("invalid %s: failed %q check", fe.Namespace(), fe.Tag())
	}
	return errors.New(strings.Join(msgs, "; "))
}
