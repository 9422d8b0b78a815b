// Package config reads host configuration files into dotted string keys, such as go.gamemode.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ZenLiuCN/fn"
	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat occurs for a config file extension other than toml, yaml, yml or json.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Store is a flat set of configuration strings keyed by dotted path.
type Store map[string]string

// GetString reads key, empty when unset.
func (s Store) GetString(key string) string {
	return s[key]
}

// Keys sorted.
func (s Store) Keys() []string {
	k := fn.MapKeys(s)
	slices.Sort(k)
	return k
}

// Overrides are environment variables replacing file values.
type Overrides struct {
	Gamemode   string `env:"GAMEMODE"`
	Plugin     string `env:"PLUGIN"`
	PluginsDir string `env:"PLUGINS_DIR"`
}

// EnvPrefix of the override variables, e.g. GOMPONENT_GAMEMODE.
const EnvPrefix = "GOMPONENT_"

// KeyPluginsDir is the optional module directory key.
const KeyPluginsDir = "go.plugins_dir"

// Load reads path when it exists and applies the environment overrides. A missing file yields an empty store.
func Load(path string) (Store, error) {
	s := make(Store)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		default:
			if s, err = Parse(filepath.Ext(path), data); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}
	if err := s.ApplyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse data in the format named by ext (".toml", ".yaml", ".yml" or ".json").
func Parse(ext string, data []byte) (Store, error) {
	var tree map[string]any
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, &tree)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	case ".json":
		err = json.Unmarshal(data, &tree)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	s := make(Store)
	s.flatten("", tree)
	return s, nil
}

// ApplyEnv replaces values by the GOMPONENT_ prefixed environment variables that are set.
func (s Store) ApplyEnv() error {
	var o Overrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	for k, v := range map[string]string{
		"go.gamemode": o.Gamemode,
		"go.plugin":   o.Plugin,
		KeyPluginsDir: o.PluginsDir,
	} {
		if v != "" {
			s[k] = v
		}
	}
	return nil
}

func (s Store) flatten(prefix string, v any) {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			s.flatten(join(prefix, k), e)
		}
	case map[any]any:
		for k, e := range x {
			s.flatten(join(prefix, fmt.Sprint(k)), e)
		}
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, fmt.Sprint(e))
		}
		s[prefix] = strings.Join(parts, " ")
	case nil:
		s[prefix] = ""
	default:
		s[prefix] = fmt.Sprint(x)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
