// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/macfp/macfp/pkg/defaults"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "MACFP"

	// DirName is the per-user configuration directory under $HOME.
	DirName = ".macos-fingerprint"

	// FileName is the configuration file name.
	FileName = "config.toml"

	// DefaultOutput is the default fingerprint file name.
	DefaultOutput = "fingerprint.json"
)

// Config holds user defaults for the CLI.
type Config struct {
	// Output is the default fingerprint file.
	Output string `mapstructure:"output"`

	// HashSensitive enables redaction of sensitive collector values.
	HashSensitive bool `mapstructure:"hash_sensitive"`

	// Encrypt enables encrypted output.
	Encrypt bool `mapstructure:"encrypt"`

	// Parallel runs collectors concurrently.
	Parallel bool `mapstructure:"parallel"`

	// MaxWorkers bounds concurrent collectors in parallel mode.
	MaxWorkers int `mapstructure:"max_workers"`

	// Collectors limits collection to these names. Empty means all.
	Collectors []string `mapstructure:"collectors"`

	// Exclude skips these collectors.
	Exclude []string `mapstructure:"exclude"`

	// IgnoreCollectors are skipped when comparing.
	IgnoreCollectors []string `mapstructure:"ignore_collectors"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output:           DefaultOutput,
		HashSensitive:    true,
		Encrypt:          false,
		Parallel:         false,
		MaxWorkers:       defaults.MaxWorkers,
		Collectors:       []string{},
		Exclude:          []string{},
		IgnoreCollectors: []string{},
	}
}

// DefaultPath returns ~/.macos-fingerprint/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName, FileName), nil
}

func newViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("output", d.Output)
	v.SetDefault("hash_sensitive", d.HashSensitive)
	v.SetDefault("encrypt", d.Encrypt)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("max_workers", d.MaxWorkers)
	v.SetDefault("collectors", d.Collectors)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("ignore_collectors", d.IgnoreCollectors)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the configuration at path, or at DefaultPath when path is empty.
// File problems are logged and the defaults are used instead; an error is
// returned only when the merged settings cannot be decoded.
func Load(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			slog.Debug("no config path available", "error", err)
		}
		path = p
	}

	if path != "" {
		settings, err := readFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			slog.Warn("could not parse config, using defaults", "path", path, "error", err)
		default:
			if err := v.MergeConfigMap(flatten(settings)); err != nil {
				slog.Warn("could not apply config, using defaults", "path", path, "error", err)
			} else {
				slog.Debug("loaded config", "path", path)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = defaults.MaxWorkers
	}
	return cfg, nil
}

// readFile parses a TOML file into raw settings.
func readFile(path string) (map[string]any, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	fv := viper.New()
	fv.SetConfigFile(path)
	fv.SetConfigType("toml")
	if err := fv.ReadInConfig(); err != nil {
		return nil, err
	}
	return fv.AllSettings(), nil
}

// flatten lifts keys of nested sections to the top level. Section keys
// override top-level keys of the same name.
func flatten(settings map[string]any) map[string]any {
	flat := make(map[string]any, len(settings))
	for k, v := range settings {
		if _, ok := v.(map[string]any); !ok {
			flat[k] = v
		}
	}
	for _, v := range settings {
		if section, ok := v.(map[string]any); ok {
			for sk, sv := range section {
				flat[sk] = sv
			}
		}
	}
	return flat
}
