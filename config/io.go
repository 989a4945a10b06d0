// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SetFromDefaults sets the values of the given config object
// from `default:` struct field tag values. Errors are automatically
// logged in addition to being returned.
func SetFromDefaults(cfg any) error {
	return errors.Log(reflectx.SetFromDefaultTags(cfg))
}

// New returns a config with all default values set.
func New() *Config {
	cf := &Config{}
	cf.Defaults()
	return cf
}

// Defaults sets the default values, including those that
// cannot be expressed as struct tags.
func (cf *Config) Defaults() {
	SetFromDefaults(cf)
	cf.Camera.Position = [3]float32{0, 0, 3}
}

// Open returns a default config overridden by the given file, and
// any files it includes. The format is chosen by extension:
// .toml, .yaml or .yml. Asset paths are resolved relative to the file.
func Open(file string) (*Config, error) {
	cf := New()
	if err := cf.open(file, 0); err != nil {
		return nil, err
	}
	return cf, nil
}

// maxIncludeDepth bounds include chains, which may be cyclic.
const maxIncludeDepth = 8

func (cf *Config) open(file string, depth int) error {
	if depth > maxIncludeDepth {
		return fmt.Errorf("config.Open %q: includes nested more than %d deep", file, maxIncludeDepth)
	}
	file, err := homedir.Expand(file)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	// includes are read first, and then the file reopened so that
	// its own settings win
	var inc struct{ Includes []string }
	if err := decode(file, b, &inc); err != nil {
		return err
	}
	dir := filepath.Dir(file)
	for _, in := range inc.Includes {
		if !filepath.IsAbs(in) && !strings.HasPrefix(in, "~") {
			in = filepath.Join(dir, in)
		}
		if err := cf.open(in, depth+1); err != nil {
			return fmt.Errorf("config.Open %q: include: %w", file, err)
		}
	}
	prev := cf.Assets
	cf.Assets = nil
	if err := decode(file, b, cf); err != nil {
		return err
	}
	if len(cf.Assets) == 0 {
		cf.Assets = prev
		return nil
	}
	return cf.resolvePaths(dir)
}

func decode(file string, b []byte, v any) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		err = toml.Unmarshal(b, v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, v)
	default:
		return fmt.Errorf("config.Open %q: unsupported extension %q", file, ext)
	}
	if err != nil {
		return fmt.Errorf("config.Open %q: %w", file, err)
	}
	return nil
}

// resolvePaths expands ~ in asset paths and makes relative
// paths relative to dir.
func (cf *Config) resolvePaths(dir string) error {
	for i := range cf.Assets {
		as := &cf.Assets[i]
		p, err := homedir.Expand(as.Path)
		if err != nil {
			return err
		}
		if p != "" && !filepath.IsAbs(p) && dir != "" {
			p = filepath.Join(dir, p)
		}
		as.Path = p
	}
	return nil
}

// Save writes the config as TOML or YAML, by extension.
func (cf *Config) Save(file string) error {
	var b []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".toml":
		b, err = toml.Marshal(cf)
	case ".yaml", ".yml":
		b, err = yaml.Marshal(cf)
	default:
		return fmt.Errorf("config.Save %q: unsupported extension %q", file, ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0666)
}
