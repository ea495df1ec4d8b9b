// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/erlpack/lib/config"
)

// ConfigFlag adds a --config flag to a params struct. It implements
// [FlagBinder], so embedding it is enough:
//
//	type decodeParams struct {
//	    cli.ConfigFlag
//	    Compact bool `flag:"compact,c" desc:"compact output"`
//	}
type ConfigFlag struct {
	ConfigPath string
}

// AddFlags registers --config.
func (c *ConfigFlag) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ConfigPath, "config", "",
		"YAML config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
}

// LoadConfig loads the file named by --config, falling back to
// [config.Load].
func (c *ConfigFlag) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.ConfigPath != "" {
		cfg, err = config.LoadFile(c.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound("%w", err)
		}
		return nil, Validation("%w", err)
	}
	return cfg, nil
}
