// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/hostvalue"
)

// EnvironmentVariable names the config file when no --config flag is given.
const EnvironmentVariable = "ERLPACK_CONFIG"

// Profile selects a set of limits.
type Profile string

const (
	// Trusted keeps the codec defaults.
	Trusted Profile = "trusted"
	// Untrusted tightens decode limits for input from unknown peers.
	Untrusted Profile = "untrusted"
)

// Config is the master configuration for erlpack tools.
type Config struct {
	// Profile selects which override section applies.
	Profile Profile `yaml:"profile"`

	// Decode configures decode limits.
	Decode DecodeConfig `yaml:"decode"`

	// Encode configures encoding.
	Encode EncodeConfig `yaml:"encode"`

	// Per-profile overrides, applied after the base config is loaded.
	Trusted   *Overrides `yaml:"trusted,omitempty"`
	Untrusted *Overrides `yaml:"untrusted,omitempty"`
}

// Overrides contains the sections a profile can override. Zero fields
// leave the base value alone.
type Overrides struct {
	Decode *DecodeConfig `yaml:"decode,omitempty"`
	Encode *EncodeConfig `yaml:"encode,omitempty"`
}

// DecodeConfig mirrors etf.DecOptions.
type DecodeConfig struct {
	// MaxDepth is the deepest term nesting accepted.
	MaxDepth int `yaml:"max_depth"`

	// MaxUncompressedSize is the largest declared size of a compressed
	// term, in bytes.
	MaxUncompressedSize int `yaml:"max_uncompressed_size"`

	// MaxPacketSize is the largest {packet,4} frame, in bytes.
	MaxPacketSize int `yaml:"max_packet_size"`
}

// EncodeConfig configures encoding and host-value conversion.
type EncodeConfig struct {
	// Compression is 0 for none or a zlib level 1..9.
	Compression int `yaml:"compression"`

	// Strings is "atoms" or "binaries": what host strings become.
	Strings string `yaml:"strings"`
}

// untrustedDefaults cap the decode limits when the profile is
// untrusted and the file has no untrusted section. They only tighten:
// a base limit already below the cap is kept.
var untrustedDefaults = Overrides{
	Decode: &DecodeConfig{
		MaxDepth:            256,
		MaxUncompressedSize: 1 << 20,
		MaxPacketSize:       1 << 20,
	},
}

// Default returns the default configuration: the trusted profile with
// the codec's own defaults.
func Default() *Config {
	return &Config{
		Profile: Trusted,
		Decode: DecodeConfig{
			MaxDepth:            etf.DefaultMaxDepth,
			MaxUncompressedSize: etf.DefaultMaxUncompressedSize,
			MaxPacketSize:       etf.DefaultMaxPacketSize,
		},
		Encode: EncodeConfig{
			Compression: 0,
			Strings:     hostvalue.StringsAsAtoms.String(),
		},
	}
}

// Load loads the file named by ERLPACK_CONFIG, or returns [Default]
// when the variable is unset or empty.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// profile overrides, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.applyProfileOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile decodes one YAML file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyProfileOverrides applies the section matching c.Profile.
func (c *Config) applyProfileOverrides() {
	var overrides *Overrides

	switch c.Profile {
	case Trusted:
		overrides = c.Trusted
	case Untrusted:
		overrides = c.Untrusted
		if overrides == nil {
			c.capDecodeLimits(untrustedDefaults.Decode)
			return
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Decode != nil {
		if overrides.Decode.MaxDepth != 0 {
			c.Decode.MaxDepth = overrides.Decode.MaxDepth
		}
		if overrides.Decode.MaxUncompressedSize != 0 {
			c.Decode.MaxUncompressedSize = overrides.Decode.MaxUncompressedSize
		}
		if overrides.Decode.MaxPacketSize != 0 {
			c.Decode.MaxPacketSize = overrides.Decode.MaxPacketSize
		}
	}

	if overrides.Encode != nil {
		if overrides.Encode.Compression != 0 {
			c.Encode.Compression = overrides.Encode.Compression
		}
		if overrides.Encode.Strings != "" {
			c.Encode.Strings = overrides.Encode.Strings
		}
	}
}

// capDecodeLimits lowers each decode limit to the matching limit in
// caps. Zero caps are ignored.
func (c *Config) capDecodeLimits(caps *DecodeConfig) {
	if caps.MaxDepth != 0 {
		c.Decode.MaxDepth = min(c.Decode.MaxDepth, caps.MaxDepth)
	}
	if caps.MaxUncompressedSize != 0 {
		c.Decode.MaxUncompressedSize = min(c.Decode.MaxUncompressedSize, caps.MaxUncompressedSize)
	}
	if caps.MaxPacketSize != 0 {
		c.Decode.MaxPacketSize = min(c.Decode.MaxPacketSize, caps.MaxPacketSize)
	}
}

// Validate checks the configuration for errors, reporting every
// problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Profile != Trusted && c.Profile != Untrusted {
		errs = append(errs, fmt.Errorf("invalid profile: %q (expected %s or %s)", c.Profile, Trusted, Untrusted))
	}

	if _, err := c.DecOptions().DecMode(); err != nil {
		errs = append(errs, fmt.Errorf("decode: %w", err))
	}
	if _, err := c.EncOptions().EncMode(); err != nil {
		errs = append(errs, fmt.Errorf("encode: %w", err))
	}
	if _, err := hostvalue.ParseStringMode(c.Encode.Strings); err != nil {
		errs = append(errs, fmt.Errorf("encode.strings: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DecOptions returns the decode section as etf options.
func (c *Config) DecOptions() etf.DecOptions {
	return etf.DecOptions{
		MaxDepth:            c.Decode.MaxDepth,
		MaxUncompressedSize: c.Decode.MaxUncompressedSize,
		MaxPacketSize:       c.Decode.MaxPacketSize,
	}
}

// EncOptions returns the encode section as etf options.
func (c *Config) EncOptions() etf.EncOptions {
	return etf.EncOptions{Compression: c.Encode.Compression}
}

// HostOptions returns the host-value conversion options.
func (c *Config) HostOptions() (hostvalue.Options, error) {
	mode, err := hostvalue.ParseStringMode(c.Encode.Strings)
	if err != nil {
		return hostvalue.Options{}, fmt.Errorf("encode.strings: %w", err)
	}
	return hostvalue.Options{Strings: mode}, nil
}
