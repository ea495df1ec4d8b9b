// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"errors"
	"io"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/config"
	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/hostvalue"
)

// InputParams is embedded by every command that reads ETF: the
// --config flag and hex input.
type InputParams struct {
	cli.ConfigFlag
	HexInput bool `json:"hex_input" flag:"hex,x" desc:"treat input as hex text"`
}

// toolModes bundles the codec configuration a command runs with.
type toolModes struct {
	decode etf.DecMode
	encode etf.EncMode
	host   hostvalue.Options
}

// defaultModes are the built-in defaults, used by tests.
func defaultModes() toolModes {
	modes, err := modesFromConfig(config.Default())
	if err != nil {
		panic("termtool: default modes: " + err.Error())
	}
	return modes
}

// loadModes loads the configuration selected by --config or the
// environment and builds the codec modes from it.
func (p *InputParams) loadModes() (toolModes, error) {
	cfg, err := p.LoadConfig()
	if err != nil {
		return toolModes{}, err
	}
	return modesFromConfig(cfg)
}

func modesFromConfig(cfg *config.Config) (toolModes, error) {
	decode, err := cfg.DecOptions().DecMode()
	if err != nil {
		return toolModes{}, cli.Validation("config: %w", err)
	}
	encode, err := cfg.EncOptions().EncMode()
	if err != nil {
		return toolModes{}, cli.Validation("config: %w", err)
	}
	host, err := cfg.HostOptions()
	if err != nil {
		return toolModes{}, cli.Validation("config: %w", err)
	}
	return toolModes{decode: decode, encode: encode, host: host}, nil
}

// decodeFailure categorizes an error from the etf decoder.
func decodeFailure(what string, err error) error {
	switch {
	case errors.Is(err, etf.ErrProtocol), errors.Is(err, etf.ErrStructure), errors.Is(err, etf.ErrContent),
		errors.Is(err, io.ErrUnexpectedEOF):
		return cli.Malformed("%s: %w", what, err)
	default:
		return cli.Internal("%s: %w", what, err)
	}
}

// encodeFailure categorizes an error from the etf encoder.
func encodeFailure(what string, err error) error {
	switch {
	case errors.Is(err, etf.ErrCapacity), errors.Is(err, etf.ErrUnsupported), errors.Is(err, etf.ErrContent):
		return cli.Unsupported("%s: %w", what, err)
	default:
		return cli.Internal("%s: %w", what, err)
	}
}
