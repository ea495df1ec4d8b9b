// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/etf"
)

// validateParams holds the parameters for "erlpack validate".
type validateParams struct {
	InputParams
	Slurp bool `json:"slurp" flag:"slurp,s" desc:"validate every frame of a {packet,4} stream"`
}

func validateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check whether ETF uses the canonical encoding",
		Description: `Read an external term format message and verify that it is in the
canonical form this encoder produces. Prints "valid" and exits 0 if it
is, exits 1 with the first differing byte if not.

Validation decodes the input, re-encodes it, and compares the bytes.
This catches integers in a wider form than needed (98 for a value that
fits 97, bignums for values that fit 32 bits), Latin-1 atom tags,
legacy string-encoded floats, 105 tuples that fit 104, string
extensions (107), and compressed messages.

With -s, validates every frame of a {packet,4} stream, including the
length prefixes.`,
		Usage: "erlpack validate [-s] [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Validate encoder output",
				Command:     `echo '{"count":42}' | erlpack encode | erlpack validate`,
			},
			{
				Description: "Validate a hex dump",
				Command:     "echo '83 62 00 00 00 2a' | erlpack validate -x",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			modes, err := params.loadModes()
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, os.Stdin, params.HexInput)
			if err != nil {
				return err
			}
			if err := noExtraArgs("validate", remainingArgs); err != nil {
				return err
			}
			logger.Debug("validating", "bytes", len(data), "slurp", params.Slurp)
			return validateETF(data, os.Stdout, modes.decode, params.Slurp)
		},
	}
}

// validateETF checks that data is byte-equal to the canonical
// re-encoding of what it decodes to.
func validateETF(data []byte, w io.Writer, mode etf.DecMode, slurp bool) error {
	var reencoded []byte
	if slurp {
		terms, err := unpackPackets(data, mode)
		if err != nil {
			return err
		}
		var buffer bytes.Buffer
		encoder := etf.NewEncoder(&buffer)
		for index, decoded := range terms {
			if err := encoder.Encode(decoded); err != nil {
				return encodeFailure(fmt.Sprintf("re-encode packet %d", index), err)
			}
		}
		reencoded = buffer.Bytes()
	} else {
		decoded, err := unpackSingle(data, mode)
		if err != nil {
			return err
		}
		reencoded, err = etf.Pack(decoded)
		if err != nil {
			return encodeFailure("re-encode", err)
		}
	}

	if bytes.Equal(data, reencoded) {
		if _, err := fmt.Fprintln(w, "valid"); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	}
	mismatch := describeMismatch(data, reencoded)
	if !slurp && etf.IsCompressed(data) {
		return mismatch.WithHint("The input is compressed; the canonical form is uncompressed.")
	}
	return mismatch
}

// describeMismatch reports where the original and canonical encodings
// first differ.
func describeMismatch(original, reencoded []byte) *cli.ToolError {
	offset := 0
	shared := min(len(original), len(reencoded))
	for offset < shared && original[offset] == reencoded[offset] {
		offset++
	}

	return cli.Malformed("not canonical: first difference at byte %d (original %d bytes, re-encoded %d bytes)",
		offset, len(original), len(reencoded))
}
