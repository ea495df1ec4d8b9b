// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/digest"
	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/term"
)

// hashParams holds the parameters for "erlpack hash".
type hashParams struct {
	InputParams
	Slurp bool `json:"slurp" flag:"slurp,s" desc:"hash a {packet,4} stream as one sequence"`
	Each  bool `json:"each"  flag:"each,e"  desc:"with -s, print one digest per frame instead of the sequence digest"`
}

func hashCommand() *cli.Command {
	var params hashParams

	return &cli.Command{
		Name:    "hash",
		Summary: "Print the content digest of an ETF message",
		Description: `Read an external term format message and print its BLAKE3 content
digest in hex.

The digest covers the canonical encoding of the decoded term, so two
messages that carry the same term hash the same even when one uses
wider integer tags, Latin-1 atoms, or compression.

With -s, reads a {packet,4} stream and prints the digest of the whole
sequence: a Merkle root over the frame digests. Add --each to print
every frame digest instead.`,
		Usage: "erlpack hash [-s [--each]] [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Hash a message",
				Command:     "erlpack hash message.etf",
			},
			{
				Description: "Compare two encodings of the same term",
				Command:     "erlpack hash -x <<< '83 61 2a' && erlpack hash -x <<< '83 62 00 00 00 2a'",
			},
			{
				Description: "Print one digest per frame of a capture",
				Command:     "erlpack hash -s --each capture.bin",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if params.Each && !params.Slurp {
				return cli.Validation("--each requires -s")
			}
			modes, err := params.loadModes()
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, os.Stdin, params.HexInput)
			if err != nil {
				return err
			}
			if err := noExtraArgs("hash", remainingArgs); err != nil {
				return err
			}
			logger.Debug("hashing", "bytes", len(data), "slurp", params.Slurp, "each", params.Each)
			return hashETF(data, os.Stdout, modes.decode, params.Slurp, params.Each)
		},
	}
}

// hashETF writes the digest of data to w, one hex digest per line.
func hashETF(data []byte, w io.Writer, mode etf.DecMode, slurp, each bool) error {
	var terms []term.Term
	if slurp {
		var err error
		terms, err = unpackPackets(data, mode)
		if err != nil {
			return err
		}
	} else {
		decoded, err := unpackSingle(data, mode)
		if err != nil {
			return err
		}
		terms = []term.Term{decoded}
	}

	digests := make([]digest.Digest, len(terms))
	for index, decoded := range terms {
		value, err := digest.Term(decoded)
		if err != nil {
			return encodeFailure(fmt.Sprintf("hash term %d", index), err)
		}
		digests[index] = value
	}

	var lines []digest.Digest
	switch {
	case !slurp, each:
		lines = digests
	default:
		lines = []digest.Digest{digest.Sequence(digests)}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return cli.Internal("write output: %w", err)
		}
	}
	return nil
}
