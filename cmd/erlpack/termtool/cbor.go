// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/codec"
	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/hostvalue"
	"github.com/bureau-foundation/erlpack/lib/term"
)

func cborCommand() *cli.Command {
	return &cli.Command{
		Name:    "cbor",
		Summary: "Convert between ETF and CBOR",
		Description: `Bridge external term format messages to and from CBOR.

The bridge goes through the same host-value mapping as JSON, so it is
lossy in the same ways (atoms and binaries both become text, tuples and
lists both become arrays, and map keys become text). Unlike JSON it
keeps raw binaries as byte strings and integers of any size as CBOR
bignums. Output uses Core Deterministic Encoding.`,
		Subcommands: []*cli.Command{
			cborToCommand(),
			cborFromCommand(),
		},
	}
}

// cborToParams holds the parameters for "erlpack cbor to".
type cborToParams struct {
	InputParams
	Slurp bool `json:"slurp" flag:"slurp,s" desc:"read a {packet,4} stream and write a CBOR sequence"`
	Diag  bool `json:"diag"  flag:"diag,d"  desc:"write CBOR diagnostic notation instead of binary"`
	Force bool `json:"force" flag:"force,f" desc:"write binary output even when stdout is a terminal"`
}

func cborToCommand() *cli.Command {
	var params cborToParams

	return &cli.Command{
		Name:    "to",
		Summary: "Convert ETF to CBOR",
		Description: `Read an external term format message and write it as one CBOR item.
With -s, every frame of a {packet,4} stream becomes one item of a CBOR
sequence (RFC 8742).`,
		Usage: "erlpack cbor to [-s] [-x] [--diag] [file]",
		Examples: []cli.Example{
			{
				Description: "Convert a message to CBOR",
				Command:     "erlpack cbor to message.etf > message.cbor",
			},
			{
				Description: "Show the CBOR form in diagnostic notation",
				Command:     "echo '83 74 00 00 00 01 77 01 6b 6d 00 00 00 01 ff' | erlpack cbor to -x --diag",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			modes, err := params.loadModes()
			if err != nil {
				return err
			}
			if !params.Diag {
				if err := cli.GuardBinaryOutput(os.Stdout, params.Force); err != nil {
					return err
				}
			}
			data, remainingArgs, err := readInput(args, os.Stdin, params.HexInput)
			if err != nil {
				return err
			}
			if err := noExtraArgs("cbor to", remainingArgs); err != nil {
				return err
			}
			logger.Debug("converting to CBOR", "bytes", len(data), "slurp", params.Slurp, "diag", params.Diag)
			return etfToCBOR(data, os.Stdout, modes.decode, params.Slurp, params.Diag)
		},
	}
}

// etfToCBOR decodes data and writes the CBOR form of every term to w.
func etfToCBOR(data []byte, w io.Writer, mode etf.DecMode, slurp, diag bool) error {
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

	var encoded bytes.Buffer
	if err := codec.WriteTerms(&encoded, terms); err != nil {
		return cli.Unsupported("convert to CBOR: %w", err)
	}

	if !diag {
		if _, err := w.Write(encoded.Bytes()); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	}

	remaining := encoded.Bytes()
	for len(remaining) > 0 {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			return cli.Internal("diagnose CBOR: %w", err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return cli.Internal("write output: %w", err)
		}
		remaining = rest
	}
	return nil
}

// cborFromParams holds the parameters for "erlpack cbor from".
type cborFromParams struct {
	InputParams
	Binaries bool `json:"binaries" flag:"binaries,b" desc:"convert text strings to binaries instead of atoms"`
	Packet   bool `json:"packet"   flag:"packet,p"   desc:"write each CBOR item as a {packet,4} frame"`
	Force    bool `json:"force"    flag:"force,f"    desc:"write binary output even when stdout is a terminal"`
}

func cborFromCommand() *cli.Command {
	var params cborFromParams

	return &cli.Command{
		Name:    "from",
		Summary: "Convert CBOR to ETF",
		Description: `Read CBOR and write the equivalent external term format message.

The input must hold exactly one CBOR item unless --packet is given, in
which case every item of the CBOR sequence is written as its own
{packet,4} frame. CBOR tags other than bignums are rejected.`,
		Usage: "erlpack cbor from [-b] [--packet] [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Convert a CBOR message to ETF",
				Command:     "erlpack cbor from message.cbor > message.etf",
			},
			{
				Description: "Round-trip through CBOR",
				Command:     "erlpack cbor to message.etf | erlpack cbor from -b | erlpack diag",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			modes, err := params.loadModes()
			if err != nil {
				return err
			}
			host := modes.host
			if params.Binaries {
				host.Strings = hostvalue.StringsAsBinaries
			}
			if err := cli.GuardBinaryOutput(os.Stdout, params.Force); err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, os.Stdin, params.HexInput)
			if err != nil {
				return err
			}
			if err := noExtraArgs("cbor from", remainingArgs); err != nil {
				return err
			}
			logger.Debug("converting from CBOR", "bytes", len(data), "strings", host.Strings, "packet", params.Packet)
			return cborToETF(data, os.Stdout, modes.encode, host, params.Packet)
		},
	}
}

// cborToETF converts every item of the CBOR sequence in data to a term
// and writes its ETF encoding to w.
func cborToETF(data []byte, w io.Writer, mode etf.EncMode, host hostvalue.Options, packet bool) error {
	terms, err := codec.ReadTerms(bytes.NewReader(data), host)
	if err != nil {
		var unsupported *hostvalue.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return cli.Unsupported("%w", err)
		}
		return cli.Malformed("%w", err)
	}
	if len(terms) == 0 {
		return cli.Validation("empty input: expected CBOR data")
	}
	if !packet && len(terms) > 1 {
		return cli.Validation("input holds %d CBOR items", len(terms)).
			WithHint("Pass --packet to write one {packet,4} frame per item.")
	}

	var output bytes.Buffer
	if packet {
		encoder := mode.NewEncoder(&output)
		for index, converted := range terms {
			if err := encoder.Encode(converted); err != nil {
				return encodeFailure(fmt.Sprintf("encode item %d", index), err)
			}
		}
	} else {
		encoded, err := mode.Pack(terms[0])
		if err != nil {
			return encodeFailure("encode", err)
		}
		output.Write(encoded)
	}

	if _, err := w.Write(output.Bytes()); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
