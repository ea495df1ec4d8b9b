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
	"math"
	"os"
	"strconv"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/hostvalue"
	"github.com/bureau-foundation/erlpack/lib/term"
)

// decodeParams holds the parameters for "erlpack decode".
type decodeParams struct {
	InputParams
	Compact bool `json:"compact" flag:"compact,c" desc:"compact output (no indentation)"`
	Slurp   bool `json:"slurp"   flag:"slurp,s"   desc:"read a {packet,4} stream as a JSON array"`
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert an ETF message to JSON",
		Description: `Read one external term format message and write the equivalent JSON
to stdout.

By default, output is pretty-printed with 2-space indentation. Use -c
for compact single-line output.

The JSON mapping is lossy. Atoms and UTF-8 binaries both become strings,
tuples and lists both become arrays, and map keys that are not atoms or
text are written in Erlang notation. Binaries that are not UTF-8 appear
as base64 strings. Use "erlpack diag" for a representation that keeps
every type.

With -s, reads a {packet,4} stream (a 4-byte big-endian length before
each message) and outputs the messages as a JSON array.`,
		Usage: "erlpack decode [-c] [-s] [-x] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode a message to pretty JSON",
				Command:     "erlpack decode < message.etf",
			},
			{
				Description: "Decode a port stream to a JSON array",
				Command:     "erlpack decode -s capture.bin",
			},
			{
				Description: "Decode a hex dump",
				Command:     "echo '83 68 02 77 02 6f 6b 61 2a' | erlpack decode -x",
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
			if err := noExtraArgs("decode", remainingArgs); err != nil {
				return err
			}
			logger.Debug("decoding", "bytes", len(data), "slurp", params.Slurp)
			return decodeETF(data, os.Stdout, modes.decode, params.Compact, params.Slurp)
		},
	}
}

// decodeETF decodes data and writes JSON to w.
func decodeETF(data []byte, w io.Writer, mode etf.DecMode, compact, slurp bool) error {
	value, err := decodeToHost(data, mode, slurp)
	if err != nil {
		return err
	}
	return cli.WriteJSON(w, value, compact)
}

// decodeToHost decodes data and converts it to JSON-compatible values:
// one value, or a []any of frame values when slurp is set.
func decodeToHost(data []byte, mode etf.DecMode, slurp bool) (any, error) {
	if !slurp {
		decoded, err := unpackSingle(data, mode)
		if err != nil {
			return nil, err
		}
		return normalizeValue(hostvalue.FromTerm(decoded)), nil
	}

	terms, err := unpackPackets(data, mode)
	if err != nil {
		return nil, err
	}
	items := make([]any, len(terms))
	for index, decoded := range terms {
		items[index] = normalizeValue(hostvalue.FromTerm(decoded))
	}
	return items, nil
}

// unpackSingle decodes data as exactly one message.
func unpackSingle(data []byte, mode etf.DecMode) (term.Term, error) {
	if len(data) == 0 {
		return nil, cli.Validation("empty input: expected ETF data")
	}
	decoded, err := mode.Unpack(data)
	if err != nil {
		return nil, decodeFailure("decode ETF", err)
	}
	return decoded, nil
}

// unpackPackets decodes data as a {packet,4} stream.
func unpackPackets(data []byte, mode etf.DecMode) ([]term.Term, error) {
	decoder := mode.NewDecoder(bytes.NewReader(data))
	var terms []term.Term
	for {
		decoded, err := decoder.Decode()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, decodeFailure(fmt.Sprintf("decode packet %d", len(terms)), err)
		}
		terms = append(terms, decoded)
	}
	if len(terms) == 0 {
		return nil, cli.Validation("empty input: expected a {packet,4} stream")
	}
	return terms, nil
}

// unpackConcatenated decodes data as back-to-back unframed messages.
func unpackConcatenated(data []byte, mode etf.DecMode) ([]term.Term, error) {
	if len(data) == 0 {
		return nil, cli.Validation("empty input: expected ETF data")
	}
	var terms []term.Term
	remaining := data
	for len(remaining) > 0 {
		decoded, rest, err := mode.UnpackFirst(remaining)
		if err != nil {
			offset := len(data) - len(remaining)
			return nil, decodeFailure(fmt.Sprintf("decode message at byte %d", offset), err)
		}
		terms = append(terms, decoded)
		remaining = rest
	}
	return terms, nil
}

// normalizeValue recursively converts host values to types that
// encoding/json accepts. Non-finite floats, which JSON cannot express,
// become the strings "NaN", "+Inf", and "-Inf".
func normalizeValue(v any) any {
	switch value := v.(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return strconv.FormatFloat(value, 'g', -1, 64)
		}
		return value

	case map[string]any:
		for key, element := range value {
			value[key] = normalizeValue(element)
		}
		return value

	case []any:
		for index, element := range value {
			value[index] = normalizeValue(element)
		}
		return value

	default:
		return v
	}
}
