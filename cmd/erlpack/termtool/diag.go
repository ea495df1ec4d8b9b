// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/term"
)

// diagParams holds the parameters for "erlpack diag".
type diagParams struct {
	InputParams
	Slurp bool   `json:"slurp" flag:"slurp,s" desc:"read a {packet,4} stream"`
	Color string `json:"color" flag:"color"   desc:"colorize output: auto, always, or never" default:"auto"`
}

func diagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Show ETF messages in Erlang term notation",
		Description: `Read external term format messages and write each one in Erlang term
notation, one per line.

Unlike JSON output, term notation keeps every type: atoms vs binaries,
tuples vs lists, improper list tails, integer vs float, and map keys of
any kind. This is useful for inspecting exactly what a peer sent.

  {ok,<<"done">>}                 tuple of an atom and a text binary
  [1,2|tail]                      improper list
  #{1 => <<255,0>>}               integer key, raw binary value

Input may hold several back-to-back messages, each starting with the
version byte 131. With -s, input is a {packet,4} stream instead.

Output is syntax-highlighted when stdout is a terminal. Use --color to
force or disable highlighting.`,
		Usage: "erlpack diag [-s] [-x] [--color mode] [file]",
		Examples: []cli.Example{
			{
				Description: "Show a message in term notation",
				Command:     "erlpack diag < message.etf",
			},
			{
				Description: "Inspect a hex dump",
				Command:     "echo '83 68 02 77 02 6f 6b 61 2a' | erlpack diag -x",
			},
			{
				Description: "Show every frame of a port capture",
				Command:     "erlpack diag -s capture.bin",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			modes, err := params.loadModes()
			if err != nil {
				return err
			}
			formatter, err := diagFormatter(os.Stdout, params.Color)
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, os.Stdin, params.HexInput)
			if err != nil {
				return err
			}
			if err := noExtraArgs("diag", remainingArgs); err != nil {
				return err
			}
			logger.Debug("formatting", "bytes", len(data), "slurp", params.Slurp, "formatter", formatter)
			return diagETF(data, os.Stdout, modes.decode, params.Slurp, formatter)
		},
	}
}

// diagETF writes every message in data in term notation, one per line.
// An empty formatter writes plain text; otherwise formatter names the
// chroma formatter used for highlighting.
func diagETF(data []byte, w io.Writer, mode etf.DecMode, slurp bool, formatter string) error {
	var terms []term.Term
	var err error
	if slurp {
		terms, err = unpackPackets(data, mode)
	} else {
		terms, err = unpackConcatenated(data, mode)
	}
	if err != nil {
		return err
	}

	var text strings.Builder
	for _, decoded := range terms {
		text.WriteString(term.Format(decoded))
		text.WriteByte('\n')
	}

	if formatter == "" {
		if _, err := io.WriteString(w, text.String()); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	}
	if err := quick.Highlight(w, text.String(), "erlang", formatter, "monokai"); err != nil {
		return cli.Internal("highlight output: %w", err)
	}
	return nil
}

// diagFormatter picks the chroma formatter for w. In auto mode the
// terminal's color profile decides, and non-terminals get plain text.
func diagFormatter(w io.Writer, colorMode string) (string, error) {
	switch colorMode {
	case "never":
		return "", nil
	case "always":
		return "terminal256", nil
	case "auto":
		if !cli.IsTerminal(w) {
			return "", nil
		}
		return formatterForProfile(termenv.NewOutput(w).EnvColorProfile()), nil
	default:
		return "", cli.Validation("unknown --color mode %q (expected auto, always, or never)", colorMode)
	}
}

func formatterForProfile(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return ""
	}
}
