// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"context"
	"log/slog"
	"os"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
)

// rootParams holds the parameters for the top-level "erlpack" command.
// The command has both Subcommands and a Run fallback. When the first
// positional argument matches a subcommand, the framework routes there.
// Otherwise Run handles it: no args means decode, anything else is a
// jq filter expression.
type rootParams struct {
	InputParams
	Compact   bool `json:"compact"    flag:"compact,c"    desc:"compact output (no indentation)"`
	RawOutput bool `json:"raw_output" flag:"raw-output,r" desc:"raw string output (passed to jq)"`
	Slurp     bool `json:"slurp"      flag:"slurp,s"      desc:"read a {packet,4} stream as a JSON array"`
}

// Command returns the "erlpack" command tree.
func Command() *cli.Command {
	var params rootParams

	return &cli.Command{
		Name:    "erlpack",
		Summary: "Inspect, produce, and filter Erlang external term format data",
		Description: `Tools for working with Erlang external term format (ETF) data from the
command line: the binary format of term_to_binary/1, port programs,
and distribution payloads.

With no arguments, decodes ETF on stdin to pretty-printed JSON on
stdout (equivalent to "erlpack decode").

When the first argument is not a subcommand name, it is treated as a jq
filter expression. The input is decoded to JSON internally and piped
through jq. The -c and -r flags are passed through to jq.

All subcommands accept an optional trailing file path argument. When
provided, input is read from the file instead of stdin, matching jq
convention: "erlpack '.name' message.etf".

With --hex, input is treated as hex text rather than raw binary.
Whitespace in the hex input is ignored.

Decoder limits and encoder defaults come from the file named by
--config or ERLPACK_CONFIG. Without one, built-in defaults apply.`,
		Subcommands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			diagCommand(),
			validateCommand(),
			hashCommand(),
			cborCommand(),
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			modes, err := params.loadModes()
			if err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, os.Stdin, params.HexInput)
			if err != nil {
				return err
			}

			if len(remainingArgs) == 0 {
				logger.Debug("decoding", "bytes", len(data), "slurp", params.Slurp)
				return decodeETF(data, os.Stdout, modes.decode, params.Compact, params.Slurp)
			}

			var jqArgs []string
			if params.Compact {
				jqArgs = append(jqArgs, "-c")
			}
			if params.RawOutput {
				jqArgs = append(jqArgs, "-r")
			}
			jqArgs = append(jqArgs, remainingArgs...)

			logger.Debug("filtering", "bytes", len(data), "jq_args", jqArgs)
			return filterETF(ctx, data, modes.decode, params.Slurp, jqArgs, os.Stdout, os.Stderr)
		},
		Examples: []cli.Example{
			{
				Description: "Decode ETF to pretty JSON",
				Command:     "erlpack < message.etf",
			},
			{
				Description: "Extract a field with jq",
				Command:     "erlpack '.name' message.etf",
			},
			{
				Description: "Raw string output from a jq filter",
				Command:     "erlpack -r '.[1]' reply.etf",
			},
			{
				Description: "Decode a hex dump",
				Command:     "echo '83 68 02 77 02 6f 6b 61 2a' | erlpack -x",
			},
			{
				Description: "Encode JSON to ETF",
				Command:     `echo '{"action":"status"}' | erlpack encode`,
			},
			{
				Description: "Show a message in Erlang term notation",
				Command:     "erlpack diag message.etf",
			},
			{
				Description: "Check for the canonical encoding",
				Command:     "erlpack validate message.etf",
			},
			{
				Description: "Round-trip: encode then decode",
				Command:     `echo '{"count":42}' | erlpack encode | erlpack decode`,
			},
		},
	}
}
