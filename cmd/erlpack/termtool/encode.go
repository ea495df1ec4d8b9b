// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/hostvalue"
	"github.com/bureau-foundation/erlpack/lib/term"
)

// encodeParams holds the parameters for "erlpack encode".
type encodeParams struct {
	cli.ConfigFlag
	From     string `json:"from"     flag:"from"       desc:"input format: json, jsonc, or yaml" default:"json"`
	Binaries bool   `json:"binaries" flag:"binaries,b" desc:"encode strings as binaries instead of atoms"`
	Compress int    `json:"compress" flag:"compress"   desc:"zlib level 1-9, 0 for none (default: from config)" default:"-1"`
	Packet   bool   `json:"packet"   flag:"packet,p"   desc:"write each input document as a {packet,4} frame"`
	Force    bool   `json:"force"    flag:"force,f"    desc:"write binary output even when stdout is a terminal"`
}

// encodeSettings are the resolved inputs of an encode run.
type encodeSettings struct {
	from   string
	host   hostvalue.Options
	mode   etf.EncMode
	packet bool
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON or YAML to an ETF message",
		Description: `Read host data from stdin (or a file argument) and write the equivalent
external term format message to stdout.

Objects become maps with keys in Erlang term order, arrays become
tuples, and null becomes []. Strings become atoms, or binaries with
--binaries (the usual choice for text an Erlang peer treats as data).
Integers are kept exact however large they are.

The input must hold exactly one document unless --packet is given, in
which case every document (a JSON value, or a YAML document separated
by ---) is written as its own {packet,4} frame.

The output is binary. Pipe it to "erlpack diag" or "xxd" to inspect it.`,
		Usage: "erlpack encode [--from format] [--binaries] [--compress N] [--packet] [file]",
		Examples: []cli.Example{
			{
				Description: "Encode JSON to ETF",
				Command:     `echo '{"action":"status"}' | erlpack encode > request.etf`,
			},
			{
				Description: "Encode a YAML file with text as binaries",
				Command:     "erlpack encode --from yaml --binaries input.yaml > output.etf",
			},
			{
				Description: "Round-trip: encode then show the term",
				Command:     `echo '[1, "two", null]' | erlpack encode | erlpack diag`,
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			modes, err := modesFromConfig(cfg)
			if err != nil {
				return err
			}
			settings := encodeSettings{from: params.From, host: modes.host, mode: modes.encode, packet: params.Packet}
			if params.Binaries {
				settings.host.Strings = hostvalue.StringsAsBinaries
			}
			if params.Compress >= 0 {
				settings.mode, err = etf.EncOptions{Compression: params.Compress}.EncMode()
				if err != nil {
					return cli.Validation("--compress: %w", err)
				}
			}

			if err := cli.GuardBinaryOutput(os.Stdout, params.Force); err != nil {
				return err
			}
			data, remainingArgs, err := readInput(args, os.Stdin, false)
			if err != nil {
				return err
			}
			if err := noExtraArgs("encode", remainingArgs); err != nil {
				return err
			}
			logger.Debug("encoding", "from", settings.from, "strings", settings.host.Strings,
				"compression", settings.mode.EncOptions().Compression)
			return encodeETF(data, os.Stdout, settings)
		},
	}
}

// encodeETF parses host data and writes the ETF encoding to w.
func encodeETF(data []byte, w io.Writer, settings encodeSettings) error {
	documents, err := parseDocuments(data, settings.from)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		return cli.Validation("empty input: expected %s data", settings.from)
	}
	if !settings.packet && len(documents) > 1 {
		return cli.Validation("input holds %d documents", len(documents)).
			WithHint("Pass --packet to write one {packet,4} frame per document.")
	}

	terms := make([]term.Term, len(documents))
	for index, document := range documents {
		converted, err := settings.host.ToTerm(document)
		if err != nil {
			return cli.Unsupported("document %d: %w", index, err)
		}
		terms[index] = converted
	}

	var output bytes.Buffer
	if settings.packet {
		encoder := settings.mode.NewEncoder(&output)
		for index, converted := range terms {
			if err := encoder.Encode(converted); err != nil {
				return encodeFailure(fmt.Sprintf("encode document %d", index), err)
			}
		}
	} else {
		encoded, err := settings.mode.Pack(terms[0])
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

// parseDocuments decodes every document in data. JSON numbers are kept
// as json.Number and large YAML integers as *big.Int so integers stay
// exact.
func parseDocuments(data []byte, from string) ([]any, error) {
	switch from {
	case "json":
		return parseJSONDocuments(data)
	case "jsonc":
		return parseJSONDocuments(jsonc.ToJSON(data))
	case "yaml", "yml":
		return parseYAMLDocuments(data)
	default:
		return nil, cli.Validation("unknown input format %q (expected json, jsonc, or yaml)", from)
	}
}

func parseJSONDocuments(data []byte) ([]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var documents []any
	for {
		var document any
		if err := decoder.Decode(&document); err != nil {
			if errors.Is(err, io.EOF) {
				return documents, nil
			}
			return nil, cli.Malformed("decode JSON document %d: %w", len(documents), err)
		}
		documents = append(documents, document)
	}
}

func parseYAMLDocuments(data []byte) ([]any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var documents []any
	for {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return documents, nil
			}
			return nil, cli.Malformed("decode YAML document %d: %w", len(documents), err)
		}
		document, err := yamlValue(&node)
		if err != nil {
			return nil, cli.Malformed("decode YAML document %d: %w", len(documents), err)
		}
		documents = append(documents, document)
	}
}
