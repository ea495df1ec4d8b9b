// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package termtool implements the erlpack command tree for inspecting,
// producing, filtering, and validating external term format data from
// the command line.
//
// Subcommands:
//
//   - decode: convert ETF to JSON.
//   - encode: convert JSON, JSONC, or YAML to ETF.
//   - diag: show ETF in Erlang term notation.
//   - validate: verify ETF is in canonical form.
//   - hash: print the BLAKE3 content digest of a term or stream.
//   - cbor to, cbor from: bridge ETF and CBOR.
//
// Commands that read ETF accept input from stdin or from a trailing
// file path. The --hex flag treats input as hex text for debugging wire
// dumps, and -s reads a {packet,4} stream.
//
// When the first positional argument is not a subcommand name, it is
// treated as a jq filter expression: the input is decoded to JSON and
// piped through jq. With no arguments at all, erlpack acts as an alias
// for erlpack decode.
package termtool
