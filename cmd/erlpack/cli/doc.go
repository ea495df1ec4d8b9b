// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the erlpack CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a tagged params struct bound to
// a [pflag.FlagSet] by [BindFlags], and a Run function that receives a
// context and a command-scoped [log/slog.Logger]. Commands are assembled
// into a tree in cmd/erlpack/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Errors returned by commands are categorized with [ToolError]
// (validation, not_found, malformed, unsupported, internal). [ExitError]
// requests a non-zero exit status without an extra message.
//
// Shared helpers: [ConfigFlag] adds --config backed by lib/config,
// [GuardBinaryOutput] refuses to write binary data to a terminal, and
// [WriteJSON] produces the JSON output format.
package cli
