// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// LogLevelVariable names the environment variable that sets the
// command logger's level (debug, info, warn, error).
const LogLevelVariable = "ERLPACK_LOG_LEVEL"

// NewCommandLogger creates a structured logger for CLI command
// operations, writing to stderr. When stderr is a terminal, uses
// slog.TextHandler for human-readable output. When stderr is piped or
// redirected, uses slog.JSONHandler for machine-parseable output.
//
// Command output goes to stdout; the logger only carries diagnostics,
// so the default level is warn.
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: levelFromEnvironment()}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

func levelFromEnvironment() slog.Level {
	var level slog.Level
	value := strings.TrimSpace(os.Getenv(LogLevelVariable))
	if value == "" || level.UnmarshalText([]byte(value)) != nil {
		return slog.LevelWarn
	}
	return level
}
