// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete erlpack command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/cmd/erlpack/termtool"
	"github.com/bureau-foundation/erlpack/lib/version"
)

// Root builds and returns the erlpack command tree.
func Root() *cli.Command {
	root := termtool.Command()
	root.Subcommands = append(root.Subcommands, &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments, got %q", args[0])
			}
			fmt.Fprintf(os.Stdout, "erlpack %s\n", version.Full())
			return nil
		},
	})
	return root
}
