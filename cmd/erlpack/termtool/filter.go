// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package termtool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os/exec"

	"github.com/bureau-foundation/erlpack/cmd/erlpack/cli"
	"github.com/bureau-foundation/erlpack/lib/etf"
)

// filterETF decodes data, converts it to JSON, and pipes it through jq
// with the given arguments (filter expression and jq flags).
func filterETF(ctx context.Context, data []byte, mode etf.DecMode, slurp bool, jqArgs []string, stdout, stderr io.Writer) error {
	value, err := decodeToHost(data, mode, slurp)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return cli.Internal("encode JSON for jq: %w", err)
	}

	return runJQ(ctx, jsonData, jqArgs, stdout, stderr)
}

// runJQ executes jq with the given arguments, feeding jsonData to its
// stdin. A non-zero jq exit status is returned as a [cli.ExitError] so
// that piped commands behave correctly (jq -e returns 1 for
// false/null) and jq's own message is not repeated.
func runJQ(ctx context.Context, jsonData []byte, jqArgs []string, stdout, stderr io.Writer) error {
	jqPath, err := exec.LookPath("jq")
	if err != nil {
		return cli.NotFound("jq not found in PATH").
			WithHint(`Install jq, or use "erlpack decode" for plain JSON output.`)
	}

	cmd := exec.CommandContext(ctx, jqPath, jqArgs...)
	cmd.Stdin = bytes.NewReader(jsonData)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return &cli.ExitError{Code: exitErr.ExitCode()}
		}
		return cli.Internal("run jq: %w", err)
	}
	return nil
}
