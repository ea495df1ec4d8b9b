// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"golang.org/x/term"
)

// fileDescriptor is satisfied by *os.File.
type fileDescriptor interface {
	Fd() uintptr
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(fileDescriptor)
	return ok && term.IsTerminal(int(file.Fd()))
}

// GuardBinaryOutput refuses to write binary data to a terminal unless
// force is set. Raw ETF or CBOR on a terminal is unreadable and can
// leave the terminal in a bad state.
func GuardBinaryOutput(w io.Writer, force bool) error {
	if force || !IsTerminal(w) {
		return nil
	}
	return Validation("refusing to write binary output to a terminal").
		WithHint("Redirect stdout to a file or pipe, or pass --force.")
}
