// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestToolError_Constructors(t *testing.T) {
	tests := []struct {
		err  *ToolError
		want ErrorCategory
	}{
		{Validation("bad flag"), CategoryValidation},
		{NotFound("no file"), CategoryNotFound},
		{Malformed("bad message"), CategoryMalformed},
		{Unsupported("no mapping"), CategoryUnsupported},
		{Internal("bug"), CategoryInternal},
	}
	for _, test := range tests {
		if test.err.Category != test.want {
			t.Errorf("%q: Category = %q, want %q", test.err, test.err.Category, test.want)
		}
	}
}

func TestToolError_ErrorWithHint(t *testing.T) {
	err := Validation("refusing to write binary output").WithHint("Pass --force.")
	want := "refusing to write binary output\n\nPass --force."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if plain := Validation("plain"); plain.Error() != "plain" {
		t.Errorf("Error() without hint = %q", plain.Error())
	}
}

func TestToolError_WithHintReturnsReceiver(t *testing.T) {
	original := Validation("bad input")
	if chained := original.WithHint("fix it"); chained != original {
		t.Error("WithHint should return the same pointer")
	}
}

func TestToolError_UnwrapsInnerError(t *testing.T) {
	err := Malformed("decode message: %w", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the wrapped error")
	}

	wrapped := fmt.Errorf("decode: %w", Validation("bad flag").WithHint("see --help"))
	var toolErr *ToolError
	if !errors.As(wrapped, &toolErr) {
		t.Fatal("errors.As should find ToolError in wrapped chain")
	}
	if toolErr.Hint != "see --help" {
		t.Errorf("Hint = %q after unwrap", toolErr.Hint)
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	var coder interface{ ExitCode() int }
	if !errors.As(err, &coder) || coder.ExitCode() != 3 {
		t.Errorf("ExitError does not report code 3: %v", err)
	}
}
