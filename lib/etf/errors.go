// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// Category sentinels. Every error returned by this package matches
// exactly one of them via errors.Is, so callers can branch on the class
// of failure without inspecting concrete types:
//
//	if errors.Is(err, etf.ErrUnexpectedEnd) { ... wait for more bytes ... }
var (
	// ErrProtocol: the input is not this format (wrong version marker)
	// or uses a tag this codec does not know.
	ErrProtocol = errors.New("etf: protocol error")

	// ErrStructure: the input violates the tag grammar's framing:
	// truncation, trailing bytes, limits, compressed size mismatch.
	ErrStructure = errors.New("etf: malformed structure")

	// ErrUnexpectedEnd is the subset of ErrStructure where the input
	// ended before a declared length was satisfied.
	ErrUnexpectedEnd = errors.New("etf: unexpected end of input")

	// ErrContent: the framing is valid but a payload is not, such as
	// an atom that is not UTF-8.
	ErrContent = errors.New("etf: invalid content")

	// ErrCapacity: a value is too long for the widest length prefix
	// its tag offers.
	ErrCapacity = errors.New("etf: value exceeds encoding capacity")

	// ErrUnsupported: the encoder was handed something that is not a
	// term (a nil Term or a foreign Term implementation).
	ErrUnsupported = errors.New("etf: unsupported term")
)

// UnknownVersionError is returned when the first byte of a message is
// not [VersionMarker].
type UnknownVersionError struct {
	Version byte
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("etf: unknown format version %d (expected %d)", e.Version, VersionMarker)
}

func (e *UnknownVersionError) Is(target error) bool { return target == ErrProtocol }

// UnknownTagError is returned for a tag byte outside the grammar.
type UnknownTagError struct {
	Tag    Tag
	Offset int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("etf: unknown term type %d at byte %d", uint8(e.Tag), e.Offset)
}

func (e *UnknownTagError) Is(target error) bool { return target == ErrProtocol }

// TruncatedError is returned when the input ends before Need bytes
// could be read at Offset. Have is what remained.
type TruncatedError struct {
	Offset int
	Need   uint64
	Have   int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("etf: unexpected end of input at byte %d: need %d bytes, have %d",
		e.Offset, e.Need, e.Have)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrUnexpectedEnd || target == ErrStructure
}

// TrailingDataError is returned by Unpack when bytes remain after a
// complete message. Use UnpackFirst to decode concatenated messages.
type TrailingDataError struct {
	Offset    int
	Remaining int
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("etf: %d trailing bytes after term ending at byte %d", e.Remaining, e.Offset)
}

func (e *TrailingDataError) Is(target error) bool { return target == ErrStructure }

// LimitError is returned when input exceeds a configured decode limit
// (nesting depth, uncompressed size, packet size).
type LimitError struct {
	Limit  string
	Value  uint64
	Max    uint64
	Offset int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("etf: %s %d exceeds limit %d at byte %d", e.Limit, e.Value, e.Max, e.Offset)
}

func (e *LimitError) Is(target error) bool { return target == ErrStructure }

// CompressedSizeError is returned when a compressed term inflates to a
// size other than the one declared in its header. Actual is a lower
// bound when the stream was longer than declared.
type CompressedSizeError struct {
	Declared uint32
	Actual   uint64
}

func (e *CompressedSizeError) Error() string {
	return fmt.Sprintf("etf: compressed term declared %d bytes, inflated to %d", e.Declared, e.Actual)
}

func (e *CompressedSizeError) Is(target error) bool { return target == ErrStructure }

// InvalidUTF8Error is returned when atom text is not valid UTF-8. When
// decoding, Offset is the start of the atom's bytes; when encoding it
// is -1.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	if e.Offset < 0 {
		return "etf: atom is not valid UTF-8"
	}
	return fmt.Sprintf("etf: atom at byte %d is not valid UTF-8", e.Offset)
}

func (e *InvalidUTF8Error) Is(target error) bool { return target == ErrContent }

// InvalidFloatError is returned when a legacy FLOAT_EXT payload does
// not parse as a decimal number.
type InvalidFloatError struct {
	Offset int
	Text   string
}

func (e *InvalidFloatError) Error() string {
	return fmt.Sprintf("etf: invalid float text %q at byte %d", e.Text, e.Offset)
}

func (e *InvalidFloatError) Is(target error) bool { return target == ErrContent }

// CapacityError is returned by the encoder when a length does not fit
// the widest prefix available for Kind.
type CapacityError struct {
	Kind   term.Kind
	Length uint64
	Max    uint64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("etf: %s length %d exceeds maximum %d", e.Kind, e.Length, e.Max)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacity }

// UnsupportedTermError is returned by the encoder for a nil Term or a
// Term implementation it does not know.
type UnsupportedTermError struct {
	Term term.Term
}

func (e *UnsupportedTermError) Error() string {
	if e.Term == nil {
		return "etf: cannot encode nil term"
	}
	return fmt.Sprintf("etf: cannot encode term of type %T", e.Term)
}

func (e *UnsupportedTermError) Is(target error) bool { return target == ErrUnsupported }

// CorruptCompressedError is returned when the zlib stream of a
// compressed term cannot be inflated.
type CorruptCompressedError struct {
	Offset int
	Err    error
}

func (e *CorruptCompressedError) Error() string {
	return fmt.Sprintf("etf: inflate compressed term at byte %d: %v", e.Offset, e.Err)
}

func (e *CorruptCompressedError) Unwrap() error { return e.Err }

func (e *CorruptCompressedError) Is(target error) bool { return target == ErrStructure }
