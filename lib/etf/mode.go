// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// Decode limits. Defaults apply when the corresponding DecOptions field
// is zero.
const (
	// DefaultMaxDepth bounds term nesting. Each level costs one
	// recursive call, so this bounds stack growth on hostile input.
	DefaultMaxDepth = 1024

	// MaxDepthLimit is the largest accepted DecOptions.MaxDepth.
	MaxDepthLimit = 65535

	// DefaultMaxUncompressedSize bounds the declared size of a
	// compressed term.
	DefaultMaxUncompressedSize = 64 << 20

	// DefaultMaxPacketSize bounds one {packet,4} frame.
	DefaultMaxPacketSize = 64 << 20
)

// DecOptions configures decoding. The zero value selects every default.
type DecOptions struct {
	// MaxDepth is the deepest nesting accepted. A scalar at the top
	// level is depth 1. Range 1..MaxDepthLimit.
	MaxDepth int

	// MaxUncompressedSize is the largest declared size of a compressed
	// term that will be inflated.
	MaxUncompressedSize int

	// MaxPacketSize is the largest frame a [Decoder] will read.
	MaxPacketSize int
}

// DecMode is an immutable decoding configuration, safe for concurrent
// use. Build one with [DecOptions.DecMode].
type DecMode struct {
	maxDepth            int
	maxUncompressedSize int
	maxPacketSize       int
}

// DecMode validates options and returns the mode.
func (options DecOptions) DecMode() (DecMode, error) {
	mode := DecMode{
		maxDepth:            options.MaxDepth,
		maxUncompressedSize: options.MaxUncompressedSize,
		maxPacketSize:       options.MaxPacketSize,
	}

	switch {
	case options.MaxDepth < 0 || options.MaxDepth > MaxDepthLimit:
		return DecMode{}, fmt.Errorf("etf: MaxDepth %d out of range 1..%d", options.MaxDepth, MaxDepthLimit)
	case options.MaxUncompressedSize < 0:
		return DecMode{}, fmt.Errorf("etf: MaxUncompressedSize %d is negative", options.MaxUncompressedSize)
	case options.MaxPacketSize < 0:
		return DecMode{}, fmt.Errorf("etf: MaxPacketSize %d is negative", options.MaxPacketSize)
	}

	if mode.maxDepth == 0 {
		mode.maxDepth = DefaultMaxDepth
	}
	if mode.maxUncompressedSize == 0 {
		mode.maxUncompressedSize = DefaultMaxUncompressedSize
	}
	if mode.maxPacketSize == 0 {
		mode.maxPacketSize = DefaultMaxPacketSize
	}
	return mode, nil
}

// DecOptions returns the effective options of the mode, with defaults
// filled in.
func (mode DecMode) DecOptions() DecOptions {
	return DecOptions{
		MaxDepth:            mode.maxDepth,
		MaxUncompressedSize: mode.maxUncompressedSize,
		MaxPacketSize:       mode.maxPacketSize,
	}
}

// NewDecoder returns a [Decoder] that reads {packet,4} frames from r.
func (mode DecMode) NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: r, mode: mode}
}

// EncOptions configures encoding. The zero value encodes uncompressed.
type EncOptions struct {
	// Compression is 0 for none or a zlib level 1 (fastest) to 9
	// (smallest). A compressed form is only emitted when it is
	// smaller than the plain encoding.
	Compression int
}

// EncMode is an immutable encoding configuration, safe for concurrent
// use. Build one with [EncOptions.EncMode].
type EncMode struct {
	compression int
}

// EncMode validates options and returns the mode.
func (options EncOptions) EncMode() (EncMode, error) {
	if options.Compression < 0 || options.Compression > zlib.BestCompression {
		return EncMode{}, fmt.Errorf("etf: Compression %d out of range 0..%d",
			options.Compression, zlib.BestCompression)
	}
	return EncMode{compression: options.Compression}, nil
}

// EncOptions returns the options the mode was built from.
func (mode EncMode) EncOptions() EncOptions {
	return EncOptions{Compression: mode.compression}
}

// NewEncoder returns an [Encoder] that writes {packet,4} frames to w.
func (mode EncMode) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: w, mode: mode}
}

// Pack encodes t into a new byte slice.
func (mode EncMode) Pack(t term.Term) ([]byte, error) {
	return mode.AppendPack(nil, t)
}

var (
	defaultDecMode DecMode
	defaultEncMode EncMode
)

func init() {
	var err error
	defaultDecMode, err = DecOptions{}.DecMode()
	if err != nil {
		panic("etf: default decoder initialization failed: " + err.Error())
	}
	defaultEncMode, err = EncOptions{}.EncMode()
	if err != nil {
		panic("etf: default encoder initialization failed: " + err.Error())
	}
}

// Unpack decodes exactly one message using the default limits.
func Unpack(data []byte) (term.Term, error) {
	return defaultDecMode.Unpack(data)
}

// UnpackFirst decodes the first message in data and returns the bytes
// after it.
func UnpackFirst(data []byte) (term.Term, []byte, error) {
	return defaultDecMode.UnpackFirst(data)
}

// Pack encodes t, uncompressed, with the canonical tag choices.
func Pack(t term.Term) ([]byte, error) {
	return defaultEncMode.Pack(t)
}

// AppendPack appends the encoding of t to dst.
func AppendPack(dst []byte, t term.Term) ([]byte, error) {
	return defaultEncMode.AppendPack(dst, t)
}

// NewDecoder returns a framed-stream [Decoder] with the default limits.
func NewDecoder(r io.Reader) *Decoder {
	return defaultDecMode.NewDecoder(r)
}

// NewEncoder returns a framed-stream [Encoder] that does not compress.
func NewEncoder(w io.Writer) *Encoder {
	return defaultEncMode.NewEncoder(w)
}
