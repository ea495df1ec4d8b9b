// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package etf encodes and decodes the Erlang external term format.
//
// A message is the version marker 131 followed by one tagged term, or
// by a zlib-compressed envelope (tag 80) holding one term. Decoding
// produces a [term.Term] tree that never aliases the input; encoding
// writes the smallest tag that can hold each value, so that
// re-encoding a canonically encoded message reproduces its bytes.
//
// For buffer-oriented operations:
//
//	value, err := etf.Unpack(data)
//	data, err := etf.Pack(value)
//
// For {packet,4} streams (Erlang ports, length-prefixed sockets):
//
//	encoder := etf.NewEncoder(conn)
//	decoder := etf.NewDecoder(conn)
//
// Limits and compression are configured through options structs that
// build immutable modes, safe for concurrent use:
//
//	decMode, err := etf.DecOptions{MaxDepth: 64}.DecMode()
//	encMode, err := etf.EncOptions{Compression: 6}.EncMode()
//
// # Untrusted input
//
// Every length prefix is checked against the bytes actually remaining
// before anything is allocated, so a forged prefix fails with
// [ErrUnexpectedEnd] instead of a large allocation. Nesting is bounded
// by DecOptions.MaxDepth and compressed terms by
// DecOptions.MaxUncompressedSize. Decoding never panics.
//
// # Errors
//
// Every error matches exactly one category sentinel with errors.Is:
// [ErrProtocol], [ErrStructure] (with [ErrUnexpectedEnd] for
// truncation), [ErrContent], [ErrCapacity], or [ErrUnsupported]. The
// concrete types carry the byte offset of the failure. A failed call
// always returns a nil term.
package etf
