// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import "fmt"

// Tag is the first byte of every encoded term and selects its payload
// layout. These values are fixed by the Erlang external term format.
type Tag uint8

// VersionMarker must be the first byte of every message.
const VersionMarker = 131

const (
	// TagCompressed wraps a zlib-deflated term: 4-byte uncompressed
	// size, then the zlib stream. Only valid directly after the
	// version marker.
	TagCompressed Tag = 80

	// TagSmallInteger is a 1-byte unsigned integer.
	TagSmallInteger Tag = 97
	// TagInteger is a 4-byte big-endian two's-complement integer.
	TagInteger Tag = 98
	// TagSmallBig is a bignum with a 1-byte magnitude length.
	TagSmallBig Tag = 110
	// TagLargeBig is a bignum with a 4-byte magnitude length.
	TagLargeBig Tag = 111

	// TagNewFloat is an 8-byte big-endian IEEE-754 double.
	TagNewFloat Tag = 70
	// TagFloat is the legacy 31-byte NUL-padded decimal float. Decoded
	// for compatibility with old peers, never encoded.
	TagFloat Tag = 99

	// TagAtom and TagAtomUTF8 carry a 2-byte length. TagAtom is the
	// Latin-1 form in Erlang, but this codec reads both as UTF-8.
	TagAtom     Tag = 100
	TagAtomUTF8 Tag = 118
	// TagSmallAtom and TagSmallAtomUTF8 carry a 1-byte length.
	TagSmallAtom     Tag = 115
	TagSmallAtomUTF8 Tag = 119

	TagSmallTuple Tag = 104
	TagLargeTuple Tag = 105
	TagMap        Tag = 116
	TagNil        Tag = 106
	TagList       Tag = 108

	// TagString is Erlang's byte-list shorthand (2-byte length). It is
	// decoded as a Binary and never encoded.
	TagString Tag = 107
	TagBinary Tag = 109
)

// String returns the Erlang name of the tag (e.g. "SMALL_INTEGER_EXT").
func (tag Tag) String() string {
	switch tag {
	case TagCompressed:
		return "COMPRESSED"
	case TagSmallInteger:
		return "SMALL_INTEGER_EXT"
	case TagInteger:
		return "INTEGER_EXT"
	case TagSmallBig:
		return "SMALL_BIG_EXT"
	case TagLargeBig:
		return "LARGE_BIG_EXT"
	case TagNewFloat:
		return "NEW_FLOAT_EXT"
	case TagFloat:
		return "FLOAT_EXT"
	case TagAtom:
		return "ATOM_EXT"
	case TagAtomUTF8:
		return "ATOM_UTF8_EXT"
	case TagSmallAtom:
		return "SMALL_ATOM_EXT"
	case TagSmallAtomUTF8:
		return "SMALL_ATOM_UTF8_EXT"
	case TagSmallTuple:
		return "SMALL_TUPLE_EXT"
	case TagLargeTuple:
		return "LARGE_TUPLE_EXT"
	case TagMap:
		return "MAP_EXT"
	case TagNil:
		return "NIL_EXT"
	case TagList:
		return "LIST_EXT"
	case TagString:
		return "STRING_EXT"
	case TagBinary:
		return "BINARY_EXT"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}
