// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// compressedHeaderLength is the tag byte plus the 4-byte uncompressed size.
const compressedHeaderLength = 5

// readCompressed reads the body of a compressed envelope: a 4-byte
// uncompressed size and a zlib stream holding exactly one term. The
// declared size is checked against MaxUncompressedSize before anything
// is inflated, and the inflated length must match it exactly.
//
// Offsets in errors from the inner term are relative to the inflated
// bytes, not the outer message.
func (state *decodeState) readCompressed() (term.Term, error) {
	sizeOffset := state.offset
	declared, err := state.readUint32()
	if err != nil {
		return nil, err
	}
	if uint64(declared) > uint64(state.mode.maxUncompressedSize) {
		return nil, &LimitError{
			Limit:  "uncompressed size",
			Value:  uint64(declared),
			Max:    uint64(state.mode.maxUncompressedSize),
			Offset: sizeOffset,
		}
	}

	streamOffset := state.offset
	// bytes.Reader is an io.ByteReader, so the inflater consumes
	// exactly the zlib stream and Len() tells us where it ended.
	source := bytes.NewReader(state.data[state.offset:])
	inflater, err := zlib.NewReader(source)
	if err != nil {
		return nil, &CorruptCompressedError{Offset: streamOffset, Err: err}
	}
	defer inflater.Close()

	// Reading one byte past the declared size detects streams that are
	// longer than advertised, and reading to EOF makes the zlib reader
	// verify its checksum.
	inflated, err := io.ReadAll(io.LimitReader(inflater, int64(declared)+1))
	if err != nil {
		return nil, &CorruptCompressedError{Offset: streamOffset, Err: err}
	}
	if uint64(len(inflated)) != uint64(declared) {
		return nil, &CompressedSizeError{Declared: declared, Actual: uint64(len(inflated))}
	}
	state.offset = len(state.data) - source.Len()

	inner := decodeState{data: inflated, mode: state.mode, depth: state.depth}
	value, err := inner.readTerm()
	if err != nil {
		return nil, err
	}
	if inner.remaining() > 0 {
		return nil, &TrailingDataError{Offset: inner.offset, Remaining: inner.remaining()}
	}
	return value, nil
}

// compressBody replaces the uncompressed body at message[bodyStart:]
// with a compressed envelope when that is smaller. Bodies whose length
// does not fit the 4-byte size field are left uncompressed.
func (mode EncMode) compressBody(message []byte, bodyStart int) ([]byte, error) {
	body := message[bodyStart:]
	if uint64(len(body)) > math.MaxUint32 {
		return message, nil
	}

	var compressed bytes.Buffer
	deflater, err := zlib.NewWriterLevel(&compressed, mode.compression)
	if err != nil {
		return nil, err
	}
	if _, err := deflater.Write(body); err != nil {
		return nil, err
	}
	if err := deflater.Close(); err != nil {
		return nil, err
	}

	if compressedHeaderLength+compressed.Len() >= len(body) {
		return message, nil
	}

	bodyLength := uint32(len(body))
	message = append(message[:bodyStart], byte(TagCompressed))
	message = binary.BigEndian.AppendUint32(message, bodyLength)
	return append(message, compressed.Bytes()...), nil
}

// IsCompressed reports whether data is a message in the compressed
// envelope. It does not validate the rest of the message.
func IsCompressed(data []byte) bool {
	return len(data) > 1 && data[0] == VersionMarker && Tag(data[1]) == TagCompressed
}
