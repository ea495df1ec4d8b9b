// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// packetHeaderLength is the size of the {packet,4} length prefix.
const packetHeaderLength = 4

// Encoder writes terms as {packet,4} frames: a 4-byte big-endian
// length followed by one complete message. This is the framing an
// Erlang port opened with {packet, 4} expects.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	writer io.Writer
	mode   EncMode
	buffer []byte
}

// Encode writes one frame holding t. The frame is assembled in memory
// and handed to the writer in a single Write call, so a failed encode
// writes nothing.
func (encoder *Encoder) Encode(t term.Term) error {
	frame := append(encoder.buffer[:0], 0, 0, 0, 0)
	frame, err := encoder.mode.AppendPack(frame, t)
	if err != nil {
		return err
	}
	payloadLength := uint64(len(frame) - packetHeaderLength)
	if payloadLength > math.MaxUint32 {
		return &LimitError{Limit: "packet size", Value: payloadLength, Max: math.MaxUint32}
	}
	binary.BigEndian.PutUint32(frame, uint32(payloadLength))
	encoder.buffer = frame

	if _, err := encoder.writer.Write(frame); err != nil {
		return fmt.Errorf("etf: writing packet: %w", err)
	}
	return nil
}

// Decoder reads {packet,4} frames and decodes the message in each.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	reader io.Reader
	mode   DecMode
	buffer bytes.Buffer
}

// Decode reads the next frame and returns its term. It returns io.EOF
// when the stream ends cleanly between frames and io.ErrUnexpectedEOF
// when it ends inside one. A frame whose payload is not exactly one
// message fails with the decode error for that payload.
//
// The payload buffer grows with the bytes actually received, so a
// header claiming more than the stream holds costs no more memory than
// the stream itself.
func (decoder *Decoder) Decode() (term.Term, error) {
	var header [packetHeaderLength]byte
	if _, err := io.ReadFull(decoder.reader, header[:]); err != nil {
		// ReadFull returns io.EOF only when nothing was read.
		return nil, err
	}

	length := binary.BigEndian.Uint32(header[:])
	if uint64(length) > uint64(decoder.mode.maxPacketSize) {
		return nil, &LimitError{
			Limit: "packet size",
			Value: uint64(length),
			Max:   uint64(decoder.mode.maxPacketSize),
		}
	}

	decoder.buffer.Reset()
	if _, err := io.CopyN(&decoder.buffer, decoder.reader, int64(length)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return decoder.mode.Unpack(decoder.buffer.Bytes())
}
