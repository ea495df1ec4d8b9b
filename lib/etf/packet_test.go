// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"bytes"
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/bureau-foundation/erlpack/lib/term"
)

func TestEncoderWritesPacketFrame(t *testing.T) {
	var buffer bytes.Buffer
	if err := NewEncoder(&buffer).Encode(term.Tuple{term.Atom("reply"), term.NewInteger(42)}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0, 0, 0, 12,
		131, 104, 2,
		119, 5, 'r', 'e', 'p', 'l', 'y',
		97, 42,
	}
	if !bytes.Equal(buffer.Bytes(), want) {
		t.Errorf("frame = %v, want %v", buffer.Bytes(), want)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	values := []term.Term{
		term.Atom("hello"),
		term.NewList(term.NewInteger(1), term.Binary("two")),
		term.Map{{Key: term.Atom("k"), Value: term.Float(0.5)}},
		term.Nil{},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, value := range values {
		if err := encoder.Encode(value); err != nil {
			t.Fatalf("Encode(%s): %v", value, err)
		}
	}

	decoder := NewDecoder(&buffer)
	for index, want := range values {
		got, err := decoder.Decode()
		if err != nil {
			t.Fatalf("Decode #%d: %v", index, err)
		}
		if !term.Equal(got, want) {
			t.Errorf("Decode #%d = %s, want %s", index, got, want)
		}
	}
	if _, err := decoder.Decode(); err != io.EOF {
		t.Errorf("Decode after last frame = %v, want io.EOF", err)
	}
}

func TestEncoderFailedEncodeWritesNothing(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	if err := encoder.Encode(term.Tuple{nil}); err == nil {
		t.Fatal("Encode of a nil element succeeded")
	}
	if buffer.Len() != 0 {
		t.Errorf("failed Encode wrote %d bytes", buffer.Len())
	}
}

func TestDecoderTruncatedStream(t *testing.T) {
	var buffer bytes.Buffer
	if err := NewEncoder(&buffer).Encode(term.Binary("payload")); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	frame := buffer.Bytes()

	for _, length := range []int{1, 3, 4, len(frame) - 1} {
		_, err := NewDecoder(bytes.NewReader(frame[:length])).Decode()
		if err != io.ErrUnexpectedEOF {
			t.Errorf("Decode of %d-byte prefix = %v, want io.ErrUnexpectedEOF", length, err)
		}
	}
}

func TestDecoderTruncatedFrameDoesNotPreallocate(t *testing.T) {
	// The header claims 64 MiB, which is within the default packet
	// limit, but only two payload bytes follow.
	input := []byte{0x04, 0x00, 0x00, 0x00, 131, 106}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := NewDecoder(bytes.NewReader(input)).Decode()
	runtime.ReadMemStats(&after)

	if err != io.ErrUnexpectedEOF {
		t.Fatalf("Decode = %v, want io.ErrUnexpectedEOF", err)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 1<<20 {
		t.Errorf("Decode of a %d-byte stream allocated %d bytes", len(input), allocated)
	}
}

func TestDecoderReusesBufferAcrossFrames(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, value := range []term.Term{term.Binary("a longer first payload"), term.Binary("short")} {
		if err := encoder.Encode(value); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	first, err := decoder.Decode()
	if err != nil {
		t.Fatalf("first Decode: %v", err)
	}
	second, err := decoder.Decode()
	if err != nil {
		t.Fatalf("second Decode: %v", err)
	}
	if !term.Equal(first, term.Binary("a longer first payload")) {
		t.Errorf("first term = %v after second Decode", first)
	}
	if !term.Equal(second, term.Binary("short")) {
		t.Errorf("second term = %v", second)
	}
}

func TestDecoderEmptyStream(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader(nil)).Decode()
	if err != io.EOF {
		t.Errorf("Decode on empty stream = %v, want io.EOF", err)
	}
}

func TestDecoderPacketSizeLimit(t *testing.T) {
	mode, err := DecOptions{MaxPacketSize: 8}.DecMode()
	if err != nil {
		t.Fatalf("DecMode: %v", err)
	}
	var buffer bytes.Buffer
	if err := NewEncoder(&buffer).Encode(term.Binary("more than eight bytes")); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = mode.NewDecoder(&buffer).Decode()
	var limitError *LimitError
	if !errors.As(err, &limitError) {
		t.Fatalf("error = %v, want *LimitError", err)
	}
	if limitError.Limit != "packet size" || limitError.Max != 8 {
		t.Errorf("got %+v, want packet size limit 8", *limitError)
	}
}

func TestDecoderRejectsMalformedPayload(t *testing.T) {
	stream := []byte{0, 0, 0, 3, 131, 97, 1, 0, 0, 0, 2, 131, 255}

	decoder := NewDecoder(bytes.NewReader(stream))
	if _, err := decoder.Decode(); err != nil {
		t.Fatalf("first Decode: %v", err)
	}
	_, err := decoder.Decode()
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("second Decode = %v, want ErrProtocol", err)
	}
}

func TestDecoderPayloadMustBeOneMessage(t *testing.T) {
	stream := []byte{0, 0, 0, 4, 131, 97, 1, 0}
	_, err := NewDecoder(bytes.NewReader(stream)).Decode()
	var trailing *TrailingDataError
	if !errors.As(err, &trailing) {
		t.Fatalf("error = %v, want *TrailingDataError", err)
	}
}

func TestCompressingEncoderStream(t *testing.T) {
	mode, err := EncOptions{Compression: 6}.EncMode()
	if err != nil {
		t.Fatalf("EncMode: %v", err)
	}
	var buffer bytes.Buffer
	if err := mode.NewEncoder(&buffer).Encode(repetitiveTerm()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !IsCompressed(buffer.Bytes()[packetHeaderLength:]) {
		t.Error("frame payload is not compressed")
	}
	got, err := NewDecoder(&buffer).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !term.Equal(got, repetitiveTerm()) {
		t.Error("compressed stream roundtrip mismatch")
	}
}
