// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/erlpack/lib/hostvalue"
	"github.com/bureau-foundation/erlpack/lib/term"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Integers too large for a CBOR
// major type 0/1 head become bignums (tags 2 and 3).
var encMode cbor.EncMode

// decMode decodes into map[any]any when the target is any, so integer
// and other non-text map keys survive the trip back to a term.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.BigIntConvert = cbor.BigIntConvertShortest
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		BigIntDec: cbor.BigIntDecodeValue,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Encoder is a CBOR stream encoder. Type alias so consumers import
// only lib/codec, not fxamacker/cbor directly.
type Encoder = cbor.Encoder

// Decoder is a CBOR stream decoder.
type Decoder = cbor.Decoder

// NewEncoder returns a CBOR encoder that writes a CBOR sequence
// (RFC 8742) to w, one item per Encode call.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder that reads consecutive items
// from r.
func NewDecoder(r io.Reader) *Decoder {
	return decMode.NewDecoder(r)
}

// DiagnoseFirst returns the CBOR diagnostic notation (RFC 8949 §8)
// for the first data item in data, along with the remaining unconsumed
// bytes.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	return cbor.DiagnoseFirst(data)
}

// FromTerm converts t through [hostvalue.FromTerm] and encodes the
// result as one CBOR item.
func FromTerm(t term.Term) ([]byte, error) {
	data, err := Marshal(hostvalue.FromTerm(t))
	if err != nil {
		return nil, fmt.Errorf("codec: encode %s term as CBOR: %w", kindOf(t), err)
	}
	return data, nil
}

// ToTerm decodes exactly one CBOR item and converts it with options.
// CBOR tags other than bignums have no term mapping and fail with
// *hostvalue.UnsupportedTypeError.
func ToTerm(data []byte, options hostvalue.Options) (term.Term, error) {
	var value any
	if err := Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("codec: decode CBOR: %w", err)
	}
	return options.ToTerm(value)
}

// ReadTerms decodes every item of the CBOR sequence on r and converts
// each with options. An empty stream yields no terms and no error.
func ReadTerms(r io.Reader, options hostvalue.Options) ([]term.Term, error) {
	decoder := NewDecoder(r)
	var terms []term.Term
	for {
		var value any
		if err := decoder.Decode(&value); err != nil {
			if errors.Is(err, io.EOF) {
				return terms, nil
			}
			return nil, fmt.Errorf("codec: decode CBOR sequence item %d: %w", len(terms), err)
		}
		converted, err := options.ToTerm(value)
		if err != nil {
			return nil, fmt.Errorf("codec: CBOR sequence item %d: %w", len(terms), err)
		}
		terms = append(terms, converted)
	}
}

// WriteTerms encodes each term as one item of a CBOR sequence on w.
func WriteTerms(w io.Writer, terms []term.Term) error {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for index, t := range terms {
		if err := encoder.Encode(hostvalue.FromTerm(t)); err != nil {
			return fmt.Errorf("codec: encode sequence item %d: %w", index, err)
		}
	}
	_, err := w.Write(buffer.Bytes())
	return err
}

func kindOf(t term.Term) string {
	if t == nil {
		return "nil"
	}
	return t.Kind().String()
}
