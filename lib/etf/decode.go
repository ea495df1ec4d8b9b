// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// floatTextLength is the fixed payload size of the legacy FLOAT_EXT.
const floatTextLength = 31

// Unpack decodes exactly one message. Bytes after the message are an
// error ([TrailingDataError]).
func (mode DecMode) Unpack(data []byte) (term.Term, error) {
	value, rest, err := mode.UnpackFirst(data)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &TrailingDataError{Offset: len(data) - len(rest), Remaining: len(rest)}
	}
	return value, nil
}

// UnpackFirst decodes the message at the start of data and returns it
// with the unconsumed remainder. The returned term never aliases data.
func (mode DecMode) UnpackFirst(data []byte) (term.Term, []byte, error) {
	state := decodeState{data: data, mode: mode}

	version, err := state.readByte()
	if err != nil {
		return nil, nil, err
	}
	if version != VersionMarker {
		return nil, nil, &UnknownVersionError{Version: version}
	}

	value, err := state.readBody()
	if err != nil {
		return nil, nil, err
	}
	return value, data[state.offset:], nil
}

// decodeState is a cursor over one input buffer. All reads are bounds
// checked against the buffer before slicing or allocating.
type decodeState struct {
	data   []byte
	offset int
	depth  int
	mode   DecMode
}

func (state *decodeState) remaining() int {
	return len(state.data) - state.offset
}

// need fails unless count more bytes are available. count is uint64 so
// that element counts multiplied by a minimum size cannot overflow.
func (state *decodeState) need(count uint64) error {
	if count > uint64(state.remaining()) {
		return &TruncatedError{Offset: state.offset, Need: count, Have: state.remaining()}
	}
	return nil
}

func (state *decodeState) readByte() (byte, error) {
	if err := state.need(1); err != nil {
		return 0, err
	}
	b := state.data[state.offset]
	state.offset++
	return b, nil
}

func (state *decodeState) readUint16() (uint16, error) {
	if err := state.need(2); err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint16(state.data[state.offset:])
	state.offset += 2
	return value, nil
}

func (state *decodeState) readUint32() (uint32, error) {
	if err := state.need(4); err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint32(state.data[state.offset:])
	state.offset += 4
	return value, nil
}

func (state *decodeState) readUint64() (uint64, error) {
	if err := state.need(8); err != nil {
		return 0, err
	}
	value := binary.BigEndian.Uint64(state.data[state.offset:])
	state.offset += 8
	return value, nil
}

// view returns the next count bytes without copying. Callers must copy
// anything they keep.
func (state *decodeState) view(count uint64) ([]byte, error) {
	if err := state.need(count); err != nil {
		return nil, err
	}
	start := state.offset
	state.offset += int(count)
	return state.data[start:state.offset], nil
}

// readBody reads what follows the version marker: a compressed
// envelope or a single term.
func (state *decodeState) readBody() (term.Term, error) {
	if state.remaining() > 0 && Tag(state.data[state.offset]) == TagCompressed {
		state.offset++
		return state.readCompressed()
	}
	return state.readTerm()
}

func (state *decodeState) readTerm() (term.Term, error) {
	if state.depth >= state.mode.maxDepth {
		return nil, &LimitError{
			Limit:  "nesting depth",
			Value:  uint64(state.depth + 1),
			Max:    uint64(state.mode.maxDepth),
			Offset: state.offset,
		}
	}
	state.depth++
	value, err := state.readTagged()
	state.depth--
	return value, err
}

func (state *decodeState) readTagged() (term.Term, error) {
	tagOffset := state.offset
	tagByte, err := state.readByte()
	if err != nil {
		return nil, err
	}

	switch tag := Tag(tagByte); tag {
	case TagSmallInteger:
		value, err := state.readByte()
		if err != nil {
			return nil, err
		}
		return term.NewInteger(int64(value)), nil

	case TagInteger:
		value, err := state.readUint32()
		if err != nil {
			return nil, err
		}
		return term.NewInteger(int64(int32(value))), nil

	case TagSmallBig:
		length, err := state.readByte()
		if err != nil {
			return nil, err
		}
		return state.readBignum(uint64(length))

	case TagLargeBig:
		length, err := state.readUint32()
		if err != nil {
			return nil, err
		}
		return state.readBignum(uint64(length))

	case TagNewFloat:
		bits, err := state.readUint64()
		if err != nil {
			return nil, err
		}
		return term.Float(math.Float64frombits(bits)), nil

	case TagFloat:
		return state.readFloatText()

	case TagSmallAtom, TagSmallAtomUTF8:
		length, err := state.readByte()
		if err != nil {
			return nil, err
		}
		return state.readAtom(uint64(length))

	case TagAtom, TagAtomUTF8:
		length, err := state.readUint16()
		if err != nil {
			return nil, err
		}
		return state.readAtom(uint64(length))

	case TagSmallTuple:
		arity, err := state.readByte()
		if err != nil {
			return nil, err
		}
		return state.readTuple(uint64(arity))

	case TagLargeTuple:
		arity, err := state.readUint32()
		if err != nil {
			return nil, err
		}
		return state.readTuple(uint64(arity))

	case TagMap:
		count, err := state.readUint32()
		if err != nil {
			return nil, err
		}
		return state.readMap(uint64(count))

	case TagNil:
		return term.Nil{}, nil

	case TagList:
		count, err := state.readUint32()
		if err != nil {
			return nil, err
		}
		return state.readList(uint64(count))

	case TagString:
		length, err := state.readUint16()
		if err != nil {
			return nil, err
		}
		return state.readBinary(uint64(length))

	case TagBinary:
		length, err := state.readUint32()
		if err != nil {
			return nil, err
		}
		return state.readBinary(uint64(length))

	default:
		// TagCompressed lands here too: it is only valid as the
		// outermost envelope, never nested.
		return nil, &UnknownTagError{Tag: tag, Offset: tagOffset}
	}
}

// readBignum reads the sign byte and little-endian magnitude shared by
// SMALL_BIG_EXT and LARGE_BIG_EXT. A sign byte of 1 is negative; any
// other value is read as positive.
func (state *decodeState) readBignum(length uint64) (term.Term, error) {
	sign, err := state.readByte()
	if err != nil {
		return nil, err
	}
	magnitude, err := state.view(length)
	if err != nil {
		return nil, err
	}
	return term.IntegerFromMagnitudeLE(magnitude, sign == 1), nil
}

func (state *decodeState) readFloatText() (term.Term, error) {
	offset := state.offset
	raw, err := state.view(floatTextLength)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(strings.TrimRight(string(raw), "\x00"))
	if !isDecimalFloatText(text) {
		return nil, &InvalidFloatError{Offset: offset, Text: text}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &InvalidFloatError{Offset: offset, Text: text}
	}
	return term.Float(value), nil
}

// isDecimalFloatText reports whether text is a plain decimal float.
// Infinities, NaN, and hex floats are not.
func isDecimalFloatText(text string) bool {
	hasDigit := false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '+', r == '-', r == '.', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return hasDigit
}

func (state *decodeState) readAtom(length uint64) (term.Term, error) {
	offset := state.offset
	raw, err := state.view(length)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, &InvalidUTF8Error{Offset: offset}
	}
	return term.Atom(raw), nil
}

func (state *decodeState) readBinary(length uint64) (term.Term, error) {
	raw, err := state.view(length)
	if err != nil {
		return nil, err
	}
	return term.Binary(append([]byte{}, raw...)), nil
}

// readTuple, readMap, and readList check that the input could hold the
// declared count (one byte per term at minimum) before allocating, so a
// forged count fails with a TruncatedError instead of a large
// allocation.

func (state *decodeState) readTuple(arity uint64) (term.Term, error) {
	if err := state.need(arity); err != nil {
		return nil, err
	}
	elements := make(term.Tuple, 0, arity)
	for range arity {
		element, err := state.readTerm()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	return elements, nil
}

func (state *decodeState) readMap(count uint64) (term.Term, error) {
	if err := state.need(2 * count); err != nil {
		return nil, err
	}
	pairs := make(term.Map, 0, count)
	for range count {
		key, err := state.readTerm()
		if err != nil {
			return nil, err
		}
		value, err := state.readTerm()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, term.Pair{Key: key, Value: value})
	}
	return pairs, nil
}

func (state *decodeState) readList(count uint64) (term.Term, error) {
	if err := state.need(count + 1); err != nil {
		return nil, err
	}
	elements := make([]term.Term, 0, count)
	for range count {
		element, err := state.readTerm()
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	tail, err := state.readTerm()
	if err != nil {
		return nil, err
	}
	return term.List{Elements: elements, Tail: tail}, nil
}
