// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// AppendPack appends the version marker and the encoding of t to dst.
// On error dst is returned unchanged (same length) with the error.
func (mode EncMode) AppendPack(dst []byte, t term.Term) ([]byte, error) {
	start := len(dst)
	message := append(dst, VersionMarker)
	bodyStart := len(message)

	message, err := appendTerm(message, t)
	if err != nil {
		return dst[:start], err
	}
	if mode.compression == 0 {
		return message, nil
	}
	message, err = mode.compressBody(message, bodyStart)
	if err != nil {
		return dst[:start], err
	}
	return message, nil
}

func appendTerm(dst []byte, t term.Term) ([]byte, error) {
	switch value := t.(type) {
	case term.Integer:
		return appendInteger(dst, value)

	case term.Float:
		dst = append(dst, byte(TagNewFloat))
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(float64(value))), nil

	case term.Atom:
		return appendAtom(dst, value)

	case term.Tuple:
		arity := uint64(len(value))
		if arity < 256 {
			dst = append(dst, byte(TagSmallTuple), byte(arity))
		} else {
			if arity > math.MaxUint32 {
				return dst, &CapacityError{Kind: term.KindTuple, Length: arity, Max: math.MaxUint32}
			}
			dst = append(dst, byte(TagLargeTuple))
			dst = binary.BigEndian.AppendUint32(dst, uint32(arity))
		}
		return appendTerms(dst, value)

	case term.List:
		count := uint64(len(value.Elements))
		if count > math.MaxUint32 {
			return dst, &CapacityError{Kind: term.KindList, Length: count, Max: math.MaxUint32}
		}
		dst = append(dst, byte(TagList))
		dst = binary.BigEndian.AppendUint32(dst, uint32(count))
		var err error
		if dst, err = appendTerms(dst, value.Elements); err != nil {
			return dst, err
		}
		if value.Tail == nil {
			return append(dst, byte(TagNil)), nil
		}
		return appendTerm(dst, value.Tail)

	case term.Map:
		count := uint64(len(value))
		if count > math.MaxUint32 {
			return dst, &CapacityError{Kind: term.KindMap, Length: count, Max: math.MaxUint32}
		}
		dst = append(dst, byte(TagMap))
		dst = binary.BigEndian.AppendUint32(dst, uint32(count))
		for _, pair := range value {
			var err error
			if dst, err = appendTerm(dst, pair.Key); err != nil {
				return dst, err
			}
			if dst, err = appendTerm(dst, pair.Value); err != nil {
				return dst, err
			}
		}
		return dst, nil

	case term.Nil:
		return append(dst, byte(TagNil)), nil

	case term.Binary:
		length := uint64(len(value))
		if length > math.MaxUint32 {
			return dst, &CapacityError{Kind: term.KindBinary, Length: length, Max: math.MaxUint32}
		}
		dst = append(dst, byte(TagBinary))
		dst = binary.BigEndian.AppendUint32(dst, uint32(length))
		return append(dst, value...), nil

	default:
		return dst, &UnsupportedTermError{Term: t}
	}
}

func appendTerms(dst []byte, elements []term.Term) ([]byte, error) {
	for _, element := range elements {
		var err error
		if dst, err = appendTerm(dst, element); err != nil {
			return dst, err
		}
	}
	return dst, nil
}

// appendInteger picks the smallest tag that holds the value: 97 for
// 0..255, 98 for the int32 range, then the bignum forms.
func appendInteger(dst []byte, value term.Integer) ([]byte, error) {
	if small, ok := value.Int64(); ok {
		if small >= 0 && small <= math.MaxUint8 {
			return append(dst, byte(TagSmallInteger), byte(small)), nil
		}
		if small >= math.MinInt32 && small <= math.MaxInt32 {
			dst = append(dst, byte(TagInteger))
			return binary.BigEndian.AppendUint32(dst, uint32(int32(small))), nil
		}
	}

	magnitude := value.MagnitudeLE()
	length := uint64(len(magnitude))
	var sign byte
	if value.Sign() < 0 {
		sign = 1
	}
	switch {
	case length <= math.MaxUint8:
		dst = append(dst, byte(TagSmallBig), byte(length), sign)
	case length <= math.MaxUint32:
		dst = append(dst, byte(TagLargeBig))
		dst = binary.BigEndian.AppendUint32(dst, uint32(length))
		dst = append(dst, sign)
	default:
		return dst, &CapacityError{Kind: term.KindInteger, Length: length, Max: math.MaxUint32}
	}
	return append(dst, magnitude...), nil
}

func appendAtom(dst []byte, atom term.Atom) ([]byte, error) {
	if !utf8.ValidString(string(atom)) {
		return dst, &InvalidUTF8Error{Offset: -1}
	}
	length := uint64(len(atom))
	switch {
	case length <= math.MaxUint8:
		dst = append(dst, byte(TagSmallAtomUTF8), byte(length))
	case length <= math.MaxUint16:
		dst = append(dst, byte(TagAtomUTF8))
		dst = binary.BigEndian.AppendUint16(dst, uint16(length))
	default:
		return dst, &CapacityError{Kind: term.KindAtom, Length: length, Max: math.MaxUint16}
	}
	return append(dst, atom...), nil
}
