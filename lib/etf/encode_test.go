// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/bureau-foundation/erlpack/lib/term"
)

func TestPackCanonicalTags(t *testing.T) {
	tests := []struct {
		name  string
		value term.Term
		want  []byte
	}{
		{"zero", term.NewInteger(0), []byte{131, 97, 0}},
		{"small_integer_max", term.NewInteger(255), []byte{131, 97, 255}},
		{"integer_min_above_small", term.NewInteger(256), []byte{131, 98, 0, 0, 1, 0}},
		{"negative_one", term.NewInteger(-1), []byte{131, 98, 255, 255, 255, 255}},
		{"max_int32", term.NewInteger(math.MaxInt32), []byte{131, 98, 127, 255, 255, 255}},
		{"min_int32", term.NewInteger(math.MinInt32), []byte{131, 98, 128, 0, 0, 0}},
		{"above_int32", term.NewInteger(math.MaxInt32 + 1), []byte{131, 110, 4, 0, 0, 0, 0, 128}},
		{"below_int32", term.NewInteger(math.MinInt32 - 1), []byte{131, 110, 4, 1, 1, 0, 0, 128}},
		{"hundred_billion", term.NewInteger(100000000000), []byte{131, 110, 5, 0, 0, 232, 118, 72, 23}},
		{"float", term.Float(13.51), []byte{131, 70, 64, 43, 5, 30, 184, 81, 235, 133}},
		{"atom", term.True, []byte{131, 119, 4, 't', 'r', 'u', 'e'}},
		{"empty_atom", term.Atom(""), []byte{131, 119, 0}},
		{"tuple", term.Tuple{term.NewInteger(1), term.NewInteger(2)}, []byte{131, 104, 2, 97, 1, 97, 2}},
		{"empty_tuple", term.Tuple{}, []byte{131, 104, 0}},
		{"nil", term.Nil{}, []byte{131, 106}},
		{"binary", term.Binary("hi"), []byte{131, 109, 0, 0, 0, 2, 'h', 'i'}},
		{"proper_list", term.NewList(term.NewInteger(1)), []byte{131, 108, 0, 0, 0, 1, 97, 1, 106}},
		{"nil_tail_is_nil", term.List{Elements: []term.Term{term.NewInteger(1)}}, []byte{131, 108, 0, 0, 0, 1, 97, 1, 106}},
		{"improper_list", term.NewImproperList(term.Atom("t"), term.NewInteger(1)), []byte{131, 108, 0, 0, 0, 1, 97, 1, 119, 1, 't'}},
		{"empty_list_kept", term.NewList(), []byte{131, 108, 0, 0, 0, 0, 106}},
		{
			"map_keeps_order_and_duplicates",
			term.Map{
				{Key: term.Atom("b"), Value: term.NewInteger(1)},
				{Key: term.Atom("a"), Value: term.NewInteger(2)},
				{Key: term.Atom("b"), Value: term.NewInteger(3)},
			},
			[]byte{131, 116, 0, 0, 0, 3, 119, 1, 'b', 97, 1, 119, 1, 'a', 97, 2, 119, 1, 'b', 97, 3},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Pack(test.value)
			if err != nil {
				t.Fatalf("Pack(%s): %v", test.value, err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("Pack(%s) = %v, want %v", test.value, got, test.want)
			}
		})
	}
}

func TestPackBignumLengthBoundary(t *testing.T) {
	one := big.NewInt(1)
	limit := new(big.Int).Lsh(one, 8*255)

	// 2^2040 - 1 has a 255-byte magnitude: the last SMALL_BIG_EXT value.
	largestSmall := term.NewBigInteger(new(big.Int).Sub(limit, one))
	encoded, err := Pack(largestSmall)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if encoded[1] != byte(TagSmallBig) || encoded[2] != 255 || len(encoded) != 4+255 {
		t.Errorf("2^2040-1 encoded with header %v, want SMALL_BIG_EXT of 255 bytes", encoded[:4])
	}

	// 2^2040 needs 256 bytes and moves to LARGE_BIG_EXT.
	smallestLarge := term.NewBigInteger(limit)
	encoded, err = Pack(smallestLarge)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	wantHeader := []byte{131, byte(TagLargeBig), 0, 0, 1, 0, 0}
	if !bytes.Equal(encoded[:7], wantHeader) || len(encoded) != 7+256 {
		t.Errorf("2^2040 encoded with header %v, want %v and 256 magnitude bytes", encoded[:7], wantHeader)
	}
	if encoded[len(encoded)-1] != 1 {
		t.Errorf("most significant magnitude byte = %d, want 1", encoded[len(encoded)-1])
	}

	for _, value := range []term.Integer{largestSmall, smallestLarge} {
		negative := term.NewBigInteger(new(big.Int).Neg(value.Big()))
		assertRoundtrip(t, negative)
	}
}

func TestPackAtomLengthBoundary(t *testing.T) {
	short, err := Pack(term.Atom(strings.Repeat("a", 255)))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if short[1] != byte(TagSmallAtomUTF8) || short[2] != 255 {
		t.Errorf("255-byte atom header = %v, want [131 119 255]", short[:3])
	}

	long, err := Pack(term.Atom(strings.Repeat("a", 256)))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !bytes.Equal(long[:4], []byte{131, byte(TagAtomUTF8), 1, 0}) {
		t.Errorf("256-byte atom header = %v, want [131 118 1 0]", long[:4])
	}

	// A multi-byte rune counts by its UTF-8 length.
	multibyte, err := Pack(term.Atom(strings.Repeat("é", 128)))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if multibyte[1] != byte(TagAtomUTF8) {
		t.Errorf("256-byte multibyte atom used tag %d, want %d", multibyte[1], TagAtomUTF8)
	}
}

func TestPackTupleArityBoundary(t *testing.T) {
	makeTuple := func(arity int) term.Tuple {
		tuple := make(term.Tuple, arity)
		for index := range tuple {
			tuple[index] = term.Nil{}
		}
		return tuple
	}

	small, err := Pack(makeTuple(255))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if small[1] != byte(TagSmallTuple) || small[2] != 255 {
		t.Errorf("arity 255 header = %v, want [131 104 255]", small[:3])
	}

	large, err := Pack(makeTuple(256))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !bytes.Equal(large[:6], []byte{131, byte(TagLargeTuple), 0, 0, 1, 0}) {
		t.Errorf("arity 256 header = %v, want [131 105 0 0 1 0]", large[:6])
	}
}

func TestPackCapacityErrors(t *testing.T) {
	_, err := Pack(term.Atom(strings.Repeat("a", math.MaxUint16+1)))
	var capacity *CapacityError
	if !errors.As(err, &capacity) {
		t.Fatalf("error = %v, want *CapacityError", err)
	}
	if capacity.Kind != term.KindAtom || capacity.Length != math.MaxUint16+1 || capacity.Max != math.MaxUint16 {
		t.Errorf("got %+v", *capacity)
	}
	if !errors.Is(err, ErrCapacity) {
		t.Error("CapacityError should match ErrCapacity")
	}
}

// foreignTerm satisfies term.Term by embedding but is not a variant the
// encoder knows.
type foreignTerm struct {
	term.Atom
}

func TestPackUnsupportedTerms(t *testing.T) {
	tests := []struct {
		name  string
		value term.Term
	}{
		{"nil_term", nil},
		{"foreign_term", foreignTerm{term.Atom("x")}},
		{"nil_inside_tuple", term.Tuple{term.NewInteger(1), nil}},
		{"nil_map_value", term.Map{{Key: term.Atom("k"), Value: nil}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			encoded, err := Pack(test.value)
			if encoded != nil {
				t.Errorf("failed Pack returned bytes %v", encoded)
			}
			var unsupported *UnsupportedTermError
			if !errors.As(err, &unsupported) {
				t.Fatalf("error = %v, want *UnsupportedTermError", err)
			}
			if !errors.Is(err, ErrUnsupported) {
				t.Error("UnsupportedTermError should match ErrUnsupported")
			}
		})
	}
}

func TestPackInvalidUTF8Atom(t *testing.T) {
	_, err := Pack(term.Tuple{term.Atom("\xff")})
	var utf8Error *InvalidUTF8Error
	if !errors.As(err, &utf8Error) {
		t.Fatalf("error = %v, want *InvalidUTF8Error", err)
	}
	if utf8Error.Offset != -1 {
		t.Errorf("Offset = %d, want -1 for encode errors", utf8Error.Offset)
	}
}

func TestAppendPackKeepsDestinationOnError(t *testing.T) {
	prefix := []byte{1, 2, 3}
	dst := append(make([]byte, 0, 64), prefix...)

	got, err := AppendPack(dst, term.Tuple{term.NewInteger(1), nil})
	if err == nil {
		t.Fatal("AppendPack succeeded with a nil element")
	}
	if !bytes.Equal(got, prefix) {
		t.Errorf("AppendPack on error returned %v, want %v", got, prefix)
	}

	got, err = AppendPack(dst, term.Nil{})
	if err != nil {
		t.Fatalf("AppendPack: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 131, 106}) {
		t.Errorf("AppendPack = %v, want prefix followed by [131 106]", got)
	}
}

func assertRoundtrip(t *testing.T, value term.Term) {
	t.Helper()
	encoded, err := Pack(value)
	if err != nil {
		t.Fatalf("Pack(%s): %v", value, err)
	}
	decoded, err := Unpack(encoded)
	if err != nil {
		t.Fatalf("Unpack(Pack(%s)): %v", value, err)
	}
	if !term.Equal(decoded, value) {
		t.Errorf("roundtrip mismatch: got %s, want %s", decoded, value)
	}
}

func TestRoundtrip(t *testing.T) {
	huge := mustParseInteger(t, "340282366920938463463374607431768211457")
	values := []term.Term{
		term.NewInteger(0),
		term.NewInteger(-255),
		term.NewInteger(-256),
		term.NewInteger(math.MaxInt64),
		term.NewInteger(math.MinInt64),
		term.NewUint(math.MaxUint64),
		huge,
		term.NewBigInteger(new(big.Int).Neg(huge.Big())),
		term.Float(0),
		term.Float(math.Copysign(0, -1)),
		term.Float(math.Inf(1)),
		term.Float(math.NaN()),
		term.Float(-1.5e300),
		term.Atom("hello world"),
		term.Atom("日本"),
		term.Binary{},
		term.Binary{0, 1, 2, 255},
		term.Nil{},
		term.NewList(),
		term.NewImproperList(term.Binary("tail"), term.Atom("a"), term.Atom("b")),
		term.Tuple{term.Tuple{term.Tuple{}}},
		term.Map{},
		term.Map{
			{Key: term.Tuple{term.NewInteger(1)}, Value: term.NewList(term.Float(2.5))},
			{Key: term.Binary("k"), Value: term.Map{{Key: term.Nil{}, Value: term.False}}},
		},
	}

	for _, value := range values {
		assertRoundtrip(t, value)
	}
}

func TestCanonicalBytesRoundtrip(t *testing.T) {
	messages := [][]byte{
		{131, 97, 14},
		{131, 70, 64, 43, 5, 30, 184, 81, 235, 133},
		{131, 104, 2, 97, 1, 97, 2},
		{131, 106},
		append([]byte{131, 109, 0, 0, 0, 20}, "strings are binaries"...),
		{131, 108, 0, 0, 0, 2, 119, 1, 'a', 98, 255, 255, 255, 0, 106},
		{131, 116, 0, 0, 0, 1, 109, 0, 0, 0, 1, 'k', 110, 5, 0, 0, 232, 118, 72, 23},
	}

	for _, message := range messages {
		decoded, err := Unpack(message)
		if err != nil {
			t.Fatalf("Unpack(%v): %v", message, err)
		}
		reencoded, err := Pack(decoded)
		if err != nil {
			t.Fatalf("Pack(%s): %v", decoded, err)
		}
		if !bytes.Equal(reencoded, message) {
			t.Errorf("re-encoding %s = %v, want %v", decoded, reencoded, message)
		}
	}
}

func TestNonCanonicalBytesNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{"atom_ext_to_small_atom_utf8", []byte{131, 100, 0, 4, 't', 'r', 'u', 'e'}, []byte{131, 119, 4, 't', 'r', 'u', 'e'}},
		{"string_ext_to_binary", []byte{131, 107, 0, 1, 'x'}, []byte{131, 109, 0, 0, 0, 1, 'x'}},
		{"integer_ext_small_value", []byte{131, 98, 0, 0, 0, 7}, []byte{131, 97, 7}},
		{"small_big_small_value", []byte{131, 110, 1, 0, 7}, []byte{131, 97, 7}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			decoded, err := Unpack(test.input)
			if err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			got, err := Pack(decoded)
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("re-encoding = %v, want %v", got, test.want)
			}
		})
	}
}

func TestEncOptionsValidation(t *testing.T) {
	for _, level := range []int{-1, 10} {
		if _, err := (EncOptions{Compression: level}).EncMode(); err == nil {
			t.Errorf("Compression %d accepted, want error", level)
		}
	}
	mode, err := EncOptions{Compression: 9}.EncMode()
	if err != nil {
		t.Fatalf("EncMode: %v", err)
	}
	if mode.EncOptions().Compression != 9 {
		t.Errorf("EncOptions().Compression = %d, want 9", mode.EncOptions().Compression)
	}
}
