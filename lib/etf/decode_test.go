// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package etf

import (
	"errors"
	"math"
	"testing"

	"github.com/bureau-foundation/erlpack/lib/term"
)

func mustParseInteger(t *testing.T, text string) term.Integer {
	t.Helper()
	value, err := term.ParseInteger(text, 10)
	if err != nil {
		t.Fatalf("ParseInteger(%q): %v", text, err)
	}
	return value
}

func TestUnpackScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  term.Term
	}{
		{"small_integer", []byte{131, 97, 14}, term.NewInteger(14)},
		{"float", []byte{131, 70, 64, 43, 5, 30, 184, 81, 235, 133}, term.Float(13.51)},
		{"atom_ext", []byte{131, 100, 0, 4, 't', 'r', 'u', 'e'}, term.True},
		{"small_tuple", []byte{131, 104, 2, 97, 1, 97, 2}, term.Tuple{term.NewInteger(1), term.NewInteger(2)}},
		{"nil", []byte{131, 106}, term.Nil{}},
		{
			"binary",
			append([]byte{131, 109, 0, 0, 0, 20}, "strings are binaries"...),
			term.Binary("strings are binaries"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Unpack(test.input)
			if err != nil {
				t.Fatalf("Unpack(%v): %v", test.input, err)
			}
			if !term.Equal(got, test.want) {
				t.Errorf("Unpack(%v) = %s, want %s", test.input, got, test.want)
			}
		})
	}
}

func TestUnpackEveryTag(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  term.Term
	}{
		{"integer_sign_extended", []byte{131, 98, 255, 255, 255, 255}, term.NewInteger(-1)},
		{"integer_min_int32", []byte{131, 98, 128, 0, 0, 0}, term.NewInteger(math.MinInt32)},
		{"small_big", []byte{131, 110, 4, 0, 0, 0, 0, 128}, term.NewInteger(1 << 31)},
		{"small_big_negative", []byte{131, 110, 4, 1, 1, 0, 0, 128}, term.NewInteger(-(1 << 31) - 1)},
		{"small_big_sign_byte_two_is_positive", []byte{131, 110, 1, 2, 5}, term.NewInteger(5)},
		{"small_big_empty_magnitude", []byte{131, 110, 0, 0}, term.NewInteger(0)},
		{"large_big", []byte{131, 111, 0, 0, 0, 1, 1, 7}, term.NewInteger(-7)},
		{"legacy_float", append([]byte{131, 99}, floatText("1.50000000000000000000e+00")...), term.Float(1.5)},
		{"legacy_float_negative_exponent", append([]byte{131, 99}, floatText("-2.5e-3")...), term.Float(-2.5e-3)},
		{"small_atom", []byte{131, 115, 2, 'o', 'k'}, term.Atom("ok")},
		{"small_atom_utf8", []byte{131, 119, 2, 0xc3, 0xa9}, term.Atom("é")},
		{"atom_utf8", []byte{131, 118, 0, 2, 'o', 'k'}, term.Atom("ok")},
		{"empty_atom", []byte{131, 119, 0}, term.Atom("")},
		{"large_tuple", []byte{131, 105, 0, 0, 0, 1, 106}, term.Tuple{term.Nil{}}},
		{"empty_tuple", []byte{131, 104, 0}, term.Tuple{}},
		{
			"map_keeps_duplicates",
			[]byte{131, 116, 0, 0, 0, 2, 119, 1, 'a', 97, 1, 119, 1, 'a', 97, 2},
			term.Map{
				{Key: term.Atom("a"), Value: term.NewInteger(1)},
				{Key: term.Atom("a"), Value: term.NewInteger(2)},
			},
		},
		{"proper_list", []byte{131, 108, 0, 0, 0, 2, 97, 1, 97, 2, 106}, term.NewList(term.NewInteger(1), term.NewInteger(2))},
		{"improper_list", []byte{131, 108, 0, 0, 0, 1, 97, 1, 97, 2}, term.NewImproperList(term.NewInteger(2), term.NewInteger(1))},
		{"empty_list_form", []byte{131, 108, 0, 0, 0, 0, 106}, term.NewList()},
		{"string_ext", []byte{131, 107, 0, 3, 'a', 'b', 'c'}, term.Binary("abc")},
		{"empty_binary", []byte{131, 109, 0, 0, 0, 0}, term.Binary{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Unpack(test.input)
			if err != nil {
				t.Fatalf("Unpack(%v): %v", test.input, err)
			}
			if !term.Equal(got, test.want) {
				t.Errorf("Unpack(%v) = %s, want %s", test.input, got, test.want)
			}
		})
	}
}

func TestUnpackDoesNotAliasInput(t *testing.T) {
	input := []byte{131, 104, 2, 109, 0, 0, 0, 3, 'a', 'b', 'c', 119, 2, 'o', 'k'}
	value, err := Unpack(input)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	for index := range input {
		input[index] = 0
	}

	want := term.Tuple{term.Binary("abc"), term.Atom("ok")}
	if !term.Equal(value, want) {
		t.Errorf("decoded term changed with input buffer: got %s, want %s", value, want)
	}
}

func TestUnpackProtocolErrors(t *testing.T) {
	t.Run("wrong_version", func(t *testing.T) {
		_, err := Unpack([]byte{130, 97, 1})
		var versionError *UnknownVersionError
		if !errors.As(err, &versionError) {
			t.Fatalf("error = %v, want *UnknownVersionError", err)
		}
		if versionError.Version != 130 {
			t.Errorf("Version = %d, want 130", versionError.Version)
		}
		if !errors.Is(err, ErrProtocol) {
			t.Error("UnknownVersionError should match ErrProtocol")
		}
	})

	t.Run("unknown_tag", func(t *testing.T) {
		value, err := Unpack([]byte{131, 255})
		if value != nil {
			t.Errorf("failed Unpack returned a term: %v", value)
		}
		var tagError *UnknownTagError
		if !errors.As(err, &tagError) {
			t.Fatalf("error = %v, want *UnknownTagError", err)
		}
		if tagError.Tag != 255 || tagError.Offset != 1 {
			t.Errorf("got tag %d at %d, want 255 at 1", tagError.Tag, tagError.Offset)
		}
		if !errors.Is(err, ErrProtocol) {
			t.Error("UnknownTagError should match ErrProtocol")
		}
	})

	t.Run("nested_unknown_tag_offset", func(t *testing.T) {
		_, err := Unpack([]byte{131, 104, 2, 97, 1, 200})
		var tagError *UnknownTagError
		if !errors.As(err, &tagError) {
			t.Fatalf("error = %v, want *UnknownTagError", err)
		}
		if tagError.Offset != 5 {
			t.Errorf("Offset = %d, want 5", tagError.Offset)
		}
	})

	t.Run("nested_compressed_tag", func(t *testing.T) {
		_, err := Unpack([]byte{131, 104, 1, 80, 0, 0, 0, 1})
		var tagError *UnknownTagError
		if !errors.As(err, &tagError) {
			t.Fatalf("error = %v, want *UnknownTagError", err)
		}
		if tagError.Tag != TagCompressed {
			t.Errorf("Tag = %v, want %v", tagError.Tag, TagCompressed)
		}
	})
}

func TestUnpackContentErrors(t *testing.T) {
	t.Run("invalid_utf8_atom", func(t *testing.T) {
		_, err := Unpack([]byte{131, 119, 1, 0xff})
		var utf8Error *InvalidUTF8Error
		if !errors.As(err, &utf8Error) {
			t.Fatalf("error = %v, want *InvalidUTF8Error", err)
		}
		if utf8Error.Offset != 3 {
			t.Errorf("Offset = %d, want 3", utf8Error.Offset)
		}
		if !errors.Is(err, ErrContent) {
			t.Error("InvalidUTF8Error should match ErrContent")
		}
		if errors.Is(err, ErrStructure) {
			t.Error("InvalidUTF8Error should not match ErrStructure")
		}
	})

	t.Run("invalid_float_text", func(t *testing.T) {
		_, err := Unpack(append([]byte{131, 99}, floatText("not a number")...))
		var floatError *InvalidFloatError
		if !errors.As(err, &floatError) {
			t.Fatalf("error = %v, want *InvalidFloatError", err)
		}
		if floatError.Text != "not a number" {
			t.Errorf("Text = %q, want %q", floatError.Text, "not a number")
		}
	})

	t.Run("non_decimal_float_text", func(t *testing.T) {
		for _, text := range []string{"inf", "-Infinity", "nan", "0x1p-2", "1_000.0", "e"} {
			_, err := Unpack(append([]byte{131, 99}, floatText(text)...))
			var floatError *InvalidFloatError
			if !errors.As(err, &floatError) {
				t.Errorf("Unpack of %q: error = %v, want *InvalidFloatError", text, err)
			}
		}
	})

	t.Run("out_of_range_float_text", func(t *testing.T) {
		_, err := Unpack(append([]byte{131, 99}, floatText("1.0e999")...))
		var floatError *InvalidFloatError
		if !errors.As(err, &floatError) {
			t.Fatalf("error = %v, want *InvalidFloatError", err)
		}
	})

	t.Run("binaries_are_not_checked", func(t *testing.T) {
		value, err := Unpack([]byte{131, 109, 0, 0, 0, 1, 0xff})
		if err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if !term.Equal(value, term.Binary{0xff}) {
			t.Errorf("got %s, want <<255>>", value)
		}
	})
}

// truncationSamples holds one message for every tag the decoder accepts.
// Truncating any of them anywhere must fail cleanly.
var truncationSamples = map[string][]byte{
	"small_integer": {131, 97, 14},
	"integer":       {131, 98, 0, 0, 1, 0},
	"small_big":     {131, 110, 4, 0, 0, 0, 0, 128},
	"large_big":     {131, 111, 0, 0, 0, 1, 0, 9},
	"new_float":     {131, 70, 64, 43, 5, 30, 184, 81, 235, 133},
	"small_atom":    {131, 119, 2, 'o', 'k'},
	"atom":          {131, 118, 0, 2, 'o', 'k'},
	"legacy_atom":   {131, 100, 0, 2, 'o', 'k'},
	"short_atom":    {131, 115, 2, 'o', 'k'},
	"small_tuple":   {131, 104, 2, 97, 1, 97, 2},
	"large_tuple":   {131, 105, 0, 0, 0, 1, 97, 1},
	"map":           {131, 116, 0, 0, 0, 1, 119, 1, 'a', 97, 1},
	"nil":           {131, 106},
	"list":          {131, 108, 0, 0, 0, 2, 97, 1, 97, 2, 106},
	"string":        {131, 107, 0, 2, 'h', 'i'},
	"binary":        {131, 109, 0, 0, 0, 2, 'h', 'i'},
	"legacy_float":  append([]byte{131, 99}, floatText("1.5")...),
}

// floatText pads text with NULs to the FLOAT_EXT payload size.
func floatText(text string) []byte {
	payload := make([]byte, floatTextLength)
	copy(payload, text)
	return payload
}

func TestUnpackTruncatedEveryTag(t *testing.T) {
	for name, sample := range truncationSamples {
		t.Run(name, func(t *testing.T) {
			for length := 0; length < len(sample); length++ {
				value, err := Unpack(sample[:length])
				if err == nil {
					t.Fatalf("Unpack(%v) succeeded on a truncated message: %s", sample[:length], value)
				}
				if value != nil {
					t.Errorf("Unpack(%v) returned a partial term %s", sample[:length], value)
				}
				if !errors.Is(err, ErrUnexpectedEnd) {
					t.Errorf("Unpack(%v) error = %v, want ErrUnexpectedEnd", sample[:length], err)
				}
				if !errors.Is(err, ErrStructure) {
					t.Errorf("Unpack(%v) error = %v, want ErrStructure", sample[:length], err)
				}
			}
		})
	}
}

func TestUnpackHugeLengthPrefixFailsFast(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		need  uint64
	}{
		{"binary", []byte{131, 109, 255, 255, 255, 255}, math.MaxUint32},
		{"large_tuple", []byte{131, 105, 255, 255, 255, 255}, math.MaxUint32},
		{"map", []byte{131, 116, 255, 255, 255, 255}, 2 * math.MaxUint32},
		{"list", []byte{131, 108, 255, 255, 255, 255}, math.MaxUint32 + 1},
		{"large_big", []byte{131, 111, 255, 255, 255, 255, 0}, math.MaxUint32},
		{"atom", []byte{131, 118, 255, 255}, math.MaxUint16},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Unpack(test.input)
			var truncated *TruncatedError
			if !errors.As(err, &truncated) {
				t.Fatalf("error = %v, want *TruncatedError", err)
			}
			if truncated.Need != test.need {
				t.Errorf("Need = %d, want %d", truncated.Need, test.need)
			}
			if truncated.Have != 0 {
				t.Errorf("Have = %d, want 0", truncated.Have)
			}
		})
	}
}

func TestUnpackTruncatedErrorFields(t *testing.T) {
	_, err := Unpack([]byte{131, 109, 0, 0, 0, 5, 'a', 'b'})
	var truncated *TruncatedError
	if !errors.As(err, &truncated) {
		t.Fatalf("error = %v, want *TruncatedError", err)
	}
	if truncated.Offset != 6 || truncated.Need != 5 || truncated.Have != 2 {
		t.Errorf("got %+v, want Offset 6, Need 5, Have 2", *truncated)
	}
}

// nestedTuples returns a message of depth levels of one-element tuples
// around a Nil, so its total nesting depth is levels+1.
func nestedTuples(levels int) []byte {
	message := []byte{131}
	for range levels {
		message = append(message, 104, 1)
	}
	return append(message, 106)
}

func TestUnpackDepthLimit(t *testing.T) {
	mode, err := DecOptions{MaxDepth: 4}.DecMode()
	if err != nil {
		t.Fatalf("DecMode: %v", err)
	}

	if _, err := mode.Unpack(nestedTuples(3)); err != nil {
		t.Fatalf("depth 4 should decode with MaxDepth 4: %v", err)
	}

	_, err = mode.Unpack(nestedTuples(4))
	var limitError *LimitError
	if !errors.As(err, &limitError) {
		t.Fatalf("error = %v, want *LimitError", err)
	}
	if limitError.Limit != "nesting depth" || limitError.Max != 4 {
		t.Errorf("got %+v, want nesting depth limit 4", *limitError)
	}
	if !errors.Is(err, ErrStructure) {
		t.Error("LimitError should match ErrStructure")
	}
}

func TestUnpackDefaultDepthLimit(t *testing.T) {
	if _, err := Unpack(nestedTuples(DefaultMaxDepth - 1)); err != nil {
		t.Fatalf("nesting at the default limit should decode: %v", err)
	}
	_, err := Unpack(nestedTuples(100000))
	var limitError *LimitError
	if !errors.As(err, &limitError) {
		t.Fatalf("error = %v, want *LimitError", err)
	}
}

func TestUnpackTrailingData(t *testing.T) {
	_, err := Unpack([]byte{131, 97, 1, 0, 0})
	var trailing *TrailingDataError
	if !errors.As(err, &trailing) {
		t.Fatalf("error = %v, want *TrailingDataError", err)
	}
	if trailing.Offset != 3 || trailing.Remaining != 2 {
		t.Errorf("got %+v, want Offset 3, Remaining 2", *trailing)
	}
}

func TestUnpackFirst(t *testing.T) {
	input := []byte{131, 97, 1, 131, 106}

	first, rest, err := UnpackFirst(input)
	if err != nil {
		t.Fatalf("first UnpackFirst: %v", err)
	}
	if !term.Equal(first, term.NewInteger(1)) {
		t.Errorf("first = %s, want 1", first)
	}

	second, rest, err := UnpackFirst(rest)
	if err != nil {
		t.Fatalf("second UnpackFirst: %v", err)
	}
	if !term.Equal(second, term.Nil{}) {
		t.Errorf("second = %s, want []", second)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v, want empty", rest)
	}
}

func TestUnpackEmptyInput(t *testing.T) {
	_, err := Unpack(nil)
	if !errors.Is(err, ErrUnexpectedEnd) {
		t.Fatalf("Unpack(nil) error = %v, want ErrUnexpectedEnd", err)
	}
}

func TestUnpackBignumPrecision(t *testing.T) {
	want := mustParseInteger(t, "-123456789012345678901234567890123456789")
	encoded, err := Pack(want)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got, err := Unpack(encoded)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !term.Equal(got, want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDecOptionsValidation(t *testing.T) {
	invalid := []DecOptions{
		{MaxDepth: -1},
		{MaxDepth: MaxDepthLimit + 1},
		{MaxUncompressedSize: -1},
		{MaxPacketSize: -1},
	}
	for _, options := range invalid {
		if _, err := options.DecMode(); err == nil {
			t.Errorf("DecOptions%+v.DecMode() succeeded, want error", options)
		}
	}

	mode, err := DecOptions{}.DecMode()
	if err != nil {
		t.Fatalf("zero DecOptions: %v", err)
	}
	effective := mode.DecOptions()
	if effective.MaxDepth != DefaultMaxDepth ||
		effective.MaxUncompressedSize != DefaultMaxUncompressedSize ||
		effective.MaxPacketSize != DefaultMaxPacketSize {
		t.Errorf("defaults not applied: %+v", effective)
	}
}
