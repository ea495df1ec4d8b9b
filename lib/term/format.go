// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package term

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format renders t in Erlang term syntax, the notation accepted by
// erl_scan/erl_parse (apart from empty-list improper tails, which have
// no Erlang spelling and render as [|Tail]). A nil t renders as
// "undefined".
func Format(t Term) string {
	var builder strings.Builder
	writeTerm(&builder, t)
	return builder.String()
}

func writeTerm(builder *strings.Builder, t Term) {
	switch value := t.(type) {
	case nil:
		builder.WriteString("undefined")

	case Tuple:
		builder.WriteByte('{')
		writeSequence(builder, value)
		builder.WriteByte('}')

	case List:
		builder.WriteByte('[')
		writeSequence(builder, value.Elements)
		if !value.IsProper() {
			builder.WriteByte('|')
			writeTerm(builder, value.Tail)
		}
		builder.WriteByte(']')

	case Map:
		builder.WriteString("#{")
		for index, pair := range value {
			if index > 0 {
				builder.WriteByte(',')
			}
			writeTerm(builder, pair.Key)
			builder.WriteString(" => ")
			writeTerm(builder, pair.Value)
		}
		builder.WriteByte('}')

	default:
		builder.WriteString(t.String())
	}
}

func writeSequence(builder *strings.Builder, elements []Term) {
	for index, element := range elements {
		if index > 0 {
			builder.WriteByte(',')
		}
		writeTerm(builder, element)
	}
}

// formatFloat renders a float the way Erlang reads it back: there is
// always a fraction before any exponent.
func formatFloat(value float64) string {
	text := strconv.FormatFloat(value, 'g', -1, 64)
	if strings.ContainsAny(text, ".nN") {
		return text
	}
	if mantissa, exponent, found := strings.Cut(text, "e"); found {
		return mantissa + ".0e" + exponent
	}
	return text + ".0"
}

// reservedWords must be quoted when used as atoms.
var reservedWords = map[string]bool{
	"after": true, "and": true, "andalso": true, "band": true, "begin": true,
	"bnot": true, "bor": true, "bsl": true, "bsr": true, "bxor": true,
	"case": true, "catch": true, "cond": true, "div": true, "else": true,
	"end": true, "fun": true, "if": true, "let": true, "maybe": true,
	"not": true, "of": true, "or": true, "orelse": true, "receive": true,
	"rem": true, "try": true, "when": true, "xor": true,
}

func formatAtom(name string) string {
	if isBareAtom(name) {
		return name
	}
	var builder strings.Builder
	builder.WriteByte('\'')
	writeEscaped(&builder, name, '\'')
	builder.WriteByte('\'')
	return builder.String()
}

// isBareAtom reports whether name can be written without quotes: a
// lowercase letter followed by letters, digits, _ or @.
func isBareAtom(name string) bool {
	if name == "" || reservedWords[name] {
		return false
	}
	for index, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case index > 0 && (r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '@'):
		default:
			return false
		}
	}
	return true
}

// formatBinary renders printable UTF-8 as <<"text">> and anything else
// as a comma-separated byte list.
func formatBinary(data []byte) string {
	if len(data) == 0 {
		return "<<>>"
	}
	var builder strings.Builder
	builder.WriteString("<<")
	if isPrintableText(data) {
		builder.WriteByte('"')
		writeEscaped(&builder, string(data), '"')
		builder.WriteByte('"')
	} else {
		for index, b := range data {
			if index > 0 {
				builder.WriteByte(',')
			}
			builder.WriteString(strconv.Itoa(int(b)))
		}
	}
	builder.WriteString(">>")
	return builder.String()
}

func isPrintableText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if !unicode.IsPrint(r) && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

// writeEscaped writes text with Erlang escapes for the quote character,
// backslash, and control characters.
func writeEscaped(builder *strings.Builder, text string, quote byte) {
	for _, r := range text {
		switch {
		case r == rune(quote) || r == '\\':
			builder.WriteByte('\\')
			builder.WriteRune(r)
		case r == '\n':
			builder.WriteString(`\n`)
		case r == '\t':
			builder.WriteString(`\t`)
		case r == '\r':
			builder.WriteString(`\r`)
		case r == utf8.RuneError || !unicode.IsPrint(r):
			builder.WriteString(`\x{`)
			builder.WriteString(strconv.FormatInt(int64(r), 16))
			builder.WriteByte('}')
		default:
			builder.WriteRune(r)
		}
	}
}
