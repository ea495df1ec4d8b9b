// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostvalue

import (
	"unicode/utf8"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// FromTerm converts t to a plain Go value. See the package
// documentation for the mapping. A nil Term becomes nil.
func FromTerm(t term.Term) any {
	switch value := t.(type) {
	case nil, term.Nil:
		return nil

	case term.Integer:
		if small, ok := value.Int64(); ok {
			return small
		}
		return value.Big()

	case term.Float:
		return float64(value)

	case term.Atom:
		if boolean, ok := value.AsBool(); ok {
			return boolean
		}
		return string(value)

	case term.Tuple:
		return fromSequence(value, nil)

	case term.List:
		if value.IsProper() {
			return fromSequence(value.Elements, nil)
		}
		return fromSequence(value.Elements, value.Tail)

	case term.Map:
		result := make(map[string]any, len(value))
		for _, pair := range value {
			result[keyString(pair.Key)] = FromTerm(pair.Value)
		}
		return result

	case term.Binary:
		if utf8.Valid(value) {
			return string(value)
		}
		return append([]byte{}, value...)

	default:
		return t.String()
	}
}

// fromSequence converts elements, appending tail when it is non-nil.
func fromSequence(elements []term.Term, tail term.Term) []any {
	result := make([]any, 0, len(elements)+1)
	for _, element := range elements {
		result = append(result, FromTerm(element))
	}
	if tail != nil {
		result = append(result, FromTerm(tail))
	}
	return result
}

// keyString renders a map key. Text-like keys are used verbatim.
func keyString(key term.Term) string {
	switch value := key.(type) {
	case term.Atom:
		return string(value)
	case term.Binary:
		if utf8.Valid(value) {
			return string(value)
		}
	}
	return term.Format(key)
}
