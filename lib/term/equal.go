// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package term

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are the same term tree.
//
// Integers compare by value. Floats compare by bit pattern, so -0.0 and
// 0.0 differ and a NaN equals an identical NaN: this is the equality
// that a byte-exact round trip preserves. A List with a nil Tail equals
// the same List with a Nil tail. Map pairs compare in order.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if kind := variant(a); kind == 0 || kind != variant(b) {
		return false
	}

	switch left := a.(type) {
	case Integer:
		return left.Cmp(b.(Integer)) == 0

	case Float:
		return math.Float64bits(float64(left)) == math.Float64bits(float64(b.(Float)))

	case Atom:
		return left == b.(Atom)

	case Nil:
		return true

	case Binary:
		return bytes.Equal(left, b.(Binary))

	case Tuple:
		return equalSequence(left, b.(Tuple))

	case List:
		right := b.(List)
		return equalSequence(left.Elements, right.Elements) &&
			Equal(tailOf(left), tailOf(right))

	case Map:
		right := b.(Map)
		if len(left) != len(right) {
			return false
		}
		for index := range left {
			if !Equal(left[index].Key, right[index].Key) ||
				!Equal(left[index].Value, right[index].Value) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

func equalSequence(left, right []Term) bool {
	if len(left) != len(right) {
		return false
	}
	for index := range left {
		if !Equal(left[index], right[index]) {
			return false
		}
	}
	return true
}

// tailOf returns the list's tail with nil normalized to Nil.
func tailOf(list List) Term {
	if list.Tail == nil {
		return Nil{}
	}
	return list.Tail
}
