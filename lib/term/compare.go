// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package term

import (
	"bytes"
	"cmp"
	"math"
	"math/big"
	"strings"
)

// Compare orders two terms the way Erlang does:
//
//	number < atom < tuple < map < nil < list < binary
//
// Numbers compare by value across Integer and Float; when they are
// numerically equal the Integer sorts first so that the order is total.
// Tuples and maps compare by size, then element by element. Lists and
// binaries compare element by element. A nil Term sorts before
// everything. An empty List sorts after Nil.
//
// The result is -1, 0, or +1. Floats follow cmp.Compare, so -0.0 and
// 0.0 compare equal here although [Equal] tells them apart.
func Compare(a, b Term) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if rankA, rankB := orderRank(a), orderRank(b); rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch left := a.(type) {
	case Integer:
		if right, ok := b.(Integer); ok {
			return left.Cmp(right)
		}
		return compareIntegerFloat(left, b.(Float))

	case Float:
		if right, ok := b.(Float); ok {
			return cmp.Compare(float64(left), float64(right))
		}
		return -compareIntegerFloat(b.(Integer), left)

	case Atom:
		return strings.Compare(string(left), string(b.(Atom)))

	case Tuple:
		right := b.(Tuple)
		if sizeOrder := cmp.Compare(len(left), len(right)); sizeOrder != 0 {
			return sizeOrder
		}
		return compareSequence(left, right)

	case Map:
		right := b.(Map)
		if sizeOrder := cmp.Compare(len(left), len(right)); sizeOrder != 0 {
			return sizeOrder
		}
		for index := range left {
			if order := Compare(left[index].Key, right[index].Key); order != 0 {
				return order
			}
			if order := Compare(left[index].Value, right[index].Value); order != 0 {
				return order
			}
		}
		return 0

	case Nil:
		return 0

	case List:
		right := b.(List)
		shared := min(len(left.Elements), len(right.Elements))
		if order := compareSequence(left.Elements[:shared], right.Elements[:shared]); order != 0 {
			return order
		}
		if order := cmp.Compare(len(left.Elements), len(right.Elements)); order != 0 {
			return order
		}
		return Compare(tailOf(left), tailOf(right))

	case Binary:
		return bytes.Compare(left, b.(Binary))
	}
	return 0
}

// orderRank places each variant in Erlang's term order. Foreign Term
// implementations sort last.
func orderRank(t Term) int {
	switch variant(t) {
	case KindInteger, KindFloat:
		return 0
	case KindAtom:
		return 1
	case KindTuple:
		return 2
	case KindMap:
		return 3
	case KindNil:
		return 4
	case KindList:
		return 5
	case KindBinary:
		return 6
	default:
		return 7
	}
}

func compareSequence(left, right []Term) int {
	for index := range left {
		if order := Compare(left[index], right[index]); order != 0 {
			return order
		}
	}
	return 0
}

// compareIntegerFloat compares exactly, without rounding the integer.
// NaN sorts below every integer.
func compareIntegerFloat(integer Integer, float Float) int {
	value := float64(float)
	if math.IsNaN(value) {
		return 1
	}
	exact := new(big.Float).SetInt(integer.big())
	if order := exact.Cmp(big.NewFloat(value)); order != 0 {
		return order
	}
	return -1
}
