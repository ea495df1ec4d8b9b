// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package term

import (
	"fmt"
	"math/big"
)

// Integer is an arbitrary-precision signed integer. The zero value is 0.
//
// Integer is immutable: constructors copy their argument and [Integer.Big]
// returns a copy, so no caller can reach the internal big.Int. This keeps
// Integer safe to share between trees and goroutines.
type Integer struct {
	value *big.Int
}

// NewInteger returns the Integer for value.
func NewInteger(value int64) Integer {
	return Integer{value: big.NewInt(value)}
}

// NewUint returns the Integer for value.
func NewUint(value uint64) Integer {
	return Integer{value: new(big.Int).SetUint64(value)}
}

// NewBigInteger returns the Integer for value. A nil value is 0.
func NewBigInteger(value *big.Int) Integer {
	if value == nil {
		return Integer{}
	}
	return Integer{value: new(big.Int).Set(value)}
}

// ParseInteger parses text in the given base (0 means auto-detect a
// 0x, 0o, or 0b prefix, as in [big.Int.SetString]).
func ParseInteger(text string, base int) (Integer, error) {
	value, ok := new(big.Int).SetString(text, base)
	if !ok {
		return Integer{}, fmt.Errorf("invalid integer %q in base %d", text, base)
	}
	return Integer{value: value}, nil
}

// big returns the internal value for read-only use within the package.
func (integer Integer) big() *big.Int {
	if integer.value == nil {
		return new(big.Int)
	}
	return integer.value
}

// Big returns a copy of the value.
func (integer Integer) Big() *big.Int {
	return new(big.Int).Set(integer.big())
}

// Int64 returns the value and true if it fits in an int64.
func (integer Integer) Int64() (int64, bool) {
	value := integer.big()
	if !value.IsInt64() {
		return 0, false
	}
	return value.Int64(), true
}

// Sign returns -1, 0, or +1.
func (integer Integer) Sign() int {
	return integer.big().Sign()
}

// Cmp compares two integers and returns -1, 0, or +1.
func (integer Integer) Cmp(other Integer) int {
	return integer.big().Cmp(other.big())
}

// BitLen returns the length of the absolute value in bits.
func (integer Integer) BitLen() int {
	return integer.big().BitLen()
}

// MagnitudeLE returns the absolute value as little-endian bytes with no
// trailing zero bytes. Zero has an empty magnitude. This is the byte
// order of the bignum wire forms.
func (integer Integer) MagnitudeLE() []byte {
	magnitude := integer.big().Bytes()
	for left, right := 0, len(magnitude)-1; left < right; left, right = left+1, right-1 {
		magnitude[left], magnitude[right] = magnitude[right], magnitude[left]
	}
	return magnitude
}

// IntegerFromMagnitudeLE builds an Integer from little-endian magnitude
// bytes and a sign. The magnitude slice is not retained.
func IntegerFromMagnitudeLE(magnitude []byte, negative bool) Integer {
	bigEndian := make([]byte, len(magnitude))
	for index, b := range magnitude {
		bigEndian[len(magnitude)-1-index] = b
	}
	value := new(big.Int).SetBytes(bigEndian)
	if negative {
		value.Neg(value)
	}
	return Integer{value: value}
}

func (Integer) Kind() Kind { return KindInteger }

func (integer Integer) String() string { return integer.big().String() }

func (Integer) isTerm() {}
