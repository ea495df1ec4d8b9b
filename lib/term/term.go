// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package term

import "fmt"

// Term is one node of a decoded or to-be-encoded term tree. The set of
// implementations is closed: only the types in this package satisfy it.
type Term interface {
	// Kind reports which variant the term is.
	Kind() Kind

	// String renders the term in Erlang term syntax. See [Format].
	String() string

	isTerm()
}

// Kind identifies a [Term] variant.
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindFloat
	KindAtom
	KindTuple
	KindList
	KindMap
	KindNil
	KindBinary
)

// String returns the lowercase variant name.
func (kind Kind) String() string {
	switch kind {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindAtom:
		return "atom"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindNil:
		return "nil"
	case KindBinary:
		return "binary"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(kind))
	}
}

// Float is a 64-bit IEEE-754 double.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (value Float) String() string { return formatFloat(float64(value)) }
func (Float) isTerm() {}

// Atom is a symbolic constant named by UTF-8 text.
type Atom string

// The boolean atoms.
const (
	True  Atom = "true"
	False Atom = "false"
)

// Bool returns [True] or [False].
func Bool(value bool) Atom {
	if value {
		return True
	}
	return False
}

// AsBool reports the boolean an atom names. ok is false for atoms other
// than true and false.
func (atom Atom) AsBool() (value, ok bool) {
	switch atom {
	case True:
		return true, true
	case False:
		return false, true
	}
	return false, false
}

func (Atom) Kind() Kind { return KindAtom }
func (atom Atom) String() string { return formatAtom(string(atom)) }
func (Atom) isTerm() {}

// Tuple is a fixed-arity ordered sequence of terms.
type Tuple []Term

func (Tuple) Kind() Kind { return KindTuple }
func (tuple Tuple) String() string { return Format(tuple) }
func (Tuple) isTerm() {}

// List is an ordered sequence of terms followed by a tail. A proper
// list has a [Nil] tail; any other tail makes the list improper. A nil
// Tail is treated as [Nil] by the encoder and by [Equal].
type List struct {
	Elements []Term
	Tail     Term
}

// NewList returns a proper list of elements.
func NewList(elements ...Term) List {
	return List{Elements: elements, Tail: Nil{}}
}

// NewImproperList returns a list of elements ending in tail.
func NewImproperList(tail Term, elements ...Term) List {
	return List{Elements: elements, Tail: tail}
}

// IsProper reports whether the list ends in Nil.
func (list List) IsProper() bool {
	if list.Tail == nil {
		return true
	}
	_, isNil := list.Tail.(Nil)
	return isNil
}

func (List) Kind() Kind { return KindList }
func (list List) String() string { return Format(list) }
func (List) isTerm() {}

// Pair is one key/value entry of a [Map].
type Pair struct {
	Key   Term
	Value Term
}

// Map is an ordered sequence of key/value pairs. It is not an
// associative container: repeated keys are kept as given.
type Map []Pair

// Get returns the value of the first pair whose key equals key.
func (m Map) Get(key Term) (Term, bool) {
	for _, pair := range m {
		if Equal(pair.Key, key) {
			return pair.Value, true
		}
	}
	return nil, false
}

func (Map) Kind() Kind { return KindMap }
func (m Map) String() string { return Format(m) }
func (Map) isTerm() {}

// Nil is the empty list.
type Nil struct{}

func (Nil) Kind() Kind { return KindNil }
func (Nil) String() string { return "[]" }
func (Nil) isTerm() {}

// Binary is an uninterpreted byte sequence.
type Binary []byte

func (Binary) Kind() Kind { return KindBinary }
func (binary Binary) String() string { return formatBinary(binary) }
func (Binary) isTerm() {}

// variant returns the Kind of one of this package's own types, and 0
// for any other Term implementation.
func variant(t Term) Kind {
	switch t.(type) {
	case Integer:
		return KindInteger
	case Float:
		return KindFloat
	case Atom:
		return KindAtom
	case Tuple:
		return KindTuple
	case List:
		return KindList
	case Map:
		return KindMap
	case Nil:
		return KindNil
	case Binary:
		return KindBinary
	default:
		return 0
	}
}
