// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hostvalue

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strconv"

	"github.com/bureau-foundation/erlpack/lib/term"
)

// Symbol is a string that always converts to an Atom, whatever the
// [StringMode].
type Symbol string

// StringMode selects the term that Go strings convert to.
type StringMode int

const (
	// StringsAsAtoms converts strings to atoms.
	StringsAsAtoms StringMode = iota
	// StringsAsBinaries converts strings to binaries, the usual choice
	// for text that an Erlang peer treats as data.
	StringsAsBinaries
)

// String returns "atoms" or "binaries".
func (mode StringMode) String() string {
	switch mode {
	case StringsAsAtoms:
		return "atoms"
	case StringsAsBinaries:
		return "binaries"
	default:
		return fmt.Sprintf("StringMode(%d)", int(mode))
	}
}

// ParseStringMode parses the names returned by [StringMode.String].
func ParseStringMode(name string) (StringMode, error) {
	switch name {
	case "atoms", "atom":
		return StringsAsAtoms, nil
	case "binaries", "binary":
		return StringsAsBinaries, nil
	default:
		return 0, fmt.Errorf("unknown string mode %q (expected atoms or binaries)", name)
	}
}

// DefaultMaxDepth bounds how deep ToTerm follows nested values, which
// also stops it on pointer cycles.
const DefaultMaxDepth = 1024

// Options configures [Options.ToTerm]. The zero value converts strings
// to atoms with the default depth limit.
type Options struct {
	Strings StringMode

	// MaxDepth is the deepest nesting converted. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// UnsupportedTypeError is returned for a Go value with no term mapping.
// Path locates the value inside the argument ("" for the top level).
type UnsupportedTypeError struct {
	Type reflect.Type
	Path string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("hostvalue: cannot convert %s to a term", e.Type)
	}
	return fmt.Sprintf("hostvalue: cannot convert %s at %s to a term", e.Type, e.Path)
}

// DepthError is returned when a value nests deeper than MaxDepth.
type DepthError struct {
	MaxDepth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("hostvalue: value nests deeper than %d levels", e.MaxDepth)
}

// ToTerm converts value with strings as atoms.
func ToTerm(value any) (term.Term, error) {
	return Options{}.ToTerm(value)
}

// ToTerm converts value to a term. See the package documentation for
// the mapping.
func (options Options) ToTerm(value any) (term.Term, error) {
	if options.MaxDepth == 0 {
		options.MaxDepth = DefaultMaxDepth
	}
	state := converter{options: options}
	return state.convert(value, "", 0)
}

type converter struct {
	options Options
}

func (c *converter) convert(value any, path string, depth int) (term.Term, error) {
	if depth >= c.options.MaxDepth {
		return nil, &DepthError{MaxDepth: c.options.MaxDepth}
	}

	switch typed := value.(type) {
	case nil:
		return term.Nil{}, nil
	case term.Term:
		return typed, nil
	case Symbol:
		return term.Atom(typed), nil
	case bool:
		return term.Bool(typed), nil
	case string:
		return c.convertString(typed), nil
	case []byte:
		return term.Binary(slices.Clone(typed)), nil
	case json.Number:
		return convertNumber(typed, path)
	case *big.Int:
		if typed == nil {
			return term.Nil{}, nil
		}
		return term.NewBigInteger(typed), nil
	case big.Int:
		return term.NewBigInteger(&typed), nil
	}

	return c.convertReflect(reflect.ValueOf(value), path, depth)
}

func (c *converter) convertString(text string) term.Term {
	if c.options.Strings == StringsAsBinaries {
		return term.Binary(text)
	}
	return term.Atom(text)
}

// convertNumber keeps integral JSON numbers exact, however large.
func convertNumber(number json.Number, path string) (term.Term, error) {
	if integer, err := term.ParseInteger(number.String(), 10); err == nil {
		return integer, nil
	}
	float, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("hostvalue: number %q at %s: %w", number, displayPath(path), err)
	}
	return term.Float(float), nil
}

func (c *converter) convertReflect(value reflect.Value, path string, depth int) (term.Term, error) {
	switch value.Kind() {
	case reflect.Bool:
		return term.Bool(value.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return term.NewInteger(value.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return term.NewUint(value.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return term.Float(value.Float()), nil

	case reflect.String:
		return c.convertString(value.String()), nil

	case reflect.Func:
		return term.Nil{}, nil

	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return term.Nil{}, nil
		}
		return c.convert(value.Elem().Interface(), path, depth+1)

	case reflect.Slice, reflect.Array:
		if value.Kind() == reflect.Slice && value.IsNil() {
			return term.Tuple{}, nil
		}
		if value.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, value.Len())
			for index := range raw {
				raw[index] = byte(value.Index(index).Uint())
			}
			return term.Binary(raw), nil
		}
		elements := make(term.Tuple, value.Len())
		for index := range value.Len() {
			element, err := c.convert(value.Index(index).Interface(), path+"["+strconv.Itoa(index)+"]", depth+1)
			if err != nil {
				return nil, err
			}
			elements[index] = element
		}
		return elements, nil

	case reflect.Map:
		pairs := make(term.Map, 0, value.Len())
		iterator := value.MapRange()
		for iterator.Next() {
			keyPath := path + "[" + fmt.Sprint(iterator.Key().Interface()) + "]"
			key, err := c.convert(iterator.Key().Interface(), keyPath, depth+1)
			if err != nil {
				return nil, err
			}
			element, err := c.convert(iterator.Value().Interface(), keyPath, depth+1)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, term.Pair{Key: key, Value: element})
		}
		slices.SortStableFunc(pairs, func(a, b term.Pair) int {
			return term.Compare(a.Key, b.Key)
		})
		return pairs, nil

	default:
		return nil, &UnsupportedTypeError{Type: value.Type(), Path: path}
	}
}

func displayPath(path string) string {
	if path == "" {
		return "top level"
	}
	return path
}
