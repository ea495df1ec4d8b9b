// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostvalue maps between [term.Term] trees and plain Go values
// (the shapes encoding/json, yaml.v3, and fxamacker/cbor produce and
// consume).
//
// The mapping is lossy and best-effort. It is a convenience for tools
// and glue code, not part of the byte-exact contract of lib/etf: a term
// taken through [FromTerm] and back through [ToTerm] is generally not
// the same term.
//
// # Terms to Go values
//
//   - Integer becomes int64 when it fits, otherwise *big.Int.
//   - Float becomes float64.
//   - The atoms true and false become bool. Other atoms become string.
//   - Tuple becomes []any.
//   - A proper List becomes []any. An improper List becomes []any with
//     the tail appended as the last element.
//   - Nil becomes nil.
//   - Map becomes map[string]any. Atom keys and UTF-8 binary keys are
//     used as they are; any other key is rendered in Erlang notation
//     (so the integer key 1 becomes "1"). When two keys render the
//     same, the later pair wins.
//   - Binary becomes string when it is valid UTF-8, otherwise []byte.
//     A binary holding text and an atom of the same text are
//     indistinguishable afterwards.
//
// # Go values to terms
//
//   - nil, nil pointers, and funcs become Nil. Other pointers are
//     followed.
//   - bool becomes the atom true or false.
//   - Every integer type, *big.Int, and big.Int become Integer.
//   - json.Number becomes Integer when it is integral, else Float.
//   - float32 and float64 become Float.
//   - string becomes an Atom, or a Binary with [StringsAsBinaries].
//     [Symbol] is always an Atom.
//   - []byte and byte arrays become Binary.
//   - Other slices and arrays become Tuple.
//   - Maps become Map, with pairs sorted by [term.Compare] on the
//     converted keys so that output is deterministic.
//   - A [term.Term] is passed through unchanged.
//
// Anything else fails with [UnsupportedTypeError].
package hostvalue
