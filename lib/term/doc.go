// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package term defines the in-memory model of an Erlang external term.
//
// [Term] is a closed sum type. Every value is exactly one of:
//
//   - [Integer]: arbitrary-precision signed integer
//   - [Float]: 64-bit IEEE-754 double
//   - [Atom]: UTF-8 symbolic constant; booleans are the atoms true and false
//   - [Tuple]: fixed-arity, order-significant sequence
//   - [List]: sequence plus a tail; proper lists end in [Nil]
//   - [Map]: ordered key/value pairs, duplicates preserved
//   - [Nil]: the empty list and the proper-list terminator
//   - [Binary]: raw bytes with no assumed encoding
//
// Terms are values. There is no mutation API: a tree is built wholly by
// one decode call (lib/etf) or by the caller before one encode call.
// Slice-backed variants ([Tuple], [Map], [Binary], [List.Elements]) are
// plain Go slices; callers that share a tree across goroutines must not
// write to those slices after construction.
//
// [Equal] compares two trees structurally and [Format] renders a tree in
// Erlang term syntax, which is also what each variant's String method
// returns:
//
//	{ok,[1,2,3]}
//	#{name => <<"erlpack">>,count => 42}
//	[a,b|c]
//
// This package has no dependencies outside the standard library.
package term
