// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec bridges Erlang terms and CBOR.
//
// Terms are converted to plain Go values with lib/hostvalue and then
// encoded with Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. The same
// term always produces identical bytes, so CBOR output can be hashed or
// compared directly.
//
// The bridge is lossy in the ways lib/hostvalue is. Atoms and UTF-8
// binaries both become CBOR text strings; tuples and lists both become
// arrays; map keys become text. On the way back, text strings become
// atoms or binaries according to [hostvalue.Options].
//
// For single items:
//
//	data, err := codec.FromTerm(value)
//	value, err := codec.ToTerm(data, hostvalue.Options{})
//
// For CBOR sequences (RFC 8742):
//
//	terms, err := codec.ReadTerms(reader, options)
//	err = codec.WriteTerms(writer, terms)
//
// [Marshal], [Unmarshal], [NewEncoder], and [NewDecoder] expose the
// configured modes for callers that already hold Go values.
package codec
