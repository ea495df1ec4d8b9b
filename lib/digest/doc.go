// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes content digests of Erlang terms.
//
// A term digest is the BLAKE3 keyed hash of the term's canonical,
// uncompressed encoding (see lib/etf). Two messages that decode to the
// same term get the same digest even when one of them is compressed or
// uses non-canonical tags, so digests identify terms rather than bytes.
//
// Sequences of terms (for example the frames of a {packet,4} stream)
// are digested as a binary Merkle tree over the item digests.
// Domain-separation keys keep term digests and sequence digests from
// colliding.
package digest
