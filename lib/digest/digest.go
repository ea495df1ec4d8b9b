// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/erlpack/lib/etf"
	"github.com/bureau-foundation/erlpack/lib/term"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing.
type domainKey [32]byte

// Domain separation keys: the ASCII domain name, zero-padded. Changing
// them changes every digest in that domain.
var (
	termDomainKey = domainKey{
		'e', 'r', 'l', 'p', 'a', 'c', 'k', '.', 't', 'e', 'r', 'm',
	}

	sequenceDomainKey = domainKey{
		'e', 'r', 'l', 'p', 'a', 'c', 'k', '.', 's', 'e', 'q', 'u', 'e', 'n', 'c', 'e',
	}
)

// Term returns the digest of t's canonical encoding. It fails only
// when t cannot be encoded.
func Term(t term.Term) (Digest, error) {
	encoded, err := etf.Pack(t)
	if err != nil {
		return Digest{}, fmt.Errorf("digest: %w", err)
	}
	return Canonical(encoded), nil
}

// Canonical hashes bytes that are already a canonical encoding, as
// produced by etf.Pack. It does not check that they are.
func Canonical(encoded []byte) Digest {
	return keyedHash(termDomainKey, encoded)
}

// Sequence returns the Merkle root over the item digests, keyed with
// the sequence domain. Adjacent pairs are concatenated and hashed; an
// odd node at the end of a level is promoted without hashing. A single
// item is still hashed once so that a one-item sequence and its only
// term have different digests.
//
// Panics if digests is empty.
func Sequence(digests []Digest) Digest {
	if len(digests) == 0 {
		panic("digest.Sequence: empty digest list")
	}
	if len(digests) == 1 {
		return keyedHash(sequenceDomainKey, digests[0][:])
	}

	hasher, err := blake3.NewKeyed(sequenceDomainKey[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	var combined [64]byte
	hashPair := func(left, right Digest) Digest {
		copy(combined[:32], left[:])
		copy(combined[32:], right[:])
		hasher.Reset()
		hasher.Write(combined[:])
		var result Digest
		copy(result[:], hasher.Sum(nil))
		return result
	}

	level := make([]Digest, len(digests))
	copy(level, digests)

	for len(level) > 1 {
		nextLength := (len(level) + 1) / 2
		next := make([]Digest, nextLength)
		for i := 0; i < len(level)-1; i += 2 {
			next[i/2] = hashPair(level[i], level[i+1])
		}
		if len(level)%2 == 1 {
			next[nextLength-1] = level[len(level)-1]
		}
		level = next
	}

	return level[0]
}

// String returns the hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(d) {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(d))
	}
	copy(d[:], decoded)
	return d, nil
}

func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}
