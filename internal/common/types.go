// Package common holds the primitive types shared by every layer of the
// node: the 32-byte digest used for block hashes and difficulty targets,
// and the 20-byte account address derived from a public key.
package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// HashLength is the size in bytes of a Hash.
const HashLength = 32

// AddressLength is the size in bytes of an Address.
const AddressLength = 20

// Hash is a 32-byte digest, totally ordered by big-endian numeric
// interpretation of its bytes. It is used both for block hashes and for
// difficulty targets, which share the same comparison rule (spec ties
// "hash <= difficulty" to ordinary lexicographic byte comparison).
type Hash [HashLength]byte

// H256 is an alias kept for readers coming from the spec, which names
// this type H256 throughout.
type H256 = Hash

// BytesToHash truncates/right-aligns b into a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// Cmp orders two hashes by big-endian numeric value: the representation
// mandated by the spec for comparing a block hash against a difficulty
// target.
func (h Hash) Cmp(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// LessOrEqual reports whether h, read as a big-endian integer, is <= other.
// This is the node's proof-of-work acceptance test.
func (h Hash) LessOrEqual(other Hash) bool {
	return h.Cmp(other) <= 0
}

func (h Hash) IsZero() bool { return h == Hash{} }

// HashFromHex parses a 0x-prefixed or bare hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(trim0x(s))
	if err != nil {
		return Hash{}, fmt.Errorf("common: invalid hash hex %q: %w", s, err)
	}
	return BytesToHash(b), nil
}

// Address is the 20-byte account identifier: the last AddressLength bytes
// of SHA-256(publicKeyBytes).
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
