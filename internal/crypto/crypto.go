// Package crypto implements the node's hash, signature and address
// primitives. The canonical hashing rule (spec §4.1) is
// SHA-256(JSON-serialize(x)); Go's encoding/json marshals struct fields
// in declaration order with no extraneous whitespace, which is
// deterministic across a single Go binary version and is what every
// participant in this spec is assumed to run (spec §4.1, §9 "JSON for
// hashing").
package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/klay-edu/powchain/internal/common"
)

// HashJSON returns SHA-256 of the canonical JSON encoding of v. It is the
// single hashing rule used for both Header and SignedTransaction hashes.
func HashJSON(v interface{}) (common.Hash, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "crypto: canonical json encode")
	}
	return sha256.Sum256(b), nil
}

// MustHashJSON panics on encode failure; only safe for types whose
// encoding cannot fail (no channels, funcs, or cyclic pointers).
func MustHashJSON(v interface{}) common.Hash {
	h, err := HashJSON(v)
	if err != nil {
		panic(err)
	}
	return h
}

// GenerateKey produces a fresh Ed25519 key pair for wallets and tests.
func GenerateKey() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "crypto: key generation")
	}
	return pub, priv, nil
}

// Sign produces an Ed25519 signature over the canonical JSON encoding of
// payload (spec §4.2: "signature covers the JSON serialization of the
// inner Transaction").
func Sign(priv ed25519.PrivateKey, payload interface{}) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "crypto: sign encode")
	}
	return ed25519.Sign(priv, b), nil
}

// Verify checks sig against the canonical JSON encoding of payload under
// pub. It never returns an error: an unparsable payload or malformed key
// simply fails verification, matching spec §4.2's boolean contract.
func Verify(pub ed25519.PublicKey, payload interface{}, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	return ed25519.Verify(pub, b, sig)
}

// AddressFromPublicKey derives an Address by truncating SHA-256(pubKey)
// to its last AddressLength bytes (spec §3).
func AddressFromPublicKey(pub []byte) common.Address {
	sum := sha256.Sum256(pub)
	return common.BytesToAddress(sum[:])
}
