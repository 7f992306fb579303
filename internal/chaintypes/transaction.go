package chaintypes

import (
	"crypto/ed25519"

	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/crypto"
)

// Transaction is the unsigned transfer instruction (spec §3). AccountNonce
// is the sender's *next* nonce: one greater than their current on-chain
// nonce.
type Transaction struct {
	Sender       common.Address `json:"sender"`
	Receiver     common.Address `json:"receiver"`
	AccountNonce uint32         `json:"account_nonce"`
	Value        uint32         `json:"value"`
}

// SignedTransaction wraps a Transaction with the signature covering it
// and the public key the signature is supposed to verify under.
//
// Nothing in this type or in Verify binds Sender to
// crypto.AddressFromPublicKey(PublicKey); the spec documents this as a
// known protocol weakness (§9 "Sender/public-key unbinding") rather than
// a bug to silently fix, so it is preserved here too.
type SignedTransaction struct {
	Transaction Transaction `json:"transaction"`
	Signature   []byte      `json:"signature"`
	PublicKey   []byte      `json:"public_key"`
}

// Hash is SHA-256 over the JSON serialization of the whole signed
// envelope (spec §3). The signature is not computed over this hash; it
// covers the JSON serialization of the inner Transaction.
func (s SignedTransaction) Hash() common.Hash {
	return crypto.MustHashJSON(s)
}

// Sign produces a SignedTransaction: the signature covers only the inner
// Transaction (spec §4.2), not the envelope.
func Sign(tx Transaction, priv ed25519.PrivateKey, pub ed25519.PublicKey) (SignedTransaction, error) {
	sig, err := crypto.Sign(priv, tx)
	if err != nil {
		return SignedTransaction{}, err
	}
	return SignedTransaction{Transaction: tx, Signature: sig, PublicKey: pub}, nil
}

// VerifySignature reports whether s's signature is valid over its inner
// Transaction under its own embedded public key (spec §4.2
// "signature-valid"). It does not check any relationship between the
// sender address and the public key.
func (s SignedTransaction) VerifySignature() bool {
	return crypto.Verify(s.PublicKey, s.Transaction, s.Signature)
}
