package chaintypes

import (
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/crypto"
)

// Header is the proof-of-work envelope (spec §3). MerkleRoot is carried
// but never recomputed or checked against Data during validation — spec
// §4.1/§9 document this as an unused field the source treats as an
// arbitrary nonce-like value, and that omission is preserved rather than
// "fixed" here.
type Header struct {
	Parent     common.Hash `json:"parent"`
	Nonce      uint32      `json:"nonce"`
	Difficulty common.Hash `json:"difficulty"`
	Timestamp  uint64      `json:"timestamp"` // milliseconds since epoch
	MerkleRoot common.Hash `json:"merkle_root"`
}

// Hash is SHA-256 over the JSON serialization of the header (spec §3).
func (h Header) Hash() common.Hash {
	return crypto.MustHashJSON(h)
}

// Block is a header plus its height and ordered transaction list (spec
// §3). Length is the block's height; genesis has Length == 1.
type Block struct {
	Length uint32              `json:"length"`
	Header Header              `json:"header"`
	Data   []SignedTransaction `json:"data"`
}

// Hash is the block's header hash (spec §3: "hash = hash(header)").
func (b Block) Hash() common.Hash {
	return b.Header.Hash()
}
