package state

import (
	"encoding/binary"

	"github.com/klay-edu/powchain/internal/crypto"
)

// computeICOAddress derives the ICO account address the same way any
// other address is derived: AddressFromPublicKey over a byte sequence.
// Spec §6 fixes that "public key" to be the 4 big-endian bytes of
// uint32(0).
func computeICOAddress() (addr [20]byte) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], 0)
	a := crypto.AddressFromPublicKey(buf[:])
	copy(addr[:], a[:])
	return addr
}
