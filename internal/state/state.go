// Package state implements the account model and the deterministic
// state-transition function described in spec §4.3, grounded in the
// teacher's own blockchain/state package role (account nonce/balance
// bookkeeping separate from block storage).
package state

import "github.com/klay-edu/powchain/internal/common"

// Account holds one address's nonce and balance.
type Account struct {
	Nonce   uint32
	Balance uint32
}

// State maps an address to its account. It is plain data, copied by
// ExecuteTx rather than mutated in place, so a State value handed to one
// caller is never changed out from under another.
type State map[common.Address]Account

// Clone returns a shallow copy of s; Account values are copied by value,
// so mutating the result never touches s.
func (s State) Clone() State {
	out := make(State, len(s))
	for addr, acct := range s {
		out[addr] = acct
	}
	return out
}

// TotalBalance sums every account's balance; used by tests to assert
// conservation (spec §8 P4).
func (s State) TotalBalance() uint64 {
	var total uint64
	for _, acct := range s {
		total += uint64(acct.Balance)
	}
	return total
}

// ICOAddress and ICOBalance describe the single hard-coded genesis
// account (spec §3, §6): address = address(SHA256(uint32(0) big-endian
// bytes)), balance 100, nonce 0.
var ICOAddress = icoAddress()

const ICOBalance = 100

func icoAddress() common.Address {
	// computed in a package-level init-time helper rather than a
	// literal so the derivation rule (crypto.AddressFromPublicKey over
	// the 4 big-endian bytes of uint32(0)) stays the single source of
	// truth; see genesis.go for the actual computation.
	return computeICOAddress()
}

// NewICOState returns the initial state: a single address holding
// ICOBalance at nonce 0 (spec §3 "ICO state").
func NewICOState() State {
	return State{
		ICOAddress: {Nonce: 0, Balance: ICOBalance},
	}
}
