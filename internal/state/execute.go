package state

import "github.com/klay-edu/powchain/internal/chaintypes"

// ExecuteTx is the deterministic state-transition function (spec §4.3).
// It reads every sender/receiver balance and nonce from the parent
// snapshot, never from the state being built up during this call — that
// is the source's documented behavior (spec §9 "Nonce semantics"): two
// transactions from the same sender within one tx_list are evaluated
// against the same parent nonce/balance, so only the later one to be
// accepted "wins" in the output state, and accepting both is possible
// (each independently satisfies account_nonce == parent.nonce+1).
// This function preserves that behavior rather than threading a running
// nonce through the loop.
//
// valid_tx preserves tx_list's order and contains only accepted
// transactions. A rejected transaction does not abort the loop;
// subsequent transactions are still considered against the same parent
// snapshot.
func ExecuteTx(parent State, txList []chaintypes.SignedTransaction) (State, []chaintypes.SignedTransaction) {
	next := parent.Clone()
	var valid []chaintypes.SignedTransaction

	for _, stx := range txList {
		tx := stx.Transaction
		senderAcct, ok := parent[tx.Sender]
		if !ok {
			continue
		}
		if senderAcct.Balance < tx.Value {
			continue
		}
		if tx.AccountNonce != senderAcct.Nonce+1 {
			continue
		}

		if tx.Sender == tx.Receiver {
			// Self-send: nonce advances, balance is unchanged, and the
			// transfer is not double-counted (spec §9 "Self-send nonce").
			next[tx.Sender] = Account{Nonce: tx.AccountNonce, Balance: senderAcct.Balance}
		} else {
			next[tx.Sender] = Account{Nonce: tx.AccountNonce, Balance: senderAcct.Balance - tx.Value}

			receiverAcct := parent[tx.Receiver] // zero value (0,0) if absent
			next[tx.Receiver] = Account{Nonce: receiverAcct.Nonce, Balance: receiverAcct.Balance + tx.Value}
		}

		valid = append(valid, stx)
	}

	return next, valid
}
