package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
)

func signedTx(sender, receiver common.Address, nonce, value uint32) chaintypes.SignedTransaction {
	return chaintypes.SignedTransaction{
		Transaction: chaintypes.Transaction{
			Sender:       sender,
			Receiver:     receiver,
			AccountNonce: nonce,
			Value:        value,
		},
	}
}

// TestExecuteTxIsDeterministic covers spec §8 P3.
func TestExecuteTxIsDeterministic(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	parent := State{alice: {Nonce: 0, Balance: 100}}
	txs := []chaintypes.SignedTransaction{signedTx(alice, bob, 1, 30)}

	s1, v1 := ExecuteTx(parent, txs)
	s2, v2 := ExecuteTx(parent, txs)

	require.Equal(t, s1, s2)
	require.Equal(t, v1, v2)
}

// TestExecuteTxConservation covers spec §8 P4.
func TestExecuteTxConservation(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	parent := State{alice: {Nonce: 0, Balance: 100}}
	txs := []chaintypes.SignedTransaction{signedTx(alice, bob, 1, 30)}

	next, valid := ExecuteTx(parent, txs)
	require.Len(t, valid, 1)
	require.Equal(t, parent.TotalBalance(), next.TotalBalance())
}

func TestExecuteTxRejectsOverdraw(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	parent := State{alice: {Nonce: 0, Balance: 10}}
	txs := []chaintypes.SignedTransaction{signedTx(alice, bob, 1, 50)}

	next, valid := ExecuteTx(parent, txs)
	require.Empty(t, valid)
	require.Equal(t, parent[alice], next[alice])
}

func TestExecuteTxRejectsWrongNonce(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	parent := State{alice: {Nonce: 5, Balance: 100}}
	txs := []chaintypes.SignedTransaction{signedTx(alice, bob, 1, 10)}

	_, valid := ExecuteTx(parent, txs)
	require.Empty(t, valid)
}

func TestExecuteTxUnknownSenderRejected(t *testing.T) {
	ghost := common.Address{0xee}
	bob := common.Address{0x02}
	parent := State{}
	txs := []chaintypes.SignedTransaction{signedTx(ghost, bob, 1, 1)}

	_, valid := ExecuteTx(parent, txs)
	require.Empty(t, valid)
}

// TestExecuteTxSelfSend covers spec §9 "self-send nonce": balance
// unchanged, nonce advances, no double counting.
func TestExecuteTxSelfSend(t *testing.T) {
	alice := common.Address{0x01}
	parent := State{alice: {Nonce: 0, Balance: 50}}
	txs := []chaintypes.SignedTransaction{signedTx(alice, alice, 1, 20)}

	next, valid := ExecuteTx(parent, txs)
	require.Len(t, valid, 1)
	require.Equal(t, Account{Nonce: 1, Balance: 50}, next[alice])
}

// TestExecuteTxReceiverDefaultsToZero covers the receiver-absent default
// (0,0) rule from spec §4.3.
func TestExecuteTxReceiverDefaultsToZero(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	parent := State{alice: {Nonce: 0, Balance: 40}}
	txs := []chaintypes.SignedTransaction{signedTx(alice, bob, 1, 15)}

	next, _ := ExecuteTx(parent, txs)
	require.Equal(t, Account{Nonce: 0, Balance: 15}, next[bob])
}

// TestExecuteTxReadsFromParentNotRunning covers spec §9 "Nonce
// semantics": two same-sender transactions in one tx_list are both
// evaluated against the same parent nonce, so both can be accepted.
func TestExecuteTxReadsFromParentNotRunning(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	carol := common.Address{0x03}
	parent := State{alice: {Nonce: 5, Balance: 100}}
	txs := []chaintypes.SignedTransaction{
		signedTx(alice, bob, 6, 10),
		signedTx(alice, carol, 6, 20),
	}

	_, valid := ExecuteTx(parent, txs)
	require.Len(t, valid, 2, "both transactions present the same parent.nonce+1 and are independently accepted")
}

func TestExecuteTxSkipDoesNotAbortLoop(t *testing.T) {
	alice := common.Address{0x01}
	bob := common.Address{0x02}
	carol := common.Address{0x03}
	parent := State{alice: {Nonce: 0, Balance: 100}}
	txs := []chaintypes.SignedTransaction{
		signedTx(alice, bob, 99, 10), // bad nonce, skipped
		signedTx(alice, carol, 1, 10),
	}

	_, valid := ExecuteTx(parent, txs)
	require.Len(t, valid, 1)
	require.Equal(t, carol, valid[0].Transaction.Receiver)
}
