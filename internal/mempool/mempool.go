// Package mempool implements the pending-transaction pool (spec §3, §4.6):
// a map from signed-tx hash to SignedTransaction, guarded by its own
// mutex, with the miner and network worker as its only callers.
package mempool

import (
	"sync"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
)

type Pool struct {
	mu  sync.Mutex
	txs map[common.Hash]chaintypes.SignedTransaction
}

func New() *Pool {
	return &Pool{txs: make(map[common.Hash]chaintypes.SignedTransaction)}
}

// Has reports whether hash is already pending.
func (p *Pool) Has(hash common.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.txs[hash]
	return ok
}

// Insert adds tx, keyed by its own hash.
func (p *Pool) Insert(tx chaintypes.SignedTransaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs[tx.Hash()] = tx
}

// Get returns the pending transactions named by hashes that this pool
// actually holds.
func (p *Pool) Get(hashes []common.Hash) []chaintypes.SignedTransaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []chaintypes.SignedTransaction
	for _, h := range hashes {
		if tx, ok := p.txs[h]; ok {
			out = append(out, tx)
		}
	}
	return out
}

// Missing filters hashes down to the ones this pool does not hold.
func (p *Pool) Missing(hashes []common.Hash) []common.Hash {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []common.Hash
	for _, h := range hashes {
		if _, ok := p.txs[h]; !ok {
			out = append(out, h)
		}
	}
	return out
}

// Sample returns up to n pending transactions in unspecified order (spec
// §4.5: "order unspecified"), driven by Go's randomized map iteration.
func (p *Pool) Sample(n int) []chaintypes.SignedTransaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n <= 0 || len(p.txs) == 0 {
		return nil
	}
	out := make([]chaintypes.SignedTransaction, 0, n)
	for _, tx := range p.txs {
		out = append(out, tx)
		if len(out) == n {
			break
		}
	}
	return out
}

// Delete removes every hash in hashes, whether or not each was present —
// the miner removes sampled transactions regardless of execution outcome
// (spec §4.5), and the network worker removes a block's transactions
// wholesale on arrival (spec §4.6) regardless of block acceptance.
func (p *Pool) Delete(hashes ...common.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range hashes {
		delete(p.txs, h)
	}
}

// Len returns the number of pending transactions (used by metrics).
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.txs)
}
