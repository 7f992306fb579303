// Package chain implements the blockchain store (spec §4.4): a block DAG
// keyed by hash, a longest-chain-by-length tip rule, and a per-block
// account-state snapshot map. It holds no persistence layer (spec §2
// Non-goals) — everything lives in two maps guarded by one mutex, the
// same single-mutex-per-shared-structure discipline the teacher applies
// throughout node/cn.
package chain

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/state"
	"github.com/klay-edu/powchain/internal/xlog"
)

var logger = xlog.NewModuleLogger(xlog.Chain)

// Difficulty is the fixed target every block's hash must not exceed
// (spec §6: "0x0000800000…"). It is the same for every block: there is
// no retargeting (spec §2 Non-goals).
var Difficulty = newDifficulty()

func newDifficulty() common.Hash {
	var h common.Hash
	h[2] = 0x80
	return h
}

// Chain holds every known block and the computed state after each, with
// no pruning (spec §2/§3: "no persistence", "blocks: map, no pruning").
type Chain struct {
	mu     sync.Mutex
	blocks map[common.Hash]*chaintypes.Block
	states map[common.Hash]state.State

	genesisHash common.Hash
}

// New installs a freshly generated genesis block (length 1, random
// header, empty data) and the ICO state (spec §4.4 "new()").
func New() *Chain {
	c := &Chain{
		blocks: make(map[common.Hash]*chaintypes.Block),
		states: make(map[common.Hash]state.State),
	}
	genesis := newGenesisBlock()
	h := genesis.Hash()
	c.blocks[h] = genesis
	c.states[h] = state.NewICOState()
	c.genesisHash = h
	logger.Info("genesis installed", "hash", h.Hex())
	return c
}

func newGenesisBlock() *chaintypes.Block {
	return &chaintypes.Block{
		Length: 1,
		Header: chaintypes.Header{
			Parent:     common.Hash{},
			Nonce:      randomUint32(),
			Difficulty: Difficulty,
			Timestamp:  uint64(time.Now().UnixMilli()),
			MerkleRoot: randomHash(),
		},
		Data: nil,
	}
}

func randomUint32() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint32(b[:])
}

func randomHash() common.Hash {
	var h common.Hash
	_, _ = rand.Read(h[:])
	return h
}

// GenesisHash returns the hash of the unique parent-less block installed
// by New.
func (c *Chain) GenesisHash() common.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.genesisHash
}

// Locked is the set of chain operations usable inside a WithLock
// callback, where the blockchain mutex is already held.
type Locked struct{ c *Chain }

func (l Locked) GenesisHash() common.Hash { return l.c.genesisHash }

func (l Locked) Insert(block *chaintypes.Block) error { return l.c.insertLocked(block) }

func (l Locked) InsertState(hash common.Hash, st state.State) { l.c.states[hash] = st }

func (l Locked) HasBlock(hash common.Hash) bool {
	_, ok := l.c.blocks[hash]
	return ok
}

func (l Locked) GetBlock(hash common.Hash) (*chaintypes.Block, bool) {
	b, ok := l.c.blocks[hash]
	return b, ok
}

func (l Locked) GetBlockState(hash common.Hash) (state.State, bool) {
	s, ok := l.c.states[hash]
	return s, ok
}

func (l Locked) GetParentBlock(b *chaintypes.Block) (*chaintypes.Block, bool) {
	p, ok := l.c.blocks[b.Header.Parent]
	return p, ok
}

// WithLock runs fn holding the blockchain mutex for fn's entire
// duration. This is what lets the network worker's Blocks(...) handler
// span multiple reads/writes — including the orphan-resolution loop —
// as one critical section (spec §5: "the network worker's Blocks-handler
// critical section may be long due to orphan resolution"), instead of
// re-acquiring the lock per call the way the miner does.
func (c *Chain) WithLock(fn func(Locked)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(Locked{c: c})
}

// ErrUnknownParent is returned by Insert when a non-genesis block names a
// parent this store has never seen. The spec's own reference behavior
// panics in that case (spec §4.4 "Requires parent present ... panics
// otherwise"); callers that want that exact behavior can panic on this
// error themselves; the store itself returns it so callers that would
// rather stay up (the network worker, which must survive a malicious or
// confused peer) can choose to.
var ErrUnknownParent = errUnknownParent{}

type errUnknownParent struct{}

func (errUnknownParent) Error() string { return "chain: unknown parent block" }

// Insert stores block, unconditionally overwriting its Length to
// parent.Length+1 for any non-genesis block (spec §4.4). It does not
// touch the per-block state map; callers must call InsertState
// separately once they have computed the resulting state.
func (c *Chain) Insert(block *chaintypes.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(block)
}

func (c *Chain) insertLocked(block *chaintypes.Block) error {
	h := block.Hash()
	if block.Length > 1 {
		parent, ok := c.blocks[block.Header.Parent]
		if !ok {
			return ErrUnknownParent
		}
		block.Length = parent.Length + 1
	}
	c.blocks[h] = block
	return nil
}

// InsertState records the computed post-block state under block's hash.
func (c *Chain) InsertState(hash common.Hash, st state.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[hash] = st
}

// HasBlock reports whether hash is already known.
func (c *Chain) HasBlock(hash common.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.blocks[hash]
	return ok
}

// GetBlock returns the block stored under hash, if any.
func (c *Chain) GetBlock(hash common.Hash) (*chaintypes.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blocks[hash]
	return b, ok
}

// GetBlockState returns the state recorded after hash's block, if any.
func (c *Chain) GetBlockState(hash common.Hash) (state.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[hash]
	return s, ok
}

// GetParentBlock returns b's parent block, if known.
func (c *Chain) GetParentBlock(b *chaintypes.Block) (*chaintypes.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.blocks[b.Header.Parent]
	return p, ok
}

// Tip returns the hash of the block with the maximum Length. Ties are
// broken by Go's (randomized) map iteration order: the store walks every
// known block to completion and keeps the last maximal one it visits
// (spec §4.4). This is deterministic *within* a single walk but not
// reproducible across runs, which the spec explicitly allows: "acceptable
// because the map is walked to completion and the last maximal block
// encountered wins."
func (c *Chain) Tip() common.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tipLocked()
}

func (c *Chain) tipLocked() common.Hash {
	var best common.Hash
	var bestLen uint32 = 0
	for h, b := range c.blocks {
		if b.Length >= bestLen {
			bestLen = b.Length
			best = h
		}
	}
	return best
}

// AllBlocksInLongestChain walks parent links from Tip() back to the
// first missing parent (normally genesis) and returns the sequence
// tip -> ... -> genesis (spec §4.4). The HTTP façade's longest-chain
// routes return it in this tip-first order as is.
func (c *Chain) AllBlocksInLongestChain() []*chaintypes.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*chaintypes.Block
	h := c.tipLocked()
	for {
		b, ok := c.blocks[h]
		if !ok {
			break
		}
		out = append(out, b)
		h = b.Header.Parent
	}
	return out
}
