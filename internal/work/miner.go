// Package work implements the miner: the proof-of-work loop that
// assembles candidate blocks, searches nonces, and executes transactions
// to produce the next account state (spec §4.5). Its control-channel /
// operating-state-machine shape is grounded directly on the teacher's
// own work/worker.go and work/agent.go — the mining-loop idiom klaytn
// itself uses for BFT-sealed block production, generalized here back to
// the spec's nonce-search proof of work.
package work

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/klay-edu/powchain/internal/chain"
	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/mempool"
	"github.com/klay-edu/powchain/internal/metrics"
	"github.com/klay-edu/powchain/internal/state"
	"github.com/klay-edu/powchain/internal/xlog"
)

var logger = xlog.NewModuleLogger(xlog.Miner)

// MaxTxPerBlock bounds how many mempool transactions the miner samples
// into one candidate block (spec §6).
const MaxTxPerBlock = 300

// Miner owns the mining loop. It never holds the blockchain and the
// mempool locks at the same time: every chain call (tip, parent block and
// parent state reads, and on a successful PoW the state commit) takes and
// releases the blockchain lock on its own, and the mempool lock is taken
// separately by Sample and again by Delete. Transaction execution runs
// under neither lock, so the mempool can change between sampling and
// deletion.
type Miner struct {
	chain   *chain.Chain
	pool    *mempool.Pool
	control chan ControlSignal
	blocks  chan *chaintypes.Block // finished-block output, spec §9 "bounded MPSC"

	state  OperatingState
	lambda time.Duration
}

// New builds a Miner wired to chain and pool, starting Paused (spec
// §9 state machine). blocksBuf sizes the finished-block output channel.
func New(c *chain.Chain, pool *mempool.Pool, blocksBuf int) *Miner {
	return &Miner{
		chain:   c,
		pool:    pool,
		control: make(chan ControlSignal),
		blocks:  make(chan *chaintypes.Block, blocksBuf),
		state:   Paused,
	}
}

// Handle returns the opaque command sink for this miner.
func (m *Miner) Handle() Handle { return Handle{control: m.control} }

// Finished is the channel of blocks this miner has successfully mined,
// consumed by the miner worker (internal/minerworker).
func (m *Miner) Finished() <-chan *chaintypes.Block { return m.blocks }

// Run drives the mining loop until a ControlSignal puts it in ShutDown.
// It is meant to run on its own goroutine/thread for the lifetime of the
// node (spec §5: "the miner runs in a single dedicated thread").
func (m *Miner) Run() {
	for m.state != ShutDown {
		if m.state == Paused {
			// Paused blocks for a command (spec §4.5 step 2).
			m.apply(<-m.control)
			continue
		}
		m.drainPendingControl()
		if m.state != Run {
			continue
		}
		m.mineOneCandidate()
		if m.lambda > 0 {
			time.Sleep(m.lambda)
		}
	}
}

// drainPendingControl polls the control channel without blocking, the
// behavior spec'd for the Run state ("Run polls the channel
// non-blockingly each iteration").
func (m *Miner) drainPendingControl() {
	for {
		select {
		case sig := <-m.control:
			m.apply(sig)
		default:
			return
		}
	}
}

func (m *Miner) apply(sig ControlSignal) {
	switch sig.kind {
	case signalStart:
		m.state = Run
		m.lambda = sig.Lambda
	case signalUpdate:
		// a no-op in Paused, and in Run merely forces the next
		// iteration to re-read the tip, which mineOneCandidate always
		// does anyway (spec §9).
	case signalExit:
		m.state = ShutDown
	}
}

func (m *Miner) mineOneCandidate() {
	tipHash := m.chain.Tip()
	parent, ok := m.chain.GetBlock(tipHash)
	if !ok {
		return
	}
	parentState, ok := m.chain.GetBlockState(tipHash)
	if !ok {
		return
	}

	block := &chaintypes.Block{
		Length: parent.Length + 1,
		Header: chaintypes.Header{
			Parent:     tipHash,
			Nonce:      0,
			Difficulty: parent.Header.Difficulty,
			Timestamp:  uint64(time.Now().UnixMilli()),
			MerkleRoot: randomHash(),
		},
	}
	block.Header.Nonce = randomUint32()

	if !block.Hash().LessOrEqual(block.Header.Difficulty) {
		return
	}

	sampled := m.pool.Sample(MaxTxPerBlock)
	newState, validTx := state.ExecuteTx(parentState, sampled)

	blockHash := block.Hash()
	m.chain.InsertState(blockHash, newState)
	block.Data = validTx

	sampledHashes := make([]common.Hash, 0, len(sampled))
	for _, tx := range sampled {
		sampledHashes = append(sampledHashes, tx.Hash())
	}
	m.pool.Delete(sampledHashes...)

	genesisHash := m.chain.GenesisHash()
	if block.Header.Parent == genesisHash {
		if genesisBlock, ok := m.chain.GetBlock(genesisHash); ok {
			// Seeds peers lacking genesis (spec §4.5 step 5).
			m.blocks <- genesisBlock
		}
	}

	metrics.BlocksMined.Inc()
	logger.Info("mined block", "hash", blockHash.Hex(), "length", block.Length, "txs", len(validTx))
	m.blocks <- block
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
