// Package minerworker implements the miner worker (spec §4.6): it
// receives freshly mined blocks from the miner, inserts each into the
// blockchain store under the blockchain lock, and broadcasts
// Blocks([block]) to peers. Grounded on the teacher's own
// work/worker.go result loop, which performs the equivalent
// insert-then-broadcast step for BFT-sealed blocks.
package minerworker

import (
	"github.com/klay-edu/powchain/internal/chain"
	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/metrics"
	"github.com/klay-edu/powchain/internal/wire"
	"github.com/klay-edu/powchain/internal/xlog"
)

var logger = xlog.NewModuleLogger(xlog.Miner)

// Broadcaster is the outbound sink the worker broadcasts finished blocks
// through; internal/netsrv.ServerHandle implements it.
type Broadcaster interface {
	Broadcast(code wire.Code, payload interface{})
}

// Worker drains a miner's finished-block channel onto the chain and the
// network (spec §2 "Miner worker", one dedicated thread).
type Worker struct {
	chain   *chain.Chain
	network Broadcaster
	blocks  <-chan *chaintypes.Block
}

func New(c *chain.Chain, network Broadcaster, blocks <-chan *chaintypes.Block) *Worker {
	return &Worker{chain: c, network: network, blocks: blocks}
}

// Run drains w.blocks until the channel is closed, inserting and
// broadcasting each block in turn. work.Miner never closes its
// finished-block channel, so with a miner as producer Run does not return.
func (w *Worker) Run() {
	for block := range w.blocks {
		if err := w.chain.Insert(block); err != nil {
			logger.Error("miner worker: failed to insert self-mined block", "err", err)
			continue
		}
		metrics.BlocksInserted.Inc()
		w.network.Broadcast(wire.BlocksCode, wire.Blocks{Blocks: []chaintypes.Block{*block}})
	}
}
