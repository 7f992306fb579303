// Package netsrv implements the network worker (spec §4.6, §5): a pool
// of identical goroutines consuming (bytes, peer handle) tuples from one
// shared inbound channel, running the gossip state machine — block and
// transaction announcement, pull, push and orphan handling — against the
// blockchain store and mempool. Grounded directly on the teacher's own
// node/cn/peer.go and node/cn/protocol.go: the closed message-code set,
// the per-peer write sink, and the worker-pool-over-one-channel shape
// are the same idiom klaytn uses for its own (much larger) eth/63
// protocol, narrowed to the spec's eight message variants.
package netsrv

import (
	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/wire"
)

// Peer is the per-connection write sink the core is handed by the
// out-of-scope transport layer (spec §2: "peer.write sink"). Framing,
// dialing and listening all live outside the core.
type Peer interface {
	// Write frames and sends a single message to this peer.
	Write(code wire.Code, payload interface{}) error
	// ID identifies the peer for logging.
	ID() string
}

// Transport is the outbound broadcast sink (spec §2: "outbound broadcast
// ... sink"), implemented by the out-of-scope transport layer.
type Transport interface {
	Broadcast(code wire.Code, payload interface{})
}

// Inbound is the single tuple the core reads from its inbound channel
// (spec §2: "(bytes, peer_handle) tuples").
type Inbound struct {
	Bytes []byte
	Peer  Peer
}

// blockHashes/txHashes turn typed slices into the list of their hashes
// (txHashes feeds the mempool deletion in handleNewBlock).
func blockHashes(blocks []*chaintypes.Block) []common.Hash {
	out := make([]common.Hash, len(blocks))
	for i, b := range blocks {
		out[i] = b.Hash()
	}
	return out
}

func txHashes(txs []chaintypes.SignedTransaction) []common.Hash {
	out := make([]common.Hash, len(txs))
	for i, t := range txs {
		out[i] = t.Hash()
	}
	return out
}
