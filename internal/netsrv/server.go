package netsrv

import (
	"github.com/klay-edu/powchain/internal/chain"
	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/mempool"
	"github.com/klay-edu/powchain/internal/metrics"
	"github.com/klay-edu/powchain/internal/state"
	"github.com/klay-edu/powchain/internal/wire"
	"github.com/klay-edu/powchain/internal/xlog"
)

var logger = xlog.NewModuleLogger(xlog.Network)

// knownCacheSize bounds the recently-announced-hash caches, mirroring the
// teacher's own maxKnownBlocks/maxKnownTxs peer-cache constants (peer.go).
const knownCacheSize = 4096

// Server is the network worker: a pool of goroutines draining one shared
// Inbound channel against the blockchain store, the mempool and a
// per-server orphan buffer (spec §4.6, §5).
type Server struct {
	chain     *chain.Chain
	pool      *mempool.Pool
	orphans   *orphanBuffer
	transport Transport
	inbound   <-chan Inbound

	knownBlocks *common.KnownCache
	knownTxs    *common.KnownCache
}

func New(c *chain.Chain, pool *mempool.Pool, transport Transport, inbound <-chan Inbound) *Server {
	return &Server{
		chain:       c,
		pool:        pool,
		orphans:     newOrphanBuffer(),
		transport:   transport,
		inbound:     inbound,
		knownBlocks: common.NewKnownCache(knownCacheSize),
		knownTxs:    common.NewKnownCache(knownCacheSize),
	}
}

// ServerHandle is the opaque command sink the HTTP façade and the miner
// worker hold (spec §2 "Network ServerHandle"); it exposes only
// broadcast, never the server's internals.
type ServerHandle struct {
	transport Transport
}

func (s *Server) Handle() ServerHandle { return ServerHandle{transport: s.transport} }

// Broadcast lets this handle double as a minerworker.Broadcaster.
func (h ServerHandle) Broadcast(code wire.Code, payload interface{}) {
	h.transport.Broadcast(code, payload)
}

// Ping broadcasts the fixed test ping the HTTP façade's /network/ping
// route triggers (spec §6).
func (h ServerHandle) Ping() {
	h.transport.Broadcast(wire.PingCode, wire.Text{Value: "Test ping"})
}

// Run starts n worker goroutines, each draining s.inbound until it is
// closed (spec §5: "the network worker in N threads reading from a
// shared inbound message channel"). It returns immediately; callers that
// want to block until every worker has exited should wrap it in their
// own WaitGroup.
func (s *Server) Run(n int) {
	for i := 0; i < n; i++ {
		go s.worker()
	}
}

func (s *Server) worker() {
	for in := range s.inbound {
		s.dispatch(in)
	}
}

// dispatch decodes and handles exactly one inbound message, recovering
// from any panic so that one malformed or maliciously-crafted peer
// cannot bring down the rest of the pool (spec §7: peer-originated
// errors are never propagated beyond the peer that caused them). This
// includes the documented panic in resolveOrphans: it is still reachable,
// but recovering here confines it to the one message that triggered it.
func (s *Server) dispatch(in Inbound) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered panic handling peer message", "peer", in.Peer.ID(), "recover", r)
		}
	}()

	env, err := wire.Decode(in.Bytes)
	if err != nil {
		logger.Warn("dropping undecodable message", "peer", in.Peer.ID(), "err", err)
		return
	}
	metrics.PeerMessagesHandled.WithLabelValues(env.Code.String()).Inc()

	switch env.Code {
	case wire.PingCode:
		var msg wire.Text
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handlePing(in.Peer, msg)
	case wire.PongCode:
		var msg wire.Text
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handlePong(in.Peer, msg)
	case wire.NewBlockHashesCode:
		var msg wire.Hashes
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handleNewBlockHashes(in.Peer, msg)
	case wire.GetBlocksCode:
		var msg wire.Hashes
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handleGetBlocks(in.Peer, msg)
	case wire.BlocksCode:
		var msg wire.Blocks
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handleBlocks(msg)
	case wire.NewTransactionHashesCode:
		var msg wire.Hashes
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handleNewTransactionHashes(in.Peer, msg)
	case wire.GetTransactionsCode:
		var msg wire.Hashes
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handleGetTransactions(in.Peer, msg)
	case wire.TransactionsCode:
		var msg wire.Transactions
		if !s.decodeOrWarn(env, &msg, in.Peer) {
			return
		}
		s.handleTransactions(msg)
	default:
		// spec §6: "All other tags are rejected" (fatal panic in the
		// source; dropped with a log here instead, per spec §7).
		logger.Warn("dropping message with unknown code", "peer", in.Peer.ID(), "code", env.Code)
	}
}

func (s *Server) decodeOrWarn(env wire.Envelope, out interface{}, peer Peer) bool {
	if err := wire.DecodePayload(env, out); err != nil {
		logger.Warn("dropping message with undecodable payload", "peer", peer.ID(), "code", env.Code, "err", err)
		return false
	}
	return true
}

func (s *Server) handlePing(peer Peer, msg wire.Text) {
	if err := peer.Write(wire.PongCode, wire.Text{Value: msg.Value}); err != nil {
		logger.Warn("pong write failed", "peer", peer.ID(), "err", err)
	}
}

func (s *Server) handlePong(peer Peer, msg wire.Text) {
	logger.Debug("pong", "peer", peer.ID(), "value", msg.Value)
}

func (s *Server) handleNewBlockHashes(peer Peer, msg wire.Hashes) {
	var missing []common.Hash
	for _, h := range msg.Hashes {
		if !s.chain.HasBlock(h) {
			missing = append(missing, h)
		}
	}
	if len(missing) == 0 {
		return
	}
	if err := peer.Write(wire.GetBlocksCode, wire.Hashes{Hashes: missing}); err != nil {
		logger.Warn("get-blocks write failed", "peer", peer.ID(), "err", err)
	}
}

func (s *Server) handleGetBlocks(peer Peer, msg wire.Hashes) {
	var found []chaintypes.Block
	for _, h := range msg.Hashes {
		if b, ok := s.chain.GetBlock(h); ok {
			found = append(found, *b)
		}
	}
	if err := peer.Write(wire.BlocksCode, wire.Blocks{Blocks: found}); err != nil {
		logger.Warn("blocks write failed", "peer", peer.ID(), "err", err)
	}
}

// handleBlocks holds the blockchain lock across every block in msg,
// including any orphan resolution each one triggers (spec §5: "the
// network worker's Blocks-handler critical section may be long due to
// orphan resolution").
func (s *Server) handleBlocks(msg wire.Blocks) {
	var newHashes []common.Hash
	s.chain.WithLock(func(locked chain.Locked) {
		for i := range msg.Blocks {
			b := msg.Blocks[i]
			if locked.HasBlock(b.Hash()) {
				continue
			}
			newHashes = append(newHashes, s.handleNewBlock(locked, &b)...)
		}
	})
	metrics.OrphanBufferSize.Set(float64(s.orphans.len()))
	if toAnnounce := s.filterAndRememberBlocks(newHashes); len(toAnnounce) > 0 {
		s.transport.Broadcast(wire.NewBlockHashesCode, wire.Hashes{Hashes: toAnnounce})
	}
}

// filterAndRememberBlocks drops hashes this server has already announced
// recently and remembers the rest, so a burst of Blocks messages carrying
// the same new block from several peers in quick succession only produces
// one NewBlockHashes announcement to the rest of the network. This is
// gossip hygiene only: the authoritative insert decision above has already
// happened by the time this runs, so it never gates consensus.
func (s *Server) filterAndRememberBlocks(hashes []common.Hash) []common.Hash {
	var out []common.Hash
	for _, h := range hashes {
		if s.knownBlocks.Contains(h) {
			continue
		}
		s.knownBlocks.Add(h)
		out = append(out, h)
	}
	return out
}

// handleNewBlock implements the spec §4.6 handle_new_block algorithm.
// It returns the hashes actually inserted into the chain by this call,
// including any cascading orphan-resolution inserts.
func (s *Server) handleNewBlock(locked chain.Locked, block *chaintypes.Block) []common.Hash {
	s.pool.Delete(txHashes(block.Data)...)

	parent, hasParent := locked.GetParentBlock(block)

	switch {
	case !hasParent && block.Length == 1:
		locked.Insert(block)
		locked.InsertState(block.Hash(), state.NewICOState())
		inserted := []common.Hash{block.Hash()}
		return append(inserted, s.resolveOrphans(locked, block.Hash())...)

	case !hasParent:
		s.orphans.append(block)
		s.transport.Broadcast(wire.GetBlocksCode, wire.Hashes{Hashes: []common.Hash{block.Header.Parent}})
		return nil

	default:
		if !checkBlockValidity(block, parent) {
			logger.Warn("dropping invalid block", "hash", block.Hash().Hex())
			// Preserved bug (spec §9 "Invalid block children"): orphan
			// resolution still runs with this never-inserted block as
			// cursor, so any buffered child naming it as parent will be
			// "resolved" against a parent that was never stored.
			return s.resolveOrphans(locked, block.Hash())
		}
		parentState, ok := locked.GetBlockState(block.Header.Parent)
		if !ok {
			panic("netsrv: missing parent state for validated block " + block.Hash().Hex())
		}
		newState, _ := state.ExecuteTx(parentState, block.Data)
		locked.InsertState(block.Hash(), newState)
		locked.Insert(block)
		metrics.BlocksInserted.Inc()
		inserted := []common.Hash{block.Hash()}
		return append(inserted, s.resolveOrphans(locked, block.Hash())...)
	}
}

// resolveOrphans repeatedly looks up the orphan buffer for a child of
// cursor, validates and inserts it, then advances cursor to that child's
// hash whether or not it was accepted — the exact shape spec §4.6 step 3
// describes, and the mechanism behind the spec §9 documented bug: if
// cursor itself was never actually inserted (it named an invalid block),
// the next found child's parent lookup below panics instead of quietly
// treating it as another orphan.
func (s *Server) resolveOrphans(locked chain.Locked, cursor common.Hash) []common.Hash {
	var inserted []common.Hash
	s.orphans.resolve(cursor, func(child *chaintypes.Block) bool {
		// child.Header.Parent is the buffer's current cursor.
		parentHash := child.Header.Parent
		parent, ok := locked.GetBlock(parentHash)
		if !ok {
			panic("netsrv: orphan resolution: unknown parent block " + parentHash.Hex())
		}
		if !checkBlockValidity(child, parent) {
			logger.Warn("dropping invalid orphan", "hash", child.Hash().Hex())
			return false
		}
		parentState, ok := locked.GetBlockState(parentHash)
		if !ok {
			panic("netsrv: orphan resolution: unknown parent state " + parentHash.Hex())
		}
		newState, _ := state.ExecuteTx(parentState, child.Data)
		locked.InsertState(child.Hash(), newState)
		locked.Insert(child)
		metrics.BlocksInserted.Inc()
		inserted = append(inserted, child.Hash())
		return true
	})
	return inserted
}

func (s *Server) handleNewTransactionHashes(peer Peer, msg wire.Hashes) {
	missing := s.pool.Missing(msg.Hashes)
	if len(missing) == 0 {
		return
	}
	if err := peer.Write(wire.GetTransactionsCode, wire.Hashes{Hashes: missing}); err != nil {
		logger.Warn("get-transactions write failed", "peer", peer.ID(), "err", err)
	}
}

func (s *Server) handleGetTransactions(peer Peer, msg wire.Hashes) {
	txs := s.pool.Get(msg.Hashes)
	if err := peer.Write(wire.TransactionsCode, wire.Transactions{Transactions: txs}); err != nil {
		logger.Warn("transactions write failed", "peer", peer.ID(), "err", err)
	}
}

func (s *Server) handleTransactions(msg wire.Transactions) {
	var newHashes []common.Hash
	for _, tx := range msg.Transactions {
		h := tx.Hash()
		if s.pool.Has(h) {
			continue
		}
		if !checkTxValidity(tx) {
			continue
		}
		s.pool.Insert(tx)
		newHashes = append(newHashes, h)
	}
	metrics.MempoolSize.Set(float64(s.pool.Len()))
	if toAnnounce := s.filterAndRememberTxs(newHashes); len(toAnnounce) > 0 {
		s.transport.Broadcast(wire.NewTransactionHashesCode, wire.Hashes{Hashes: toAnnounce})
	}
}

// filterAndRememberTxs is filterAndRememberBlocks's transaction-hash
// counterpart.
func (s *Server) filterAndRememberTxs(hashes []common.Hash) []common.Hash {
	var out []common.Hash
	for _, h := range hashes {
		if s.knownTxs.Contains(h) {
			continue
		}
		s.knownTxs.Add(h)
		out = append(out, h)
	}
	return out
}

// checkTxValidity checks only signature validity (spec §4.6: "currently
// checks only signature validity (no balance/nonce check at admission)").
func checkTxValidity(tx chaintypes.SignedTransaction) bool {
	return tx.VerifySignature()
}

// checkBlockValidity is PoW-satisfied AND difficulty-matches-parent
// (spec §4.6).
func checkBlockValidity(block, parent *chaintypes.Block) bool {
	return block.Hash().LessOrEqual(block.Header.Difficulty) && block.Header.Difficulty == parent.Header.Difficulty
}
