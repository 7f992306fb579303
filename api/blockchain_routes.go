package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// handleLongestChain implements GET /blockchain/longest-chain (spec §6):
// a JSON array of block-hash hex strings, tip-first.
func (s *Server) handleLongestChain(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	blocks := s.chain.AllBlocksInLongestChain()
	hashes := make([]string, len(blocks))
	for i, b := range blocks {
		hashes[i] = b.Hash().Hex()
	}
	writeOK(w, hashes)
}

// handleLongestChainTx implements GET /blockchain/longest-chain-tx (spec
// §6): a JSON array of per-block tx-hash arrays, in the same tip-first
// order as longest-chain.
func (s *Server) handleLongestChainTx(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	blocks := s.chain.AllBlocksInLongestChain()
	out := make([][]string, len(blocks))
	for i, b := range blocks {
		txHashes := make([]string, len(b.Data))
		for j, tx := range b.Data {
			txHashes[j] = tx.Hash().Hex()
		}
		out[i] = txHashes
	}
	writeOK(w, out)
}

// handleBlockchainState implements GET /blockchain/state?block=<k> (spec
// §6): the account state k blocks back from the tip, 0 meaning the tip
// itself.
func (s *Server) handleBlockchainState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	k, ok := queryUint64(r, "block")
	if !ok {
		writeQueryError(w, "missing or invalid block")
		return
	}

	blocks := s.chain.AllBlocksInLongestChain()
	if int(k) >= len(blocks) {
		writeQueryError(w, "block index out of range")
		return
	}

	st, ok := s.chain.GetBlockState(blocks[k].Hash())
	if !ok {
		writeQueryError(w, "no state recorded for that block")
		return
	}

	type accountView struct {
		Address string `json:"address"`
		Nonce   uint32 `json:"nonce"`
		Balance uint32 `json:"balance"`
	}
	out := make([]accountView, 0, len(st))
	for addr, acct := range st {
		out = append(out, accountView{Address: addr.Hex(), Nonce: acct.Nonce, Balance: acct.Balance})
	}
	writeOK(w, out)
}
