package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/klay-edu/powchain/internal/chain"
	"github.com/klay-edu/powchain/internal/wire"
	"github.com/klay-edu/powchain/internal/work"
)

// Server is the HTTP control façade (spec §6). It holds no consensus
// state of its own: every route either forwards to a handle or reads
// straight from the blockchain store.
type Server struct {
	chain   *chain.Chain
	miner   work.Handle
	network broadcaster
	txgen   *txGenerator
	router  *httprouter.Router
}

// New wires the façade's six routes (spec §6) onto a fresh httprouter,
// the same router the teacher's own node/cn API layer is built on.
func New(c *chain.Chain, miner work.Handle, network broadcaster) *Server {
	s := &Server{
		chain:   c,
		miner:   miner,
		network: network,
		txgen:   newTxGenerator(network),
		router:  httprouter.New(),
	}

	s.router.GET("/miner/start", s.handleMinerStart)
	s.router.GET("/tx-generator/start", s.handleTxGeneratorStart)
	s.router.GET("/network/ping", s.handleNetworkPing)
	s.router.GET("/blockchain/longest-chain", s.handleLongestChain)
	s.router.GET("/blockchain/longest-chain-tx", s.handleLongestChainTx)
	s.router.GET("/blockchain/state", s.handleBlockchainState)
	s.router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	return s
}

// Handler wraps the router with request-id tagging and permissive CORS,
// matching the teacher's own httprouter+rs/cors pairing in its exposed
// API layer.
func (s *Server) Handler() http.Handler {
	withRequestID := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID()
			logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	return withRequestID(cors.AllowAll().Handler(s.router))
}

// ListenAndServe spawns a listener; each request is already handled on
// its own goroutine by net/http, matching the scheduling model spec §5
// assigns the HTTP layer ("the HTTP server spawns a thread per
// request").
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func queryUint64(r *http.Request, key string) (uint64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	return v, err == nil
}

func (s *Server) handleMinerStart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lambda, ok := queryUint64(r, "lambda")
	if !ok {
		writeQueryError(w, "missing or invalid lambda")
		return
	}
	s.miner.Start(time.Duration(lambda) * time.Microsecond)
	writeOK(w, nil)
}

func (s *Server) handleTxGeneratorStart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	theta, ok := queryUint64(r, "theta")
	if !ok {
		writeQueryError(w, "missing or invalid theta")
		return
	}
	s.txgen.start(time.Duration(theta) * time.Millisecond)
	writeOK(w, nil)
}

func (s *Server) handleNetworkPing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.network.Broadcast(wire.PingCode, wire.Text{Value: "Test ping"})
	writeOK(w, nil)
}
