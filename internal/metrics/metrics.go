// Package metrics registers the node's prometheus counters/gauges, the
// same role the teacher's work/worker.go fills with its own
// metrics.NewRegisteredCounter calls (there, backed by go-metrics; here,
// by the client actually listed in the teacher's go.mod,
// github.com/prometheus/client_golang).
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BlocksMined = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powchain_blocks_mined_total",
		Help: "Number of blocks successfully mined by this node.",
	})
	BlocksInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "powchain_blocks_inserted_total",
		Help: "Number of blocks accepted into the block store, mined locally or received from peers.",
	})
	MempoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powchain_mempool_size",
		Help: "Current number of pending transactions.",
	})
	OrphanBufferSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "powchain_orphan_buffer_size",
		Help: "Current number of blocks buffered pending an unknown parent.",
	})
	PeerMessagesHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "powchain_peer_messages_total",
		Help: "Gossip messages handled by the network worker pool, by tag.",
	}, []string{"tag"})
)

func init() {
	prometheus.MustRegister(BlocksMined, BlocksInserted, MempoolSize, OrphanBufferSize, PeerMessagesHandled)
}
