// Command powchaind assembles the node: the blockchain store, mempool,
// miner, miner worker, network worker pool and HTTP control façade,
// wired together the way the teacher's own cmd/kcn wires node, metrics
// and the debug API around one urfave/cli app.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/klay-edu/powchain/api"
	"github.com/klay-edu/powchain/internal/chain"
	"github.com/klay-edu/powchain/internal/mempool"
	"github.com/klay-edu/powchain/internal/minerworker"
	"github.com/klay-edu/powchain/internal/netsrv"
	"github.com/klay-edu/powchain/internal/wire"
	"github.com/klay-edu/powchain/internal/work"
	"github.com/klay-edu/powchain/internal/xlog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = xlog.NewModuleLogger(xlog.Chain)

var (
	httpAddrFlag = &cli.StringFlag{
		Name:  "http-addr",
		Usage: "listen address for the HTTP control façade",
		Value: ":8080",
	}
	metricsAddrFlag = &cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "listen address for the /metrics endpoint",
		Value: ":9090",
	}
	workersFlag = &cli.IntFlag{
		Name:  "network-workers",
		Usage: "number of network worker goroutines sharing the inbound channel",
		Value: 4,
	}
	inboundBufFlag = &cli.IntFlag{
		Name:  "inbound-buf",
		Usage: "size of the inbound peer-message channel",
		Value: 256,
	}
	minedBufFlag = &cli.IntFlag{
		Name:  "mined-buf",
		Usage: "size of the miner's finished-block channel",
		Value: 8,
	}
)

func main() {
	app := &cli.App{
		Name:  "powchaind",
		Usage: "a proof-of-work, account-model blockchain node",
		Flags: []cli.Flag{httpAddrFlag, metricsAddrFlag, workersFlag, inboundBufFlag, minedBufFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	defer xlog.Sync()

	bc := chain.New()
	pool := mempool.New()

	inbound := make(chan netsrv.Inbound, c.Int(inboundBufFlag.Name))
	transport := newLoopbackTransport(inbound)

	server := netsrv.New(bc, pool, transport, inbound)
	server.Run(c.Int(workersFlag.Name))

	miner := work.New(bc, pool, c.Int(minedBufFlag.Name))
	go miner.Run()

	mw := minerworker.New(bc, server.Handle(), miner.Finished())
	go mw.Run()

	httpServer := api.New(bc, miner.Handle(), server.Handle())
	go func() {
		logger.Info("http control façade listening", "addr", c.String(httpAddrFlag.Name))
		if err := httpServer.ListenAndServe(c.String(httpAddrFlag.Name)); err != nil {
			logger.Error("http façade exited", "err", err)
		}
	}()

	go func() {
		logger.Info("metrics listening", "addr", c.String(metricsAddrFlag.Name))
		if err := http.ListenAndServe(c.String(metricsAddrFlag.Name), promhttp.Handler()); err != nil {
			logger.Error("metrics server exited", "err", err)
		}
	}()

	select {}
}

// loopbackTransport is the minimal Transport this process wires up in
// place of the out-of-scope TCP layer (spec §1: "the TCP transport layer
// and per-peer I/O framing" are external collaborators). With no peers
// attached, Broadcast only logs; a real deployment replaces this with a
// transport that dials and frames connections and feeds inbound onto the
// same channel.
type loopbackTransport struct {
	inbound chan<- netsrv.Inbound
}

func newLoopbackTransport(inbound chan<- netsrv.Inbound) *loopbackTransport {
	return &loopbackTransport{inbound: inbound}
}

func (t *loopbackTransport) Broadcast(code wire.Code, payload interface{}) {
	b, err := wire.Encode(code, payload)
	if err != nil {
		logger.Error("broadcast encode failed", "code", code, "err", err)
		return
	}
	logger.Debug("broadcast", "code", code, "bytes", len(b))
}
