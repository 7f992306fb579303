package api

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/crypto"
	"github.com/klay-edu/powchain/internal/wire"
)

// broadcaster is the narrow slice of netsrv.ServerHandle the generator
// needs.
type broadcaster interface {
	Broadcast(code wire.Code, payload interface{})
}

// txGenerator drives the "random-tx gossip" façade feature (spec §6
// "/tx-generator/start", §9 "Global mutable state": a once-guard
// prevents more than one period from ever being active for the life of
// the process). It never touches the local mempool directly — like a
// normal peer, it only gossips Transactions to the network.
type txGenerator struct {
	once    sync.Once
	network broadcaster
}

func newTxGenerator(network broadcaster) *txGenerator {
	return &txGenerator{network: network}
}

// start launches the generator loop exactly once; subsequent calls are
// no-ops regardless of the theta they pass.
func (g *txGenerator) start(theta time.Duration) {
	g.once.Do(func() {
		go g.run(theta)
	})
}

func (g *txGenerator) run(theta time.Duration) {
	for {
		if tx, ok := randomSignedTransaction(); ok {
			g.network.Broadcast(wire.TransactionsCode, wire.Transactions{Transactions: []chaintypes.SignedTransaction{tx}})
		}
		time.Sleep(theta)
	}
}

// randomSignedTransaction builds a signed transaction under a fresh,
// throwaway keypair naming a random receiver. It is signature-valid
// (checkTxValidity admits it) regardless of whether the sender has any
// balance on chain — the same leniency the mempool's admission rule
// documents (spec §4.6, §9 "Sender/public-key unbinding").
func randomSignedTransaction() (chaintypes.SignedTransaction, bool) {
	pub, priv, err := crypto.GenerateKey()
	if err != nil {
		logger.Warn("tx generator: key generation failed", "err", err)
		return chaintypes.SignedTransaction{}, false
	}
	tx := chaintypes.Transaction{
		Sender:       common.BytesToAddress(randomBytes(common.AddressLength)),
		Receiver:     common.BytesToAddress(randomBytes(common.AddressLength)),
		AccountNonce: 1,
		Value:        randomUint32()%50 + 1,
	}
	signed, err := chaintypes.Sign(tx, priv, pub)
	if err != nil {
		logger.Warn("tx generator: sign failed", "err", err)
		return chaintypes.SignedTransaction{}, false
	}
	return signed, true
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

func randomUint32() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint32(b[:])
}
