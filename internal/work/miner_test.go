package work

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/chain"
	"github.com/klay-edu/powchain/internal/mempool"
)

// TestMinerMinesAfterStart drives the control-channel state machine
// (spec §4.5, §9): Paused blocks for Start, then the loop mines at least
// one block onto the finished-block channel.
func TestMinerMinesAfterStart(t *testing.T) {
	c := chain.New()
	pool := mempool.New()
	m := New(c, pool, 4)

	go m.Run()
	handle := m.Handle()
	handle.Start(0)

	select {
	case b := <-m.Finished():
		require.NotNil(t, b)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a mined block")
	}

	handle.Exit()
}

// TestMinerExitStopsLoop covers the ShutDown transition (spec §9
// "Paused --Start(lambda)--> Run(lambda) --Exit--> ShutDown").
func TestMinerExitStopsLoop(t *testing.T) {
	c := chain.New()
	pool := mempool.New()
	m := New(c, pool, 1)

	done := make(chan struct{})
	go func() {
		m.Run()
		close(done)
	}()

	handle := m.Handle()
	handle.Exit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("miner did not shut down after Exit")
	}
}
