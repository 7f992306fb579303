package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
	"github.com/klay-edu/powchain/internal/state"
)

func childOf(parent *chaintypes.Block) *chaintypes.Block {
	return &chaintypes.Block{
		Length: 0, // overwritten by Insert
		Header: chaintypes.Header{
			Parent:     parent.Hash(),
			Nonce:      randomUint32(),
			Difficulty: parent.Header.Difficulty,
			Timestamp:  parent.Header.Timestamp + 1,
			MerkleRoot: randomHash(),
		},
	}
}

// TestChainMonotonicity covers spec §8 P1.
func TestChainMonotonicity(t *testing.T) {
	c := New()
	genesisHash := c.GenesisHash()
	genesis, ok := c.GetBlock(genesisHash)
	require.True(t, ok)

	b1 := childOf(genesis)
	require.NoError(t, c.Insert(b1))
	require.Equal(t, genesis.Length+1, b1.Length)

	require.Equal(t, b1.Hash(), c.Tip())
}

// TestSingleChainGrowth covers spec §8 scenario 1.
func TestSingleChainGrowth(t *testing.T) {
	c := New()
	genesisHash := c.GenesisHash()
	tipBlock, ok := c.GetBlock(genesisHash)
	require.True(t, ok)

	for i := 0; i < 49; i++ {
		next := childOf(tipBlock)
		require.NoError(t, c.Insert(next))
		tipBlock = next
	}

	require.EqualValues(t, 50, tipBlock.Length)
	tip, ok := c.GetBlock(c.Tip())
	require.True(t, ok)
	require.EqualValues(t, 50, tip.Length)
	require.Len(t, c.AllBlocksInLongestChain(), 50)
}

// TestForkedInsertion covers spec §8 scenario 2.
func TestForkedInsertion(t *testing.T) {
	c := New()
	genesisHash := c.GenesisHash()
	genesis, ok := c.GetBlock(genesisHash)
	require.True(t, ok)

	a := childOf(genesis)
	require.NoError(t, c.Insert(a))
	b := childOf(genesis)
	require.NoError(t, c.Insert(b))

	cc := childOf(b)
	require.NoError(t, c.Insert(cc))

	require.Equal(t, cc.Hash(), c.Tip())
	require.EqualValues(t, 3, cc.Length)

	d := childOf(genesis)
	require.NoError(t, c.Insert(d))

	tip, ok := c.GetBlock(c.Tip())
	require.True(t, ok)
	require.EqualValues(t, 3, tip.Length)
}

// TestLongestChainLinkage covers spec §8 P2.
func TestLongestChainLinkage(t *testing.T) {
	c := New()
	genesis, ok := c.GetBlock(c.GenesisHash())
	require.True(t, ok)

	tipBlock := genesis
	for i := 0; i < 5; i++ {
		next := childOf(tipBlock)
		require.NoError(t, c.Insert(next))
		tipBlock = next
	}

	chain := c.AllBlocksInLongestChain()
	for i := 0; i+1 < len(chain); i++ {
		require.Equal(t, chain[i].Header.Parent, chain[i+1].Hash())
	}
}

func TestInsertUnknownParentFails(t *testing.T) {
	c := New()
	orphan := &chaintypes.Block{
		Length: 2,
		Header: chaintypes.Header{Parent: common.Hash{0xff}, Nonce: 1, Difficulty: Difficulty},
	}
	err := c.Insert(orphan)
	require.ErrorIs(t, err, ErrUnknownParent)
}

func TestInsertStateAndGetBlockState(t *testing.T) {
	c := New()
	genesisHash := c.GenesisHash()
	st, ok := c.GetBlockState(genesisHash)
	require.True(t, ok)
	require.Equal(t, state.NewICOState(), st)
}

func TestWithLockRunsOperationsUnderOneLock(t *testing.T) {
	c := New()
	genesis, ok := c.GetBlock(c.GenesisHash())
	require.True(t, ok)
	b1 := childOf(genesis)

	c.WithLock(func(locked Locked) {
		require.NoError(t, locked.Insert(b1))
		locked.InsertState(b1.Hash(), state.NewICOState())
		require.True(t, locked.HasBlock(b1.Hash()))
	})

	require.True(t, c.HasBlock(b1.Hash()))
}
