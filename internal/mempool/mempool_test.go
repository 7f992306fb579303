package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
)

func tx(nonce uint32) chaintypes.SignedTransaction {
	return chaintypes.SignedTransaction{
		Transaction: chaintypes.Transaction{
			Sender:       common.Address{0x01},
			Receiver:     common.Address{0x02},
			AccountNonce: nonce,
			Value:        1,
		},
	}
}

func TestInsertHasGet(t *testing.T) {
	p := New()
	t1 := tx(1)
	p.Insert(t1)

	require.True(t, p.Has(t1.Hash()))
	got := p.Get([]common.Hash{t1.Hash()})
	require.Len(t, got, 1)
	require.Equal(t, t1, got[0])
}

func TestMissing(t *testing.T) {
	p := New()
	t1 := tx(1)
	p.Insert(t1)

	unknown := common.Hash{0xaa}
	missing := p.Missing([]common.Hash{t1.Hash(), unknown})
	require.Equal(t, []common.Hash{unknown}, missing)
}

// TestDeleteIsWholesale covers spec §8 P7: after deletion, none of the
// given hashes remain, whether or not every one of them was present.
func TestDeleteIsWholesale(t *testing.T) {
	p := New()
	t1, t2 := tx(1), tx(2)
	p.Insert(t1)

	p.Delete(t1.Hash(), t2.Hash())

	require.False(t, p.Has(t1.Hash()))
	require.Equal(t, 0, p.Len())
}

func TestSampleBoundedByN(t *testing.T) {
	p := New()
	for i := uint32(1); i <= 10; i++ {
		p.Insert(tx(i))
	}
	sampled := p.Sample(3)
	require.Len(t, sampled, 3)
}

func TestSampleEmptyPool(t *testing.T) {
	p := New()
	require.Nil(t, p.Sample(5))
}
