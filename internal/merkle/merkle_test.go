package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/common"
)

func leaves(n int) []common.Hash {
	out := make([]common.Hash, n)
	for i := range out {
		out[i] = common.BytesToHash([]byte{byte(i + 1)})
	}
	return out
}

// TestRoundTrip covers spec §8 P6: every leaf's proof verifies against
// the tree's root.
func TestRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8, 16} {
		ls := leaves(n)
		tree := New(ls)
		root := tree.Root()
		for i, leaf := range ls {
			proof := tree.Proof(i)
			require.Truef(t, Verify(root, leaf, proof, i, n), "leaf %d of %d failed to verify", i, n)
		}
	}
}

func TestVerifyRejectsWrongLeaf(t *testing.T) {
	ls := leaves(4)
	tree := New(ls)
	root := tree.Root()
	proof := tree.Proof(0)

	wrongLeaf := common.BytesToHash([]byte{0xff})
	require.False(t, Verify(root, wrongLeaf, proof, 0, 4))
}

func TestOddLevelDuplicatesLastNode(t *testing.T) {
	ls := leaves(3)
	tree := New(ls)
	root := tree.Root()
	for i, leaf := range ls {
		proof := tree.Proof(i)
		require.True(t, Verify(root, leaf, proof, i, 3))
	}
}
