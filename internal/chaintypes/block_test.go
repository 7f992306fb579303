package chaintypes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/common"
)

func TestBlockHashIsHeaderHash(t *testing.T) {
	b := Block{
		Length: 1,
		Header: Header{
			Parent:     common.Hash{},
			Nonce:      42,
			Difficulty: common.Hash{0x00, 0x80},
			Timestamp:  1000,
			MerkleRoot: common.Hash{0x01},
		},
	}
	require.Equal(t, b.Header.Hash(), b.Hash())
}

func TestBlockHashChangesWithNonce(t *testing.T) {
	base := Header{Parent: common.Hash{}, Difficulty: common.Hash{0x00, 0x80}, Timestamp: 1}
	h1 := base
	h1.Nonce = 1
	h2 := base
	h2.Nonce = 2
	require.NotEqual(t, h1.Hash(), h2.Hash())
}
