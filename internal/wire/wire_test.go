package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/klay-edu/powchain/internal/chaintypes"
	"github.com/klay-edu/powchain/internal/common"
)

func TestEncodeDecodeHashes(t *testing.T) {
	in := Hashes{Hashes: []common.Hash{{0x01}, {0x02}}}
	b, err := Encode(GetBlocksCode, in)
	require.NoError(t, err)

	env, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, GetBlocksCode, env.Code)

	var out Hashes
	require.NoError(t, DecodePayload(env, &out))
	require.Equal(t, in, out)
}

func TestEncodeDecodeText(t *testing.T) {
	in := Text{Value: "Test ping"}
	b, err := Encode(PingCode, in)
	require.NoError(t, err)

	env, err := Decode(b)
	require.NoError(t, err)

	var out Text
	require.NoError(t, DecodePayload(env, &out))
	require.Equal(t, in, out)
}

func TestEncodeDecodeBlocks(t *testing.T) {
	in := Blocks{Blocks: []chaintypes.Block{
		{Length: 1, Header: chaintypes.Header{Nonce: 7}, Data: []chaintypes.SignedTransaction{}},
	}}
	b, err := Encode(BlocksCode, in)
	require.NoError(t, err)

	env, err := Decode(b)
	require.NoError(t, err)

	var out Blocks
	require.NoError(t, DecodePayload(env, &out))
	require.Equal(t, in, out)
}

func TestCodeStringCoversAllVariants(t *testing.T) {
	codes := []Code{PingCode, PongCode, NewBlockHashesCode, GetBlocksCode, BlocksCode, NewTransactionHashesCode, GetTransactionsCode, TransactionsCode}
	for _, c := range codes {
		require.NotEqual(t, "Unknown", c.String())
	}
	require.Equal(t, "Unknown", Code(999).String())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}
