package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	A string
	B int
}

// TestSignVerifyRoundTrip covers spec §8 P5.
func TestSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := GenerateKey()
	require.NoError(t, err)

	msg := payload{A: "transfer", B: 7}
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	require.True(t, Verify(pub, msg, sig))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	pub, priv, err := GenerateKey()
	require.NoError(t, err)

	sig, err := Sign(priv, payload{A: "x", B: 1})
	require.NoError(t, err)

	require.False(t, Verify(pub, payload{A: "x", B: 2}, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	_, priv, err := GenerateKey()
	require.NoError(t, err)
	otherPub, _, err := GenerateKey()
	require.NoError(t, err)

	msg := payload{A: "y", B: 3}
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	require.False(t, Verify(otherPub, msg, sig))
}

func TestHashJSONDeterministic(t *testing.T) {
	msg := payload{A: "z", B: 9}
	h1, err := HashJSON(msg)
	require.NoError(t, err)
	h2, err := HashJSON(msg)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestAddressFromPublicKeyStable(t *testing.T) {
	pub, _, err := GenerateKey()
	require.NoError(t, err)
	a1 := AddressFromPublicKey(pub)
	a2 := AddressFromPublicKey(pub)
	require.Equal(t, a1, a2)
}
