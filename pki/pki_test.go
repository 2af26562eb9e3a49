package pki

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicnetworks/cascade/data"
)

func TestGenerateProducesVerifiableSignatures(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	signed := kp.Sign(data.Long(99))
	require.True(t, signed.Verify())
	require.Equal(t, kp.AccountKey(), signed.Signer())
}

func TestFromPrivateRebuildsSamePublicKey(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	rebuilt := FromPrivate(kp.Private)
	require.Equal(t, kp.AccountKey(), rebuilt.AccountKey())
	require.Equal(t, kp.Public, rebuilt.Public)
}

func TestDistinctKeyPairsHaveDistinctAccountKeys(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	require.NotEqual(t, a.AccountKey(), b.AccountKey())
}
