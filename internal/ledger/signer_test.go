package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func TestNewSignerRejectsBadSeeds(t *testing.T) {
	_, err := NewSigner("not-hex")
	assert.Error(t, err)

	_, err = NewSigner("abcd")
	assert.Error(t, err)

	_, err = NewSigner(testSeed)
	assert.NoError(t, err)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner(testSeed)
	require.NoError(t, err)

	sig := signer.Sign("votehash", "receipt-1", "ABCD2345")
	assert.True(t, signer.Verify("votehash", "receipt-1", "ABCD2345", sig))
}

func TestVerifyRejectsMismatchedInputs(t *testing.T) {
	signer, err := NewSigner(testSeed)
	require.NoError(t, err)

	sig := signer.Sign("votehash", "receipt-1", "ABCD2345")

	assert.False(t, signer.Verify("othervote", "receipt-1", "ABCD2345", sig))
	assert.False(t, signer.Verify("votehash", "receipt-2", "ABCD2345", sig))
	assert.False(t, signer.Verify("votehash", "receipt-1", "ABCD2346", sig))
	assert.False(t, signer.Verify("votehash", "receipt-1", "ABCD2345", "zzzz"))
	assert.False(t, signer.Verify("votehash", "receipt-1", "ABCD2345", strings.Repeat("00", 64)))
}

func TestSignDeterministicForSameSeed(t *testing.T) {
	a, err := NewSigner(testSeed)
	require.NoError(t, err)
	b, err := NewSigner(testSeed)
	require.NoError(t, err)

	assert.Equal(t, a.Sign("vh", "r", "c"), b.Sign("vh", "r", "c"))
	assert.Equal(t, a.PublicKey(), b.PublicKey())
}

func TestEphemeralSignerVerifiesItsOwnSignatures(t *testing.T) {
	signer, err := NewEphemeralSigner()
	require.NoError(t, err)

	sig := signer.Sign("vh", "r", "c")
	assert.True(t, signer.Verify("vh", "r", "c", sig))

	other, err := NewEphemeralSigner()
	require.NoError(t, err)
	assert.False(t, other.Verify("vh", "r", "c", sig))
}
