package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Signer signs vote hashes with a server-held Ed25519 key. The signature
// binds the vote hash to its receipt and verification code, so a code can
// never be replayed against a different receipt.
type Signer struct {
	priv ed25519.PrivateKey
}

// NewSigner derives the signing key from a 32-byte hex seed.
func NewSigner(seedHex string) (*Signer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid signing seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// NewEphemeralSigner generates a throwaway key. Signatures from an
// ephemeral key cannot be verified across restarts, so this is only for
// development setups without a configured seed.
func NewEphemeralSigner() (*Signer, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate signing seed: %w", err)
	}
	return &Signer{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the verification key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.priv.Public().(ed25519.PublicKey)
}

func signingMessage(voteHash, receiptID, code string) []byte {
	return []byte(fmt.Sprintf("sig|%s|%s|%s|%s", hashVersion, voteHash, receiptID, code))
}

// Sign produces the hex signature stored on the audit entry. code must
// already be normalized; transition entries pass an empty code.
func (s *Signer) Sign(voteHash, receiptID, code string) string {
	return hex.EncodeToString(ed25519.Sign(s.priv, signingMessage(voteHash, receiptID, code)))
}

// Verify checks a stored signature against the public verification key.
func (s *Signer) Verify(voteHash, receiptID, code, signature string) bool {
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(s.PublicKey(), signingMessage(voteHash, receiptID, code), sig)
}
