// Package votecode generates and compares the short human-typable
// verification codes paired with vote receipts.
package votecode

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"
)

// alphabet omits characters that are easy to misread (0/O, 1/I/L).
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// DefaultLength is the generated code length.
const DefaultLength = 8

// New returns a cryptographically random code of n characters. Bytes at or
// above the largest multiple of the alphabet size are rejected so every
// character is equally likely.
func New(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}
	const limit = byte(256 - 256%len(alphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// Normalize maps user input onto the stored form. Comparison is
// case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Match compares a stored code against user input in constant time.
func Match(stored, supplied string) bool {
	a := []byte(Normalize(stored))
	b := []byte(Normalize(supplied))
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
