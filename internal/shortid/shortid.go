// Package shortid generates the short shareable tokens that identify
// session links.
package shortid

import (
	"crypto/rand"
	"fmt"
)

// Length is the fixed token length.
const Length = 7

// alphabet is the 62-symbol set tokens are drawn from.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// New returns a fresh random token. Tokens are drawn independently per call
// and are not guaranteed unique; the caller must treat an insert conflict as
// retryable and ask for another one.
func New() (string, error) {
	b := make([]byte, Length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("shortid: failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}
