// Package authkey generates short random keys for out-of-band verification,
// such as the key mailed with a password reminder.
package authkey

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// DefaultLength is the length of a reminder key.
const DefaultLength = 8

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrInvalidLength is returned for a non-positive length.
var ErrInvalidLength = errors.New("authkey: length must be positive")

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate returns n characters drawn uniformly from [a-zA-Z0-9].
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidLength
	}

	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}

	return string(out), nil
}
