package hash

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// maxBcryptInput is the number of bytes bcrypt reads.
const maxBcryptInput = 72

// Hash hashes and verifies secrets.
type Hash interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// Bcrypt implements Hash using bcrypt. Inputs over 72 bytes are reduced to
// the base64 SHA-256 of the input first, so long passwords are not truncated.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher. cost outside bcrypt's accepted range
// falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (h *Bcrypt) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(input(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), input(plaintext)) == nil
}

func input(plaintext string) []byte {
	if len(plaintext) <= maxBcryptInput {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
