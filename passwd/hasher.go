// Package passwd derives and compares password keys. Only derived keys, salts,
// the algorithm name and the iteration count are ever persisted.
package passwd

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultAlgo          = "PBKDF2WithHmacSHA256"
	DefaultIterations    = 120000
	DefaultKeyLengthBits = 256
	DefaultSaltBytes     = 16
)

var ErrInvalidParams = errors.New("invalid key derivation parameters")

// Hasher is the key-derivation service consumed by the account store.
type Hasher interface {
	GenerateSalt() ([]byte, error)
	DeriveKey(password string, salt []byte, iterations, keyLengthBits int) ([]byte, error)
	// Algorithm is the name stored beside each derived key.
	Algorithm() string
	Iterations() int
	KeyLengthBits() int
}

// PBKDF2 implements Hasher with PBKDF2-HMAC-SHA256 and random per-password salts.
type PBKDF2 struct {
	iterations int
	saltBytes  int
	keyBits    int
}

// NewPBKDF2 returns a hasher using the given iteration count for new keys.
// Non-positive counts fall back to DefaultIterations.
func NewPBKDF2(iterations int) *PBKDF2 {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PBKDF2{
		iterations: iterations,
		saltBytes:  DefaultSaltBytes,
		keyBits:    DefaultKeyLengthBits,
	}
}

func (p *PBKDF2) GenerateSalt() ([]byte, error) {
	salt := make([]byte, p.saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey runs PBKDF2 over password. keyLengthBits must be a positive
// multiple of 8.
func (p *PBKDF2) DeriveKey(password string, salt []byte, iterations, keyLengthBits int) ([]byte, error) {
	if iterations <= 0 || keyLengthBits <= 0 || keyLengthBits%8 != 0 {
		return nil, fmt.Errorf("%w: iterations=%d key_bits=%d", ErrInvalidParams, iterations, keyLengthBits)
	}
	return pbkdf2.Key([]byte(password), salt, iterations, keyLengthBits/8, sha256.New), nil
}

func (p *PBKDF2) Algorithm() string  { return DefaultAlgo }
func (p *PBKDF2) Iterations() int    { return p.iterations }
func (p *PBKDF2) KeyLengthBits() int { return p.keyBits }

var _ Hasher = (*PBKDF2)(nil)

func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// ConstantTimeEqual compares two keys without leaking timing on content.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
