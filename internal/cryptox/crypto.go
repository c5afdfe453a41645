// Package cryptox seals small secrets, such as the session token, before they
// are written to the local database.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	keySize    = 32
	secretSize = 32
)

var ErrMalformed = errors.New("sealed value is malformed")

// DeriveKey stretches secret into a 32-byte AES-256 key with Argon2id.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// Sealer encrypts values with AES-GCM. A sealed value is the nonce followed
// by the ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer returns a Sealer for key, which must be 16, 24 or 32 bytes.
func NewSealer(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Tampered values and values sealed under another key
// fail authentication.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return nil, ErrMalformed
	}
	return s.aead.Open(nil, sealed[:n], sealed[n:], nil)
}

// LoadOrCreateSecret reads the random secret stored at path, creating it
// with owner-only permissions on first use.
func LoadOrCreateSecret(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(b) != secretSize {
			return nil, fmt.Errorf("secret %s: %w", path, ErrMalformed)
		}
		return b, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	b = make([]byte, secretSize)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return nil, err
	}
	return b, nil
}

// NewDeviceSealer builds a Sealer from the secret file at path. The key also
// depends on the host name, so a copied data directory cannot unseal values.
func NewDeviceSealer(path string) (*Sealer, error) {
	secret, err := LoadOrCreateSecret(path)
	if err != nil {
		return nil, err
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return NewSealer(DeriveKey(secret, []byte("contactx/"+host)))
}
