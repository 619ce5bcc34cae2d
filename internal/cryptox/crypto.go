// Package cryptox implements the at-rest encryption used for vault secrets:
// AES-256-GCM with a random 12-byte nonce per value and a key derived from
// the server encryption secret with HKDF-SHA256.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/remember/internal/common"
	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12

	// keyInfo binds derived keys to this purpose, so the same secret used
	// elsewhere never yields the same key.
	keyInfo = "remember/vault-entries"

	// versionPrefix tags every stored ciphertext.
	versionPrefix = "v1."
)

var (
	ErrEmptySecret    = errors.New("encryption secret is empty")
	ErrEmptyPlaintext = errors.New("nothing to encrypt")
	ErrMalformed      = errors.New("malformed ciphertext")
)

// DeriveKey expands secret into a 256-bit AES key.
func DeriveKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}

// Cipher encrypts and decrypts vault secrets. It is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the AES key from secret and prepares a GCM instance.
func NewCipher(secret string) (*Cipher, error) {
	key, err := DeriveKey([]byte(secret))
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// EncryptString returns "v1." followed by base64url(nonce || ciphertext).
// Every call uses a fresh nonce, so equal inputs give different outputs.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}

	nonce := common.GenerateRandByteArray(nonceSize)
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return versionPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. Tampered or foreign values fail.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	if !IsEncrypted(encoded) {
		return "", ErrMalformed
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(encoded, versionPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < nonceSize+c.aead.Overhead() {
		return "", ErrMalformed
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether s carries the ciphertext version tag.
func IsEncrypted(s string) bool {
	return strings.HasPrefix(s, versionPrefix)
}
