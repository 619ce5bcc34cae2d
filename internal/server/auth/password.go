package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argon2Memory      = 64 * 1024
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltLength  = 16
	argon2KeyLength   = 32

	// MaxSecretLength bounds hashing cost for oversized inputs.
	MaxSecretLength = 1024
)

var (
	ErrEmptySecret   = errors.New("secret cannot be empty")
	ErrSecretTooLong = errors.New("secret exceeds maximum length")
)

// dummyHash is verified against when no stored hash exists, so a missing
// account costs the same time as a wrong password.
var dummyHash = mustHash("remember-timing-equalizer")

// HashSecret returns an argon2id hash of secret in the PHC string format
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if len(secret) > MaxSecretLength {
		return "", ErrSecretTooLong
	}

	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(secret), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Iterations,
		argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifySecret reports whether secret matches encodedHash. Both argon2id
// hashes and bcrypt hashes carried over from older accounts are accepted.
// Malformed hashes never match.
func VerifySecret(encodedHash, secret string) bool {
	if len(secret) > MaxSecretLength {
		return false
	}

	if isBcrypt(encodedHash) {
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(secret)) == nil
	}

	salt, hash, params, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(secret), salt, params.iterations, params.memory, params.parallelism, params.keyLength)

	return subtle.ConstantTimeCompare(hash, candidate) == 1
}

// BurnVerification spends the time of one verification and always fails.
func BurnVerification(secret string) bool {
	VerifySecret(dummyHash, secret)
	return false
}

func isBcrypt(h string) bool {
	return strings.HasPrefix(h, "$2a$") || strings.HasPrefix(h, "$2b$") || strings.HasPrefix(h, "$2y$")
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

func decodeHash(encodedHash string) (salt, hash []byte, params *argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, errors.New("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params = &argon2Params{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}
	if hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(hash) == 0 {
		return nil, nil, nil, errors.New("empty hash")
	}
	params.keyLength = uint32(len(hash))

	return salt, hash, params, nil
}

func mustHash(s string) string {
	h, err := HashSecret(s)
	if err != nil {
		panic(err)
	}
	return h
}
