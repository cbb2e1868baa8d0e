// Package cryptox derives password verifiers for account storage.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of per-user salts in bytes.
const SaltSize = 16

// DeriveMasterKey stretches password with Argon2id into a 32-byte key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key so the key itself never hits storage.
func MakeVerifier(masterKey []byte) []byte {
	sum := sha256.Sum256(masterKey)
	return sum[:]
}

// VerifyPassword recomputes the verifier for password and compares it to
// stored in constant time.
func VerifyPassword(password, salt, stored []byte) bool {
	key := DeriveMasterKey(password, salt)
	defer wipe(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), stored) == 1
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
