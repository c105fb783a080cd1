package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Work factor is fixed on purpose: changing it invalidates the stored hash,
// and the single admin credential is re-seeded via the migrate command anyway.
const (
	saltSize   = 16
	iterations = 210_000
	keyLen     = 64
)

// Derive produces a fresh salt and the PBKDF2-SHA512 hash of password under
// it, both hex encoded for storage.
func Derive(password string) (saltHex, hashHex string, err error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha512.New)

	return hex.EncodeToString(salt), hex.EncodeToString(hash), nil
}

// Verify re-derives candidate under the stored salt and compares in constant
// time. Anything wrong with the stored material (missing, bad hex) is a plain
// verification failure, never a distinct error the caller could leak.
func Verify(saltHex, hashHex, candidate string) bool {
	if saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	stored, err := hex.DecodeString(hashHex)
	if err != nil || len(stored) == 0 {
		return false
	}

	derived := pbkdf2.Key([]byte(candidate), salt, iterations, len(stored), sha512.New)

	return subtle.ConstantTimeCompare(derived, stored) == 1
}
