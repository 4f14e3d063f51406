package crypto

import (
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing any of them invalidates every stored hash.
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// PasswordHasher derives a deterministic password hash: the same password
// always yields the same hash for a given pepper.
type PasswordHasher struct {
	pepper []byte
}

func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{pepper: []byte(pepper)}
}

func (h *PasswordHasher) Hash(password string) string {
	key := argon2.IDKey([]byte(password), h.pepper, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(key)
}

// Verify compares in constant time.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(password)), []byte(hash)) == 1
}
