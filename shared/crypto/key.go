package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// GenerateKey returns 32 random bytes encoded as base64, suitable as an HS256 secret.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
