package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateRandomString generates a cryptographically secure random string
// using the provided charset and length
func GenerateRandomString(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(fmt.Sprintf("failed to generate random string: %v", err))
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// GenerateFileName returns an unguessable stored name that keeps the
// lower-cased extension of the uploaded name.
func GenerateFileName(original string) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	ext := strings.ToLower(filepath.Ext(original))
	return strings.ReplaceAll(uuid.NewString(), "-", "") + GenerateRandomString(8, charset) + ext
}
