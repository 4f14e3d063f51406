package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

const (
	codeMin = 1_000_000
	codeMax = 2_000_000
)

// GenerateCode returns a random 7-digit authorization code in [1000000, 2000000).
func GenerateCode() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin))
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}
	return codeMin + n.Int64(), nil
}

func HashCode(code int64) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(strconv.FormatInt(code, 10)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	return string(hash), nil
}

func CompareCode(hash string, code int64) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strconv.FormatInt(code, 10))) == nil
}
