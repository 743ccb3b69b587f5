package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateCode returns a uniformly random 6-digit verification code, leading
// zeros included.
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		panic(fmt.Sprintf("failed to read random source: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}
