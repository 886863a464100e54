package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SecretLength is the number of random bytes behind a generated secret
const SecretLength = 32

// GenerateSecret returns a hex encoded secret read from crypto/rand
func GenerateSecret() (string, error) {
	bytes := make([]byte, SecretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
