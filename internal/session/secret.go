package session

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecret creates a random 32-byte secret encoded as hex.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSecret turns a configured secret into key bytes. Hex strings are
// decoded, anything else is used as raw bytes.
func DecodeSecret(secret string) []byte {
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) > 0 {
		return decoded
	}
	return []byte(secret)
}
