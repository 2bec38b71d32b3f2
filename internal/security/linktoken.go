package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// linkTokenBytes gives a 128-bit token space. Tokens are the only lookup
// key for expiring links, so guessing one must be computationally
// infeasible; sequential or derived ids would make links enumerable.
const linkTokenBytes = 16

// GenerateLinkToken draws a fresh capability token from crypto/rand,
// encoded URL-safe without padding (22 characters).
func GenerateLinkToken() (string, error) {
	buf := make([]byte, linkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate link token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
