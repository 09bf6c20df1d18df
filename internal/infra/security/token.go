package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Tokens double as session keys and verification links, so they must be
// unguessable and URL safe. 32 bytes of entropy encodes to 43 characters.
const defaultTokenEntropy = 32

// RandomTokenGenerator implements the auth service's TokenGenerator port.
type RandomTokenGenerator struct {
	// Entropy is the number of random bytes per token; zero means
	// defaultTokenEntropy.
	Entropy int
}

func (g RandomTokenGenerator) NewToken() (string, error) {
	n := g.Entropy
	if n <= 0 {
		n = defaultTokenEntropy
	}
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("security: token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
