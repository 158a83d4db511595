package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 128-bit hex IDs, optionally tagged with a
// static prefix so resource kinds stay recognizable in logs and URLs,
// e.g. "lg_6fd2..." for leagues.
type RandomGenerator struct {
	prefix string
}

func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	encoded := hex.EncodeToString(buf)
	if g.prefix == "" {
		return encoded, nil
	}
	return g.prefix + "_" + encoded, nil
}
