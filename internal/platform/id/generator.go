package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SeedBytes matches the size of draw seeds committed when a wheel is locked.
const SeedBytes = 32

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// SeedSource creates hex encoded secrets for commit-reveal draws.
type SeedSource interface {
	NewSeed() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	return randomHex(16)
}

func (g *RandomGenerator) NewSeed() (string, error) {
	return randomHex(SeedBytes)
}

func randomHex(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
