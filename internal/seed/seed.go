// Package seed derives deterministic random seeds from operation names,
// so that a named pipeline step sees the same pseudo-random stream on
// every run.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// ForOperation returns a stable seed derived from the operation name.
func ForOperation(name string) int64 {
	sum := sha256.Sum256([]byte(name))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Rand returns a pseudo-random source seeded for the operation name.
func Rand(name string) *rand.Rand {
	return rand.New(rand.NewSource(ForOperation(name)))
}
