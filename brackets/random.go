package brackets

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Shuffler is the only randomness pairing needs. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewSeed reads a seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// NewSource returns a PCG-backed source seeded from crypto/rand. It falls back
// to the runtime-seeded global generator if the seed cannot be read.
func NewSource() Shuffler {
	seed, err := NewSeed()
	if err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// NewSeededSource is deterministic for a given seed.
func NewSeededSource(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
