package identity

import (
	"math/rand/v2"
)

const (
	// Length is the size of generated circuit and device ids.
	Length = 8

	alphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxRedraws = 16
)

// Allocator hands out short ids for new circuits and devices.
type Allocator struct {
	rng *rand.Rand
}

// NewAllocator creates an allocator seeded from the runtime.
func NewAllocator() *Allocator {
	return &Allocator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededAllocator creates a deterministic allocator, mostly for tests.
func NewSeededAllocator(seed1, seed2 uint64) *Allocator {
	return &Allocator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewShortID returns a random Length-character id of digits and uppercase letters.
func (a *Allocator) NewShortID() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = alphabet[a.rng.IntN(len(alphabet))]
	}
	return string(b)
}

// Next returns an id for which taken reports false. After a bounded number of
// redraws the last candidate is returned anyway.
func (a *Allocator) Next(taken func(string) bool) string {
	id := a.NewShortID()
	for i := 0; taken != nil && taken(id) && i < maxRedraws; i++ {
		id = a.NewShortID()
	}
	return id
}
