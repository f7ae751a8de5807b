package encounter

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Roller produces the base d100 roll for a turn
type Roller interface {
	Roll() int
}

// RandRoller is a seeded PCG roller, safe for concurrent use
type RandRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandRoller creates a deterministic roller from a seed
func NewRandRoller(seed uint64) *RandRoller {
	return &RandRoller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSeededRoller creates a roller seeded from crypto/rand
func NewSeededRoller() (*RandRoller, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRollerSeedFailed, err)
	}
	return NewRandRoller(binary.LittleEndian.Uint64(b[:])), nil
}

// Roll returns a value in [domain.MinRoll, domain.MaxRoll]
func (r *RandRoller) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.MinRoll + r.rng.IntN(domain.MaxRoll-domain.MinRoll+1)
}

// FixedRoller replays a fixed sequence, repeating the last value
type FixedRoller struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewFixedRoller creates a roller that returns values in order
func NewFixedRoller(values ...int) *FixedRoller {
	if len(values) == 0 {
		values = []int{domain.MaxRoll}
	}
	return &FixedRoller{values: values}
}

// Roll returns the next value
func (f *FixedRoller) Roll() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values[f.next]
	if f.next < len(f.values)-1 {
		f.next++
	}
	return v
}
