// Package placement decides which group receives the next participant.
//
// The only balancing rule is: target one of the currently smallest groups,
// breaking ties uniformly at random. Given a fixed seed the choice sequence is
// deterministic.
package placement

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/zeebo/xxh3"
)

// ChooseTarget returns the index of a smallest group, picking uniformly among
// ties using rng. It fails with an invalid-configuration error when sizes is
// empty.
func ChooseTarget(sizes []int, rng *rand.Rand) (int, error) {
	if len(sizes) == 0 {
		return 0, errors.NewConfigurationError("no groups to choose from").
			WithField("groups").
			WithValue(0)
	}

	candidates := Candidates(sizes)
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return candidates[rng.IntN(len(candidates))], nil
}

// Candidates returns every index whose size equals the minimum, in ascending order.
func Candidates(sizes []int) []int {
	if len(sizes) == 0 {
		return nil
	}
	minSize := sizes[0]
	for _, s := range sizes[1:] {
		if s < minSize {
			minSize = s
		}
	}

	var candidates []int
	for i, s := range sizes {
		if s == minSize {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

// Picker wraps a random source and applies ChooseTarget to group contents.
// It is safe for concurrent use.
type Picker struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed uint64
}

// NewPicker returns a Picker whose choices are fully determined by seed.
func NewPicker(seed uint64) *Picker {
	return &Picker{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// NewRandomPicker returns a Picker seeded from the clock.
func NewRandomPicker() *Picker {
	return NewPicker(uint64(time.Now().UnixNano()))
}

// NewPickerFromString returns a deterministic Picker for a non-empty seed
// string, or a random one when seed is empty.
func NewPickerFromString(seed string) *Picker {
	if seed == "" {
		return NewRandomPicker()
	}
	return NewPicker(SeedFromString(seed))
}

// SeedFromString hashes a human-friendly seed ("spring-offsite") into a
// 64-bit seed.
func SeedFromString(s string) uint64 {
	return xxh3.HashString(s)
}

// Seed returns the seed this Picker was created with.
func (p *Picker) Seed() uint64 {
	return p.seed
}

// Choose returns the target group index for the given group contents.
func (p *Picker) Choose(groups [][]string) (int, error) {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return p.ChooseSizes(sizes)
}

// ChooseSizes is Choose for callers that already hold group sizes.
func (p *Picker) ChooseSizes(sizes []int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ChooseTarget(sizes, p.rng)
}

// Chooser selects a target group from the current group contents.
type Chooser interface {
	Choose(groups [][]string) (int, error)
}

// Lowest is a Chooser that breaks ties toward the lowest index.
type Lowest struct{}

// Choose returns the lowest index among the smallest groups.
func (Lowest) Choose(groups [][]string) (int, error) {
	if len(groups) == 0 {
		return 0, errors.NewConfigurationError("no groups to choose from").
			WithField("groups").
			WithValue(0)
	}
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = len(g)
	}
	return Candidates(sizes)[0], nil
}

var (
	_ Chooser = (*Picker)(nil)
	_ Chooser = Lowest{}
)
