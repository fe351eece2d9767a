// Package simrand provides the uniform and exponential draws the simulator
// needs, plus opaque identifier minting for transactions, blocks, and
// events. Every caller is handed its own *Source so independent
// simulations never share mutable RNG state.
package simrand

import (
	"math"
	"math/rand"

	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
)

// Source is a non-global random source. The driver and the link, peer, and
// block-tree packages each hold one rather than reaching for the package-level
// math/rand functions, so that two simulations can run side by side in the
// same process without interfering with each other.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded with the given value. Passing the same seed to
// two Sources yields identical draw sequences.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// UniformFloat returns a value drawn uniformly from [lo, hi).
func (s *Source) UniformFloat(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Float64()*(hi-lo)
}

// UniformInt returns an integer drawn uniformly from [lo, hi], inclusive of
// both endpoints.
func (s *Source) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// Exponential draws from an exponential distribution with the given mean,
// via inverse-CDF sampling: -mean*log(1-U).
func (s *Source) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	return -mean * math.Log(1.0-s.r.Float64())
}

// Perm returns a random permutation of [0, n).
func (s *Source) Perm(n int) []int {
	return s.r.Perm(n)
}

// Shuffle reorders the given slice length in place via swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// NewID mints a fresh opaque identifier. IDs are UUIDs: they carry no
// structure and are compared only for equality, matching the opaque-ID
// requirement for transactions, blocks, and events.
func NewID() (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", errors.Wrap(err, "failed to mint opaque id")
	}
	return id, nil
}

// MustNewID mints an opaque identifier and panics on failure. The underlying
// uuid.GenerateUUID call only fails if the OS random source is unavailable,
// which callers in this simulator treat as unrecoverable.
func MustNewID() string {
	id, err := NewID()
	if err != nil {
		panic(err)
	}
	return id
}
