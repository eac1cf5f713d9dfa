package internal

import "math/rand/v2"

// BlueprintLength is the number of values shared with every client in a
// room. Clients derive the whole obstacle course from this sequence, so
// one broadcast per cycle replaces a recurring per-obstacle spawn
// broadcast.
const BlueprintLength = 2000

// Blueprint is an ordered sequence of pseudo-random values in [0, 1).
// Every session viewing the same cycle of the same room must receive
// identical values; reproducibility across restarts or across rooms is
// not required.
type Blueprint []float64

// Generator produces blueprints. Rooms call it on creation and on every
// return to lobby.
type Generator interface {
	Generate() Blueprint
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func() Blueprint

func (f GeneratorFunc) Generate() Blueprint { return f() }

// NewGenerator returns the default generator, backed by the shared
// math/rand source. Successive calls yield independent sequences.
func NewGenerator() Generator {
	return GeneratorFunc(func() Blueprint {
		bp := make(Blueprint, BlueprintLength)
		for i := range bp {
			bp[i] = rand.Float64()
		}
		return bp
	})
}

// NewSeededGenerator returns a generator whose output is fully
// determined by seed. Intended for deterministic test fixtures; the
// external contract does not depend on it.
func NewSeededGenerator(seed uint64) Generator {
	src := rand.New(rand.NewPCG(seed, seed))
	return GeneratorFunc(func() Blueprint {
		bp := make(Blueprint, BlueprintLength)
		for i := range bp {
			bp[i] = src.Float64()
		}
		return bp
	})
}
