package o2des

import (
	"hash/fnv"
	"math/rand"
	"strconv"
)

// SimulationKey uniquely identifies a reproducible simulation run. Two root
// Sandboxes constructed with the same SimulationKey, fed the same sequence of
// AddChild/Schedule calls, draw bit-for-bit identical values from their RNG
// streams (spec.md §8 invariant 4).
//
// This is the redesign the kernel's design notes call for: rather than
// re-seeding a process-global RNG (a design smell when multiple sandboxes
// with different seeds coexist), every Sandbox owns an independent stream
// derived from its root's SimulationKey, following the teacher's
// PartitionedRNG subsystem-derivation idiom (sim/rng.go in the retrieved
// inference-sim corpus).
type SimulationKey int64

// NewSimulationKey constructs a SimulationKey from a raw seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// deriveRNG returns a freshly seeded *rand.Rand for the given subsystem name,
// derived deterministically from key. The root's own stream uses the key
// directly; every other subsystem XORs the key with the FNV-1a64 hash of its
// name, isolating sibling sandboxes from one another while keeping the whole
// tree reproducible from a single seed.
func deriveRNG(key SimulationKey, name string) *rand.Rand {
	var derivedSeed int64
	if name == "" {
		derivedSeed = int64(key)
	} else {
		derivedSeed = int64(key) ^ fnv1a64(name)
	}
	return rand.New(rand.NewSource(derivedSeed))
}

// subsystemName returns the RNG-derivation name for a child Sandbox: its
// code if set, else a stable name built from its tree index.
func subsystemName(s *Sandbox) string {
	if s.code != "" {
		return s.code
	}
	return "sandbox_" + strconv.FormatInt(s.index, 10)
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
