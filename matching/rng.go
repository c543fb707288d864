package matching

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible lottery run. Two lottery
// runs with the same SimulationKey and identical input MUST produce
// bit-for-bit identical lottery numbers.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Subsystem name prefixes used to derive isolated per-concern RNGs.
const (
	subsystemApplicant = "applicant"
	subsystemSibling   = "sibling"
)

func subsystemProgramQuota(pk ProgramKey) string {
	return fmt.Sprintf("program_%d_quota_%d", pk.ProgramID, pk.QuotaID)
}

func subsystemProgram(programID ProgramID) string {
	return fmt.Sprintf("program_%d", programID)
}

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem: masterSeed XOR fnv1a64(subsystemName). The same subsystem name
// always returns the same *rand.Rand instance.
//
// Not thread-safe; call from a single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem, caching it for subsequent calls.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
