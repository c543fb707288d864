package matching

import "sort"

// machineEpsilon mirrors sys.float_info.epsilon from the reference lottery
// maker: the smallest perturbation that reliably breaks a floating-point
// tie without disturbing the ordering of distinct lottery draws.
const machineEpsilon = 2.220446049250313e-16

// LotteryMaker fills in every applicant's lottery/postulation score for
// every program and quota they applied to, then propagates a sibling's
// drawn number (with a tiny epsilon offset, to keep siblings strictly
// ordered relative to one another) to every other sibling who applied to the
// same (program, quota) and has not already been assigned one there.
type LotteryMaker struct {
	cfg LotteryConfig
	rng *PartitionedRNG
}

// NewLotteryMaker builds a LotteryMaker from a LotteryConfig. The
// PartitionedRNG's per-subsystem derivation (masterSeed XOR
// fnv1a64(subsystemName)) gives each tie-break key its own reproducible draw
// stream: one stream shared by every applicant in "single" mode, one per
// program in "program" mode, one per (program, quota) in "quota" mode.
// Applicants draw from a shared stream in the order Run visits them.
func NewLotteryMaker(cfg LotteryConfig) *LotteryMaker {
	return &LotteryMaker{
		cfg: cfg,
		rng: NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
	}
}

// programCacheKey identifies one applicant's draw for one program, shared
// across every quota of that program in "program" tie-break mode.
type programCacheKey struct {
	ApplicantID ApplicantID
	ProgramID   ProgramID
}

// Run draws a lottery number for every (applicant, program, quota) triple in
// graph that does not already carry one, then propagates each draw across
// the sibling graph. Applicants are processed in ascending ApplicantID order
// for determinism independent of map iteration order.
//
// In "single" mode every entry for an applicant shares one draw; in
// "program" mode every quota of one program shares one draw per applicant;
// in "quota" mode each (program,quota) entry draws independently. The two
// shared-draw modes are cached here, per run, rather than re-derived from
// the subsystem RNG per entry, so one applicant sees the same value across
// the entries the mode says must agree.
func (m *LotteryMaker) Run(graph *Graph) error {
	ids := make([]ApplicantID, 0, len(graph.Applicants))
	for id := range graph.Applicants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	singleCache := map[ApplicantID]float64{}
	programCache := map[programCacheKey]float64{}

	for _, id := range ids {
		a := graph.Applicants[id]
		for _, entry := range a.Prefs {
			pk := ProgramKey{ProgramID: entry.ProgramID, QuotaID: entry.QuotaID}
			if a.HasLotteryNumber(pk) {
				continue
			}
			value := m.drawFor(a.ID, pk, singleCache, programCache)
			a.SetLotteryNumber(pk, value)
			m.propagate(graph, a, pk, value, 1)
		}
	}
	return nil
}

// drawFor returns applicantID's lottery value for pk under the configured
// tie-break mode, drawing fresh only the first time a given mode's sharing
// key is seen and reusing the cached value on every subsequent call for the
// same key.
func (m *LotteryMaker) drawFor(applicantID ApplicantID, pk ProgramKey, singleCache map[ApplicantID]float64, programCache map[programCacheKey]float64) float64 {
	switch m.cfg.Mode {
	case "single":
		if v, ok := singleCache[applicantID]; ok {
			return v
		}
		v := m.rng.ForSubsystem(subsystemApplicant).Float64()
		singleCache[applicantID] = v
		return v
	case "program":
		key := programCacheKey{ApplicantID: applicantID, ProgramID: pk.ProgramID}
		if v, ok := programCache[key]; ok {
			return v
		}
		v := m.rng.ForSubsystem(subsystemProgram(pk.ProgramID)).Float64()
		programCache[key] = v
		return v
	default: // "quota"
		return m.rng.ForSubsystem(subsystemProgramQuota(pk)).Float64()
	}
}

// propagate pushes a newly-drawn lottery value to every sibling of source
// who also applied to pk (same program and quota) and has no value there yet. Each hop
// away from the original draw adds one more multiple of machineEpsilon,
// keeping siblings strictly ordered among themselves while leaving the
// value indistinguishable from the original draw to any consumer outside
// the sibling group. Recursion always propagates the original, unperturbed
// value onward -- only the value actually stored at each sibling carries
// the accumulated epsilon offset -- and terminates naturally once every
// reachable sibling already has a value at pk.
func (m *LotteryMaker) propagate(graph *Graph, source *Applicant, pk ProgramKey, originalValue float64, depth int) {
	for _, sibID := range source.Siblings {
		sib, ok := graph.Applicants[sibID]
		if !ok {
			continue
		}
		if !appliesTo(sib, pk) {
			continue
		}
		if sib.HasLotteryNumber(pk) {
			continue
		}
		sib.SetLotteryNumber(pk, originalValue+machineEpsilon*float64(depth))
		m.propagate(graph, sib, pk, originalValue, depth+1)
	}
}

func appliesTo(a *Applicant, pk ProgramKey) bool {
	for _, e := range a.Prefs {
		if e.ProgramID == pk.ProgramID && e.QuotaID == pk.QuotaID {
			return true
		}
	}
	return false
}
