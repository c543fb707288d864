package matching

// Applicant holds one applicant's identity, preference list, and mutable
// matching state. Preference data is kept twice: an "original" copy fixed at
// construction time, and a live copy the DA engine and round orchestrator
// rewrite in place. Reset restores the live copy from the original, making a
// full rerun of the match idempotent without rebuilding the graph.
type Applicant struct {
	ID                ApplicantID
	GradeID           GradeID
	SpecialAssignment int
	SEProgramID       ProgramID
	SEQuotaID         QuotaID
	Characteristics   map[string]Value

	Siblings []ApplicantID
	Links    []ApplicantID

	originalPrefs           []PreferenceEntry
	originalPriorityNumber  map[ProgramKey]int
	originalPriorityProfile map[ProgramKey]int
	originalLotteryNumber   map[ProgramKey]float64
	originalDistance        map[ProgramKey]int

	// Prefs is the applicant's live, reorderable preference list, most
	// preferred entry first.
	Prefs           []PreferenceEntry
	PriorityNumber  map[ProgramKey]int
	PriorityProfile map[ProgramKey]int
	LotteryNumber   map[ProgramKey]float64
	Distance        map[ProgramKey]int

	// proposalIdx is the engine's cursor into Prefs: the index of the next
	// entry this applicant has not yet proposed to in the current cohort.
	proposalIdx int

	Matched         bool
	AssignedProgram *ProgramKey
	AssignedScore   float64
	OptionN         int

	// LinkedGrades records which grades triggered a linked-applicant
	// reorder for this applicant. Purely a diagnostic breadcrumb: nothing
	// downstream reads it back into matching decisions.
	LinkedGrades []GradeID
}

// NewApplicant builds an Applicant from its input record. Preferences are
// attached afterward via AddPreference.
func NewApplicant(rec ApplicantRecord) *Applicant {
	return &Applicant{
		ID:                      rec.ApplicantID,
		GradeID:                 rec.GradeID,
		SpecialAssignment:       rec.SpecialAssignment,
		SEProgramID:             rec.SEProgramID,
		SEQuotaID:               rec.SEQuotaID,
		Characteristics:         rec.Characteristics,
		originalPriorityNumber:  map[ProgramKey]int{},
		originalPriorityProfile: map[ProgramKey]int{},
		originalLotteryNumber:   map[ProgramKey]float64{},
		originalDistance:        map[ProgramKey]int{},
	}
}

// HasSE reports whether this applicant carries a secured-enrollment option.
func (a *Applicant) HasSE() bool {
	return a.SEProgramID != 0
}

// SEKey returns the applicant's secured-enrollment program key.
func (a *Applicant) SEKey() ProgramKey {
	return ProgramKey{ProgramID: a.SEProgramID, QuotaID: a.SEQuotaID}
}

// AddPreference appends one application row to the applicant's original
// preference list, in the order given by the caller (expected to already be
// sorted by ranking_program).
func (a *Applicant) AddPreference(app ApplicationRecord) {
	pk := ProgramKey{ProgramID: app.ProgramID, QuotaID: app.QuotaID}
	entry := PreferenceEntry{ProgramID: app.ProgramID, InstitutionID: app.InstitutionID, QuotaID: app.QuotaID}
	a.originalPrefs = append(a.originalPrefs, entry)
	a.originalPriorityNumber[pk] = app.PriorityNumberQuota
	a.originalPriorityProfile[pk] = app.PriorityProfileProgram
	if app.LotteryNumberQuota != nil {
		a.originalLotteryNumber[pk] = *app.LotteryNumberQuota
	}
	if app.Distance != nil {
		a.originalDistance[pk] = *app.Distance
	}
}

// Finalize must be called once, after all preferences are attached, to
// initialise the live matching state from the original copies (it runs
// Reset).
func (a *Applicant) Finalize() {
	a.Reset()
}

// Reset restores all live matching state from the original, immutable
// copies captured at construction time. Grounded on the original system's
// paired _reset_matching_attributes methods: matching state is always
// derived fresh from the original preference data, never mutated in place
// on the original.
func (a *Applicant) Reset() {
	a.Prefs = append([]PreferenceEntry(nil), a.originalPrefs...)
	a.PriorityNumber = cloneIntMap(a.originalPriorityNumber)
	a.PriorityProfile = cloneIntMap(a.originalPriorityProfile)
	a.LotteryNumber = cloneFloatMap(a.originalLotteryNumber)
	a.Distance = cloneIntMap(a.originalDistance)
	a.proposalIdx = 0
	a.Matched = false
	a.AssignedProgram = nil
	a.AssignedScore = 0
	a.OptionN = 0
	a.LinkedGrades = nil
}

func cloneIntMap(m map[ProgramKey]int) map[ProgramKey]int {
	out := make(map[ProgramKey]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFloatMap(m map[ProgramKey]float64) map[ProgramKey]float64 {
	out := make(map[ProgramKey]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetLotteryNumber records a lottery draw for (programID,quotaID) in both
// the live and original copies: lottery numbers are scenario data fixed by
// the Lottery Maker, not transient matching state, so they must survive a
// Reset the same way preference entries do.
func (a *Applicant) SetLotteryNumber(pk ProgramKey, value float64) {
	a.originalLotteryNumber[pk] = value
	a.LotteryNumber[pk] = value
}

// HasLotteryNumber reports whether a lottery draw has already been recorded
// for (programID,quotaID), checking the persisted original copy so it is
// accurate immediately after a Reset as well as mid-match.
func (a *Applicant) HasLotteryNumber(pk ProgramKey) bool {
	_, ok := a.originalLotteryNumber[pk]
	return ok
}

// CombinedScore returns priority+lottery for (programID, quotaID): the
// integer priority plus the (0,1) lottery/postulation score. ok is false
// when no lottery number has been assigned yet for this program/quota.
func (a *Applicant) CombinedScore(pk ProgramKey) (score float64, ok bool) {
	lot, ok := a.LotteryNumber[pk]
	if !ok {
		return 0, false
	}
	return float64(a.PriorityNumber[pk]) + lot, true
}

// NextProposal returns the next preference entry this applicant has not
// proposed to, advancing its internal cursor. ok is false once every
// preference has been exhausted.
func (a *Applicant) NextProposal() (entry PreferenceEntry, ok bool) {
	if a.proposalIdx >= len(a.Prefs) {
		return PreferenceEntry{}, false
	}
	entry = a.Prefs[a.proposalIdx]
	a.proposalIdx++
	return entry, true
}

// HasMoreProposals reports whether NextProposal would succeed.
func (a *Applicant) HasMoreProposals() bool {
	return a.proposalIdx < len(a.Prefs)
}

// UpgradePriorityProfile overwrites the priority profile this applicant
// carries at one specific (program,quota), e.g. as a consequence of a
// sibling already being admitted there. Returns false if the entry does not
// exist in the applicant's preference list (pk key absent from
// PriorityProfile), matching the original's "only touches programs actually
// in the preference list" behavior.
func (a *Applicant) UpgradePriorityProfile(pk ProgramKey, profile int) bool {
	if _, exists := a.PriorityProfile[pk]; !exists {
		return false
	}
	a.PriorityProfile[pk] = profile
	return true
}

// ReorderPostulation moves every preference entry whose InstitutionID is in
// targetInstitutions ahead of all others, preserving the original relative
// order within each group. When the applicant carries distance data, only
// matching entries with distance 0 are moved. grade is recorded to
// LinkedGrades for observability.
func (a *Applicant) ReorderPostulation(targetInstitutions map[InstitutionID]bool, grade GradeID) {
	if len(targetInstitutions) == 0 {
		return
	}
	hasDistance := len(a.Distance) > 0
	var moved, rest []PreferenceEntry
	for _, e := range a.Prefs {
		pk := ProgramKey{ProgramID: e.ProgramID, QuotaID: e.QuotaID}
		if targetInstitutions[e.InstitutionID] && (!hasDistance || a.Distance[pk] == 0) {
			moved = append(moved, e)
		} else {
			rest = append(rest, e)
		}
	}
	if len(moved) == 0 {
		return
	}
	a.Prefs = append(moved, rest...)
	a.LinkedGrades = append(a.LinkedGrades, grade)
}

func sortPreferencesByInstitution(entries []PreferenceEntry) {
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entries[j-1].InstitutionID > entries[j].InstitutionID {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}

// TruncateAtSE drops every preference entry that ranks worse than the
// applicant's own secured-enrollment option, once that option has been
// reached: an applicant can never rationally continue proposing below a
// place they already hold unconditionally.
func (a *Applicant) TruncateAtSE() {
	if !a.HasSE() {
		return
	}
	se := a.SEKey()
	for i, e := range a.Prefs {
		if e.ProgramID == se.ProgramID && e.QuotaID == se.QuotaID {
			a.Prefs = a.Prefs[:i+1]
			return
		}
	}
}
