package matching

// Program is one matching entity: a single (program_id, quota_id) pair. A
// program offering N quota types becomes N Program values sharing a
// ProgramID, each with its own ApplicantQueue and waitlist, matching the
// "a program with N quotas becomes N matching entities" rule.
type Program struct {
	ProgramID     ProgramID
	InstitutionID InstitutionID
	GradeID       GradeID
	QuotaID       QuotaID

	originalCapacity int64
	Queue            *ApplicantQueue

	// TransferCapacity / ReceiveCapacity record whether this quota donated
	// or received seats in a post-round capacity transfer since it was built
	// or last Reset. They are bookkeeping set by GetCapacityToTransfer /
	// TransferCapacityIn themselves, not orchestration input: donor
	// eligibility is "this quota isn't full" (any non-regular quota with
	// spare seats), and the regular quota (QuotaID 0) is always the
	// receiver, exactly as the reference implementation determines both
	// dynamically rather than from a pre-set flag.
	TransferCapacity bool
	ReceiveCapacity  bool

	// Waitlist holds rejected applicants keyed by id, valued by the floor
	// of the combined score they were rejected with -- the integer part
	// only, matching the reference waitlist key convention.
	Waitlist map[ApplicantID]int64
}

// NewProgram builds a Program for one (program,quota) entity from a vacancy
// record's capacity for that quota.
func NewProgram(rec VacancyRecord, quotaID QuotaID, capacity int64) *Program {
	p := &Program{
		ProgramID:        rec.ProgramID,
		InstitutionID:    rec.InstitutionID,
		GradeID:          rec.GradeID,
		QuotaID:          quotaID,
		originalCapacity: capacity,
	}
	p.Queue = NewApplicantQueue(capacity)
	p.Waitlist = map[ApplicantID]int64{}
	return p
}

// Key returns this program's matching-entity key.
func (p *Program) Key() ProgramKey {
	return ProgramKey{ProgramID: p.ProgramID, QuotaID: p.QuotaID}
}

// Reset restores the program's queue to its original capacity and empties
// its waitlist, mirroring Applicant.Reset so a full graph reset is
// idempotent.
func (p *Program) Reset() {
	p.Queue = NewApplicantQueue(p.originalCapacity)
	p.Waitlist = map[ApplicantID]int64{}
	p.TransferCapacity = false
	p.ReceiveCapacity = false
}

// CutOffScore delegates to the underlying queue.
func (p *Program) CutOffScore() float64 {
	return p.Queue.CutOffScore()
}

// AddToWaitlist records a rejected applicant's score, floored to its
// integer part as the reference implementation's waitlist key does
// (rejected_score // 1): two applicants who differ only in lottery
// fraction share a waitlist priority tier.
func (p *Program) AddToWaitlist(id ApplicantID, score float64) {
	p.Waitlist[id] = int64(score)
}

// GetCapacityToTransfer gives away this quota's spare capacity: for any
// non-regular quota (QuotaID != 0) that isn't full, it shrinks capacity to
// the current occupancy and returns the seats freed. The regular quota never
// donates -- it is always the receiver. A donor is marked on the fly, the
// way the reference implementation's get_capacity_to_transfer sets
// transfer_capacity = True as a side effect of this same check, rather than
// depending on a flag set ahead of time by the caller.
func (p *Program) GetCapacityToTransfer() int64 {
	if p.QuotaID == 0 {
		return 0
	}
	spare := p.Queue.Capacity - int64(p.Queue.Len())
	if spare <= 0 {
		return 0
	}
	p.Queue.Capacity -= spare
	p.TransferCapacity = true
	return spare
}

// TransferCapacityIn grows this quota's capacity by amount. Only the
// regular quota (QuotaID 0) of a program ever receives transferred capacity.
func (p *Program) TransferCapacityIn(amount int64) {
	if p.QuotaID != 0 || amount <= 0 {
		return
	}
	p.Queue.Capacity += amount
	p.ReceiveCapacity = true
}

// ForceSEMatch unconditionally admits applicant id at score into this
// program's queue, marking the queue over-capacity if it was already full:
// a secured-enrollment applicant must never be rejected from their secured
// spot, even if every seat is already spoken for.
func (p *Program) ForceSEMatch(id ApplicantID, score float64) {
	if p.Queue.IsFull() {
		p.Queue.OverCapacity = true
	}
	p.Queue.Admit(id, score)
}
