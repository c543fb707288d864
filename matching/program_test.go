package matching

import "testing"

func TestProgramAddToWaitlistFloorsScore(t *testing.T) {
	p := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 1}, 1, 1)
	p.AddToWaitlist(5, 3.75)
	if p.Waitlist[5] != 3 {
		t.Fatalf("expected waitlist score floored to 3, got %d", p.Waitlist[5])
	}
}

func TestProgramCapacityTransfer(t *testing.T) {
	// Non-regular quotas (QuotaID != 0) donate spare capacity; the regular
	// quota (QuotaID 0) is always the receiver, determined by QuotaID alone
	// rather than by a pre-set flag.
	donor := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 1}, 1, 3)
	donor.Queue.Admit(1, 1.0)

	receiver := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 0}, 0, 1)

	spare := donor.GetCapacityToTransfer()
	if spare != 2 {
		t.Fatalf("expected 2 spare seats, got %d", spare)
	}
	if !donor.TransferCapacity {
		t.Fatalf("expected GetCapacityToTransfer to mark the donor")
	}
	receiver.TransferCapacityIn(spare)
	if receiver.Queue.Capacity != 3 {
		t.Fatalf("expected receiver capacity to grow to 3, got %d", receiver.Queue.Capacity)
	}
	if !receiver.ReceiveCapacity {
		t.Fatalf("expected TransferCapacityIn to mark the receiver")
	}
}

func TestProgramGetCapacityToTransferRegularQuotaNeverDonates(t *testing.T) {
	regular := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 0}, 0, 5)
	if got := regular.GetCapacityToTransfer(); got != 0 {
		t.Fatalf("expected the regular quota to never donate capacity, got %d", got)
	}
}

func TestProgramTransferCapacityInIgnoresNonRegularQuota(t *testing.T) {
	special := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 1}, 1, 1)
	special.TransferCapacityIn(5)
	if special.Queue.Capacity != 1 {
		t.Fatalf("expected a non-regular quota to ignore incoming transfers, got capacity %d", special.Queue.Capacity)
	}
}

func TestProgramForceSEMatchMarksOverCapacity(t *testing.T) {
	p := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 1}, 1, 1)
	p.Queue.Admit(1, 2.0)
	p.ForceSEMatch(2, 9.0)
	if !p.Queue.OverCapacity {
		t.Fatalf("expected queue marked over-capacity after forcing past a full queue")
	}
	if p.Queue.Len() != 2 {
		t.Fatalf("expected both occupants retained, got %d", p.Queue.Len())
	}
}

func TestProgramReset(t *testing.T) {
	p := NewProgram(VacancyRecord{ProgramID: 1, QuotaID: 1}, 1, 2)
	p.Queue.Admit(1, 1.0)
	p.AddToWaitlist(2, 4.0)
	p.Reset()
	if p.Queue.Len() != 0 || len(p.Waitlist) != 0 {
		t.Fatalf("expected Reset to clear queue occupants and waitlist")
	}
	if p.Queue.Capacity != 2 {
		t.Fatalf("expected Reset to restore original capacity, got %d", p.Queue.Capacity)
	}
}
