package matching

import "testing"

func TestQuotaOrderTableResolvesFirstMatchingRow(t *testing.T) {
	rows := []QuotaOrderRow{
		{
			RowKey:                 "se-only",
			PriorityProfile:        1,
			SEIndicator:            true,
			CharacteristicCriteria: map[string]string{},
			CharacteristicValue:    map[string]Value{},
			OrderedQuotas:          []QuotaID{2, 1},
		},
		{
			RowKey:          "fallback",
			PriorityProfile: 1,
			OrderedQuotas:   []QuotaID{1, 2},
		},
	}
	table := newQuotaOrderTable(rows)

	withSE := NewApplicant(ApplicantRecord{ApplicantID: 1, GradeID: 1, SEProgramID: 10, SEQuotaID: 1})
	order, ok := table.Resolve(withSE, 1)
	if !ok || order[0] != 2 {
		t.Fatalf("expected the SE row to match for an applicant with secured enrollment, got %v ok=%v", order, ok)
	}

	withoutSE := NewApplicant(ApplicantRecord{ApplicantID: 2, GradeID: 1})
	order, ok = table.Resolve(withoutSE, 1)
	if !ok || order[0] != 1 {
		t.Fatalf("expected the fallback row to match for an applicant without secured enrollment, got %v ok=%v", order, ok)
	}
}

func TestQuotaOrderTableAndsCharacteristicCriteria(t *testing.T) {
	rows := []QuotaOrderRow{
		{
			RowKey:                 "both",
			PriorityProfile:        1,
			CharacteristicCriteria: map[string]string{"income": "lt", "siblings": "eq"},
			CharacteristicValue:    map[string]Value{"income": NumberValue(100), "siblings": NumberValue(1)},
			OrderedQuotas:          []QuotaID{3},
		},
	}
	table := newQuotaOrderTable(rows)

	a := NewApplicant(ApplicantRecord{
		ApplicantID: 1, GradeID: 1,
		Characteristics: map[string]Value{"income": NumberValue(50), "siblings": NumberValue(2)},
	})
	if _, ok := table.Resolve(a, 1); ok {
		t.Fatalf("expected the row to fail because only one of two ANDed criteria matches")
	}

	a.Characteristics["siblings"] = NumberValue(1)
	if _, ok := table.Resolve(a, 1); !ok {
		t.Fatalf("expected the row to match once both ANDed criteria pass")
	}
}

func TestApplyQuotaOrderReordersWithinProgramRun(t *testing.T) {
	a := NewApplicant(ApplicantRecord{ApplicantID: 1, GradeID: 1})
	a.AddPreference(ApplicationRecord{ApplicantID: 1, ProgramID: 10, QuotaID: 1, RankingProgram: 1, PriorityProfileProgram: 1})
	a.AddPreference(ApplicationRecord{ApplicantID: 1, ProgramID: 10, QuotaID: 2, RankingProgram: 2, PriorityProfileProgram: 1})
	a.Finalize()

	table := newQuotaOrderTable([]QuotaOrderRow{
		{PriorityProfile: 1, OrderedQuotas: []QuotaID{2, 1}},
	})
	applyQuotaOrder(a, table)

	if a.Prefs[0].QuotaID != 2 || a.Prefs[1].QuotaID != 1 {
		t.Fatalf("expected quotas reordered to [2,1], got %+v", a.Prefs)
	}
}
