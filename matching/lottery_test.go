package matching

import "testing"

func buildLotteryGraph(t *testing.T) *Graph {
	t.Helper()
	applicants := []ApplicantRecord{
		{ApplicantID: 1, GradeID: 1},
		{ApplicantID: 2, GradeID: 1},
	}
	vacancies := []VacancyRecord{
		{ProgramID: 10, InstitutionID: 100, GradeID: 1, QuotaID: 1, RegularVacancies: 1},
	}
	applications := []ApplicationRecord{
		{ApplicantID: 1, ProgramID: 10, InstitutionID: 100, QuotaID: 1, RankingProgram: 1, PriorityNumberQuota: 1},
		{ApplicantID: 2, ProgramID: 10, InstitutionID: 100, QuotaID: 1, RankingProgram: 1, PriorityNumberQuota: 1},
	}
	siblings := []SiblingEdge{{ApplicantID: 1, SiblingID: 2}, {ApplicantID: 2, SiblingID: 1}}
	g, err := BuildGraph(applicants, applications, vacancies, nil, nil, siblings, nil)
	if err != nil {
		t.Fatalf("unexpected BuildGraph error: %v", err)
	}
	return g
}

func TestLotteryMakerAssignsEveryApplication(t *testing.T) {
	g := buildLotteryGraph(t)
	if err := RunLottery(g, LotteryConfig{Seed: 42, Mode: "quota"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pk := ProgramKey{ProgramID: 10, QuotaID: 1}
	for _, id := range []ApplicantID{1, 2} {
		if !g.Applicants[id].HasLotteryNumber(pk) {
			t.Fatalf("expected applicant %d to have a lottery number for %v", id, pk)
		}
	}
}

func TestLotteryMakerIsReproducible(t *testing.T) {
	g1 := buildLotteryGraph(t)
	g2 := buildLotteryGraph(t)
	cfg := LotteryConfig{Seed: 7, Mode: "program"}
	if err := RunLottery(g1, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RunLottery(g2, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pk := ProgramKey{ProgramID: 10, QuotaID: 1}
	v1, _ := g1.Applicants[1].CombinedScore(pk)
	v2, _ := g2.Applicants[1].CombinedScore(pk)
	if v1 != v2 {
		t.Fatalf("expected the same seed to produce the same draw, got %v vs %v", v1, v2)
	}
}

func TestLotteryMakerPropagatesToSiblingsWithOffset(t *testing.T) {
	g := buildLotteryGraph(t)
	if err := RunLottery(g, LotteryConfig{Seed: 1, Mode: "quota"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pk := ProgramKey{ProgramID: 10, QuotaID: 1}
	v1 := g.Applicants[1].LotteryNumber[pk]
	v2 := g.Applicants[2].LotteryNumber[pk]
	diff := v1 - v2
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		t.Fatalf("expected siblings to carry distinct, but very close, lottery values")
	}
	if diff > 1e-10 {
		t.Fatalf("expected sibling offset to be epsilon-scale, got difference %v", diff)
	}
}

func buildMultiEntryLotteryGraph(t *testing.T) *Graph {
	t.Helper()
	applicants := []ApplicantRecord{{ApplicantID: 1, GradeID: 1}}
	vacancies := []VacancyRecord{
		{ProgramID: 10, InstitutionID: 100, GradeID: 1, QuotaID: 0, RegularVacancies: 1},
		{ProgramID: 10, InstitutionID: 100, GradeID: 1, QuotaID: 1, RegularVacancies: 1},
		{ProgramID: 20, InstitutionID: 200, GradeID: 1, QuotaID: 0, RegularVacancies: 1},
	}
	applications := []ApplicationRecord{
		{ApplicantID: 1, ProgramID: 10, InstitutionID: 100, QuotaID: 0, RankingProgram: 1, PriorityNumberQuota: 1},
		{ApplicantID: 1, ProgramID: 10, InstitutionID: 100, QuotaID: 1, RankingProgram: 2, PriorityNumberQuota: 1},
		{ApplicantID: 1, ProgramID: 20, InstitutionID: 200, QuotaID: 0, RankingProgram: 3, PriorityNumberQuota: 1},
	}
	g, err := BuildGraph(applicants, applications, vacancies, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected BuildGraph error: %v", err)
	}
	return g
}

func TestLotteryMakerSingleModeSharesOneDrawPerApplicant(t *testing.T) {
	g := buildMultiEntryLotteryGraph(t)
	if err := RunLottery(g, LotteryConfig{Seed: 3, Mode: "single"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := g.Applicants[1]
	want := a.LotteryNumber[ProgramKey{ProgramID: 10, QuotaID: 0}]
	for _, pk := range []ProgramKey{{ProgramID: 10, QuotaID: 1}, {ProgramID: 20, QuotaID: 0}} {
		if got := a.LotteryNumber[pk]; got != want {
			t.Fatalf("expected single mode to share one draw across every entry, got %v vs %v at %v", got, want, pk)
		}
	}
}

func TestLotteryMakerProgramModeSharesOneDrawPerApplicantProgram(t *testing.T) {
	g := buildMultiEntryLotteryGraph(t)
	if err := RunLottery(g, LotteryConfig{Seed: 3, Mode: "program"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := g.Applicants[1]
	sameProgram := a.LotteryNumber[ProgramKey{ProgramID: 10, QuotaID: 0}]
	if got := a.LotteryNumber[ProgramKey{ProgramID: 10, QuotaID: 1}]; got != sameProgram {
		t.Fatalf("expected program mode to share one draw across quotas of the same program, got %v vs %v", got, sameProgram)
	}
	otherProgram := a.LotteryNumber[ProgramKey{ProgramID: 20, QuotaID: 0}]
	if otherProgram == sameProgram {
		t.Fatalf("expected a distinct draw for a different program")
	}
}

func TestLotteryConfigValidateRejectsUnknownMode(t *testing.T) {
	cfg := LotteryConfig{Seed: 1, Mode: "nonsense"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown lottery mode")
	}
}
