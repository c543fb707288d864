package matching

import (
	"math"
	"sort"
)

// Graph is the fully-linked set of applicants and programs for one scenario:
// the input for both the Lottery Maker and the Policy Maker.
type Graph struct {
	Applicants map[ApplicantID]*Applicant
	Programs   map[ProgramKey]*Program

	PriorityProfiles map[int]PriorityProfileRecord
	QuotaOrder       []QuotaOrderRow

	// ByCohort groups applicant ids by (grade, special_assignment), the
	// round-orchestration unit spec calls a cohort.
	ByCohort map[cohortKey][]ApplicantID
}

type cohortKey struct {
	Grade GradeID
	Type  int
}

// BuildGraph validates and links the raw input records into a Graph,
// accumulating every independent validation failure it finds rather than
// stopping at the first (input validation here can discover several
// unrelated problems in one pass: an unknown program, a negative capacity,
// an unparsable quota-order operator).
func BuildGraph(
	applicants []ApplicantRecord,
	applications []ApplicationRecord,
	vacancies []VacancyRecord,
	profiles []PriorityProfileRecord,
	quotaOrder []QuotaOrderRow,
	siblings []SiblingEdge,
	links []LinkEdge,
) (*Graph, error) {
	acc := &errorAccumulator{}
	g := &Graph{
		Applicants:       map[ApplicantID]*Applicant{},
		Programs:         map[ProgramKey]*Program{},
		PriorityProfiles: map[int]PriorityProfileRecord{},
		ByCohort:         map[cohortKey][]ApplicantID{},
	}

	for _, rec := range applicants {
		if rec.ApplicantID == 0 {
			acc.add(&InvariantError{Kind: "applicant", ID: rec.ApplicantID, Msg: "applicant_id must be nonzero"})
			continue
		}
		if _, dup := g.Applicants[rec.ApplicantID]; dup {
			acc.add(&InvariantError{Kind: "applicant", ID: rec.ApplicantID, Msg: "duplicate applicant_id"})
			continue
		}
		g.Applicants[rec.ApplicantID] = NewApplicant(rec)
	}

	for _, rec := range vacancies {
		if rec.RegularVacancies < 0 {
			acc.add(&InvariantError{Kind: "program", ID: rec.ProgramID, Msg: "negative regular vacancy count"})
			continue
		}
		pk := ProgramKey{ProgramID: rec.ProgramID, QuotaID: rec.QuotaID}
		if _, dup := g.Programs[pk]; dup {
			acc.add(&InvariantError{Kind: "program", ID: rec.ProgramID, Msg: "duplicate (program_id,quota_id)"})
			continue
		}
		g.Programs[pk] = NewProgram(rec, rec.QuotaID, rec.RegularVacancies)
		for specialIdx, cap := range rec.SpecialVacancies {
			if cap < 0 {
				acc.add(&InvariantError{Kind: "program", ID: rec.ProgramID, Msg: "negative special vacancy count"})
				continue
			}
			skey := ProgramKey{ProgramID: rec.ProgramID, QuotaID: QuotaID(specialIdx)}
			if _, dup := g.Programs[skey]; !dup {
				g.Programs[skey] = NewProgram(rec, QuotaID(specialIdx), cap)
			}
		}
	}

	for _, rec := range profiles {
		g.PriorityProfiles[rec.PriorityProfile] = rec
	}
	for _, row := range quotaOrder {
		if row.SEQuotaIDCriteria != "" {
			if _, err := ParseCompareOp(row.SEQuotaIDCriteria); err != nil {
				acc.add(&InvariantError{Kind: "quota_order", ID: row.RowKey, Msg: err.Error()})
			}
		}
		for _, opName := range row.CharacteristicCriteria {
			if _, err := ParseCompareOp(opName); err != nil {
				acc.add(&InvariantError{Kind: "quota_order", ID: row.RowKey, Msg: err.Error()})
			}
		}
	}
	g.QuotaOrder = quotaOrder

	appsByApplicant := map[ApplicantID][]ApplicationRecord{}
	for _, app := range applications {
		if _, ok := g.Applicants[app.ApplicantID]; !ok {
			acc.add(&ReferentialError{Kind: "application", ID: app.ApplicantID, Msg: "references unknown applicant_id"})
			continue
		}
		if _, ok := g.Programs[(ProgramKey{ProgramID: app.ProgramID, QuotaID: app.QuotaID})]; !ok {
			acc.add(&ReferentialError{Kind: "application", ID: app.ProgramID, Msg: "references unknown (program_id,quota_id)"})
			continue
		}
		appsByApplicant[app.ApplicantID] = append(appsByApplicant[app.ApplicantID], app)
	}

	for id, rows := range appsByApplicant {
		sort.Slice(rows, func(i, j int) bool { return rows[i].RankingProgram < rows[j].RankingProgram })
		a := g.Applicants[id]
		for _, row := range rows {
			a.AddPreference(row)
		}
	}

	for _, a := range g.Applicants {
		if a.HasSE() {
			if _, ok := g.Programs[a.SEKey()]; !ok {
				acc.add(&ReferentialError{Kind: "applicant", ID: a.ID, Msg: "secured enrollment program/quota does not exist"})
			}
		}
		a.Finalize()
		ck := cohortKey{Grade: a.GradeID, Type: a.SpecialAssignment}
		g.ByCohort[ck] = append(g.ByCohort[ck], a.ID)
	}

	for _, s := range siblings {
		if _, ok := g.Applicants[s.ApplicantID]; !ok {
			acc.add(&ReferentialError{Kind: "sibling", ID: s.ApplicantID, Msg: "references unknown applicant_id"})
			continue
		}
		if _, ok := g.Applicants[s.SiblingID]; !ok {
			acc.add(&ReferentialError{Kind: "sibling", ID: s.SiblingID, Msg: "references unknown applicant_id"})
			continue
		}
		g.Applicants[s.ApplicantID].Siblings = append(g.Applicants[s.ApplicantID].Siblings, s.SiblingID)
	}

	for _, l := range links {
		if _, ok := g.Applicants[l.ApplicantID]; !ok {
			acc.add(&ReferentialError{Kind: "link", ID: l.ApplicantID, Msg: "references unknown applicant_id"})
			continue
		}
		if _, ok := g.Applicants[l.LinkedID]; !ok {
			acc.add(&ReferentialError{Kind: "link", ID: l.LinkedID, Msg: "references unknown applicant_id"})
			continue
		}
		g.Applicants[l.ApplicantID].Links = append(g.Applicants[l.ApplicantID].Links, l.LinkedID)
	}

	if err := acc.result(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset restores every applicant and program to its original matching state,
// making the graph ready for another full match run.
func (g *Graph) Reset() {
	for _, a := range g.Applicants {
		a.Reset()
	}
	for _, p := range g.Programs {
		p.Reset()
	}
}

// Cohorts returns the graph's (grade, special_assignment) cohort keys in
// processing order: special assignment types (Type != 0) first in ascending
// order, then the regular type (Type 0) last, so capacity a special round
// frees up is visible before regular applicants propose. Within that,
// grade is the secondary key, ascending or descending per order ("" and
// "ascending" both mean ascending).
func (g *Graph) Cohorts(order string) []cohortKey {
	out := make([]cohortKey, 0, len(g.ByCohort))
	for ck := range g.ByCohort {
		out = append(out, ck)
	}
	descending := order == "descending"
	sort.Slice(out, func(i, j int) bool {
		ri, rj := assignmentTypeRank(out[i].Type), assignmentTypeRank(out[j].Type)
		if ri != rj {
			return ri < rj
		}
		if descending {
			return out[i].Grade > out[j].Grade
		}
		return out[i].Grade < out[j].Grade
	})
	return out
}

// assignmentTypeRank orders special assignment types (non-zero) ascending
// ahead of the regular type (0), which always sorts last.
func assignmentTypeRank(t int) int {
	if t == 0 {
		return math.MaxInt32
	}
	return t
}
