package matching

import "github.com/sirupsen/logrus"

// PolicyMaker orchestrates the DA engine across every (grade,
// assignment_type) cohort in a graph, applying the pre- and post-round
// rewrites the core engine itself knows nothing about: sibling priority
// upgrades, linked-applicant reordering, quota-order rewrites, secured-
// enrollment truncation, capacity transfer between quotas, and forced
// secured-enrollment admission.
type PolicyMaker struct {
	cfg      MatchConfig
	engine   *Engine
	profiles *priorityProfileLookup
	quotas   *quotaOrderTable
}

// NewPolicyMaker builds a PolicyMaker bound to one MatchConfig.
func NewPolicyMaker(cfg MatchConfig) *PolicyMaker {
	return &PolicyMaker{
		cfg:    cfg,
		engine: NewEngine(),
	}
}

// Run executes one full match over graph: every cohort, special assignment
// types first then the regular type last, grades ordered per cfg.GradeOrder,
// through prep, the DA engine, and post-round adjustments.
func (pm *PolicyMaker) Run(graph *Graph) error {
	pm.profiles = newPriorityProfileLookup(graph.PriorityProfiles)
	pm.quotas = newQuotaOrderTable(graph.QuotaOrder)

	for _, ck := range graph.Cohorts(pm.cfg.GradeOrder) {
		ids := graph.ByCohort[ck]
		logrus.Infof("[round grade=%d type=%d] starting, %d applicants", ck.Grade, ck.Type, len(ids))

		pm.prepCohort(graph, ids)
		if err := pm.engine.Run(ids, graph); err != nil {
			return err
		}
		pm.postCohort(graph, ids)

		matched := 0
		for _, id := range ids {
			if graph.Applicants[id].Matched {
				matched++
			}
		}
		logrus.Infof("[round grade=%d type=%d] finished, %d/%d matched", ck.Grade, ck.Type, matched, len(ids))
	}
	return nil
}

// prepCohort applies every pre-round rewrite the configuration enables, in
// the fixed order the reference orchestrator uses: sibling priority, linked
// reorder, quota order, then secured-enrollment truncation.
func (pm *PolicyMaker) prepCohort(graph *Graph, ids []ApplicantID) {
	if pm.cfg.ApplySiblingPriority {
		pm.applySiblingPriority(graph, ids)
	}
	if pm.cfg.ApplyLinkedReorder {
		pm.applyLinkedReorder(graph, ids)
	}
	if pm.cfg.ApplyQuotaOrder {
		for _, id := range ids {
			applyQuotaOrder(graph.Applicants[id], pm.quotas)
		}
	}
	if pm.cfg.TruncateAtSE {
		for _, id := range ids {
			graph.Applicants[id].TruncateAtSE()
		}
	}
}

// postCohort applies every post-round rewrite: capacity transfer between
// sibling quotas of the same program, then forced secured-enrollment
// admission for anyone who ended the round unmatched.
func (pm *PolicyMaker) postCohort(graph *Graph, ids []ApplicantID) {
	if pm.cfg.TransferCapacity {
		pm.transferCapacity(graph, ids)
	}
	if pm.cfg.ForceSEAdmission {
		pm.forceSEAdmission(graph, ids)
	}
}

// applySiblingPriority upgrades an applicant's priority profile at every
// preference entry sharing an institution with a program a sibling is
// already admitted to, per the transition table. A sibling's admitted
// institution is read off their assigned program directly, so it upgrades
// every preference the applicant holds at that institution, not only an
// entry matching the sibling's exact (program_id, quota_id). Applicants are
// visited in ascending ApplicantID order, and within an applicant,
// institution matches are visited in ascending institution-id order -- the
// documented resolution for a transition table that is not idempotent under
// visit order.
func (pm *PolicyMaker) applySiblingPriority(graph *Graph, ids []ApplicantID) {
	sorted := sortedCopy(ids)
	for _, id := range sorted {
		a := graph.Applicants[id]
		if len(a.Siblings) == 0 {
			continue
		}
		admittedInstitutions := map[InstitutionID]bool{}
		for _, sibID := range a.Siblings {
			sib, ok := graph.Applicants[sibID]
			if !ok || !sib.Matched || sib.AssignedProgram == nil {
				continue
			}
			program, ok := graph.Programs[*sib.AssignedProgram]
			if !ok {
				continue
			}
			admittedInstitutions[program.InstitutionID] = true
		}
		if len(admittedInstitutions) == 0 {
			continue
		}
		for _, e := range sortedEntriesByInstitution(a.Prefs, admittedInstitutions) {
			pk := ProgramKey{ProgramID: e.ProgramID, QuotaID: e.QuotaID}
			profile := a.PriorityProfile[pk]
			if next, ok := pm.profiles.SiblingTransitionOf(profile); ok {
				a.UpgradePriorityProfile(pk, next)
			}
		}
	}
}

func sortedEntriesByInstitution(prefs []PreferenceEntry, keep map[InstitutionID]bool) []PreferenceEntry {
	var out []PreferenceEntry
	for _, e := range prefs {
		if keep[e.InstitutionID] {
			out = append(out, e)
		}
	}
	sortPreferencesByInstitution(out)
	return out
}

// applyLinkedReorder moves every preference an applicant shares with an
// already-matched linked applicant's institution to the front of their own
// preference list.
func (pm *PolicyMaker) applyLinkedReorder(graph *Graph, ids []ApplicantID) {
	sorted := sortedCopy(ids)
	for _, id := range sorted {
		a := graph.Applicants[id]
		if len(a.Links) == 0 {
			continue
		}
		targets := map[InstitutionID]bool{}
		for _, linkedID := range a.Links {
			linked, ok := graph.Applicants[linkedID]
			if !ok || !linked.Matched || linked.AssignedProgram == nil {
				continue
			}
			for _, e := range linked.Prefs {
				if e.ProgramID == linked.AssignedProgram.ProgramID && e.QuotaID == linked.AssignedProgram.QuotaID {
					targets[e.InstitutionID] = true
				}
			}
		}
		if len(targets) > 0 {
			a.ReorderPostulation(targets, a.GradeID)
		}
	}
}

// transferCapacity moves every non-regular quota's spare seats (QuotaID !=
// 0, not full) into its program's regular quota (QuotaID 0). Only programs
// whose cohort applicants are present in ids are considered.
func (pm *PolicyMaker) transferCapacity(graph *Graph, ids []ApplicantID) {
	seen := map[ProgramID]bool{}
	for _, id := range ids {
		a := graph.Applicants[id]
		for _, e := range a.Prefs {
			seen[e.ProgramID] = true
		}
	}
	byProgram := map[ProgramID][]*Program{}
	for pk, p := range graph.Programs {
		if seen[pk.ProgramID] {
			byProgram[pk.ProgramID] = append(byProgram[pk.ProgramID], p)
		}
	}
	for programID, quotas := range byProgram {
		var total int64
		var regular *Program
		for _, p := range quotas {
			if p.QuotaID == 0 {
				regular = p
				continue
			}
			total += p.GetCapacityToTransfer()
		}
		if total == 0 || regular == nil {
			continue
		}
		regular.TransferCapacityIn(total)
		logrus.Debugf("[capacity] program=%d transferred %d seats into the regular quota", programID, total)
	}
}

// forceSEAdmission ensures every applicant with a secured-enrollment option
// who ended the round unmatched gets admitted there unconditionally, growing
// the queue past capacity if necessary.
func (pm *PolicyMaker) forceSEAdmission(graph *Graph, ids []ApplicantID) {
	for _, id := range ids {
		a := graph.Applicants[id]
		if !a.HasSE() {
			continue
		}
		pk := a.SEKey()
		if a.Matched {
			continue
		}
		program, ok := graph.Programs[pk]
		if !ok {
			continue
		}
		score, ok := a.CombinedScore(pk)
		if !ok {
			score = float64(a.PriorityNumber[pk])
		}
		program.ForceSEMatch(a.ID, score)
		a.Matched = true
		a.AssignedProgram = &pk
		a.AssignedScore = score
	}
}

// CollectResults produces one AssignmentRow per applicant in graph.
func CollectResults(graph *Graph) []AssignmentRow {
	ids := make([]ApplicantID, 0, len(graph.Applicants))
	for id := range graph.Applicants {
		ids = append(ids, id)
	}
	sortApplicantIDs(ids)

	rows := make([]AssignmentRow, 0, len(ids))
	for _, id := range ids {
		a := graph.Applicants[id]
		row := AssignmentRow{ApplicantID: a.ID, GradeID: a.GradeID}
		if a.Matched && a.AssignedProgram != nil {
			pid := a.AssignedProgram.ProgramID
			qid := a.AssignedProgram.QuotaID
			score := a.AssignedScore
			profile := a.PriorityProfile[*a.AssignedProgram]
			row.ProgramID = &pid
			row.QuotaID = &qid
			row.AssignedScore = &score
			row.PriorityProfile = &profile
			if p, ok := graph.Programs[*a.AssignedProgram]; ok {
				inst := p.InstitutionID
				row.InstitutionID = &inst
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedCopy(ids []ApplicantID) []ApplicantID {
	out := append([]ApplicantID(nil), ids...)
	sortApplicantIDs(out)
	return out
}

func sortApplicantIDs(ids []ApplicantID) {
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && ids[j-1] > ids[j] {
			ids[j-1], ids[j] = ids[j], ids[j-1]
			j--
		}
	}
}
