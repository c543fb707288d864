package matching

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Engine runs the single-proposer Deferred Acceptance fixed point over one
// cohort: applicants propose to their most-preferred remaining program,
// programs hold the best proposals seen so far up to capacity, evicting
// their current worst occupant whenever a better proposal arrives.
type Engine struct{}

// NewEngine constructs an Engine. It carries no state of its own; all state
// lives on the Applicant and Program values it's given.
func NewEngine() *Engine { return &Engine{} }

// Run executes the DA fixed point for the applicants named by ids against
// programs in graph, until every applicant is either matched or has
// exhausted their preference list. The worklist is a LIFO stack (ids are
// pushed in the order given and popped from the tail), the documented
// resolution for the engine's proposal order: deterministic, and matching
// the reference implementation's list.pop() behavior.
func (e *Engine) Run(ids []ApplicantID, graph *Graph) error {
	worklist := append([]ApplicantID(nil), ids...)

	for len(worklist) > 0 {
		n := len(worklist) - 1
		id := worklist[n]
		worklist = worklist[:n]

		applicant, ok := graph.Applicants[id]
		if !ok {
			return fmt.Errorf("engine: unknown applicant id %d in worklist", id)
		}
		if applicant.Matched {
			continue
		}
		entry, ok := applicant.NextProposal()
		if !ok {
			// Preference list exhausted: applicant stays unmatched.
			continue
		}
		pk := ProgramKey{ProgramID: entry.ProgramID, QuotaID: entry.QuotaID}
		program, ok := graph.Programs[pk]
		if !ok {
			return fmt.Errorf("engine: applicant %d proposed to unknown program %v", id, pk)
		}
		score, ok := applicant.CombinedScore(pk)
		if !ok {
			return fmt.Errorf("engine: applicant %d has no lottery number for %v", id, pk)
		}

		cutoff := program.CutOffScore()
		switch {
		case cutoff == 0:
			e.admit(applicant, program, pk, score)
		case math.IsInf(cutoff, 1):
			e.reject(applicant, program, score)
			worklist = pushIfPending(worklist, applicant)
		case cutoff <= score:
			e.reject(applicant, program, score)
			worklist = pushIfPending(worklist, applicant)
		default: // score < cutoff: evict the current worst occupant
			evictedID, evictedScore, evicted := program.Queue.Admit(applicant.ID, score)
			applicant.Matched = true
			applicant.AssignedProgram = &pk
			applicant.AssignedScore = score
			if evicted {
				e.unmatch(graph, program, evictedID, evictedScore)
				if ev, ok := graph.Applicants[evictedID]; ok {
					worklist = pushIfPending(worklist, ev)
				}
			}
		}
	}
	logrus.Debugf("[engine] cohort of %d applicants processed", len(ids))
	return nil
}

func (e *Engine) admit(a *Applicant, p *Program, pk ProgramKey, score float64) {
	p.Queue.Admit(a.ID, score)
	a.Matched = true
	a.AssignedProgram = &pk
	a.AssignedScore = score
}

func (e *Engine) reject(a *Applicant, p *Program, score float64) {
	p.AddToWaitlist(a.ID, score)
	a.OptionN++
}

// unmatch handles an applicant evicted from a program they previously held:
// they are no longer matched there, and are waitlisted at the score they
// were evicted with (the program's former cutoff), not their own original
// score at that program.
func (e *Engine) unmatch(graph *Graph, p *Program, id ApplicantID, scoreAtEviction float64) {
	a, ok := graph.Applicants[id]
	if !ok {
		return
	}
	a.Matched = false
	a.AssignedProgram = nil
	a.AssignedScore = 0
	a.OptionN++
	p.AddToWaitlist(id, scoreAtEviction)
}

func pushIfPending(worklist []ApplicantID, a *Applicant) []ApplicantID {
	if a.HasMoreProposals() {
		return append(worklist, a.ID)
	}
	return worklist
}
