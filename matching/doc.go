// Package matching implements a school-choice Deferred Acceptance matcher.
//
// # Reading Guide
//
// Start with these three files to understand the matching kernel:
//   - applicant.go: Applicant preference vectors, priorities, and dynamic re-ranking
//   - queue.go + program.go: per-(program,quota) capacity and the waitlist
//   - engine.go: the single-proposer DA fixed-point loop
//
// # Architecture
//
// The round orchestrator (policy.go) enumerates (grade, assignment_type)
// cohorts, applies sibling/linked/quota-order/secured-enrollment rewrites
// between rounds, and invokes the DA engine once per cohort. The lottery
// maker (lottery.go) runs as a separate, optional pre-pass that fills in
// lottery_number_quota before any matching happens.
//
// # Key Types
//
//   - Applicant: one applicant's identity plus mutable matching state
//   - Program: one (program_id, quota_id) matching entity and its queues
//   - ApplicantQueue: bounded max-heap keyed by combined score
//   - Engine: the DA fixed point over one cohort
//   - PolicyMaker: round orchestration across cohorts
//   - LotteryMaker: lottery number generation with sibling propagation
package matching
