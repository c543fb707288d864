package matching

import (
	"container/heap"
	"math"
)

// queueEntry is one occupant of an ApplicantQueue: an admitted applicant and
// the combined score they were admitted with.
type queueEntry struct {
	ApplicantID ApplicantID
	Score       float64
	index       int // heap bookkeeping
}

// applicantHeap is a max-heap by Score: Pop always returns the worst
// (highest-score) admitted applicant, the one evicted first when a better
// proposal arrives and capacity is full. Grounded on the teacher's
// EventQueue container/heap.Interface pattern, inverted from min-heap to
// max-heap since here the worst-ranked occupant is the eviction candidate.
type applicantHeap []*queueEntry

func (h applicantHeap) Len() int            { return len(h) }
func (h applicantHeap) Less(i, j int) bool  { return h[i].Score > h[j].Score }
func (h applicantHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *applicantHeap) Push(x interface{}) {
	e := x.(*queueEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *applicantHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// ApplicantQueue is a bounded max-heap of admitted applicants for one
// (program, quota) matching entity: the Applicant Queue component. Capacity
// occupants are the currently-admitted applicants; once the queue is full,
// admitting a better-scoring applicant evicts the current worst.
type ApplicantQueue struct {
	Capacity     int64
	OverCapacity bool // when true, Capacity is advisory only; never evicts
	entries      applicantHeap
	byApplicant  map[ApplicantID]*queueEntry
}

// NewApplicantQueue creates an empty queue with the given capacity.
func NewApplicantQueue(capacity int64) *ApplicantQueue {
	q := &ApplicantQueue{Capacity: capacity}
	q.reinit()
	return q
}

func (q *ApplicantQueue) reinit() {
	q.entries = applicantHeap{}
	q.byApplicant = map[ApplicantID]*queueEntry{}
	heap.Init(&q.entries)
}

// Reset empties the queue back to zero occupants, keeping Capacity.
func (q *ApplicantQueue) Reset() {
	q.reinit()
}

// Len reports the current occupant count.
func (q *ApplicantQueue) Len() int { return len(q.entries) }

// IsFull reports whether the queue is at or above capacity and not marked
// over-capacity (over-capacity queues never report full, matching a program
// quota that has been granted unlimited intake for one round).
func (q *ApplicantQueue) IsFull() bool {
	if q.OverCapacity {
		return false
	}
	return int64(len(q.entries)) >= q.Capacity
}

// CutOffScore is the combined score an applicant must beat to be admitted:
//   - 0 when there is spare capacity (any score admits),
//   - +Inf when capacity is zero (the quota is closed),
//   - otherwise the worst admitted score currently held (the eviction floor).
func (q *ApplicantQueue) CutOffScore() float64 {
	if q.Capacity == 0 && !q.OverCapacity {
		return math.Inf(1)
	}
	if !q.IsFull() {
		return 0
	}
	return q.entries[0].Score
}

// WorstApplicant returns the applicant currently holding the worst score in
// the queue, and ok=false if the queue is empty.
func (q *ApplicantQueue) WorstApplicant() (id ApplicantID, score float64, ok bool) {
	if len(q.entries) == 0 {
		return 0, 0, false
	}
	top := q.entries[0]
	return top.ApplicantID, top.Score, true
}

// Admit adds id at score, evicting and returning the previously-worst
// occupant when the queue was already full. evicted is 0 with ok=false when
// nothing was displaced.
func (q *ApplicantQueue) Admit(id ApplicantID, score float64) (evicted ApplicantID, evictedScore float64, ok bool) {
	if e, exists := q.byApplicant[id]; exists {
		e.Score = score
		heap.Fix(&q.entries, e.index)
		return 0, 0, false
	}
	var evictedEntry *queueEntry
	if q.IsFull() && len(q.entries) > 0 {
		evictedEntry = heap.Pop(&q.entries).(*queueEntry)
		delete(q.byApplicant, evictedEntry.ApplicantID)
	}
	e := &queueEntry{ApplicantID: id, Score: score}
	heap.Push(&q.entries, e)
	q.byApplicant[id] = e
	if evictedEntry != nil {
		return evictedEntry.ApplicantID, evictedEntry.Score, true
	}
	return 0, 0, false
}

// Remove drops id from the queue if present.
func (q *ApplicantQueue) Remove(id ApplicantID) {
	e, exists := q.byApplicant[id]
	if !exists {
		return
	}
	heap.Remove(&q.entries, e.index)
	delete(q.byApplicant, id)
}

// Occupants returns the current occupant ids in no particular order.
func (q *ApplicantQueue) Occupants() []ApplicantID {
	out := make([]ApplicantID, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e.ApplicantID)
	}
	return out
}
