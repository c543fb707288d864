package matching

import (
	"encoding/json"
	"fmt"
)

// Identity types. Plain int64 aliases keep program/applicant keys cheap to
// compare and hash while staying distinct at the type level.
type (
	ApplicantID   int64
	ProgramID     int64
	InstitutionID int64
	QuotaID       int64
	GradeID       int64
)

// ProgramKey identifies one matching entity: a (program, quota) pair.
// Programs with N quota types produce N entities sharing a ProgramID.
type ProgramKey struct {
	ProgramID ProgramID
	QuotaID   QuotaID
}

// PreferenceEntry is one slot in an applicant's preference list. vpostulation,
// vinstitution_id and vquota_id in the original parallel-array design are
// fields of this one record; reordering a preference list is then a single
// permutation of a []PreferenceEntry rather than three arrays kept in sync.
type PreferenceEntry struct {
	ProgramID     ProgramID
	InstitutionID InstitutionID
	QuotaID       QuotaID
}

// Value is a small tagged union for applicant-characteristic and
// quota-order criteria values, which may be numeric or textual.
type Value struct {
	Num   float64
	Str   string
	IsStr bool
}

// NumberValue wraps a numeric criteria value.
func NumberValue(f float64) Value { return Value{Num: f} }

// StringValue wraps a textual criteria value.
func StringValue(s string) Value { return Value{Str: s, IsStr: true} }

// MarshalJSON encodes a Value as the bare JSON scalar it represents, so
// scenario files can write ordinary numbers and strings instead of the tag
// struct.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsStr {
		return json.Marshal(v.Str)
	}
	return json.Marshal(v.Num)
}

// UnmarshalJSON accepts a bare JSON number or string and stores it as the
// corresponding Value variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	var asNum float64
	if err := json.Unmarshal(data, &asNum); err == nil {
		*v = NumberValue(asNum)
		return nil
	}
	var asStr string
	if err := json.Unmarshal(data, &asStr); err == nil {
		*v = StringValue(asStr)
		return nil
	}
	return fmt.Errorf("matching: characteristic value must be a JSON number or string, got %s", data)
}

// compare returns -1, 0, or 1 the way a strcmp/numcmp would.
func (v Value) compare(other Value) int {
	if v.IsStr || other.IsStr {
		switch {
		case v.Str < other.Str:
			return -1
		case v.Str > other.Str:
			return 1
		default:
			return 0
		}
	}
	switch {
	case v.Num < other.Num:
		return -1
	case v.Num > other.Num:
		return 1
	default:
		return 0
	}
}

// ApplicantRecord is one row of the applicants input table (spec §6).
type ApplicantRecord struct {
	ApplicantID       ApplicantID
	GradeID           GradeID
	SpecialAssignment int
	SEProgramID       ProgramID // 0 means "no secured enrollment"
	SEQuotaID         QuotaID
	Characteristics   map[string]Value // applicant_characteristic_* columns
}

// ApplicationRecord is one row of the applications input table (spec §6).
// LotteryNumberQuota and Distance are nil when not supplied, the former
// expected to be filled in by the Lottery Maker before matching.
type ApplicationRecord struct {
	ApplicantID            ApplicantID
	ProgramID              ProgramID
	InstitutionID          InstitutionID
	QuotaID                QuotaID
	RankingProgram         int
	PriorityNumberQuota    int
	PriorityProfileProgram int
	LotteryNumberQuota     *float64
	Distance               *int
}

// VacancyRecord is one row of the vacancies (programs) input table (spec §6).
type VacancyRecord struct {
	ProgramID        ProgramID
	InstitutionID    InstitutionID
	GradeID          GradeID
	QuotaID          QuotaID
	RegularVacancies int64
	SpecialVacancies map[int]int64 // special_<i>_vacancies
}

// PriorityProfileRecord is one row of the priority_profiles input table.
type PriorityProfileRecord struct {
	PriorityProfile   int
	SiblingTransition int
	PriorityByQuota   map[QuotaID]int // priority_q<k> columns
}

// QuotaOrderRow is one row of the quota_order input table, keyed by
// (row_key, priority_profile). Rows for the same priority profile are
// evaluated in declaration order; the first row whose predicates all
// match wins.
type QuotaOrderRow struct {
	RowKey                 string
	PriorityProfile        int
	SEIndicator            bool
	SEQuotaIDCriteria      string
	SEQuotaIDValue         QuotaID
	CharacteristicCriteria map[string]string // attribute -> operator string
	CharacteristicValue    map[string]Value
	OrderedQuotas          []QuotaID // derived from order_q<k> columns
}

// SiblingEdge is one row of the siblings input table: a directed edge.
type SiblingEdge struct {
	ApplicantID ApplicantID
	SiblingID   ApplicantID
}

// LinkEdge is one row of the links input table: a directed edge.
type LinkEdge struct {
	ApplicantID ApplicantID
	LinkedID    ApplicantID
}

// AssignmentRow is one row of the output assignment table (spec §6).
// Program-related fields are nil when the applicant matched to none.
type AssignmentRow struct {
	ApplicantID     ApplicantID
	GradeID         GradeID
	ProgramID       *ProgramID
	InstitutionID   *InstitutionID
	QuotaID         *QuotaID
	AssignedScore   *float64
	PriorityProfile *int
}
