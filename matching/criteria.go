package matching

import "fmt"

// CompareOp is a quota-order / characteristic-criteria comparison operator.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNEQ
	OpLT
	OpGT
)

// ParseCompareOp maps the textual operator names used in the quota_order and
// characteristic-criteria input columns to a CompareOp.
//
// "le" and "ge" intentionally map to strict "<" and ">", not "<=" and ">=".
// This reproduces a long-standing quirk of the reference eval_dict table
// (le -> operator.lt, ge -> operator.gt) that downstream quota-order rows
// have been authored against; fixing it would silently reorder quotas for
// every existing scenario.
func ParseCompareOp(s string) (CompareOp, error) {
	switch s {
	case "eq":
		return OpEQ, nil
	case "neq":
		return OpNEQ, nil
	case "le", "leq", "lt":
		return OpLT, nil
	case "ge", "geq", "gt":
		return OpGT, nil
	default:
		return 0, fmt.Errorf("criteria: unknown operator %q", s)
	}
}

// Eval applies op to (lhs, rhs), e.g. Eval(OpLT, a, b) means a < b.
func Eval(op CompareOp, lhs, rhs Value) bool {
	c := lhs.compare(rhs)
	switch op {
	case OpEQ:
		return c == 0
	case OpNEQ:
		return c != 0
	case OpLT:
		return c < 0
	case OpGT:
		return c > 0
	default:
		return false
	}
}
