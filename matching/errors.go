package matching

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Sentinel errors. Typed errors below unwrap to one of these via errors.Is.
var (
	ErrConfig      = errors.New("matching: invalid configuration")
	ErrReferential = errors.New("matching: referential integrity violation")
	ErrInvariant   = errors.New("matching: invariant violation")
)

// ConfigError reports a malformed or out-of-range configuration value.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: field %q: %s", e.Field, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// ReferentialError reports an input record that points at an id that does
// not exist elsewhere in the scenario (e.g. an application naming a program
// absent from the vacancies table).
type ReferentialError struct {
	Kind string // "applicant", "program", "quota", "sibling", "link", ...
	ID   any
	Msg  string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("referential: %s %v: %s", e.Kind, e.ID, e.Msg)
}

func (e *ReferentialError) Unwrap() error { return ErrReferential }

// InvariantError reports input that is internally inconsistent: a program
// with a negative capacity, a duplicate or zero id, a quota-order row with
// an unparsable operator, and similar.
type InvariantError struct {
	Kind string
	ID   any
	Msg  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant: %s %v: %s", e.Kind, e.ID, e.Msg)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// errorAccumulator collects every validation failure found in one pass
// instead of stopping at the first, mirroring the three independent fatal
// error kinds described for input validation. Call result() once at the end.
type errorAccumulator struct {
	errs *multierror.Error
}

func (a *errorAccumulator) add(err error) {
	if err == nil {
		return
	}
	a.errs = multierror.Append(a.errs, err)
}

func (a *errorAccumulator) result() error {
	if a.errs == nil {
		return nil
	}
	return a.errs.ErrorOrNil()
}
