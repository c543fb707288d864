package matching

// quotaOrderTable resolves, for one applicant at one priority profile, the
// ordered list of quota ids their preferences should be rewritten to follow
// within a single program/institution. Rows are declared per priority
// profile and are tried in declaration order; the first row whose
// predicates all match (SE indicator, SE-quota criteria, every
// characteristic criterion) wins. Every characteristic criterion in a row
// is ANDed -- all must pass -- matching the reference implementation's
// quota-postulation-order check.
type quotaOrderTable struct {
	rows []QuotaOrderRow
}

func newQuotaOrderTable(rows []QuotaOrderRow) *quotaOrderTable {
	return &quotaOrderTable{rows: rows}
}

// Resolve returns the ordered quota list applicable to a, for the
// preference-profile value given, and whether any row matched.
func (t *quotaOrderTable) Resolve(a *Applicant, profile int) ([]QuotaID, bool) {
	for _, row := range t.rows {
		if row.PriorityProfile != profile {
			continue
		}
		if !t.rowMatches(a, row) {
			continue
		}
		return row.OrderedQuotas, true
	}
	return nil, false
}

func (t *quotaOrderTable) rowMatches(a *Applicant, row QuotaOrderRow) bool {
	if row.SEIndicator {
		if !a.HasSE() {
			return false
		}
		if row.SEQuotaIDCriteria != "" {
			op, err := ParseCompareOp(row.SEQuotaIDCriteria)
			if err != nil {
				return false
			}
			if !Eval(op, NumberValue(float64(a.SEQuotaID)), NumberValue(float64(row.SEQuotaIDValue))) {
				return false
			}
		}
	}
	for attr, opName := range row.CharacteristicCriteria {
		op, err := ParseCompareOp(opName)
		if err != nil {
			return false
		}
		want, hasWant := row.CharacteristicValue[attr]
		have, hasHave := a.Characteristics[attr]
		if !hasWant || !hasHave {
			return false
		}
		if !Eval(op, have, want) {
			return false
		}
	}
	return true
}

// applyQuotaOrder permutes a's preference entries so that, within each
// program, quotas appear in the order quotaOrderTable resolves for that
// applicant's current priority profile at that program, leaving the
// relative order of different programs untouched.
func applyQuotaOrder(a *Applicant, table *quotaOrderTable) {
	// Group contiguous runs of the same program and
	// reorder each run by the resolved quota order; preferences for a
	// single program are expected to be contiguous in ranking order.
	i := 0
	for i < len(a.Prefs) {
		j := i + 1
		for j < len(a.Prefs) && a.Prefs[j].ProgramID == a.Prefs[i].ProgramID {
			j++
		}
		if j-i > 1 {
			pk := ProgramKey{ProgramID: a.Prefs[i].ProgramID, QuotaID: a.Prefs[i].QuotaID}
			profile := a.PriorityProfile[pk]
			if order, ok := table.Resolve(a, profile); ok {
				reorderRunByQuota(a.Prefs[i:j], order)
			}
		}
		i = j
	}
}

func reorderRunByQuota(run []PreferenceEntry, order []QuotaID) {
	rank := make(map[QuotaID]int, len(order))
	for idx, q := range order {
		rank[q] = idx
	}
	// stable insertion sort by rank, unseen quotas keep their relative
	// position after all ranked ones
	n := len(run)
	keyOf := func(e PreferenceEntry) int {
		if r, ok := rank[e.QuotaID]; ok {
			return r
		}
		return len(order) + 1
	}
	for i := 1; i < n; i++ {
		j := i
		for j > 0 && keyOf(run[j-1]) > keyOf(run[j]) {
			run[j-1], run[j] = run[j], run[j-1]
			j--
		}
	}
}
