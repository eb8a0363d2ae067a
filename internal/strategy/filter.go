package strategy

import "github.com/TomMakinMPF/fifoinvestor/internal/model"

// RowFilter is a composable display predicate over a finished report row.
// Filtering is a caller-side concern, deliberately separate from the
// oscillator and classifier contracts.
type RowFilter func(model.ReportRow) bool

// MinCloseFilter excludes rows whose latest close is below floor. A floor of
// zero keeps everything (e.g. currency groups have no penny-stock cutoff).
func MinCloseFilter(floor float64) RowFilter {
	return func(row model.ReportRow) bool {
		return floor <= 0 || row.Close >= floor
	}
}

// AllOf combines filters; a row passes only if every filter passes.
func AllOf(filters ...RowFilter) RowFilter {
	return func(row model.ReportRow) bool {
		for _, f := range filters {
			if !f(row) {
				return false
			}
		}
		return true
	}
}
