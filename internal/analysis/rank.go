package analysis

import (
	"sort"

	"pvs-dispatch/internal/sweep"
)

// SummarizeAll summarizes every finished case in enumeration order.
func SummarizeAll(results sweep.Results) []CaseSummary {
	out := make([]CaseSummary, 0, len(results))
	for _, c := range results.Ordered() {
		if s, ok := SummarizeCase(c); ok {
			out = append(out, s)
		}
	}
	return out
}

// RankByUplift sorts summaries by storage revenue uplift, highest first.
// Ties keep their input order.
func RankByUplift(summaries []CaseSummary) []CaseSummary {
	out := append([]CaseSummary(nil), summaries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RevenueUplift > out[j].RevenueUplift
	})
	return out
}
