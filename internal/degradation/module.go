package degradation

import (
	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

// ModuleDegradation returns the hourly remaining output fraction of the PV
// modules over their life. Output drops by degradation/12 every month.
func ModuleDegradation(m model.ModuleSpec) []float64 {
	months := m.Life * timeline.MonthsPerYear
	monthly := make([]float64, months)
	step := m.Degradation / timeline.MonthsPerYear
	for i := range monthly {
		monthly[i] = 1 - step*float64(i)
	}
	return timeline.MonthlyToHourly(monthly)
}
