// Package analysis rolls hourly case output up into comparable summaries.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/sweep"
	"pvs-dispatch/internal/timeline"
)

// YearSummary is one operating year of a case.
type YearSummary struct {
	Year                int     `json:"year"`
	PVOnlyPOIMWh        float64 `json:"pv_only_poi_mwh"`
	PVSPOIMWh           float64 `json:"pvs_poi_mwh"`
	BatteryDischargeMWh float64 `json:"battery_discharge_mwh"`
	PVOnlyRevenue       float64 `json:"pv_only_revenue"`
	PVSRevenue          float64 `json:"pvs_revenue"`
}

// CaseSummary compares the PV-only plant against PV plus storage for one
// case. Energies are MWh at the POI unless noted, revenue is energy times
// the combined rate.
type CaseSummary struct {
	CaseID       string  `json:"case_id"`
	DCAC         float64 `json:"dc_ac"`
	InverterMW   float64 `json:"inverter_mw"`
	PCSMW        float64 `json:"pcs_mw"`
	BatteryHours float64 `json:"battery_hours"`

	Days          int `json:"days"`
	ArbitrageDays int `json:"arbitrage_days"`

	PVOnlyPOIMWh        float64 `json:"pv_only_poi_mwh"`
	PVSPOIMWh           float64 `json:"pvs_poi_mwh"`
	BatteryDischargeMWh float64 `json:"battery_discharge_mwh"`
	ChargedMWh          float64 `json:"charged_mwh"` // battery side
	ClipHarvestMWh      float64 `json:"clip_harvest_mwh"`
	WastedPVMWh         float64 `json:"wasted_pv_mwh"` // array side

	PVOnlyRevenue float64 `json:"pv_only_revenue"`
	PVSRevenue    float64 `json:"pvs_revenue"`
	RevenueUplift float64 `json:"revenue_uplift"`

	// Energy-weighted average combined rate of exported energy.
	AvgRatePVOnly float64 `json:"avg_rate_pv_only"`
	AvgRatePVS    float64 `json:"avg_rate_pvs"`

	P05Rate float64 `json:"p05_rate"`
	P95Rate float64 `json:"p95_rate"`

	Years []YearSummary `json:"years"`
}

// SummarizeCase summarizes a case that has been run. It returns false if
// the case has no result.
func SummarizeCase(c *sweep.Case) (CaseSummary, bool) {
	if c == nil || c.Result == nil {
		return CaseSummary{}, false
	}
	s := Summarize(c.ID, c.Result)
	s.DCAC = c.DCAC
	s.InverterMW = c.InverterMW
	s.PCSMW = c.PCSMW
	s.BatteryHours = c.BatteryHours
	return s, true
}

// Summarize rolls a horizon result up into totals and per-year figures.
func Summarize(id string, res *horizon.Result) CaseSummary {
	s := CaseSummary{CaseID: id, Days: res.Days, ArbitrageDays: res.ArbitrageDays}
	out := res.Output
	n := out.Len()
	if n == 0 {
		return s
	}

	pvs := make([]float64, n)
	floats.AddTo(pvs, out.PVToPOI, out.BatteryToPOI)

	s.PVOnlyPOIMWh = floats.Sum(out.PVOnlyPOI)
	s.PVSPOIMWh = floats.Sum(pvs)
	s.BatteryDischargeMWh = floats.Sum(out.BatteryToPOI)
	s.ChargedMWh = floats.Sum(out.Charged)
	s.ClipHarvestMWh = floats.Sum(out.ClipHarvest)
	s.WastedPVMWh = floats.Sum(out.WastedPV)

	s.PVOnlyRevenue = floats.Dot(out.PVOnlyPOI, out.CombinedRate)
	s.PVSRevenue = floats.Dot(pvs, out.CombinedRate)
	s.RevenueUplift = s.PVSRevenue - s.PVOnlyRevenue
	s.AvgRatePVOnly = safeDiv(s.PVOnlyRevenue, s.PVOnlyPOIMWh)
	s.AvgRatePVS = safeDiv(s.PVSRevenue, s.PVSPOIMWh)

	rates := append([]float64(nil), out.CombinedRate...)
	sort.Float64s(rates)
	s.P05Rate = percentileSorted(rates, 0.05)
	s.P95Rate = percentileSorted(rates, 0.95)

	for from := 0; from < n; from += timeline.HoursPerYear {
		to := min(from+timeline.HoursPerYear, n)
		y := YearSummary{
			Year:                timeline.YearOfHour(from),
			PVOnlyPOIMWh:        floats.Sum(out.PVOnlyPOI[from:to]),
			PVSPOIMWh:           floats.Sum(pvs[from:to]),
			BatteryDischargeMWh: floats.Sum(out.BatteryToPOI[from:to]),
			PVOnlyRevenue:       floats.Dot(out.PVOnlyPOI[from:to], out.CombinedRate[from:to]),
			PVSRevenue:          floats.Dot(pvs[from:to], out.CombinedRate[from:to]),
		}
		s.Years = append(s.Years, y)
	}
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
