// Package losses computes the hourly power-path efficiencies and the hard
// power/energy limits the dispatcher works within.
package losses

import (
	"gonum.org/v1/gonum/floats"

	"pvs-dispatch/internal/degradation"
	"pvs-dispatch/internal/model"
)

// Losses holds hourly efficiency multipliers for each power path.
type Losses struct {
	ArrayToPOI     []float64
	ArrayToBattery []float64
	BatteryToPOI   []float64
	ArrayToNode    []float64
}

// Limits holds the component limits. The *PV fields are constant over the
// horizon; the rest are hourly.
type Limits struct {
	InverterLimitPV   float64
	POILimitPV        float64
	PCSChargeLimit    float64
	PCSDischargeLimit float64

	BatteryCharge         []float64
	BatteryDischarge      []float64
	BatteryLimitedPV      []float64
	InverterLimitedEnergy []float64
	POILimitedEnergy      []float64
}

// Calculate derives losses and limits for an hourly array energy series.
//
// poi, invNP and pcsNP are the interconnection, total inverter nameplate and
// total PCS nameplate in MW. The battery profile is zero padded or truncated
// to len(pv) first. Divisions by a zero efficiency yield 0.
func Calculate(pv []float64, poi, invNP, pcsNP float64, eq model.Equipment, batt degradation.Profile) (Losses, Limits) {
	n := len(pv)
	batt = degradation.MatchLength(batt, n)

	arrayToPOI := floats.Prod([]float64{
		eq.ModuleCollector.Eta, eq.Inverter.Eta, eq.InverterMVT.Eta, eq.InverterMVCollector.Eta, eq.GSU.Eta,
	})
	arrayToNode := floats.Prod([]float64{
		eq.ModuleCollector.Eta, eq.Inverter.Eta, eq.InverterMVT.Eta, eq.InverterMVCollector.Eta,
	})
	arrayToPCS := arrayToNode * floats.Prod([]float64{
		eq.PCSMVCollector.Eta, eq.PCSMVT.Eta, eq.PCS.Eta, eq.BatteryCollector.Eta,
	})
	pcsToPOI := floats.Prod([]float64{
		eq.BatteryCollector.Eta, eq.PCS.Eta, eq.PCSMVT.Eta, eq.PCSMVCollector.Eta, eq.GSU.Eta,
	})

	l := Losses{
		ArrayToPOI:     fill(n, arrayToPOI),
		ArrayToBattery: make([]float64, n),
		BatteryToPOI:   make([]float64, n),
		ArrayToNode:    fill(n, arrayToNode),
	}

	lim := Limits{
		InverterLimitPV:       safeDiv(safeDiv(invNP, eq.Inverter.Eta), eq.ModuleCollector.Eta),
		POILimitPV:            safeDiv(poi, arrayToPOI),
		PCSChargeLimit:        pcsNP * eq.BatteryCollector.Eta,
		PCSDischargeLimit:     safeDiv(safeDiv(pcsNP, eq.BatteryCollector.Eta), eq.PCS.Eta),
		BatteryCharge:         make([]float64, n),
		BatteryDischarge:      make([]float64, n),
		BatteryLimitedPV:      make([]float64, n),
		InverterLimitedEnergy: make([]float64, n),
		POILimitedEnergy:      make([]float64, n),
	}

	for i := 0; i < n; i++ {
		l.ArrayToBattery[i] = arrayToPCS * batt.ChargeEta[i]
		l.BatteryToPOI[i] = batt.DischargeEta[i] * pcsToPOI

		lim.BatteryCharge[i] = clip(batt.MaxPower[i], 0, lim.PCSChargeLimit)
		lim.BatteryDischarge[i] = clip(batt.MaxPower[i], 0, lim.PCSDischargeLimit)
		denom := safeDiv(l.ArrayToBattery[i], batt.ChargeEta[i])
		lim.BatteryLimitedPV[i] = safeDiv(lim.BatteryCharge[i], denom)
		lim.InverterLimitedEnergy[i] = clip(pv[i], 0, lim.InverterLimitPV)
		lim.POILimitedEnergy[i] = clip(pv[i], 0, lim.POILimitPV)
	}
	return l, lim
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// clip bounds x to [lo, hi]; an upper bound below lo wins.
func clip(x, lo, hi float64) float64 {
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return x
}
