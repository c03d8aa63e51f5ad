package dispatch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func testParams() Params {
	return Params{POI: 80, PVMinEnergyChgThreshold: 0.1, PCSLimitAtPOI: 40, PCSHoursAtPOI: 4}
}

// lossless builds a window with unit efficiencies, a 40 MW / 200 MWh usable
// battery and a POI-limited array.
func lossless(pv, rates [HoursPerDay]float64) *Window {
	var w Window
	for h := range w {
		w[h] = Hour{
			ArrayEnergy:           pv[h],
			CombinedRate:          rates[h],
			InverterLimitPV:       100,
			POILimitPV:            80,
			InverterLimitedEnergy: math.Min(pv[h], 100),
			POILimitedEnergy:      math.Min(pv[h], 80),
			BatteryCharge:         40,
			BatteryDischarge:      40,
			BatteryLimitedPV:      40,
			PCSChargeLimit:        40,
			PCSDischargeLimit:     40,
			ArrayToBattery:        1,
			ArrayToNode:           1,
			ArrayToPOI:            1,
			BatteryToPOI:          1,
			ChargeEta:             1,
			DischargeEta:          1,
			DODNameplate:          200,
			MaxPower:              50,
			Capacity:              200,
			RTE:                   1,
		}
	}
	return &w
}

func blockRates() [HoursPerDay]float64 {
	var r [HoursPerDay]float64
	for h := range r {
		switch {
		case h < 6:
			r[h] = 10
		case h < 12:
			r[h] = 30
		case h < 18:
			r[h] = 5
		default:
			r[h] = 40
		}
	}
	return r
}

func daylight(from, to int, mwh float64) [HoursPerDay]float64 {
	var pv [HoursPerDay]float64
	for h := from; h <= to; h++ {
		pv[h] = mwh
	}
	return pv
}

func TestScheduleArbitrageDay(t *testing.T) {
	w := lossless(daylight(6, 18, 20), blockRates())
	day := Schedule(w, true, testParams())
	require.True(t, day.Arbitrage)

	// Cheapest PV hours fill first, then the next cheapest until the
	// 160 MWh POI cap is reached.
	for _, h := range []int{6, 7, 12, 13, 14, 15, 16, 17} {
		assert.InDelta(t, 20, day.Hours[h].Charged, eps, "hour %d", h)
		assert.True(t, day.Hours[h].PVCharged, "hour %d", h)
	}
	for _, h := range []int{8, 9, 10, 11, 18} {
		assert.Zero(t, day.Hours[h].Charged, "hour %d", h)
		assert.InDelta(t, 20, day.Hours[h].PVToPOI, eps, "hour %d", h)
	}
	assert.Equal(t, 0, day.Hours[12].ChargeRank)
	assert.Equal(t, 6, day.Hours[6].ChargeRank)

	// Highest priced hours discharge first.
	for _, h := range []int{18, 19, 20, 21} {
		assert.InDelta(t, 40, day.Hours[h].Discharged, eps, "hour %d", h)
		assert.InDelta(t, 40, day.Hours[h].BatteryToPOI, eps, "hour %d", h)
	}
	for _, h := range []int{22, 23, 0, 6, 12} {
		assert.Zero(t, day.Hours[h].Discharged, "hour %d", h)
	}
	assert.Equal(t, 0, day.Hours[18].DischargeRank)

	want := map[int]float64{5: 0, 6: 20, 7: 40, 11: 40, 12: 60, 17: 160, 18: 120, 19: 80, 20: 40, 21: 0, 23: 0}
	for h, soc := range want {
		assert.InDelta(t, soc, day.Hours[h].SOCEnergy, eps, "hour %d", h)
	}
	assert.InDelta(t, 0.8, day.Hours[17].SOCPercent, eps)

	assert.InDelta(t, 60, day.Hours[18].PVToPOI+day.Hours[18].BatteryToPOI, eps)
	assert.InDelta(t, 20, day.Hours[18].POIMeterPV, eps)
	assert.InDelta(t, 20, day.Hours[6].DeliveredPV, eps)
	assert.Zero(t, day.Hours[6].WastedPV)
}

func TestScheduleNonArbitrageDayOnlyHarvestsClipping(t *testing.T) {
	var pv [HoursPerDay]float64
	pv[10] = 100
	w := lossless(pv, blockRates())
	for h := range w {
		w[h].InverterLimitPV = 150
		w[h].InverterLimitedEnergy = math.Min(pv[h], 150)
	}

	day := Schedule(w, false, testParams())
	require.False(t, day.Arbitrage)

	hr := day.Hours[10]
	assert.True(t, hr.ClipCharged)
	assert.InDelta(t, 20, hr.ClipHarvest, eps)
	assert.InDelta(t, 20, hr.Charged, eps)
	assert.InDelta(t, 80, hr.PVToPOI, eps)
	assert.InDelta(t, 80, hr.PVOnlyPOI, eps)
	assert.InDelta(t, 100, hr.InverterOutput, eps)
	assert.InDelta(t, 20, hr.PVOnlyWasted, eps)
	assert.Zero(t, hr.WastedPV)

	for h := range day.Hours {
		assert.False(t, day.Hours[h].PVCharged, "hour %d", h)
		assert.Equal(t, h, day.Hours[h].DischargeRank)
	}
	// The POI is full at hour 10, so the first hour with headroom takes it.
	assert.Zero(t, day.Hours[10].Discharged)
	assert.InDelta(t, 20, day.Hours[11].Discharged, eps)
	assert.Zero(t, day.Hours[11].SOCEnergy)
}

func TestScheduleZeroPVDay(t *testing.T) {
	w := lossless([HoursPerDay]float64{}, blockRates())
	for _, arb := range []bool{true, false} {
		day := Schedule(w, arb, testParams())
		for h, hr := range day.Hours {
			assert.Zero(t, hr.Charged, "hour %d", h)
			assert.Zero(t, hr.Discharged, "hour %d", h)
			assert.Zero(t, hr.SOCEnergy, "hour %d", h)
			assert.Zero(t, hr.PVToPOI, "hour %d", h)
			assert.False(t, hr.DischargeFlag, "hour %d", h)
		}
	}
}

func TestScheduleNeverDischargesEnergyStoredLater(t *testing.T) {
	rates := blockRates()
	rates[2] = 100
	w := lossless(daylight(10, 12, 20), rates)
	day := Schedule(w, true, testParams())

	assert.Zero(t, day.Hours[2].Discharged)
	assert.Equal(t, 0, day.Hours[2].DischargeRank)
	for h := 0; h < 10; h++ {
		assert.Zero(t, day.Hours[h].SOCEnergy, "hour %d", h)
	}
}

func TestScheduleZeroDODBlocksDischarge(t *testing.T) {
	w := lossless(daylight(6, 18, 20), blockRates())
	for h := range w {
		w[h].DODNameplate = 0
	}
	day := Schedule(w, true, testParams())
	for h, hr := range day.Hours {
		assert.Zero(t, hr.Charged, "hour %d", h)
		assert.Zero(t, hr.Discharged, "hour %d", h)
		assert.Zero(t, hr.SOCPercent, "hour %d", h)
	}
}

func TestScheduleStartsEachDayEmpty(t *testing.T) {
	// Clipped energy stored in the last hour has nowhere to go before midnight.
	var pv [HoursPerDay]float64
	pv[23] = 100
	w := lossless(pv, blockRates())
	for h := range w {
		w[h].InverterLimitPV = 150
		w[h].InverterLimitedEnergy = math.Min(pv[h], 150)
	}
	first := Schedule(w, false, testParams())
	require.InDelta(t, 20, first.Hours[23].SOCEnergy, eps)

	second := Schedule(w, false, testParams())
	assert.Equal(t, first, second)
	assert.Zero(t, second.Hours[0].SOCEnergy)
}

func TestGreedyScheduler(t *testing.T) {
	var s Scheduler = Greedy{}
	assert.Equal(t, "greedy", s.Name())
	w := lossless(daylight(6, 18, 20), blockRates())
	assert.Equal(t, Schedule(w, true, testParams()), s.Schedule(w, true, testParams()))
}

func TestScheduleInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := Params{POI: 60, PVMinEnergyChgThreshold: 0.15, PCSLimitAtPOI: 30, PCSHoursAtPOI: 4}

	for trial := 0; trial < 200; trial++ {
		var w Window
		dod := 50 + rng.Float64()*150
		chgEta := 0.9 + rng.Float64()*0.1
		invLim := 50 + rng.Float64()*60
		poiLim := p.POI / 0.96
		for h := range w {
			pv := 0.0
			if h >= 6 && h <= 18 {
				pv = rng.Float64() * 120
			}
			w[h] = Hour{
				ArrayEnergy:           pv,
				CombinedRate:          rng.Float64() * 80,
				InverterLimitPV:       invLim,
				POILimitPV:            poiLim,
				InverterLimitedEnergy: math.Min(pv, invLim),
				POILimitedEnergy:      math.Min(pv, poiLim),
				BatteryCharge:         30,
				BatteryDischarge:      31,
				BatteryLimitedPV:      30 / 0.95,
				ArrayToBattery:        0.95 * chgEta,
				ArrayToNode:           0.97,
				ArrayToPOI:            0.96,
				BatteryToPOI:          chgEta * 0.97,
				ChargeEta:             chgEta,
				DischargeEta:          chgEta,
				DODNameplate:          dod,
			}
		}
		arb := trial%2 == 0
		day := Schedule(&w, arb, p)

		sum := 0.0
		for h, hr := range day.Hours {
			in := w[h]
			assert.GreaterOrEqual(t, hr.Charged, 0.0)
			assert.GreaterOrEqual(t, hr.Discharged, 0.0)
			assert.GreaterOrEqual(t, hr.PVToPOI, 0.0)
			assert.GreaterOrEqual(t, hr.SOCEnergy, -eps)
			assert.LessOrEqual(t, hr.SOCEnergy, dod+eps)
			assert.LessOrEqual(t, hr.SOCEnergy, p.CapacityLimit()/in.BatteryToPOI+eps)
			assert.LessOrEqual(t, hr.Charged, in.BatteryCharge*in.ChargeEta+eps)
			assert.LessOrEqual(t, hr.Discharged, in.BatteryDischarge+eps)
			assert.LessOrEqual(t, hr.PVToPOI+hr.BatteryToPOI, p.POI+eps)
			assert.LessOrEqual(t, hr.DeliveredPV, in.ArrayEnergy+eps)
			assert.False(t, math.IsNaN(hr.SOCPercent))
			if !arb {
				assert.False(t, hr.PVCharged)
			}
			sum += hr.Charged - hr.Discharged
		}
		assert.InDelta(t, sum, day.Hours[HoursPerDay-1].SOCEnergy, 1e-6)
	}
}
