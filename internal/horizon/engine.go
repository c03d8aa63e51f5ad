// Package horizon runs the daily scheduler across a plant's full life.
package horizon

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"pvs-dispatch/internal/degradation"
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/losses"
	"pvs-dispatch/internal/model"
)

// ErrLengthMismatch reports hourly inputs that do not cover the same
// horizon of whole days.
var ErrLengthMismatch = errors.New("hourly inputs length mismatch")

// Inputs is everything one case needs, as hourly series of equal length.
type Inputs struct {
	ArrayEnergy []float64
	Rates       model.RateSeries
	Losses      losses.Losses
	Limits      losses.Limits
	Battery     degradation.Profile
	Params      dispatch.Params
	// PPAMinDelta is the daily combined-rate spread a day needs before
	// price-driven charging is allowed.
	PPAMinDelta float64
}

// Hours is the horizon length.
func (in *Inputs) Hours() int { return len(in.ArrayEnergy) }

// Validate checks that every hourly series covers the same horizon and
// that the horizon is a whole number of days.
func (in *Inputs) Validate() error {
	n := in.Hours()
	if n == 0 || n%dispatch.HoursPerDay != 0 {
		return fmt.Errorf("%w: %d hours is not a whole number of days", ErrLengthMismatch, n)
	}
	if err := in.Rates.Validate(n); err != nil {
		return fmt.Errorf("%w: %v", ErrLengthMismatch, err)
	}
	series := map[string][]float64{
		"array to POI":            in.Losses.ArrayToPOI,
		"array to battery":        in.Losses.ArrayToBattery,
		"battery to POI":          in.Losses.BatteryToPOI,
		"array to node":           in.Losses.ArrayToNode,
		"battery charge":          in.Limits.BatteryCharge,
		"battery discharge":       in.Limits.BatteryDischarge,
		"battery limited PV":      in.Limits.BatteryLimitedPV,
		"inverter limited energy": in.Limits.InverterLimitedEnergy,
		"POI limited energy":      in.Limits.POILimitedEnergy,
		"battery capacity":        in.Battery.Capacity,
		"battery rte":             in.Battery.RTE,
		"battery max power":       in.Battery.MaxPower,
		"battery charge eta":      in.Battery.ChargeEta,
		"battery discharge eta":   in.Battery.DischargeEta,
		"battery DOD":             in.Battery.DODNameplate,
	}
	for name, s := range series {
		if len(s) != n {
			return fmt.Errorf("%w: %s has %d hours, want %d", ErrLengthMismatch, name, len(s), n)
		}
	}
	return nil
}

// window copies day d of the inputs into a scheduler window.
func (in *Inputs) window(d int) *dispatch.Window {
	var w dispatch.Window
	base := d * dispatch.HoursPerDay
	for h := range w {
		i := base + h
		energy, capacity, rec, ra, combined := in.Rates.At(i)
		w[h] = dispatch.Hour{
			ArrayEnergy:           in.ArrayEnergy[i],
			EnergyRate:            energy,
			CapacityRate:          capacity,
			RECRate:               rec,
			RARate:                ra,
			CombinedRate:          combined,
			InverterLimitedEnergy: in.Limits.InverterLimitedEnergy[i],
			POILimitedEnergy:      in.Limits.POILimitedEnergy[i],
			BatteryCharge:         in.Limits.BatteryCharge[i],
			BatteryDischarge:      in.Limits.BatteryDischarge[i],
			InverterLimitPV:       in.Limits.InverterLimitPV,
			PCSChargeLimit:        in.Limits.PCSChargeLimit,
			PCSDischargeLimit:     in.Limits.PCSDischargeLimit,
			POILimitPV:            in.Limits.POILimitPV,
			BatteryLimitedPV:      in.Limits.BatteryLimitedPV[i],
			ArrayToBattery:        in.Losses.ArrayToBattery[i],
			ArrayToNode:           in.Losses.ArrayToNode[i],
			ArrayToPOI:            in.Losses.ArrayToPOI[i],
			BatteryToPOI:          in.Losses.BatteryToPOI[i],
			ChargeEta:             in.Battery.ChargeEta[i],
			DischargeEta:          in.Battery.DischargeEta[i],
			DODNameplate:          in.Battery.DODNameplate[i],
			MaxPower:              in.Battery.MaxPower[i],
			Capacity:              in.Battery.Capacity[i],
			RTE:                   in.Battery.RTE[i],
		}
	}
	return &w
}

// ArbitrageEligible reports whether the combined-rate spread of a day
// exceeds minDelta.
func ArbitrageEligible(combined []float64, minDelta float64) bool {
	if len(combined) == 0 {
		return false
	}
	return floats.Max(combined)-floats.Min(combined) > minDelta
}

// Engine runs a scheduler over every day of a horizon.
type Engine struct {
	Scheduler dispatch.Scheduler
	// Workers > 1 schedules disjoint day ranges concurrently. Days share no
	// state, so the output is identical either way.
	Workers int
	Log     logger.Logger
}

func New() *Engine {
	return &Engine{Scheduler: dispatch.Greedy{}, Workers: 1, Log: logger.NopLogger{}}
}

// Run schedules every day of in and collects the hourly output.
func (e *Engine) Run(in *Inputs) (*Result, error) {
	if in == nil {
		return nil, fmt.Errorf("inputs are nil")
	}
	if e.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is nil")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	log := logger.OrNop(e.Log)

	n := in.Hours()
	days := n / dispatch.HoursPerDay
	out := newOutput(n)
	arb := make([]bool, days)

	runDays := func(from, to int) {
		for d := from; d < to; d++ {
			base := d * dispatch.HoursPerDay
			arb[d] = ArbitrageEligible(in.Rates.Combined[base:base+dispatch.HoursPerDay], in.PPAMinDelta)
			res := e.Scheduler.Schedule(in.window(d), arb[d], in.Params)
			out.set(base, res)
		}
	}

	workers := e.Workers
	if workers <= 1 || days < workers {
		runDays(0, days)
	} else {
		var g errgroup.Group
		chunk := (days + workers - 1) / workers
		for from := 0; from < days; from += chunk {
			from, to := from, min(from+chunk, days)
			g.Go(func() error {
				runDays(from, to)
				return nil
			})
		}
		_ = g.Wait()
	}

	copy(out.ArrayEnergy, in.ArrayEnergy)
	copy(out.CombinedRate, in.Rates.Combined)

	arbDays := 0
	for _, a := range arb {
		if a {
			arbDays++
		}
	}
	log.Debugw("horizon scheduled", map[string]any{
		"scheduler":      e.Scheduler.Name(),
		"days":           days,
		"arbitrage_days": arbDays,
	})

	return &Result{
		Output:        out,
		Arbitrage:     arb,
		Days:          days,
		ArbitrageDays: arbDays,
	}, nil
}
