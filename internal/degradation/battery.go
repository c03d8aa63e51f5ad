// Package degradation turns catalog battery and module data into hourly
// capacity, power and efficiency profiles over the plant life.
package degradation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

var (
	// ErrInvalidConfig reports battery or module data that cannot produce a
	// profile.
	ErrInvalidConfig = errors.New("invalid degradation config")
	// ErrUnsupportedCycles reports a cycles-per-day value with no curve.
	ErrUnsupportedCycles = fmt.Errorf("%w: cycles per day must be 1 or 2", ErrInvalidConfig)
)

// Curve is the hourly remaining-capacity fraction and round-trip efficiency
// of a battery block over its own life.
type Curve struct {
	Capacity []float64
	RTE      []float64
}

// Len is the number of hours covered by the curve.
func (c Curve) Len() int { return len(c.Capacity) }

// Profile is the hourly battery system state the dispatcher consumes.
// Capacity and DODNameplate are MWh, MaxPower is MW.
type Profile struct {
	Capacity     []float64
	RTE          []float64
	MaxPower     []float64
	ChargeEta    []float64
	DischargeEta []float64
	DODNameplate []float64
}

// Len is the number of hours covered by the profile.
func (p Profile) Len() int { return len(p.Capacity) }

// Degrade builds the hourly degradation curve of one battery block.
//
// cyclesPerDay selects the catalog curve: 1 for deg_c365, 2 for deg_c730.
// The yearly capacity points are placed at the first month of each year,
// the last curve entry closes the final year, and values in between are
// linearly interpolated per month. RTE falls linearly from rte_bol in the
// first month to rte_eol in the last.
func Degrade(b model.BatterySpec, cyclesPerDay int) (Curve, error) {
	var curve []float64
	switch cyclesPerDay {
	case 1:
		curve = b.DegC365
	case 2:
		curve = b.DegC730
	default:
		return Curve{}, fmt.Errorf("%w (got %d)", ErrUnsupportedCycles, cyclesPerDay)
	}
	life := b.Life
	if life < 1 {
		return Curve{}, fmt.Errorf("%w: battery life must be >= 1 year, got %d", ErrInvalidConfig, life)
	}
	if len(curve) < life {
		return Curve{}, fmt.Errorf("%w: degradation curve has %d entries for a %d year life", ErrInvalidConfig, len(curve), life)
	}

	months := life * timeline.MonthsPerYear

	capX := make([]float64, 0, life+1)
	capY := make([]float64, 0, life+1)
	for y := 0; y < life; y++ {
		capX = append(capX, float64(y*timeline.MonthsPerYear))
		capY = append(capY, curve[y])
	}
	capX = append(capX, float64(months))
	capY = append(capY, curve[len(curve)-1])

	var capFit interp.PiecewiseLinear
	if err := capFit.Fit(capX, capY); err != nil {
		return Curve{}, fmt.Errorf("%w: capacity interpolation: %v", ErrInvalidConfig, err)
	}

	var rteFit interp.PiecewiseLinear
	if err := rteFit.Fit([]float64{0, float64(months - 1)}, []float64{b.RteBOL, b.RteEOL}); err != nil {
		return Curve{}, fmt.Errorf("%w: rte interpolation: %v", ErrInvalidConfig, err)
	}

	capM := make([]float64, months)
	rteM := make([]float64, months)
	for m := 0; m < months; m++ {
		capM[m] = capFit.Predict(float64(m))
		rteM[m] = rteFit.Predict(float64(m))
	}

	return Curve{
		Capacity: timeline.MonthlyToHourly(capM),
		RTE:      timeline.MonthlyToHourly(rteM),
	}, nil
}

// Capacity scales a curve into MWh for hours of storage at installedMW.
func Capacity(c Curve, hours, installedMW float64) []float64 {
	out := make([]float64, len(c.Capacity))
	for i, f := range c.Capacity {
		out[i] = f * hours * installedMW
	}
	return out
}

// Power derives the power and efficiency profile from hourly capacity:
// max power is capacity times the C-rate, charge and discharge efficiency
// are the square root of RTE, and usable depth of discharge is capacity
// times eta_dod.
func Power(b model.BatterySpec, capacity, rte []float64) Profile {
	n := len(capacity)
	p := Profile{
		Capacity:     capacity,
		RTE:          rte,
		MaxPower:     make([]float64, n),
		ChargeEta:    make([]float64, n),
		DODNameplate: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		p.MaxPower[i] = capacity[i] * b.CRate
		p.ChargeEta[i] = math.Sqrt(rte[i])
		p.DODNameplate[i] = capacity[i] * b.EtaDOD
	}
	p.DischargeEta = p.ChargeEta
	return p
}

// Build is Capacity followed by Power for a single block.
func Build(c Curve, b model.BatterySpec, hours, installedMW float64) Profile {
	rte := make([]float64, len(c.RTE))
	copy(rte, c.RTE)
	return Power(b, Capacity(c, hours, installedMW), rte)
}

// MatchLength pads every series of p with zeros, or truncates it, to n hours.
func MatchLength(p Profile, n int) Profile {
	out := Profile{
		Capacity:     fit(p.Capacity, 0, n),
		RTE:          fit(p.RTE, 0, n),
		MaxPower:     fit(p.MaxPower, 0, n),
		ChargeEta:    fit(p.ChargeEta, 0, n),
		DODNameplate: fit(p.DODNameplate, 0, n),
	}
	out.DischargeEta = fit(p.DischargeEta, 0, n)
	return out
}

// fit returns a new n-long series holding s after lead zeros, zero padded
// or truncated at the end.
func fit(s []float64, lead, n int) []float64 {
	out := make([]float64, n)
	if lead >= n {
		return out
	}
	copy(out[lead:], s)
	return out
}
