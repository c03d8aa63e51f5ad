package sweep

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"pvs-dispatch/internal/degradation"
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/losses"
	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

// Spec is the design space to sweep.
type Spec struct {
	DCAC         Range `yaml:"dc_ac" json:"dc_ac"`
	InverterMW   Range `yaml:"inverter_mw" json:"inverter_mw"`
	PCSMW        Range `yaml:"pcs_mw" json:"pcs_mw"`
	BatteryHours Range `yaml:"battery_hours" json:"battery_hours"`
}

// Case is one point of the design space and, once run, its result.
type Case struct {
	ID           string
	Index        int
	DCAC         float64
	InverterMW   float64
	PCSMW        float64
	BatteryHours float64

	// Hourly inputs, released after the case runs unless kept.
	ArrayEnergy   []float64
	DegradedArray []float64
	Battery       degradation.Profile
	Losses        losses.Losses
	Limits        losses.Limits

	Result *horizon.Result
}

func (c *Case) String() string {
	return fmt.Sprintf("%s: dc/ac %.3f, inverter %.2f MW, PCS %.2f MW, %.2f h", c.ID, c.DCAC, c.InverterMW, c.PCSMW, c.BatteryHours)
}

func (c *Case) release() {
	c.ArrayEnergy = nil
	c.DegradedArray = nil
	c.Battery = degradation.Profile{}
	c.Losses = losses.Losses{}
	c.Limits = losses.Limits{}
}

// Enumerate returns every combination of the ranges in s, ordered by
// DC/AC ratio, then inverter, PCS and battery hours. IDs are case-1,
// case-2, ... in that order.
func Enumerate(s Spec) ([]*Case, error) {
	dcac, err := Steps(s.DCAC)
	if err != nil {
		return nil, fmt.Errorf("dc/ac: %w", err)
	}
	inv, err := Steps(s.InverterMW)
	if err != nil {
		return nil, fmt.Errorf("inverter: %w", err)
	}
	pcs, err := Steps(s.PCSMW)
	if err != nil {
		return nil, fmt.Errorf("pcs: %w", err)
	}
	hours, err := Steps(s.BatteryHours)
	if err != nil {
		return nil, fmt.Errorf("battery hours: %w", err)
	}

	cases := make([]*Case, 0, len(dcac)*len(inv)*len(pcs)*len(hours))
	for _, d := range dcac {
		for _, i := range inv {
			for _, p := range pcs {
				for _, h := range hours {
					n := len(cases) + 1
					cases = append(cases, &Case{
						ID:           fmt.Sprintf("case-%d", n),
						Index:        n,
						DCAC:         d,
						InverterMW:   i,
						PCSMW:        p,
						BatteryHours: h,
					})
				}
			}
		}
	}
	return cases, nil
}

// Settings are the dispatch settings shared by every case.
type Settings struct {
	PVMinEnergyChgThreshold float64
	PPAMinDelta             float64
	PCSLimitAtPOI           float64
	PCSHoursAtPOI           float64
	CyclesPerDay            int
}

// Plant is the case-independent part of a sweep. Its series are read-only
// once prepared and are shared by every case.
type Plant struct {
	POI          float64
	Equipment    model.Equipment
	Rates        model.RateSeries
	Augmentation []model.AugmentationStep
	Settings     Settings

	yield     []float64
	moduleDeg []float64
	curve     degradation.Curve
}

// NewPlant validates the inputs and precomputes module and battery
// degradation. yield may be one year (tiled over the module life) or the
// full horizon.
func NewPlant(in model.SimulationInputs, s Settings) (*Plant, error) {
	if err := in.Equipment.Validate(); err != nil {
		return nil, err
	}
	if in.POIMW <= 0 {
		return nil, fmt.Errorf("poi must be > 0, got %v", in.POIMW)
	}
	n := timeline.Hours(in.Years())

	yield := in.Yield
	switch len(yield) {
	case n:
	case timeline.HoursPerYear:
		yield = timeline.Tile(yield, in.Years())
	default:
		return nil, fmt.Errorf("%w: yield has %d hours, want %d or %d", horizon.ErrLengthMismatch, len(yield), timeline.HoursPerYear, n)
	}
	if err := in.Rates.Validate(n); err != nil {
		return nil, fmt.Errorf("%w: %v", horizon.ErrLengthMismatch, err)
	}

	curve, err := degradation.Degrade(in.Equipment.Battery, s.CyclesPerDay)
	if err != nil {
		return nil, err
	}

	return &Plant{
		POI:          in.POIMW,
		Equipment:    in.Equipment,
		Rates:        in.Rates,
		Augmentation: in.Augmentation,
		Settings:     s,
		yield:        yield,
		moduleDeg:    degradation.ModuleDegradation(in.Equipment.Module),
		curve:        curve,
	}, nil
}

// Hours is the simulated horizon length.
func (p *Plant) Hours() int { return len(p.yield) }

// Build fills in the hourly inputs of c.
func (p *Plant) Build(c *Case) error {
	n := p.Hours()

	peak := floats.Max(p.yield)
	c.ArrayEnergy = make([]float64, n)
	if peak > 0 {
		floats.ScaleTo(c.ArrayEnergy, p.POI*c.DCAC/peak, p.yield)
	}

	c.DegradedArray = make([]float64, n)
	floats.MulTo(c.DegradedArray, p.yield, p.moduleDeg)
	if degPeak := floats.Max(c.DegradedArray); degPeak > 0 {
		floats.Scale(c.DCAC*p.POI/degPeak, c.DegradedArray)
	}

	b := p.Equipment.Battery
	if len(p.Augmentation) == 0 {
		c.Battery = degradation.MatchLength(degradation.Build(p.curve, b, c.BatteryHours, c.PCSMW), n)
	} else {
		prof, err := degradation.Augment(p.curve, b, c.BatteryHours, p.Augmentation, n)
		if err != nil {
			return err
		}
		c.Battery = prof
	}

	c.Losses, c.Limits = losses.Calculate(c.DegradedArray, p.POI, c.InverterMW, c.PCSMW, p.Equipment, c.Battery)
	return nil
}

// Inputs assembles the horizon inputs of a built case.
func (p *Plant) Inputs(c *Case) *horizon.Inputs {
	return &horizon.Inputs{
		ArrayEnergy: c.DegradedArray,
		Rates:       p.Rates,
		Losses:      c.Losses,
		Limits:      c.Limits,
		Battery:     c.Battery,
		Params: dispatch.Params{
			POI:                     p.POI,
			PVMinEnergyChgThreshold: p.Settings.PVMinEnergyChgThreshold,
			PCSLimitAtPOI:           p.Settings.PCSLimitAtPOI,
			PCSHoursAtPOI:           p.Settings.PCSHoursAtPOI,
		},
		PPAMinDelta: p.Settings.PPAMinDelta,
	}
}
