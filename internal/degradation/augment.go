package degradation

import (
	"fmt"

	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

// Augment combines battery blocks installed over time into one profile of
// n hours. Each step installs a fresh block that ages on its own curve from
// the start of its install year. Capacity, depth of discharge and max power
// add up; RTE and the charge/discharge efficiencies are averaged by the
// installed MW of the blocks still holding capacity at each hour, and are 0
// where nothing is installed.
func Augment(c Curve, b model.BatterySpec, hours float64, steps []model.AugmentationStep, n int) (Profile, error) {
	total := Profile{
		Capacity:     make([]float64, n),
		RTE:          make([]float64, n),
		MaxPower:     make([]float64, n),
		ChargeEta:    make([]float64, n),
		DODNameplate: make([]float64, n),
	}
	installed := make([]float64, n)

	for _, s := range steps {
		if s.Year < 0 {
			return Profile{}, fmt.Errorf("%w: augmentation year %d", ErrInvalidConfig, s.Year)
		}
		if s.PowerMW < 0 {
			return Profile{}, fmt.Errorf("%w: augmentation power %v MW", ErrInvalidConfig, s.PowerMW)
		}
		block := Build(c, b, hours, s.PowerMW)
		lead := s.Year * timeline.HoursPerYear
		capacity := fit(block.Capacity, lead, n)
		rte := fit(block.RTE, lead, n)
		maxP := fit(block.MaxPower, lead, n)
		chg := fit(block.ChargeEta, lead, n)
		dod := fit(block.DODNameplate, lead, n)
		for i := 0; i < n; i++ {
			total.Capacity[i] += capacity[i]
			total.DODNameplate[i] += dod[i]
			total.MaxPower[i] += maxP[i]
			total.RTE[i] += rte[i] * s.PowerMW
			total.ChargeEta[i] += chg[i] * s.PowerMW
			if capacity[i] != 0 {
				installed[i] += s.PowerMW
			}
		}
	}

	for i := 0; i < n; i++ {
		if installed[i] == 0 {
			total.RTE[i] = 0
			total.ChargeEta[i] = 0
			continue
		}
		total.RTE[i] /= installed[i]
		total.ChargeEta[i] /= installed[i]
	}
	total.DischargeEta = total.ChargeEta
	return total, nil
}
