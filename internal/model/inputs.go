package model

import "time"

// SimulationInputs is the canonical set of inputs for one plant design
// before the sweep expands it into cases.
//
// Yield is one year of hourly array energy (MWh); it is tiled across the
// module life. Rates must already cover the whole horizon.
type SimulationInputs struct {
	POIMW        float64
	COD          time.Time
	Equipment    Equipment
	Yield        []float64
	Rates        RateSeries
	Augmentation []AugmentationStep
}

// Years is the simulated horizon in years.
func (in SimulationInputs) Years() int { return in.Equipment.Module.Life }
