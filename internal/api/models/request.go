package models

import (
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/sweep"
)

// SimulateRequest is the body of POST /api/v1/simulate.
type SimulateRequest struct {
	POIMW float64 `json:"poi_mw" binding:"required,gt=0"`
	COD   string  `json:"cod,omitempty"` // YYYY-MM-DD, default Jan 1 of this year

	Equipment data.Selection `json:"equipment"`

	// Yield is hourly array energy, one year or the whole horizon.
	Yield []float64 `json:"yield" binding:"required"`
	// Rates takes precedence over DailyRateTemplate.
	Rates             *model.RateSeries `json:"rates,omitempty"`
	DailyRateTemplate []float64         `json:"daily_rate_template,omitempty"`

	Dispatch     DispatchParams           `json:"dispatch"`
	Sweep        sweep.Spec               `json:"sweep"`
	Augmentation []model.AugmentationStep `json:"augmentation,omitempty"`
	Options      SimulateOptions          `json:"options,omitempty"`
}

// DispatchParams are the dispatch settings shared by every case.
type DispatchParams struct {
	PVMinEnergyChgThreshold float64 `json:"pv_min_energy_chg_threshold"`
	PPAMinDelta             float64 `json:"ppa_min_delta"`
	PCSLimitAtPOI           float64 `json:"pcs_limit_at_poi"`
	PCSHoursAtPOI           float64 `json:"pcs_hours_at_poi"`
	CyclesPerDay            int     `json:"cycles_per_day,omitempty"` // default 1

	Scheduler dispatch.SchedulerConfig `json:"scheduler"`
}

// SimulateOptions tunes how a sweep runs.
type SimulateOptions struct {
	Workers    int `json:"workers,omitempty"`
	DayWorkers int `json:"day_workers,omitempty"`
}

// Settings converts the request parameters to sweep settings.
func (d DispatchParams) Settings() sweep.Settings {
	cycles := d.CyclesPerDay
	if cycles == 0 {
		cycles = 1
	}
	return sweep.Settings{
		PVMinEnergyChgThreshold: d.PVMinEnergyChgThreshold,
		PPAMinDelta:             d.PPAMinDelta,
		PCSLimitAtPOI:           d.PCSLimitAtPOI,
		PCSHoursAtPOI:           d.PCSHoursAtPOI,
		CyclesPerDay:            cycles,
	}
}
