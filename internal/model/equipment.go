package model

import (
	"errors"
	"fmt"
)

// Component is a single piece of balance-of-plant equipment. Only its
// efficiency matters to the simulation.
type Component struct {
	Name string  `yaml:"name" json:"name"`
	Eta  float64 `yaml:"eta" json:"eta"`
}

// ModuleSpec describes the PV modules.
// Units:
// - Life: years
// - Degradation: fraction of nameplate lost per year
type ModuleSpec struct {
	Name        string  `yaml:"name" json:"name"`
	Eta         float64 `yaml:"eta" json:"eta"`
	Life        int     `yaml:"life" json:"life"`
	Degradation float64 `yaml:"degradation" json:"degradation"`
}

// BatterySpec describes a battery product.
// DegC365 and DegC730 are remaining-capacity fractions, one entry per year,
// for one and two full cycles per day respectively.
type BatterySpec struct {
	Name    string    `yaml:"name" json:"name"`
	Eta     float64   `yaml:"eta" json:"eta"`
	Life    int       `yaml:"life" json:"life"`
	DegC365 []float64 `yaml:"deg_c365" json:"deg_c365"`
	DegC730 []float64 `yaml:"deg_c730" json:"deg_c730"`
	CRate   float64   `yaml:"cp" json:"cp"`
	EtaDOD  float64   `yaml:"eta_dod" json:"eta_dod"`
	RteBOL  float64   `yaml:"rte_bol" json:"rte_bol"`
	RteEOL  float64   `yaml:"rte_eol" json:"rte_eol"`
}

// Equipment is the full equipment selection of a plant.
type Equipment struct {
	Module              ModuleSpec  `yaml:"module" json:"module"`
	ModuleCollector     Component   `yaml:"module_collector" json:"module_collector"`
	Inverter            Component   `yaml:"inverter" json:"inverter"`
	InverterMVT         Component   `yaml:"inverter_mvt" json:"inverter_mvt"`
	InverterMVCollector Component   `yaml:"inverter_mv_collector" json:"inverter_mv_collector"`
	Battery             BatterySpec `yaml:"battery" json:"battery"`
	BatteryCollector    Component   `yaml:"battery_collector" json:"battery_collector"`
	PCS                 Component   `yaml:"pcs" json:"pcs"`
	PCSMVT              Component   `yaml:"pcs_mvt" json:"pcs_mvt"`
	PCSMVCollector      Component   `yaml:"pcs_mv_collector" json:"pcs_mv_collector"`
	GSU                 Component   `yaml:"gsu" json:"gsu"`
}

// AugmentationStep installs PowerMW of new battery blocks at the start of Year.
type AugmentationStep struct {
	Year    int     `yaml:"year" json:"year"`
	PowerMW float64 `yaml:"power_mw" json:"power_mw"`
}

func (c Component) validate(field string) error {
	if c.Eta < 0 || c.Eta > 1 {
		return fmt.Errorf("%s eta must be in [0, 1], got %v", field, c.Eta)
	}
	return nil
}

// Validate checks that every efficiency is a fraction and that the module
// and battery carry usable lifetimes.
func (e Equipment) Validate() error {
	comps := []struct {
		field string
		c     Component
	}{
		{"module_collector", e.ModuleCollector},
		{"inverter", e.Inverter},
		{"inverter_mvt", e.InverterMVT},
		{"inverter_mv_collector", e.InverterMVCollector},
		{"battery_collector", e.BatteryCollector},
		{"pcs", e.PCS},
		{"pcs_mvt", e.PCSMVT},
		{"pcs_mv_collector", e.PCSMVCollector},
		{"gsu", e.GSU},
	}
	for _, c := range comps {
		if err := c.c.validate(c.field); err != nil {
			return err
		}
	}
	if e.Module.Life <= 0 {
		return errors.New("module life must be > 0")
	}
	if e.Module.Degradation < 0 || e.Module.Degradation >= 1 {
		return errors.New("module degradation must be in [0, 1)")
	}
	if e.Battery.Life <= 0 {
		return errors.New("battery life must be > 0")
	}
	if e.Battery.CRate < 0 {
		return errors.New("battery cp must be >= 0")
	}
	if e.Battery.EtaDOD < 0 || e.Battery.EtaDOD > 1 {
		return errors.New("battery eta_dod must be in [0, 1]")
	}
	if e.Battery.RteBOL < 0 || e.Battery.RteBOL > 1 || e.Battery.RteEOL < 0 || e.Battery.RteEOL > 1 {
		return errors.New("battery rte_bol/rte_eol must be in [0, 1]")
	}
	return nil
}
