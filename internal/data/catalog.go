package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"pvs-dispatch/internal/model"
)

// Component categories in the catalog.
const (
	CatModuleCollector     = "module_collector"
	CatInverter            = "inverter"
	CatInverterMVT         = "inverter_mvt"
	CatInverterMVCollector = "inverter_mv_collector"
	CatBatteryCollector    = "battery_collector"
	CatPCS                 = "pcs"
	CatPCSMVT              = "pcs_mvt"
	CatPCSMVCollector      = "pcs_mv_collector"
	CatGSU                 = "gsu"
)

// Catalog is the equipment library a plant is assembled from.
type Catalog struct {
	Modules    map[string]model.ModuleSpec             `yaml:"modules" json:"modules"`
	Batteries  map[string]model.BatterySpec            `yaml:"batteries" json:"batteries"`
	Components map[string]map[string]model.Component `yaml:"components" json:"components"`
}

// Selection names one catalog entry per equipment slot.
type Selection struct {
	Module              string `yaml:"module" json:"module"`
	ModuleCollector     string `yaml:"module_collector" json:"module_collector"`
	Inverter            string `yaml:"inverter" json:"inverter"`
	InverterMVT         string `yaml:"inverter_mvt" json:"inverter_mvt"`
	InverterMVCollector string `yaml:"inverter_mv_collector" json:"inverter_mv_collector"`
	Battery             string `yaml:"battery" json:"battery"`
	BatteryCollector    string `yaml:"battery_collector" json:"battery_collector"`
	PCS                 string `yaml:"pcs" json:"pcs"`
	PCSMVT              string `yaml:"pcs_mvt" json:"pcs_mvt"`
	PCSMVCollector      string `yaml:"pcs_mv_collector" json:"pcs_mv_collector"`
	GSU                 string `yaml:"gsu" json:"gsu"`
}

// LoadCatalog reads a YAML equipment catalog.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes a YAML equipment catalog. Entry names are copied
// into the records.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for name, m := range c.Modules {
		m.Name = name
		c.Modules[name] = m
	}
	for name, b := range c.Batteries {
		b.Name = name
		c.Batteries[name] = b
	}
	for _, entries := range c.Components {
		for name, comp := range entries {
			comp.Name = name
			entries[name] = comp
		}
	}
	return &c, nil
}

// Select resolves a selection into equipment.
func (c *Catalog) Select(sel Selection) (model.Equipment, error) {
	var eq model.Equipment
	m, ok := c.Modules[sel.Module]
	if !ok {
		return eq, fmt.Errorf("module %q not in catalog", sel.Module)
	}
	b, ok := c.Batteries[sel.Battery]
	if !ok {
		return eq, fmt.Errorf("battery %q not in catalog", sel.Battery)
	}
	eq.Module = m
	eq.Battery = b

	slots := []struct {
		category string
		name     string
		dst      *model.Component
	}{
		{CatModuleCollector, sel.ModuleCollector, &eq.ModuleCollector},
		{CatInverter, sel.Inverter, &eq.Inverter},
		{CatInverterMVT, sel.InverterMVT, &eq.InverterMVT},
		{CatInverterMVCollector, sel.InverterMVCollector, &eq.InverterMVCollector},
		{CatBatteryCollector, sel.BatteryCollector, &eq.BatteryCollector},
		{CatPCS, sel.PCS, &eq.PCS},
		{CatPCSMVT, sel.PCSMVT, &eq.PCSMVT},
		{CatPCSMVCollector, sel.PCSMVCollector, &eq.PCSMVCollector},
		{CatGSU, sel.GSU, &eq.GSU},
	}
	for _, s := range slots {
		comp, ok := c.Components[s.category][s.name]
		if !ok {
			return model.Equipment{}, fmt.Errorf("%s %q not in catalog", s.category, s.name)
		}
		*s.dst = comp
	}
	return eq, nil
}

// Names lists the entry names per category, sorted.
func (c *Catalog) Names() map[string][]string {
	out := map[string][]string{}
	for name := range c.Modules {
		out["modules"] = append(out["modules"], name)
	}
	for name := range c.Batteries {
		out["batteries"] = append(out["batteries"], name)
	}
	for cat, entries := range c.Components {
		for name := range entries {
			out[cat] = append(out[cat], name)
		}
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}
