// Package config loads a plant project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/rates"
	"pvs-dispatch/internal/sweep"
	"pvs-dispatch/internal/timeline"
)

// EnvPrefix selects environment overrides. PVS_DISPATCH__PPA_MIN_DELTA=5
// sets dispatch.ppa_min_delta.
const EnvPrefix = "PVS_"

// CODLayout is the date format of project.cod.
const CODLayout = "2006-01-02"

// Config is the on-disk project shape (YAML or JSON).
type Config struct {
	Project      ProjectConfig            `yaml:"project"`
	Equipment    EquipmentConfig          `yaml:"equipment"`
	Inputs       InputsConfig             `yaml:"inputs"`
	Dispatch     DispatchConfig           `yaml:"dispatch"`
	Sweep        SweepConfig              `yaml:"sweep"`
	Augmentation []model.AugmentationStep `yaml:"augmentation"`
	Output       OutputConfig             `yaml:"output"`

	// dir is the directory of the loaded file. Relative paths resolve
	// against it first.
	dir string
}

type ProjectConfig struct {
	Name  string  `yaml:"name"`
	POIMW float64 `yaml:"poi_mw"`
	// COD is the commercial operation date, formatted as CODLayout.
	COD string `yaml:"cod"`
}

type EquipmentConfig struct {
	Catalog string         `yaml:"catalog"`
	Select  data.Selection `yaml:"select"`
}

// InputsConfig locates the yield and rate data. Rates come from RatesCSV
// if set, else DailyRateTemplate, else MonthlyRateTemplates.
type InputsConfig struct {
	YieldCSV             string           `yaml:"yield_csv"`
	YieldColumn          string           `yaml:"yield_column"`
	RatesCSV             string           `yaml:"rates_csv"`
	RateColumns          data.RateColumns `yaml:"rate_columns"`
	DailyRateTemplate    []float64        `yaml:"daily_rate_template"`
	MonthlyRateTemplates [][]float64      `yaml:"monthly_rate_templates"`
}

type DispatchConfig struct {
	PVMinEnergyChgThreshold float64 `yaml:"pv_min_energy_chg_threshold"`
	PPAMinDelta             float64 `yaml:"ppa_min_delta"`
	PCSLimitAtPOI           float64 `yaml:"pcs_limit_at_poi"`
	PCSHoursAtPOI           float64 `yaml:"pcs_hours_at_poi"`
	CyclesPerDay            int     `yaml:"cycles_per_day"`
	// DayWorkers splits each case's days across goroutines.
	DayWorkers int `yaml:"day_workers"`

	Scheduler dispatch.SchedulerConfig `yaml:"scheduler"`
}

type SweepConfig struct {
	DCAC         sweep.Range `yaml:"dc_ac"`
	InverterMW   sweep.Range `yaml:"inverter_mw"`
	PCSMW        sweep.Range `yaml:"pcs_mw"`
	BatteryHours sweep.Range `yaml:"battery_hours"`
	// Workers bounds how many cases run at once.
	Workers int `yaml:"workers"`
}

// Spec is the design space to sweep.
func (s SweepConfig) Spec() sweep.Spec {
	return sweep.Spec{DCAC: s.DCAC, InverterMW: s.InverterMW, PCSMW: s.PCSMW, BatteryHours: s.BatteryHours}
}

type OutputConfig struct {
	Dir        string `yaml:"dir"`
	KeepInputs bool   `yaml:"keep_inputs"`
}

// Load reads path, applies PVS_ environment overrides and defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file and environment overrides without defaults
// or validation.
func LoadUnchecked(path string) (*Config, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var c Config
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, err
	}
	c.dir = filepath.Dir(path)
	return &c, nil
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	if c.Inputs.YieldColumn == "" {
		c.Inputs.YieldColumn = data.DefaultYieldColumn
	}
	if c.Inputs.RateColumns == (data.RateColumns{}) {
		c.Inputs.RateColumns = data.DefaultRateColumns()
	}
	if c.Dispatch.CyclesPerDay == 0 {
		c.Dispatch.CyclesPerDay = 1
	}
	if c.Dispatch.DayWorkers == 0 {
		c.Dispatch.DayWorkers = 1
	}
	if c.Sweep.Workers == 0 {
		c.Sweep.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Project.POIMW <= 0 {
		return fmt.Errorf("project.poi_mw must be > 0, got %v", c.Project.POIMW)
	}
	if _, err := c.COD(); err != nil {
		return err
	}
	if c.Equipment.Catalog == "" {
		return errors.New("equipment.catalog is required")
	}
	if c.Inputs.YieldCSV == "" {
		return errors.New("inputs.yield_csv is required")
	}
	if c.Inputs.RatesCSV == "" && len(c.Inputs.DailyRateTemplate) == 0 && len(c.Inputs.MonthlyRateTemplates) == 0 {
		return errors.New("one of inputs.rates_csv, inputs.daily_rate_template or inputs.monthly_rate_templates is required")
	}
	if n := len(c.Inputs.MonthlyRateTemplates); n != 0 && n != timeline.MonthsPerYear {
		return fmt.Errorf("inputs.monthly_rate_templates must have 12 months, got %d", n)
	}
	if c.Dispatch.CyclesPerDay != 1 && c.Dispatch.CyclesPerDay != 2 {
		return fmt.Errorf("dispatch.cycles_per_day must be 1 or 2, got %d", c.Dispatch.CyclesPerDay)
	}
	if c.Dispatch.PCSLimitAtPOI < 0 || c.Dispatch.PCSHoursAtPOI < 0 {
		return errors.New("dispatch.pcs_limit_at_poi and dispatch.pcs_hours_at_poi must be >= 0")
	}
	if _, err := dispatch.NewScheduler(c.Dispatch.Scheduler); err != nil {
		return fmt.Errorf("dispatch.scheduler: %w", err)
	}
	if _, err := sweep.Enumerate(c.Sweep.Spec()); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}

// COD parses project.cod. An empty date means Jan 1 of the current year.
func (c *Config) COD() (time.Time, error) {
	if c.Project.COD == "" {
		return time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(CODLayout, c.Project.COD)
	if err != nil {
		return time.Time{}, fmt.Errorf("project.cod: %w", err)
	}
	return t, nil
}

// Resolve interprets a relative path as relative to the config file
// directory, falling back to the path as given (relative to cwd) if that
// does not exist.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	cand := filepath.Join(c.dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// Settings returns the dispatch settings shared by all cases.
func (c *Config) Settings() sweep.Settings {
	return sweep.Settings{
		PVMinEnergyChgThreshold: c.Dispatch.PVMinEnergyChgThreshold,
		PPAMinDelta:             c.Dispatch.PPAMinDelta,
		PCSLimitAtPOI:           c.Dispatch.PCSLimitAtPOI,
		PCSHoursAtPOI:           c.Dispatch.PCSHoursAtPOI,
		CyclesPerDay:            c.Dispatch.CyclesPerDay,
	}
}

// SimulationInputs loads the catalog, yield and rates the config points at.
func (c *Config) SimulationInputs() (model.SimulationInputs, *data.Catalog, error) {
	cod, err := c.COD()
	if err != nil {
		return model.SimulationInputs{}, nil, err
	}
	cat, err := data.LoadCatalog(c.Resolve(c.Equipment.Catalog))
	if err != nil {
		return model.SimulationInputs{}, nil, err
	}
	eq, err := cat.Select(c.Equipment.Select)
	if err != nil {
		return model.SimulationInputs{}, nil, err
	}
	yield, err := data.LoadYieldCSV(c.Resolve(c.Inputs.YieldCSV), c.Inputs.YieldColumn)
	if err != nil {
		return model.SimulationInputs{}, nil, err
	}
	r, err := c.rates(eq.Module.Life)
	if err != nil {
		return model.SimulationInputs{}, nil, err
	}
	return model.SimulationInputs{
		POIMW:        c.Project.POIMW,
		COD:          cod,
		Equipment:    eq,
		Yield:        yield,
		Rates:        r,
		Augmentation: c.Augmentation,
	}, cat, nil
}

func (c *Config) rates(years int) (model.RateSeries, error) {
	switch {
	case c.Inputs.RatesCSV != "":
		r, err := data.LoadRatesCSV(c.Resolve(c.Inputs.RatesCSV), c.Inputs.RateColumns)
		if err != nil {
			return model.RateSeries{}, err
		}
		return rates.Extend(r, years)
	case len(c.Inputs.DailyRateTemplate) != 0:
		return rates.FromDailyTemplate(years, c.Inputs.DailyRateTemplate)
	default:
		var monthly [timeline.MonthsPerYear][]float64
		copy(monthly[:], c.Inputs.MonthlyRateTemplates)
		return rates.FromMonthlyTemplates(years, monthly)
	}
}
