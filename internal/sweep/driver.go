package sweep

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/metrics"
)

// Recorder observes finished cases.
type Recorder interface {
	ObserveCase(status string, elapsed time.Duration, arbitrageDays int, dischargeMWh float64)
}

// Results maps case IDs to finished cases.
type Results map[string]*Case

// Ordered returns the cases sorted by enumeration index.
func (r Results) Ordered() []*Case {
	out := make([]*Case, 0, len(r))
	for _, c := range r {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Driver runs cases through the horizon engine with bounded parallelism.
type Driver struct {
	Engine *horizon.Engine
	// Workers bounds how many cases run at once. Values below 1 mean 1.
	Workers int
	// KeepInputs retains each case's hourly inputs after it runs.
	KeepInputs bool
	Log        logger.Logger
	Metrics    Recorder
}

func NewDriver(workers int, log logger.Logger) *Driver {
	e := horizon.New()
	e.Log = log
	return &Driver{Engine: e, Workers: workers, Log: log}
}

// Run builds and dispatches every case. Cases share nothing but the
// read-only plant. The first failing case cancels the rest and its error
// is returned.
func (d *Driver) Run(ctx context.Context, plant *Plant, cases []*Case) (Results, error) {
	if plant == nil {
		return nil, fmt.Errorf("plant is nil")
	}
	log := logger.OrNop(d.Log)
	engine := d.Engine
	if engine == nil {
		engine = horizon.New()
	}
	workers := d.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return d.runCase(engine, plant, c, log)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(Results, len(cases))
	for _, c := range cases {
		out[c.ID] = c
	}
	log.Infof("sweep finished: %d cases", len(cases))
	return out, nil
}

func (d *Driver) runCase(engine *horizon.Engine, plant *Plant, c *Case, log logger.Logger) error {
	start := time.Now()
	log.Infof("running %s", c)

	fail := func(err error) error {
		d.observe(metrics.StatusFailed, time.Since(start), 0, 0)
		log.Warnf("%s failed: %v", c.ID, err)
		return fmt.Errorf("%s: %w", c.ID, err)
	}

	if err := plant.Build(c); err != nil {
		return fail(err)
	}
	res, err := engine.Run(plant.Inputs(c))
	if err != nil {
		return fail(err)
	}
	c.Result = res
	if !d.KeepInputs {
		c.release()
	}

	discharge := floats.Sum(res.Output.BatteryToPOI)
	d.observe(metrics.StatusOK, time.Since(start), res.ArbitrageDays, discharge)
	log.Debugw("case finished", map[string]any{
		"case":           c.ID,
		"arbitrage_days": res.ArbitrageDays,
		"discharge_mwh":  discharge,
		"elapsed":        time.Since(start).String(),
	})
	return nil
}

func (d *Driver) observe(status string, elapsed time.Duration, arbDays int, discharge float64) {
	if d.Metrics == nil {
		return
	}
	d.Metrics.ObserveCase(status, elapsed, arbDays, discharge)
}
