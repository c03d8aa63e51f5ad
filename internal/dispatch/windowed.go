package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownScheduler reports a scheduler name with no implementation.
var ErrUnknownScheduler = errors.New("unknown scheduler")

// Windowed is a fixed daily time-window scheduler:
// - Charge from PV during [ChargeStart, ChargeEnd)
// - Discharge during [DischargeStart, DischargeEnd)
// - Harvest clipped energy at any hour
//
// Prices are ignored, so every day follows the same plan. Bounds are hours
// of day; a window whose start is after its end wraps midnight.
type Windowed struct {
	ChargeStart    int
	ChargeEnd      int
	DischargeStart int
	DischargeEnd   int
}

func (Windowed) Name() string { return "windowed" }

func (x Windowed) Schedule(w *Window, arbitrage bool, p Params) DayResult {
	s := newDayState(w, p)
	s.harvestClipping()
	s.chargeFromPV(natural(), hourWindow(x.ChargeStart, x.ChargeEnd))
	s.discharge(natural(), hourWindow(x.DischargeStart, x.DischargeEnd))
	return s.result(arbitrage)
}

// hourWindow marks the hours of [start, end) on a 24h clock.
// If start == end, the window is empty.
// If start > end, it wraps across midnight.
func hourWindow(start, end int) [HoursPerDay]bool {
	var out [HoursPerDay]bool
	for h := range out {
		switch {
		case start == end:
		case start < end:
			out[h] = h >= start && h < end
		default:
			out[h] = h >= start || h < end
		}
	}
	return out
}

// SchedulerConfig selects a Scheduler by name. The window bounds are
// "HH:00" and only apply to the windowed scheduler. ChargeEnd defaults to
// DischargeStart.
type SchedulerConfig struct {
	Name           string `yaml:"name" json:"name"`
	ChargeStart    string `yaml:"charge_start" json:"charge_start,omitempty"`
	ChargeEnd      string `yaml:"charge_end" json:"charge_end,omitempty"`
	DischargeStart string `yaml:"discharge_start" json:"discharge_start,omitempty"`
	DischargeEnd   string `yaml:"discharge_end" json:"discharge_end,omitempty"`
}

// NewScheduler builds the configured scheduler. An empty name selects
// Greedy.
func NewScheduler(c SchedulerConfig) (Scheduler, error) {
	switch strings.ToLower(strings.TrimSpace(c.Name)) {
	case "", "greedy":
		return Greedy{}, nil
	case "windowed":
		var x Windowed
		var err error
		if x.ChargeStart, err = parseHour(c.ChargeStart); err != nil {
			return nil, fmt.Errorf("charge_start: %w", err)
		}
		if x.DischargeStart, err = parseHour(c.DischargeStart); err != nil {
			return nil, fmt.Errorf("discharge_start: %w", err)
		}
		x.ChargeEnd = x.DischargeStart
		if strings.TrimSpace(c.ChargeEnd) != "" {
			if x.ChargeEnd, err = parseHour(c.ChargeEnd); err != nil {
				return nil, fmt.Errorf("charge_end: %w", err)
			}
		}
		if x.DischargeEnd, err = parseHour(c.DischargeEnd); err != nil {
			return nil, fmt.Errorf("discharge_end: %w", err)
		}
		return x, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheduler, c.Name)
	}
}

// parseHour reads "HH:MM" on the hour.
func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m != 0 {
		return 0, fmt.Errorf("invalid time %q, must be a whole hour", s)
	}
	return h, nil
}
