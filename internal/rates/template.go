// Package rates builds horizon-long tariff series from repeating templates.
package rates

import (
	"errors"
	"fmt"

	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

// ErrTemplateLength reports a daily template that is not 24 hours long.
var ErrTemplateLength = errors.New("rate template must have 24 hourly values")

// FromDailyTemplate repeats one 24-hour combined-rate template over every
// day of the given number of years.
func FromDailyTemplate(years int, daily []float64) (model.RateSeries, error) {
	if len(daily) != timeline.HoursPerDay {
		return model.RateSeries{}, fmt.Errorf("%w, got %d", ErrTemplateLength, len(daily))
	}
	if years < 1 {
		return model.RateSeries{}, fmt.Errorf("years must be >= 1, got %d", years)
	}
	return model.RateSeries{Combined: timeline.Tile(daily, timeline.DaysPerYear*years)}, nil
}

// FromMonthlyTemplates uses a separate 24-hour template for each calendar
// month.
func FromMonthlyTemplates(years int, monthly [timeline.MonthsPerYear][]float64) (model.RateSeries, error) {
	for m, t := range monthly {
		if len(t) != timeline.HoursPerDay {
			return model.RateSeries{}, fmt.Errorf("month %d: %w, got %d", m+1, ErrTemplateLength, len(t))
		}
	}
	if years < 1 {
		return model.RateSeries{}, fmt.Errorf("years must be >= 1, got %d", years)
	}
	year := make([]float64, 0, timeline.HoursPerYear)
	for m, days := range timeline.MonthDays {
		year = append(year, timeline.Tile(monthly[m], days)...)
	}
	return model.RateSeries{Combined: timeline.Tile(year, years)}, nil
}

// Extend tiles a one-year series over years. A series that already covers
// the horizon is returned unchanged.
func Extend(r model.RateSeries, years int) (model.RateSeries, error) {
	n := timeline.Hours(years)
	switch r.Len() {
	case n:
		return r, r.Validate(n)
	case timeline.HoursPerYear:
		if err := r.Validate(timeline.HoursPerYear); err != nil {
			return model.RateSeries{}, err
		}
		tile := func(s []float64) []float64 {
			if len(s) == 0 {
				return nil
			}
			return timeline.Tile(s, years)
		}
		return model.RateSeries{
			Energy:   tile(r.Energy),
			Capacity: tile(r.Capacity),
			REC:      tile(r.REC),
			RA:       tile(r.RA),
			Combined: tile(r.Combined),
		}, nil
	default:
		return model.RateSeries{}, fmt.Errorf("rates have %d hours, want %d or %d", r.Len(), timeline.HoursPerYear, n)
	}
}
