package model

import "fmt"

// RateSeries holds hourly tariff components over a horizon, in $/MWh.
// Combined is the rate the dispatcher ranks hours by; the other components
// are carried for reporting.
type RateSeries struct {
	Energy   []float64 `json:"energy"`
	Capacity []float64 `json:"capacity"`
	REC      []float64 `json:"rec"`
	RA       []float64 `json:"ra"`
	Combined []float64 `json:"combined"`
}

// Len is the number of hours in the series.
func (r RateSeries) Len() int { return len(r.Combined) }

// At returns the rate components of hour i. Missing components read as 0.
func (r RateSeries) At(i int) (energy, capacity, rec, ra, combined float64) {
	return at(r.Energy, i), at(r.Capacity, i), at(r.REC, i), at(r.RA, i), at(r.Combined, i)
}

// Validate checks that Combined has n entries and that every other
// component is either empty or n long.
func (r RateSeries) Validate(n int) error {
	if len(r.Combined) != n {
		return fmt.Errorf("combined rates: got %d hours, want %d", len(r.Combined), n)
	}
	for name, s := range map[string][]float64{"energy": r.Energy, "capacity": r.Capacity, "rec": r.REC, "ra": r.RA} {
		if len(s) != 0 && len(s) != n {
			return fmt.Errorf("%s rates: got %d hours, want %d", name, len(s), n)
		}
	}
	return nil
}

// Slice returns the hours [from, to) of every component.
func (r RateSeries) Slice(from, to int) RateSeries {
	return RateSeries{
		Energy:   sub(r.Energy, from, to),
		Capacity: sub(r.Capacity, from, to),
		REC:      sub(r.REC, from, to),
		RA:       sub(r.RA, from, to),
		Combined: sub(r.Combined, from, to),
	}
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func sub(s []float64, from, to int) []float64 {
	if len(s) < to {
		return nil
	}
	return s[from:to]
}
