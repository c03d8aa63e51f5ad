// Package sweep expands design ranges into cases and runs them.
package sweep

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange reports a range that cannot be stepped.
var ErrInvalidRange = errors.New("invalid sweep range")

// Range is an inclusive start/stop/step design range.
type Range struct {
	Start float64 `yaml:"start" json:"start"`
	Stop  float64 `yaml:"stop" json:"stop"`
	Step  float64 `yaml:"step" json:"step"`
}

// Single is a range holding one value.
func Single(v float64) Range { return Range{Start: v, Stop: v} }

// Steps expands r into its values. A range with start == stop yields just
// start. Otherwise values run from start in step increments while below
// stop, and stop itself is appended when the next increment lands on it
// to two decimals. Values are rounded to five decimals.
func Steps(r Range) ([]float64, error) {
	if r.Start == r.Stop {
		return []float64{round(r.Start, 5)}, nil
	}
	if r.Stop < r.Start {
		return nil, fmt.Errorf("%w: stop %v is below start %v", ErrInvalidRange, r.Stop, r.Start)
	}
	if r.Step <= 0 {
		return nil, fmt.Errorf("%w: step must be > 0, got %v", ErrInvalidRange, r.Step)
	}

	var out []float64
	i := r.Start
	for i < r.Stop {
		out = append(out, round(i, 5))
		i += r.Step
	}
	if round(i, 2) == r.Stop {
		out = append(out, round(r.Stop, 5))
	}
	return out, nil
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
