package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pvs-dispatch/internal/model"
)

// RateColumns maps rate components to CSV header names. Empty names are
// not read.
type RateColumns struct {
	Energy   string `yaml:"energy" json:"energy"`
	Capacity string `yaml:"capacity" json:"capacity"`
	REC      string `yaml:"rec" json:"rec"`
	RA       string `yaml:"ra" json:"ra"`
	Combined string `yaml:"combined" json:"combined"`
}

// DefaultRateColumns reads columns named after the components.
func DefaultRateColumns() RateColumns {
	return RateColumns{Energy: "energy", Capacity: "capacity", REC: "rec", RA: "ra", Combined: "combined"}
}

// LoadRatesCSV reads hourly rates from a CSV file with a header row.
func LoadRatesCSV(path string, cols RateColumns) (model.RateSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RateSeries{}, err
	}
	defer f.Close()
	return ReadRatesCSV(f, cols)
}

// ReadRatesCSV reads hourly rates. The combined column is required; the
// other components are read when their header is present and left empty
// otherwise.
func ReadRatesCSV(r io.Reader, cols RateColumns) (model.RateSeries, error) {
	if cols.Combined == "" {
		return model.RateSeries{}, fmt.Errorf("combined rate column is required")
	}
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return model.RateSeries{}, fmt.Errorf("read header: %w", err)
	}

	type target struct {
		idx int
		dst *[]float64
	}
	var rs model.RateSeries
	var targets []target
	for _, c := range []struct {
		name string
		dst  *[]float64
	}{
		{cols.Energy, &rs.Energy},
		{cols.Capacity, &rs.Capacity},
		{cols.REC, &rs.REC},
		{cols.RA, &rs.RA},
		{cols.Combined, &rs.Combined},
	} {
		if c.name == "" {
			continue
		}
		idx := indexOf(header, c.name)
		if idx < 0 {
			if c.dst == &rs.Combined {
				return model.RateSeries{}, fmt.Errorf("column %q not found", c.name)
			}
			continue
		}
		targets = append(targets, target{idx: idx, dst: c.dst})
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.RateSeries{}, fmt.Errorf("line %d: %w", line, err)
		}
		for _, t := range targets {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[t.idx]), 64)
			if err != nil {
				return model.RateSeries{}, fmt.Errorf("line %d: %w", line, err)
			}
			*t.dst = append(*t.dst, v)
		}
	}
	return rs, nil
}
