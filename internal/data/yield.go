package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultYieldColumn is the array energy column of an hourly PV simulation
// export.
const DefaultYieldColumn = "EArrMPP"

// LoadYieldCSV reads hourly array energy from a CSV file. See ReadYieldCSV.
func LoadYieldCSV(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYieldCSV(f, column)
}

// ReadYieldCSV reads one column of hourly array energy. Simulation exports
// carry a preamble before the header row and a units row after it, so the
// header is the first row naming the column and non-numeric rows directly
// after it are skipped.
func ReadYieldCSV(r io.Reader, column string) ([]float64, error) {
	if column == "" {
		column = DefaultYieldColumn
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	col := -1
	var out []float64
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if col < 0 {
			col = indexOf(rec, column)
			continue
		}
		if col >= len(rec) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			if len(out) == 0 {
				continue
			}
			return nil, fmt.Errorf("line %d: column %s: %w", line, column, err)
		}
		out = append(out, v)
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("column %q has no values", column)
	}
	return out, nil
}

func indexOf(rec []string, name string) int {
	for i, f := range rec {
		if strings.EqualFold(strings.TrimSpace(f), name) {
			return i
		}
	}
	return -1
}
