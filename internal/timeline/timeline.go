// Package timeline maps hour indices onto the simulator's calendar: 365-day
// years of 24-hour days, with no leap days.
package timeline

import "time"

const (
	HoursPerDay   = 24
	DaysPerYear   = 365
	HoursPerYear  = HoursPerDay * DaysPerYear
	MonthsPerYear = 12
)

// MonthDays is the length of each month in a 365-day year.
var MonthDays = [MonthsPerYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Hours returns the number of hours in the given number of years.
func Hours(years int) int { return years * HoursPerYear }

// Days returns the number of whole days in n hours.
func Days(n int) int { return n / HoursPerDay }

// Tile repeats series n times.
func Tile(series []float64, n int) []float64 {
	out := make([]float64, 0, len(series)*n)
	for i := 0; i < n; i++ {
		out = append(out, series...)
	}
	return out
}

// MonthlyToHourly broadcasts one value per month onto every hour of that
// month. Month i of the input is calendar month i%12.
func MonthlyToHourly(monthly []float64) []float64 {
	n := 0
	for i := range monthly {
		n += MonthDays[i%MonthsPerYear] * HoursPerDay
	}
	out := make([]float64, 0, n)
	for i, v := range monthly {
		for h := 0; h < MonthDays[i%MonthsPerYear]*HoursPerDay; h++ {
			out = append(out, v)
		}
	}
	return out
}

// MonthOfHour returns the calendar month (0..11) of hour h within its year.
func MonthOfHour(h int) int {
	day := (h % HoursPerYear) / HoursPerDay
	for m, d := range MonthDays {
		if day < d {
			return m
		}
		day -= d
	}
	return MonthsPerYear - 1
}

// YearOfHour returns the zero-based operating year of hour h.
func YearOfHour(h int) int { return h / HoursPerYear }

// Axis returns one timestamp per hour for the given number of years,
// starting at 00:00 on January 1st of the start year.
func Axis(start time.Time, years int) []time.Time {
	out := make([]time.Time, 0, Hours(years))
	loc := start.Location()
	for y := 0; y < years; y++ {
		year := start.Year() + y
		for m, days := range MonthDays {
			for d := 1; d <= days; d++ {
				for h := 0; h < HoursPerDay; h++ {
					out = append(out, time.Date(year, time.Month(m+1), d, h, 0, 0, 0, loc))
				}
			}
		}
	}
	return out
}

// TimeOfHour returns the timestamp of hour h on the Axis that starts at
// start.
func TimeOfHour(start time.Time, h int) time.Time {
	day := (h % HoursPerYear) / HoursPerDay
	month := 0
	for m, d := range MonthDays {
		if day < d {
			month = m
			break
		}
		day -= d
	}
	return time.Date(start.Year()+YearOfHour(h), time.Month(month+1), day+1, h%HoursPerDay, 0, 0, 0, start.Location())
}
