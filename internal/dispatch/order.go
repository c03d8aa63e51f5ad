package dispatch

import "sort"

// ascending returns the hour indices ordered by cost, ties by hour.
func ascending(cost [HoursPerDay]float64) [HoursPerDay]int {
	idx := natural()
	sort.SliceStable(idx[:], func(a, b int) bool { return cost[idx[a]] < cost[idx[b]] })
	return idx
}

// descending returns the hour indices ordered by value, highest first,
// ties by hour.
func descending(value [HoursPerDay]float64) [HoursPerDay]int {
	idx := natural()
	sort.SliceStable(idx[:], func(a, b int) bool { return value[idx[a]] > value[idx[b]] })
	return idx
}

func natural() [HoursPerDay]int {
	var idx [HoursPerDay]int
	for i := range idx {
		idx[i] = i
	}
	return idx
}
