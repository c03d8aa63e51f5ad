package dispatch

// ledger tracks charged energy by the hour it was stored. Discharge only
// draws on energy stored at or before the discharge hour, oldest first.
type ledger struct {
	lots   [HoursPerDay]float64
	stored float64
}

func (l *ledger) add(hour int, mwh float64) {
	if mwh <= 0 {
		return
	}
	l.lots[hour] += mwh
	l.stored += mwh
}

func (l *ledger) total() float64 { return l.stored }

// availableAt is the energy that may be discharged at hour.
func (l *ledger) availableAt(hour int) float64 {
	sum := 0.0
	for h := 0; h <= hour; h++ {
		sum += l.lots[h]
	}
	return sum
}

// draw removes up to want MWh stored at or before hour and returns the
// amount removed.
func (l *ledger) draw(hour int, want float64) float64 {
	got := 0.0
	for h := 0; h <= hour && want > 0; h++ {
		if l.lots[h] <= 0 {
			continue
		}
		take := l.lots[h]
		if take > want {
			take = want
			l.lots[h] -= take
		} else {
			l.lots[h] = 0
		}
		want -= take
		got += take
	}
	l.stored -= got
	if l.stored < 0 {
		l.stored = 0
	}
	return got
}
