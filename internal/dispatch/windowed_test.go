package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowedFollowsFixedHours(t *testing.T) {
	w := lossless(daylight(6, 18, 20), blockRates())
	x := Windowed{ChargeStart: 10, ChargeEnd: 14, DischargeStart: 19, DischargeEnd: 21}

	for _, arbitrage := range []bool{false, true} {
		day := x.Schedule(w, arbitrage, testParams())
		assert.Equal(t, arbitrage, day.Arbitrage)

		for h := 0; h < HoursPerDay; h++ {
			hr := day.Hours[h]
			if h >= 10 && h < 14 {
				assert.InDelta(t, 20, hr.Charged, eps, "hour %d", h)
				assert.InDelta(t, 0, hr.PVToPOI, eps, "hour %d", h)
			} else {
				assert.InDelta(t, 0, hr.Charged, eps, "hour %d", h)
			}
			if h == 19 || h == 20 {
				assert.InDelta(t, 40, hr.BatteryToPOI, eps, "hour %d", h)
			} else {
				assert.InDelta(t, 0, hr.Discharged, eps, "hour %d", h)
			}
		}
		assert.InDelta(t, 80, day.Hours[13].SOCEnergy, eps)
		assert.InDelta(t, 0, day.Hours[23].SOCEnergy, eps)
		assert.InDelta(t, 20, day.Hours[18].PVToPOI, eps)
	}
}

func TestHourWindow(t *testing.T) {
	wrap := hourWindow(22, 2)
	for h := 0; h < HoursPerDay; h++ {
		assert.Equal(t, h >= 22 || h < 2, wrap[h], "hour %d", h)
	}
	assert.Equal(t, [HoursPerDay]bool{}, hourWindow(5, 5))
}

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(SchedulerConfig{})
	require.NoError(t, err)
	assert.Equal(t, "greedy", s.Name())

	s, err = NewScheduler(SchedulerConfig{Name: "Windowed", ChargeStart: "10:00", DischargeStart: "19:00", DischargeEnd: "21:00"})
	require.NoError(t, err)
	assert.Equal(t, Windowed{ChargeStart: 10, ChargeEnd: 19, DischargeStart: 19, DischargeEnd: 21}, s)

	_, err = NewScheduler(SchedulerConfig{Name: "windowed", ChargeStart: "10:30", DischargeStart: "19:00", DischargeEnd: "21:00"})
	assert.ErrorContains(t, err, "charge_start")

	_, err = NewScheduler(SchedulerConfig{Name: "oracle"})
	assert.ErrorIs(t, err, ErrUnknownScheduler)
}
