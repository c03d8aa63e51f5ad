package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

func daily(v float64) []float64 {
	d := make([]float64, 24)
	for i := range d {
		d[i] = v + float64(i)
	}
	return d
}

func TestFromDailyTemplate(t *testing.T) {
	r, err := FromDailyTemplate(2, daily(0))
	require.NoError(t, err)
	require.Equal(t, timeline.Hours(2), r.Len())
	assert.Equal(t, 5.0, r.Combined[5])
	assert.Equal(t, 5.0, r.Combined[24*300+5])
	assert.Nil(t, r.Energy)
}

func TestFromDailyTemplateRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 23, 25} {
		r, err := FromDailyTemplate(1, make([]float64, n))
		assert.ErrorIs(t, err, ErrTemplateLength)
		assert.Zero(t, r.Len())
	}
}

func TestFromMonthlyTemplates(t *testing.T) {
	var m [12][]float64
	for i := range m {
		m[i] = daily(float64(i * 100))
	}
	r, err := FromMonthlyTemplates(1, m)
	require.NoError(t, err)
	require.Equal(t, timeline.HoursPerYear, r.Len())
	assert.Equal(t, 3.0, r.Combined[3])
	assert.Equal(t, 103.0, r.Combined[31*24+3])
	assert.Equal(t, 1123.0, r.Combined[timeline.HoursPerYear-1])

	m[4] = m[4][:10]
	_, err = FromMonthlyTemplates(1, m)
	assert.ErrorIs(t, err, ErrTemplateLength)
	assert.ErrorContains(t, err, "month 5")
}

func TestExtend(t *testing.T) {
	year := make([]float64, timeline.HoursPerYear)
	year[0] = 7
	r, err := Extend(model.RateSeries{Combined: year, Energy: year}, 3)
	require.NoError(t, err)
	assert.Equal(t, timeline.Hours(3), r.Len())
	assert.Equal(t, 7.0, r.Energy[timeline.Hours(2)])
	assert.Nil(t, r.RA)

	_, err = Extend(model.RateSeries{Combined: make([]float64, 100)}, 1)
	assert.Error(t, err)
}
