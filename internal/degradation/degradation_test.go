package degradation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/timeline"
)

func testBattery() model.BatterySpec {
	return model.BatterySpec{
		Name:    "test",
		Life:    2,
		DegC365: []float64{1.0, 0.9, 0.8},
		DegC730: []float64{1.0, 0.8, 0.6},
		CRate:   0.25,
		EtaDOD:  0.9,
		RteBOL:  0.9,
		RteEOL:  0.8,
	}
}

const july = (31 + 28 + 31 + 30 + 31 + 30) * 24

func TestDegradeInterpolatesMonthly(t *testing.T) {
	c, err := Degrade(testBattery(), 1)
	require.NoError(t, err)
	require.Equal(t, timeline.Hours(2), c.Len())
	require.Len(t, c.RTE, c.Len())

	assert.InDelta(t, 1.0, c.Capacity[0], 1e-12)
	assert.InDelta(t, 0.95, c.Capacity[july], 1e-12)
	assert.InDelta(t, 0.9, c.Capacity[timeline.HoursPerYear], 1e-12)
	// Last month sits one step before the final curve point.
	assert.InDelta(t, 0.9-0.1*11.0/12.0, c.Capacity[c.Len()-1], 1e-12)

	assert.InDelta(t, 0.9, c.RTE[0], 1e-12)
	assert.InDelta(t, 0.8, c.RTE[c.Len()-1], 1e-12)
	assert.InDelta(t, 0.9-0.1*6.0/23.0, c.RTE[july], 1e-12)
}

func TestDegradeSelectsCurveByCycles(t *testing.T) {
	c, err := Degrade(testBattery(), 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, c.Capacity[timeline.HoursPerYear], 1e-12)
}

func TestDegradeRejectsUnsupportedCycles(t *testing.T) {
	for _, cycles := range []int{0, 3, -1} {
		c, err := Degrade(testBattery(), cycles)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedCycles))
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.Zero(t, c.Len())
	}
}

func TestDegradeRejectsShortCurve(t *testing.T) {
	b := testBattery()
	b.Life = 5
	_, err := Degrade(b, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	b = testBattery()
	b.Life = 0
	_, err = Degrade(b, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildProfile(t *testing.T) {
	c, err := Degrade(testBattery(), 1)
	require.NoError(t, err)
	p := Build(c, testBattery(), 4, 50)

	assert.InDelta(t, 200, p.Capacity[0], 1e-9)
	assert.InDelta(t, 50, p.MaxPower[0], 1e-9)
	assert.InDelta(t, 180, p.DODNameplate[0], 1e-9)
	assert.InDelta(t, math.Sqrt(0.9), p.ChargeEta[0], 1e-12)
	assert.Equal(t, p.ChargeEta, p.DischargeEta)
}

func TestMatchLength(t *testing.T) {
	c, err := Degrade(testBattery(), 1)
	require.NoError(t, err)
	p := Build(c, testBattery(), 4, 50)

	longer := MatchLength(p, timeline.Hours(3))
	assert.Equal(t, timeline.Hours(3), longer.Len())
	assert.Zero(t, longer.Capacity[timeline.Hours(2)])
	assert.Zero(t, longer.DischargeEta[timeline.Hours(3)-1])

	shorter := MatchLength(p, 48)
	assert.Equal(t, 48, shorter.Len())
	assert.Len(t, shorter.ChargeEta, 48)
}

func TestAugmentSumsBlocks(t *testing.T) {
	b := testBattery()
	c, err := Degrade(b, 1)
	require.NoError(t, err)
	n := timeline.Hours(3)

	steps := []model.AugmentationStep{{Year: 0, PowerMW: 100}, {Year: 1, PowerMW: 50}}
	p, err := Augment(c, b, 4, steps, n)
	require.NoError(t, err)
	require.Equal(t, n, p.Len())

	first := Build(c, b, 4, 100)
	second := Build(c, b, 4, 50)

	// Year 0: only the first block.
	assert.InDelta(t, first.Capacity[10], p.Capacity[10], 1e-9)
	assert.InDelta(t, first.RTE[10], p.RTE[10], 1e-12)

	// Year 1: both blocks, the new one at beginning of life.
	h := timeline.HoursPerYear + 10
	assert.InDelta(t, first.Capacity[h]+second.Capacity[10], p.Capacity[h], 1e-9)
	assert.InDelta(t, first.DODNameplate[h]+second.DODNameplate[10], p.DODNameplate[h], 1e-9)
	assert.InDelta(t, first.MaxPower[h]+second.MaxPower[10], p.MaxPower[h], 1e-9)
	wantRTE := (first.RTE[h]*100 + second.RTE[10]*50) / 150
	assert.InDelta(t, wantRTE, p.RTE[h], 1e-12)
	wantEta := (first.ChargeEta[h]*100 + second.ChargeEta[10]*50) / 150
	assert.InDelta(t, wantEta, p.ChargeEta[h], 1e-12)

	// Year 2: first block retired, second still in service.
	h = timeline.Hours(2) + 10
	assert.InDelta(t, second.Capacity[timeline.HoursPerYear+10], p.Capacity[h], 1e-9)
	assert.InDelta(t, second.RTE[timeline.HoursPerYear+10], p.RTE[h], 1e-12)
}

func TestAugmentNothingInstalled(t *testing.T) {
	b := testBattery()
	c, err := Degrade(b, 1)
	require.NoError(t, err)
	p, err := Augment(c, b, 4, []model.AugmentationStep{{Year: 5, PowerMW: 10}}, timeline.Hours(2))
	require.NoError(t, err)
	for i := 0; i < p.Len(); i += 1000 {
		assert.Zero(t, p.Capacity[i])
		assert.Zero(t, p.RTE[i])
		assert.Zero(t, p.ChargeEta[i])
	}
}

func TestAugmentRejectsNegativeStep(t *testing.T) {
	b := testBattery()
	c, err := Degrade(b, 1)
	require.NoError(t, err)
	_, err = Augment(c, b, 4, []model.AugmentationStep{{Year: -1, PowerMW: 10}}, 24)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestModuleDegradation(t *testing.T) {
	d := ModuleDegradation(model.ModuleSpec{Life: 2, Degradation: 0.012})
	require.Len(t, d, timeline.Hours(2))
	assert.InDelta(t, 1.0, d[0], 1e-12)
	assert.InDelta(t, 1-0.001*6, d[july], 1e-12)
	assert.InDelta(t, 1-0.001*12, d[timeline.HoursPerYear], 1e-12)
}
