package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
modules:
  Waaree_535:
    eta: 1
    life: 35
    degradation: 0.005
batteries:
  LFP_4h:
    eta: 1
    life: 20
    deg_c365: [1.0, 0.97, 0.95]
    deg_c730: [1.0, 0.94, 0.90]
    cp: 0.25
    eta_dod: 0.95
    rte_bol: 0.88
    rte_eol: 0.84
components:
  module_collector: {std: {eta: 0.99}}
  inverter: {sungrow: {eta: 0.985}}
  inverter_mvt: {std: {eta: 0.995}}
  inverter_mv_collector: {std: {eta: 0.997}}
  battery_collector: {std: {eta: 0.999}}
  pcs: {std: {eta: 0.98}}
  pcs_mvt: {std: {eta: 0.994}}
  pcs_mv_collector: {std: {eta: 0.996}}
  gsu: {std: {eta: 0.996}, alt: {eta: 0.99}}
`

func selection() Selection {
	return Selection{
		Module: "Waaree_535", ModuleCollector: "std", Inverter: "sungrow", InverterMVT: "std",
		InverterMVCollector: "std", Battery: "LFP_4h", BatteryCollector: "std", PCS: "std",
		PCSMVT: "std", PCSMVCollector: "std", GSU: "alt",
	}
}

func TestCatalogSelect(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	eq, err := c.Select(selection())
	require.NoError(t, err)
	assert.Equal(t, "Waaree_535", eq.Module.Name)
	assert.Equal(t, 35, eq.Module.Life)
	assert.Equal(t, []float64{1.0, 0.97, 0.95}, eq.Battery.DegC365)
	assert.Equal(t, 0.25, eq.Battery.CRate)
	assert.Equal(t, 0.985, eq.Inverter.Eta)
	assert.Equal(t, "alt", eq.GSU.Name)
	assert.Equal(t, 0.99, eq.GSU.Eta)
	require.NoError(t, eq.Validate())

	sel := selection()
	sel.PCS = "missing"
	_, err = c.Select(sel)
	assert.ErrorContains(t, err, "pcs")

	assert.Equal(t, []string{"alt", "std"}, c.Names()[CatGSU])
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))
	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Batteries, 1)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadYieldCSVSkipsPreambleAndUnits(t *testing.T) {
	in := strings.Join([]string{
		"PVSYST V7.2,,",
		"Project,UDA,",
		"",
		"date,EArrMPP,IAMLoss",
		",kWh,kWh",
		"01/01/90 00:00,0,0",
		"01/01/90 01:00,12.5,0.1",
		"01/01/90 02:00,30,0.2",
	}, "\n")
	got, err := ReadYieldCSV(strings.NewReader(in), "")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 12.5, 30}, got)

	_, err = ReadYieldCSV(strings.NewReader(in), "EOutInv")
	assert.ErrorContains(t, err, "EOutInv")

	bad := "EArrMPP\n1\nx\n"
	_, err = ReadYieldCSV(strings.NewReader(bad), "")
	assert.Error(t, err)
}

func TestReadRatesCSV(t *testing.T) {
	in := "hour,WoodMac,ventyx,WoodMac & Ventyx\n0,10,2,12\n1,20,3,23\n"
	cols := RateColumns{Energy: "WoodMac", Capacity: "ventyx", REC: "rec", Combined: "WoodMac & Ventyx"}
	rs, err := ReadRatesCSV(strings.NewReader(in), cols)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 23}, rs.Combined)
	assert.Equal(t, []float64{10, 20}, rs.Energy)
	assert.Equal(t, []float64{2, 3}, rs.Capacity)
	assert.Nil(t, rs.REC)
	require.NoError(t, rs.Validate(2))

	_, err = ReadRatesCSV(strings.NewReader(in), DefaultRateColumns())
	assert.ErrorContains(t, err, "combined")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.json")
	require.NoError(t, WriteJSON(path, map[string]int{"cases": 3}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 3, got["cases"])
}
