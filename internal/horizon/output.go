package horizon

import (
	"pvs-dispatch/internal/dispatch"
	"pvs-dispatch/internal/model"
)

// Output is the hourly record of a horizon run, one slice entry per hour.
type Output struct {
	ArrayEnergy  []float64
	CombinedRate []float64

	PVOnlyPOI     []float64
	PVToPOI       []float64
	BatteryToPOI  []float64
	SOCPercent    []float64
	SOCEnergy     []float64
	NodeMeterPVS  []float64
	NodeMeterPV   []float64
	POIMeterPVS   []float64
	POIMeterPV    []float64
	BatteryEnergy []float64

	ChargeRank    []int
	DischargeRank []int
	HourOfDay     []int

	InverterOutput []float64
	ClipHarvest    []float64
	Charged        []float64
	Discharged     []float64
	ChargedPV      []float64
	DeliveredPV    []float64
	WastedPV       []float64
	PVOnlyWasted   []float64

	ClipCharged   []bool
	PVCharged     []bool
	DischargeFlag []bool
}

func newOutput(n int) *Output {
	f := func() []float64 { return make([]float64, n) }
	i := func() []int { return make([]int, n) }
	b := func() []bool { return make([]bool, n) }
	return &Output{
		ArrayEnergy: f(), CombinedRate: f(),
		PVOnlyPOI: f(), PVToPOI: f(), BatteryToPOI: f(), SOCPercent: f(), SOCEnergy: f(),
		NodeMeterPVS: f(), NodeMeterPV: f(), POIMeterPVS: f(), POIMeterPV: f(), BatteryEnergy: f(),
		ChargeRank: i(), DischargeRank: i(), HourOfDay: i(),
		InverterOutput: f(), ClipHarvest: f(), Charged: f(), Discharged: f(), ChargedPV: f(),
		DeliveredPV: f(), WastedPV: f(), PVOnlyWasted: f(),
		ClipCharged: b(), PVCharged: b(), DischargeFlag: b(),
	}
}

// Len is the number of hours recorded.
func (o *Output) Len() int { return len(o.SOCEnergy) }

func (o *Output) set(base int, day dispatch.DayResult) {
	for h, r := range day.Hours {
		i := base + h
		o.PVOnlyPOI[i] = r.PVOnlyPOI
		o.PVToPOI[i] = r.PVToPOI
		o.BatteryToPOI[i] = r.BatteryToPOI
		o.SOCPercent[i] = r.SOCPercent
		o.SOCEnergy[i] = r.SOCEnergy
		o.NodeMeterPVS[i] = r.NodeMeterPVS
		o.NodeMeterPV[i] = r.NodeMeterPV
		o.POIMeterPVS[i] = r.POIMeterPVS
		o.POIMeterPV[i] = r.POIMeterPV
		o.BatteryEnergy[i] = r.BatteryEnergy
		o.ChargeRank[i] = r.ChargeRank
		o.DischargeRank[i] = r.DischargeRank
		o.HourOfDay[i] = r.Hour
		o.InverterOutput[i] = r.InverterOutput
		o.ClipHarvest[i] = r.ClipHarvest
		o.Charged[i] = r.Charged
		o.Discharged[i] = r.Discharged
		o.ChargedPV[i] = r.ChargedPV
		o.DeliveredPV[i] = r.DeliveredPV
		o.WastedPV[i] = r.WastedPV
		o.PVOnlyWasted[i] = r.PVOnlyWasted
		o.ClipCharged[i] = r.ClipCharged
		o.PVCharged[i] = r.PVCharged
		o.DischargeFlag[i] = r.DischargeFlag
	}
}

// Row is one hour of output.
type Row struct {
	Index        int
	Day          int
	Action       model.Action
	ArrayEnergy  float64
	CombinedRate float64
	dispatch.HourResult
}

// Row returns hour i as a row.
func (o *Output) Row(i int) Row {
	return Row{
		Index:        i,
		Day:          i / dispatch.HoursPerDay,
		Action:       model.ActionFromBatteryEnergy(o.BatteryEnergy[i]),
		ArrayEnergy:  o.ArrayEnergy[i],
		CombinedRate: o.CombinedRate[i],
		HourResult: dispatch.HourResult{
			Hour:           o.HourOfDay[i],
			PVOnlyPOI:      o.PVOnlyPOI[i],
			PVToPOI:        o.PVToPOI[i],
			BatteryToPOI:   o.BatteryToPOI[i],
			SOCPercent:     o.SOCPercent[i],
			SOCEnergy:      o.SOCEnergy[i],
			NodeMeterPVS:   o.NodeMeterPVS[i],
			NodeMeterPV:    o.NodeMeterPV[i],
			POIMeterPVS:    o.POIMeterPVS[i],
			POIMeterPV:     o.POIMeterPV[i],
			BatteryEnergy:  o.BatteryEnergy[i],
			ChargeRank:     o.ChargeRank[i],
			DischargeRank:  o.DischargeRank[i],
			InverterOutput: o.InverterOutput[i],
			ClipHarvest:    o.ClipHarvest[i],
			Charged:        o.Charged[i],
			Discharged:     o.Discharged[i],
			ChargedPV:      o.ChargedPV[i],
			ClipCharged:    o.ClipCharged[i],
			PVCharged:      o.PVCharged[i],
			DischargeFlag:  o.DischargeFlag[i],
			DeliveredPV:    o.DeliveredPV[i],
			WastedPV:       o.WastedPV[i],
			PVOnlyWasted:   o.PVOnlyWasted[i],
		},
	}
}

// Rows returns hours [from, to) as rows, clamped to the horizon.
func (o *Output) Rows(from, to int) []Row {
	if from < 0 {
		from = 0
	}
	if to > o.Len() {
		to = o.Len()
	}
	if from >= to {
		return nil
	}
	rows := make([]Row, 0, to-from)
	for i := from; i < to; i++ {
		rows = append(rows, o.Row(i))
	}
	return rows
}

// Result is a completed horizon run.
type Result struct {
	Output        *Output
	Arbitrage     []bool
	Days          int
	ArbitrageDays int
}
