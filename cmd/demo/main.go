package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"time"

	"pvs-dispatch/internal/analysis"
	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/logger"
	"pvs-dispatch/internal/model"
	"pvs-dispatch/internal/rates"
	"pvs-dispatch/internal/sweep"
	"pvs-dispatch/internal/timeline"
)

// Demo:
// - Build a synthetic plant (bell-shaped PV day, evening-peak tariff)
// - Run a small sweep over PCS size
// - Print one day of dispatch for the best case
func main() {
	years := flag.Int("years", 2, "plant life in years")
	day := flag.Int("day", 172, "day of the horizon to print")
	out := flag.String("out", "", "Optional path to write the best case's hourly CSV")
	flag.Parse()

	log := logger.New("demo")

	eq := demoEquipment(*years)
	r, err := rates.FromDailyTemplate(*years, []float64{
		22, 21, 20, 20, 21, 24, 30, 32, 28, 24, 20, 18,
		16, 15, 15, 17, 24, 45, 70, 82, 66, 44, 30, 25,
	})
	if err != nil {
		panic(err)
	}
	in := model.SimulationInputs{
		POIMW:     100,
		COD:       time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
		Equipment: eq,
		Yield:     demoYield(),
		Rates:     r,
	}
	plant, err := sweep.NewPlant(in, sweep.Settings{
		PVMinEnergyChgThreshold: 0.1,
		PPAMinDelta:             5,
		PCSLimitAtPOI:           100,
		PCSHoursAtPOI:           4,
		CyclesPerDay:            1,
	})
	if err != nil {
		panic(err)
	}
	cases, err := sweep.Enumerate(sweep.Spec{
		DCAC:         sweep.Single(1.4),
		InverterMW:   sweep.Single(115),
		PCSMW:        sweep.Range{Start: 25, Stop: 75, Step: 25},
		BatteryHours: sweep.Single(4),
	})
	if err != nil {
		panic(err)
	}

	driver := sweep.NewDriver(len(cases), log)
	results, err := driver.Run(context.Background(), plant, cases)
	if err != nil {
		panic(err)
	}

	ranked := analysis.RankByUplift(analysis.SummarizeAll(results))
	for _, s := range ranked {
		fmt.Printf("%-7s pcs=%5.1f MW  arb days=%4d  batt=%9.1f MWh  uplift=$%12.0f\n",
			s.CaseID, s.PCSMW, s.ArbitrageDays, s.BatteryDischargeMWh, s.RevenueUplift)
	}

	best := results[ranked[0].CaseID]
	o := best.Result.Output
	from := *day * timeline.HoursPerDay
	fmt.Printf("\n%s, %s\n", best, timeline.TimeOfHour(in.COD, from).Format("2006-01-02"))
	fmt.Printf("%-4s %-6s %-8s %-8s %-8s %-8s %-8s %-12s\n", "hour", "rate", "pv only", "pv>poi", "batt", "soc", "soc%", "action")
	for _, row := range o.Rows(from, from+timeline.HoursPerDay) {
		fmt.Printf("%-4d %-6.1f %-8.2f %-8.2f %-8.2f %-8.2f %-8.3f %-12s\n",
			row.Hour, row.CombinedRate, row.PVOnlyPOI, row.PVToPOI, row.BatteryToPOI, row.SOCEnergy, row.SOCPercent, row.Action)
	}

	if *out != "" {
		if err := horizon.WriteOutputCSV(*out, o, timeline.Axis(in.COD, *years)); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", o.Len(), *out)
	}
}

func demoEquipment(years int) model.Equipment {
	comp := func(eta float64) model.Component { return model.Component{Name: "std", Eta: eta} }
	deg := make([]float64, years)
	for y := range deg {
		deg[y] = 1 - 0.02*float64(y)
	}
	return model.Equipment{
		Module:              model.ModuleSpec{Name: "mono", Eta: 1, Life: years, Degradation: 0.004},
		ModuleCollector:     comp(0.985),
		Inverter:            comp(0.985),
		InverterMVT:         comp(0.993),
		InverterMVCollector: comp(0.995),
		Battery: model.BatterySpec{
			Name: "lfp", Eta: 1, Life: years, DegC365: deg, DegC730: deg,
			CRate: 0.25, EtaDOD: 0.95, RteBOL: 0.88, RteEOL: 0.86,
		},
		BatteryCollector: comp(0.998),
		PCS:              comp(0.982),
		PCSMVT:           comp(0.993),
		PCSMVCollector:   comp(0.995),
		GSU:              comp(0.996),
	}
}

// demoYield is a clear-sky bell between 06:00 and 18:00, stronger in
// summer.
func demoYield() []float64 {
	out := make([]float64, timeline.HoursPerYear)
	for h := range out {
		hod := h % timeline.HoursPerDay
		if hod < 6 || hod > 18 {
			continue
		}
		season := 0.75 + 0.25*math.Sin(2*math.Pi*(float64(h/timeline.HoursPerDay)-80)/timeline.DaysPerYear)
		out[h] = season * math.Sin(math.Pi*float64(hod-6)/12)
	}
	return out
}
