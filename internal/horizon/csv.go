package horizon

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"index",
	"time",
	"day",
	"hour",
	"action",
	"array_energy_mwh",
	"combined_rate",
	"pv_only_poi_mwh",
	"pv_to_poi_mwh",
	"battery_to_poi_mwh",
	"soc_percent",
	"soc_mwh",
	"node_meter_pvs_mwh",
	"node_meter_pv_mwh",
	"poi_meter_pvs_mwh",
	"poi_meter_pv_mwh",
	"battery_energy_mwh",
	"charge_rank",
	"discharge_rank",
	"inverter_output_mwh",
	"clip_harvest_mwh",
	"charged_mwh",
	"discharged_mwh",
	"delivered_pv_mwh",
	"wasted_pv_mwh",
	"pv_only_wasted_mwh",
	"clip_charged",
	"pv_charged",
	"discharged",
}

// WriteOutputCSV writes the hourly output to path. axis, when not nil,
// supplies one timestamp per hour.
func WriteOutputCSV(path string, out *Output, axis []time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteOutput(f, out, axis)
}

// WriteOutput writes the hourly output as CSV.
func WriteOutput(dst io.Writer, out *Output, axis []time.Time) error {
	if axis != nil && len(axis) < out.Len() {
		return fmt.Errorf("%w: time axis has %d hours, output %d", ErrLengthMismatch, len(axis), out.Len())
	}

	w := csv.NewWriter(dst)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for i := 0; i < out.Len(); i++ {
		r := out.Row(i)
		var ts time.Time
		if axis != nil {
			ts = axis[i]
		}
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(ts),
			strconv.Itoa(r.Day),
			strconv.Itoa(r.Hour),
			string(r.Action),
			fmtFloat(r.ArrayEnergy),
			fmtFloat(r.CombinedRate),
			fmtFloat(r.PVOnlyPOI),
			fmtFloat(r.PVToPOI),
			fmtFloat(r.BatteryToPOI),
			fmtFloat(r.SOCPercent),
			fmtFloat(r.SOCEnergy),
			fmtFloat(r.NodeMeterPVS),
			fmtFloat(r.NodeMeterPV),
			fmtFloat(r.POIMeterPVS),
			fmtFloat(r.POIMeterPV),
			fmtFloat(r.BatteryEnergy),
			strconv.Itoa(r.ChargeRank),
			strconv.Itoa(r.DischargeRank),
			fmtFloat(r.InverterOutput),
			fmtFloat(r.ClipHarvest),
			fmtFloat(r.Charged),
			fmtFloat(r.Discharged),
			fmtFloat(r.DeliveredPV),
			fmtFloat(r.WastedPV),
			fmtFloat(r.PVOnlyWasted),
			strconv.FormatBool(r.ClipCharged),
			strconv.FormatBool(r.PVCharged),
			strconv.FormatBool(r.DischargeFlag),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
