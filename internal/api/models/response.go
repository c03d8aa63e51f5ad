package models

import (
	"time"

	"pvs-dispatch/internal/analysis"
	"pvs-dispatch/internal/data"
	"pvs-dispatch/internal/horizon"
	"pvs-dispatch/internal/model"
)

// RunResponse describes a finished sweep. Cases are ranked by revenue
// uplift.
type RunResponse struct {
	ID        string                 `json:"id"`
	Status    string                 `json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	Start     time.Time              `json:"start"`
	Cases     []analysis.CaseSummary `json:"cases"`
}

// CaseRowsResponse is one page of a case's hourly output.
type CaseRowsResponse struct {
	RunID  string    `json:"run_id"`
	CaseID string    `json:"case_id"`
	Offset int       `json:"offset"`
	Limit  int       `json:"limit"`
	Total  int       `json:"total"`
	Rows   []HourRow `json:"rows"`
}

// HourRow is one hour of dispatch output.
type HourRow struct {
	Index        int          `json:"index"`
	Time         time.Time    `json:"time"`
	Day          int          `json:"day"`
	Hour         int          `json:"hour"`
	Action       model.Action `json:"action"`
	ArrayEnergy  float64      `json:"array_energy"`
	CombinedRate float64      `json:"combined_rate"`

	PVOnlyPOI     float64 `json:"pv_only_poi"`
	PVToPOI       float64 `json:"pv_to_poi"`
	BatteryToPOI  float64 `json:"battery_to_poi"`
	SOCPercent    float64 `json:"soc_percent"`
	SOCEnergy     float64 `json:"soc_energy"`
	NodeMeterPVS  float64 `json:"node_meter_pvs"`
	NodeMeterPV   float64 `json:"node_meter_pv"`
	POIMeterPVS   float64 `json:"poi_meter_pvs"`
	POIMeterPV    float64 `json:"poi_meter_pv"`
	BatteryEnergy float64 `json:"battery_energy"`

	ChargeRank    int `json:"charge_rank"`
	DischargeRank int `json:"discharge_rank"`

	InverterOutput float64 `json:"inverter_output"`
	ClipHarvest    float64 `json:"clip_harvest"`
	Charged        float64 `json:"charged"`
	Discharged     float64 `json:"discharged"`
	ChargedPV      float64 `json:"charged_pv"`
	ClipCharged    bool    `json:"clip_charged"`
	PVCharged      bool    `json:"pv_charged"`
	DischargeFlag  bool    `json:"discharge_flag"`
	DeliveredPV    float64 `json:"delivered_pv"`
	WastedPV       float64 `json:"wasted_pv"`
	PVOnlyWasted   float64 `json:"pv_only_wasted"`
}

// NewHourRow converts an output row stamped at t.
func NewHourRow(r horizon.Row, t time.Time) HourRow {
	return HourRow{
		Index:          r.Index,
		Time:           t,
		Day:            r.Day,
		Hour:           r.Hour,
		Action:         r.Action,
		ArrayEnergy:    r.ArrayEnergy,
		CombinedRate:   r.CombinedRate,
		PVOnlyPOI:      r.PVOnlyPOI,
		PVToPOI:        r.PVToPOI,
		BatteryToPOI:   r.BatteryToPOI,
		SOCPercent:     r.SOCPercent,
		SOCEnergy:      r.SOCEnergy,
		NodeMeterPVS:   r.NodeMeterPVS,
		NodeMeterPV:    r.NodeMeterPV,
		POIMeterPVS:    r.POIMeterPVS,
		POIMeterPV:     r.POIMeterPV,
		BatteryEnergy:  r.BatteryEnergy,
		ChargeRank:     r.ChargeRank,
		DischargeRank:  r.DischargeRank,
		InverterOutput: r.InverterOutput,
		ClipHarvest:    r.ClipHarvest,
		Charged:        r.Charged,
		Discharged:     r.Discharged,
		ChargedPV:      r.ChargedPV,
		ClipCharged:    r.ClipCharged,
		PVCharged:      r.PVCharged,
		DischargeFlag:  r.DischargeFlag,
		DeliveredPV:    r.DeliveredPV,
		WastedPV:       r.WastedPV,
		PVOnlyWasted:   r.PVOnlyWasted,
	}
}

// CatalogResponse lists the equipment library.
type CatalogResponse struct {
	Names   map[string][]string `json:"names"`
	Catalog *data.Catalog       `json:"catalog"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
