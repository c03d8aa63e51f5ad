// Package dispatch schedules one day of PV-plus-storage operation.
//
// A day is processed in four passes: clipped PV is harvested into the
// battery, remaining PV charges the battery in cheapest-first order,
// stored energy is discharged in most-valuable-first order, and the
// resulting state of charge is integrated over the day.
package dispatch

// HoursPerDay is the dispatch window length.
const HoursPerDay = 24

// ChargePenalty is added to the charge cost of hours whose deliverable PV
// is below the minimum charge threshold, sending them to the back of the
// charge order.
const ChargePenalty = 1e6

// Hour is everything the scheduler knows about one hour. Energy is MWh,
// power MW, rates $/MWh and efficiencies fractions.
type Hour struct {
	ArrayEnergy float64

	EnergyRate   float64
	CapacityRate float64
	RECRate      float64
	RARate       float64
	CombinedRate float64

	InverterLimitedEnergy float64
	POILimitedEnergy      float64
	BatteryCharge         float64
	BatteryDischarge      float64
	InverterLimitPV       float64
	PCSChargeLimit        float64
	PCSDischargeLimit     float64
	POILimitPV            float64
	BatteryLimitedPV      float64

	ArrayToBattery float64
	ArrayToNode    float64
	ArrayToPOI     float64
	BatteryToPOI   float64

	ChargeEta    float64
	DischargeEta float64
	DODNameplate float64
	MaxPower     float64
	Capacity     float64
	RTE          float64
}

// Window is one day of hours, index 0 = midnight.
type Window [HoursPerDay]Hour

// Params are the plant-level settings that do not vary by hour.
type Params struct {
	// POI is the interconnection limit in MW.
	POI float64
	// PVMinEnergyChgThreshold is the fraction of the day's peak array
	// energy below which an hour is a poor charging candidate.
	PVMinEnergyChgThreshold float64
	// PCSLimitAtPOI is the storage power limit at the POI in MW.
	PCSLimitAtPOI float64
	// PCSHoursAtPOI is the storage duration at the POI limit.
	PCSHoursAtPOI float64
}

// CapacityLimit is the most energy the plant may store at the POI.
func (p Params) CapacityLimit() float64 { return p.PCSLimitAtPOI * p.PCSHoursAtPOI }

// HourResult is the outcome of one scheduled hour.
type HourResult struct {
	Hour int

	PVOnlyPOI     float64 // PV-only plant export at the POI
	PVToPOI       float64 // PV passed through to the POI alongside storage
	BatteryToPOI  float64 // battery discharge at the POI
	SOCPercent    float64
	SOCEnergy     float64
	NodeMeterPVS  float64
	NodeMeterPV   float64
	POIMeterPVS   float64
	POIMeterPV    float64
	BatteryEnergy float64 // discharged - charged, battery side

	ChargeRank    int
	DischargeRank int

	InverterOutput float64
	ClipHarvest    float64

	Charged    float64
	Discharged float64
	ChargedPV  float64

	ClipCharged   bool
	PVCharged     bool
	DischargeFlag bool

	DeliveredPV  float64
	WastedPV     float64
	PVOnlyWasted float64
}

// DayResult is the scheduled day.
type DayResult struct {
	Hours     [HoursPerDay]HourResult
	Arbitrage bool
}
