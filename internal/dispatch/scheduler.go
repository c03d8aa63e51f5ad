package dispatch

import "math"

// Scheduler plans one day of plant operation.
type Scheduler interface {
	Name() string
	Schedule(w *Window, arbitrage bool, p Params) DayResult
}

// Greedy is the price-ranked daily scheduler.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Schedule(w *Window, arbitrage bool, p Params) DayResult {
	return Schedule(w, arbitrage, p)
}

// dayState is the scratch state of one Schedule call. Each day starts
// empty: nothing carries over between days.
type dayState struct {
	w        *Window
	p        Params
	capLimit float64
	lots     ledger

	deliverable [HoursPerDay]float64
	clip        [HoursPerDay]float64
	pvOnlyPOI   [HoursPerDay]float64
	invOut      [HoursPerDay]float64

	clipCharged   [HoursPerDay]float64
	clipChargedPV [HoursPerDay]float64
	pvCharged     [HoursPerDay]float64
	pvChargedPV   [HoursPerDay]float64
	passThrough   [HoursPerDay]float64

	discharged    [HoursPerDay]float64
	dischargedPOI [HoursPerDay]float64

	clipFlag      [HoursPerDay]bool
	pvFlag        [HoursPerDay]bool
	dischargeFlag [HoursPerDay]bool

	chargeRank    [HoursPerDay]int
	dischargeRank [HoursPerDay]int
}

// Schedule runs the four dispatch passes over one day. Price-driven
// charging only happens on arbitrage days; clipped energy is always
// harvested when there is room.
func Schedule(w *Window, arbitrage bool, p Params) DayResult {
	s := newDayState(w, p)
	s.harvestClipping()
	s.chargeFromPV(s.chargeOrder(), everyHour(arbitrage))
	dischargeOrder := natural()
	if arbitrage {
		var value [HoursPerDay]float64
		for h := range s.w {
			value[h] = s.w[h].CombinedRate
		}
		dischargeOrder = descending(value)
	}
	s.discharge(dischargeOrder, everyHour(true))
	return s.result(arbitrage)
}

func newDayState(w *Window, p Params) *dayState {
	return &dayState{w: w, p: p, capLimit: p.CapacityLimit()}
}

func everyHour(v bool) [HoursPerDay]bool {
	var out [HoursPerDay]bool
	for h := range out {
		out[h] = v
	}
	return out
}

// chargeHeadroom bounds a charge request by battery depth of discharge,
// the POI energy cap and the PCS limit at the POI.
func (s *dayState) chargeHeadroom(hr *Hour, want float64) float64 {
	soc := s.lots.total()
	limit := math.Min(want, hr.DODNameplate-soc)
	limit = math.Min(limit, safeDiv(s.capLimit, hr.BatteryToPOI)-soc)
	limit = math.Min(limit, safeDiv(s.p.PCSLimitAtPOI, hr.ArrayToBattery))
	return math.Max(0, limit)
}

func (s *dayState) harvestClipping() {
	for h := range s.w {
		hr := &s.w[h]
		if hr.InverterLimitPV > hr.POILimitPV {
			s.deliverable[h] = math.Min(hr.BatteryLimitedPV+hr.POILimitedEnergy, hr.InverterLimitedEnergy)
			s.pvOnlyPOI[h] = hr.POILimitedEnergy * hr.ArrayToPOI
			s.clip[h] = math.Max(0, s.deliverable[h]-hr.POILimitedEnergy)
			s.invOut[h] = hr.InverterLimitedEnergy
		} else {
			s.deliverable[h] = math.Min(hr.InverterLimitPV, hr.ArrayEnergy)
			s.pvOnlyPOI[h] = s.deliverable[h] * hr.ArrayToPOI
			s.invOut[h] = math.Min(s.deliverable[h], hr.InverterLimitedEnergy)
		}

		limit := s.chargeHeadroom(hr, math.Min(hr.BatteryCharge*hr.ChargeEta, s.clip[h]*hr.ArrayToBattery))
		if s.lots.total() >= hr.DODNameplate {
			continue
		}
		s.lots.add(h, limit)
		s.clipCharged[h] = limit
		s.clipChargedPV[h] = safeDiv(limit, hr.ArrayToBattery)
		s.clipFlag[h] = s.clip[h] > 0 && limit > 0
	}
}

// chargeOrder ranks hours by combined rate, cheapest first. Hours whose
// deliverable PV is below the charge threshold sink to the end.
func (s *dayState) chargeOrder() [HoursPerDay]int {
	peak := 0.0
	for h := range s.w {
		peak = math.Max(peak, s.w[h].ArrayEnergy)
	}
	floor := s.p.PVMinEnergyChgThreshold * peak

	var cost [HoursPerDay]float64
	for h := range s.w {
		cost[h] = s.w[h].CombinedRate
		if s.deliverable[h] < floor {
			cost[h] += ChargePenalty
		}
	}

	return ascending(cost)
}

// chargeFromPV charges from deliverable PV in order, at allowed hours only,
// then settles the PV pass-through of every hour.
func (s *dayState) chargeFromPV(order [HoursPerDay]int, allowed [HoursPerDay]bool) {
	for rank, h := range order {
		s.chargeRank[h] = rank
		if !allowed[h] {
			continue
		}
		hr := &s.w[h]
		want := math.Min(hr.BatteryCharge*hr.ChargeEta, s.deliverable[h]*hr.ArrayToBattery) - s.clipCharged[h]
		limit := s.chargeHeadroom(hr, want)
		if s.lots.total() >= hr.DODNameplate {
			continue
		}
		s.lots.add(h, limit)
		s.pvCharged[h] = limit
		s.pvChargedPV[h] = safeDiv(limit, hr.ArrayToBattery)
		s.pvFlag[h] = limit > 0
	}

	for h := range s.w {
		hr := &s.w[h]
		usedPV := s.clipChargedPV[h] + s.pvChargedPV[h]
		s.passThrough[h] = math.Max(0, math.Min(s.deliverable[h]-usedPV, hr.POILimitedEnergy)) * hr.ArrayToPOI
	}
}

func (s *dayState) discharge(order [HoursPerDay]int, allowed [HoursPerDay]bool) {
	for rank, h := range order {
		s.dischargeRank[h] = rank
		if !allowed[h] {
			continue
		}
		hr := &s.w[h]
		soc := s.lots.total()

		limit := math.Min(hr.BatteryDischarge, soc)
		limit = math.Min(limit, s.capLimit*hr.DischargeEta)
		limit = math.Min(limit, safeDiv(s.p.PCSLimitAtPOI, hr.BatteryToPOI))
		if hr.DODNameplate > 0 {
			limit = math.Min(limit, safeDiv(s.p.POI-s.passThrough[h], hr.BatteryToPOI))
		} else {
			limit = 0
		}
		limit = math.Max(0, limit)
		if soc <= 0 || limit <= 0 {
			continue
		}

		got := s.lots.draw(h, limit)
		s.discharged[h] = got
		s.dischargedPOI[h] = got * hr.BatteryToPOI
		s.dischargeFlag[h] = got > 0
	}
}

func (s *dayState) result(arbitrage bool) DayResult {
	out := DayResult{Arbitrage: arbitrage}
	soc := 0.0
	for h := range s.w {
		hr := &s.w[h]
		charged := s.clipCharged[h] + s.pvCharged[h]
		battE := s.discharged[h] - charged
		soc -= battE

		chargedPV := safeDiv(charged, hr.ArrayToBattery)
		delivered := safeDiv(s.passThrough[h], hr.ArrayToPOI) + chargedPV

		out.Hours[h] = HourResult{
			Hour:           h,
			PVOnlyPOI:      s.pvOnlyPOI[h],
			PVToPOI:        s.passThrough[h],
			BatteryToPOI:   s.dischargedPOI[h],
			SOCPercent:     round8(safeDiv(soc, hr.DODNameplate)),
			SOCEnergy:      round8(soc),
			NodeMeterPVS:   delivered * hr.ArrayToNode,
			NodeMeterPV:    safeDiv(s.pvOnlyPOI[h], hr.ArrayToPOI) * hr.ArrayToNode,
			POIMeterPVS:    delivered * hr.ArrayToPOI,
			POIMeterPV:     s.pvOnlyPOI[h],
			BatteryEnergy:  battE,
			ChargeRank:     s.chargeRank[h],
			DischargeRank:  s.dischargeRank[h],
			InverterOutput: s.invOut[h],
			ClipHarvest:    s.clipCharged[h],
			Charged:        charged,
			Discharged:     s.discharged[h],
			ChargedPV:      chargedPV,
			ClipCharged:    s.clipFlag[h],
			PVCharged:      s.pvFlag[h],
			DischargeFlag:  s.dischargeFlag[h],
			DeliveredPV:    delivered,
			WastedPV:       hr.ArrayEnergy - delivered,
			PVOnlyWasted:   hr.ArrayEnergy - safeDiv(s.pvOnlyPOI[h], hr.ArrayToPOI),
		}
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// round8 rounds to 8 decimals and folds -0 into 0.
func round8(x float64) float64 {
	r := math.Round(x*1e8) / 1e8
	if r == 0 {
		return 0
	}
	return r
}
