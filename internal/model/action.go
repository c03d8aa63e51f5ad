package model

// Action is a human-friendly operating mode for an hour.
// Keep these values stable; they are written to CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromBatteryEnergy labels an hour from its net battery energy.
// Convention: positive MWh = discharge, negative MWh = charge.
func ActionFromBatteryEnergy(mwh float64) Action {
	switch {
	case mwh < 0:
		return ActionCharging
	case mwh > 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
