package models

import "time"

// ChargingMode selects the charging rate for a session.
type ChargingMode string

const (
	ModeEco   ChargingMode = "ECO"
	ModeTurbo ChargingMode = "TURBO"
)

// ParseChargingMode validates a raw mode token.
func ParseChargingMode(raw string) (ChargingMode, bool) {
	switch ChargingMode(raw) {
	case ModeEco:
		return ModeEco, true
	case ModeTurbo:
		return ModeTurbo, true
	default:
		return "", false
	}
}

// Session status values.
const (
	SessionStatusCharging = "charging"
	SessionStatusEnded    = "ended"
)

// Session represents one charging occurrence. A single session exists at a
// time; it lives in memory only and is dropped once its receipt is issued.
type Session struct {
	ID      string       `json:"id"`
	Station Station      `json:"station"`
	Mode    ChargingMode `json:"mode"`
	SlotID  string       `json:"slot_id"`

	StartTime time.Time `json:"start_time"`
	Status    string    `json:"status"`

	// ChargeLevel runs 0-100 and never decreases while charging. Sessions
	// start at 20: the vehicle is already connected when charging begins.
	ChargeLevel float64 `json:"charge_level"`
	Cost        float64 `json:"cost"`

	PreAuthAmount float64 `json:"pre_auth_amount"`
	// DurationLimitSeconds caps the session length; 0 means charge to full.
	DurationLimitSeconds int `json:"duration_limit_seconds"`
	ElapsedSeconds       int `json:"elapsed_seconds"`

	// Locked tracks the cable lock as last requested, updated optimistically
	// before the bridge acknowledges.
	Locked bool `json:"locked"`
}

// Receipt is the immutable record produced exactly once per ended session.
type Receipt struct {
	ID          string       `json:"id"`
	StationName string       `json:"station_name"`
	IssuedAt    time.Time    `json:"issued_at"`
	Duration    string       `json:"duration"`
	TotalEnergy string       `json:"total_energy"`
	Mode        ChargingMode `json:"mode"`
	Cost        float64      `json:"cost"`
	Paid        float64      `json:"paid"`
	Refund      float64      `json:"refund"`
}
