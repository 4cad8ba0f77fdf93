package domain

import (
	"time"
)

// SignalQuality levels reported by the telematics unit.
const (
	SignalExcellent = "excellent"
	SignalGood      = "good"
	SignalFair      = "fair"
	SignalPoor      = "poor"
)

// Well-known event types. Anything containing "alert" is treated as
// alert-bearing by the metrics calculators.
const (
	EventLocationPing  = "location_ping"
	EventTripCompleted = "trip_completed"
	EventTripCancelled = "trip_cancelled"
)

// Location is a GPS fix (WGS 84).
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Movement carries the sampled vehicle speed.
type Movement struct {
	SpeedKmh float64 `json:"speed_kmh"`
}

// Device carries the onboard device state. BatteryLevel is 0-100;
// zero is a valid reading, absence is tagged by the enclosing pointer.
type Device struct {
	BatteryLevel float64 `json:"battery_level"`
}

// Event is one timestamped telemetry sample. Location, Movement, and
// Device are optional; nil means the sample did not carry that section.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	EventType     string    `json:"event_type"`
	Location      *Location `json:"location,omitempty"`
	Movement      *Movement `json:"movement,omitempty"`
	Device        *Device   `json:"device,omitempty"`
	SignalQuality string    `json:"signal_quality,omitempty"`
}

// HasLocation reports whether the event carries a usable GPS fix.
// A zero latitude is treated as missing, matching the fixture format.
func (e *Event) HasLocation() bool {
	return e.Location != nil && e.Location.Lat != 0
}

// Trip is one vehicle's ordered event history for the session.
// TripName is a display key and not guaranteed unique; trips are
// identified by their positional index in the fleet.
type Trip struct {
	TripName string  `json:"tripName"`
	Events   []Event `json:"events"`
}

// Fleet is the complete, immutable set of loaded trips.
type Fleet struct {
	Trips []Trip `json:"trips"`
}

// TripWindow is the time-windowed view of one trip's events that the
// simulation engine exposes to metrics and rendering.
type TripWindow struct {
	TripName string  `json:"tripName"`
	Events   []Event `json:"events"`
}
