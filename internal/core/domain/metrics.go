package domain

import "time"

// TripStatus classifies a trip by its last event.
type TripStatus string

const (
	StatusNoData     TripStatus = "No Data"
	StatusInProgress TripStatus = "In Progress"
	StatusCompleted  TripStatus = "Completed"
	StatusCancelled  TripStatus = "Cancelled"
)

// TripMetrics summarizes one trip's event sequence.
type TripMetrics struct {
	TotalDistance float64    `json:"total_distance"` // km, 2 decimals
	AvgSpeed      float64    `json:"avg_speed"`      // km/h, 1 decimal
	Duration      float64    `json:"duration"`       // hours, 1 decimal
	Alerts        int        `json:"alerts"`
	Status        TripStatus `json:"status"`
	TotalEvents   int        `json:"total_events"`
}

// FleetMetrics aggregates trip metrics across the whole fleet.
type FleetMetrics struct {
	TotalDistance  float64 `json:"total_distance"` // km, 2 decimals
	TotalVehicles  int     `json:"total_vehicles"`
	ActiveTrips    int     `json:"active_trips"`
	CompletedTrips int     `json:"completed_trips"`
	CancelledTrips int     `json:"cancelled_trips"`
	AvgSpeed       float64 `json:"avg_speed"` // km/h, mean of per-trip averages
}

// VehicleForecast is the per-vehicle time-to-empty projection.
type VehicleForecast struct {
	Vehicle string  `json:"vehicle"`
	Battery float64 `json:"battery"` // last known %, fallback if unsampled
	Speed   float64 `json:"speed"`   // mean km/h, 1 decimal
	TTE     float64 `json:"tte"`     // hours, 1 decimal
	Range   float64 `json:"range"`   // km, whole number
}

// FleetInsights is the derived fleet health projection.
type FleetInsights struct {
	TotalVehicles   int               `json:"total_vehicles"`
	ActiveTrips     int               `json:"active_trips"`
	TotalDistance   float64           `json:"total_distance"`
	AvgSpeed        float64           `json:"avg_speed"`
	AvgBattery      float64           `json:"avg_battery"`
	TTE             float64           `json:"tte"`   // fleet mean, hours
	Range           float64           `json:"range"` // fleet mean, km
	Vehicles        []VehicleForecast `json:"vehicles"`
	EfficiencyScore int               `json:"efficiency_score"` // 0-100
	LowBatteryCount int               `json:"low_battery_count"`
	HighSpeedCount  int               `json:"high_speed_count"`
	CriticalTTE     int               `json:"critical_tte"`
	MaintenanceDue  int               `json:"maintenance_due"`
}

// SpeedPoint is one sample in the speed-over-time series.
type SpeedPoint struct {
	Time  string  `json:"time"`
	Speed float64 `json:"speed"`
}

// BatteryPoint is one sample in the battery-over-time series.
type BatteryPoint struct {
	Time    string  `json:"time"`
	Battery float64 `json:"battery"`
}

// SignalBucket is one slice of the signal-quality distribution.
type SignalBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TripSpeed is the per-trip average speed chart record.
type TripSpeed struct {
	Trip     string  `json:"trip"`
	AvgSpeed float64 `json:"avgSpeed"`
}

// TripDistance is the per-trip cumulative distance chart record.
type TripDistance struct {
	Trip     string  `json:"trip"`
	Distance float64 `json:"distance"`
}

// TripDuration is the per-trip duration chart record.
type TripDuration struct {
	Trip     string  `json:"trip"`
	Duration float64 `json:"duration"` // hours, 1 decimal
}

// ChatMessage is one entry in the assistant's conversation transcript.
type ChatMessage struct {
	Role    string    `json:"role"` // "user" | "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}
