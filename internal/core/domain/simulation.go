package domain

import "time"

// FilterAll is the sentinel trip filter meaning "no trip selected".
const FilterAll = -1

// SimulationSnapshot is a point-in-time copy of the engine state handed
// to the presentation layer. Trips always covers the whole fleet; while
// playing each window holds only the events visible so far.
type SimulationSnapshot struct {
	SimulationTime *time.Time   `json:"simulation_time"`
	IsPlaying      bool         `json:"is_playing"`
	Speed          int          `json:"speed"`
	Filter         int          `json:"filter"` // FilterAll or a trip index
	Trips          []TripWindow `json:"trips"`
}
