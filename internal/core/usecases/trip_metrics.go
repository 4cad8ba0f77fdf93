package usecases

import (
	"math"
	"strings"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/pkg/geospatial"
)

// CalculateTripMetrics reduces one trip's ordered event sequence into
// distance, speed, duration, alert, and status metrics. Events are
// assumed chronological; duration is computed from the first and last
// entries without re-sorting.
func CalculateTripMetrics(events []domain.Event) domain.TripMetrics {
	if len(events) == 0 {
		return domain.TripMetrics{Status: domain.StatusNoData}
	}

	var totalDistance float64
	var speedSum float64
	var speedCount int
	var alerts int

	// Pairwise walk from index 1: the first event seeds the distance
	// computation but its speed and alert fields are never sampled.
	for i := 1; i < len(events); i++ {
		prev := &events[i-1]
		curr := &events[i]

		if prev.HasLocation() && curr.HasLocation() {
			totalDistance += geospatial.Haversine(
				prev.Location.Lat, prev.Location.Lng,
				curr.Location.Lat, curr.Location.Lng,
			)
		}

		if curr.Movement != nil {
			speedSum += curr.Movement.SpeedKmh
			speedCount++
		}

		// Case-sensitive substring match, e.g. "speed_alert".
		if strings.Contains(curr.EventType, "alert") {
			alerts++
		}
	}

	avgSpeed := 0.0
	if speedCount > 0 {
		avgSpeed = speedSum / float64(speedCount)
	}

	duration := events[len(events)-1].Timestamp.Sub(events[0].Timestamp).Hours()

	status := domain.StatusInProgress
	switch events[len(events)-1].EventType {
	case domain.EventTripCompleted:
		status = domain.StatusCompleted
	case domain.EventTripCancelled:
		status = domain.StatusCancelled
	}

	return domain.TripMetrics{
		TotalDistance: round2(totalDistance),
		AvgSpeed:      round1(avgSpeed),
		Duration:      round1(duration),
		Alerts:        alerts,
		Status:        status,
		TotalEvents:   len(events),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
