package usecases

import (
	"github.com/roadpulse/fleetsim/internal/core/domain"
)

// CalculateFleetMetrics aggregates per-trip metrics into fleet-wide
// totals. A trip counts as active unless it is cancelled; completed
// trips are counted both as active and as completed. The fleet average
// speed is the mean of the nonzero per-trip averages, not weighted by
// event count.
func CalculateFleetMetrics(windows []domain.TripWindow) domain.FleetMetrics {
	if len(windows) == 0 {
		return domain.FleetMetrics{}
	}

	fm := domain.FleetMetrics{TotalVehicles: len(windows)}

	var totalDistance float64
	var speedSum float64
	var speedCount int

	for _, w := range windows {
		if len(w.Events) == 0 {
			continue
		}

		tm := CalculateTripMetrics(w.Events)

		totalDistance += tm.TotalDistance
		if tm.AvgSpeed > 0 {
			speedSum += tm.AvgSpeed
			speedCount++
		}

		if tm.Status == domain.StatusCancelled {
			fm.CancelledTrips++
		} else {
			fm.ActiveTrips++
			if tm.Status == domain.StatusCompleted {
				fm.CompletedTrips++
			}
		}
	}

	fm.TotalDistance = round2(totalDistance)
	if speedCount > 0 {
		fm.AvgSpeed = round1(speedSum / float64(speedCount))
	}
	return fm
}
