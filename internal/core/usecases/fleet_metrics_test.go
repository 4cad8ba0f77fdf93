package usecases_test

import (
	"testing"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/core/usecases"
)

// scenarioFleet builds the two-trip reference fleet: trip A pings at
// 0/10/20 min ending completed, trip B pings at 5/15 min ending cancelled.
func scenarioFleet() domain.Fleet {
	return domain.Fleet{Trips: []domain.Trip{
		{
			TripName: "Cross-Country Long Haul",
			Events: []domain.Event{
				ping(0, at(40.0, -74.0), moving(50)),
				ping(10, at(40.1, -74.0), moving(60)),
				ping(20, at(40.2, -74.0), typed(domain.EventTripCompleted)),
			},
		},
		{
			TripName: "Mountain Route Cancelled",
			Events: []domain.Event{
				ping(5, at(39.0, -106.0), moving(30)),
				ping(15, at(39.1, -106.0), typed(domain.EventTripCancelled)),
			},
		},
	}}
}

func windowsOf(f domain.Fleet) []domain.TripWindow {
	out := make([]domain.TripWindow, len(f.Trips))
	for i, tr := range f.Trips {
		out[i] = domain.TripWindow{TripName: tr.TripName, Events: tr.Events}
	}
	return out
}

func TestCalculateFleetMetrics_Empty(t *testing.T) {
	if m := usecases.CalculateFleetMetrics(nil); m != (domain.FleetMetrics{}) {
		t.Errorf("expected zero metrics for empty fleet, got %+v", m)
	}
}

func TestCalculateFleetMetrics_StatusCounts(t *testing.T) {
	m := usecases.CalculateFleetMetrics(windowsOf(scenarioFleet()))

	if m.TotalVehicles != 2 {
		t.Errorf("expected 2 vehicles, got %d", m.TotalVehicles)
	}
	if m.ActiveTrips != 1 {
		t.Errorf("expected 1 active trip, got %d", m.ActiveTrips)
	}
	if m.CompletedTrips != 1 {
		t.Errorf("expected 1 completed trip, got %d", m.CompletedTrips)
	}
	if m.CancelledTrips != 1 {
		t.Errorf("expected 1 cancelled trip, got %d", m.CancelledTrips)
	}
	if m.TotalDistance <= 0 {
		t.Errorf("expected positive distance, got %f", m.TotalDistance)
	}
}

func TestCalculateFleetMetrics_CompletedCountsAsActive(t *testing.T) {
	windows := []domain.TripWindow{
		{TripName: "Done", Events: []domain.Event{
			ping(0), ping(10, typed(domain.EventTripCompleted)),
		}},
	}

	m := usecases.CalculateFleetMetrics(windows)
	if m.ActiveTrips != 1 || m.CompletedTrips != 1 {
		t.Errorf("completed trip should count as active too, got %+v", m)
	}
}

func TestCalculateFleetMetrics_SkipsEmptyTrips(t *testing.T) {
	windows := []domain.TripWindow{
		{TripName: "Empty"},
		{TripName: "Live", Events: []domain.Event{ping(0), ping(5)}},
	}

	m := usecases.CalculateFleetMetrics(windows)
	if m.TotalVehicles != 2 {
		t.Errorf("empty trips still count as vehicles, got %d", m.TotalVehicles)
	}
	if m.ActiveTrips != 1 {
		t.Errorf("empty trips contribute no status, got %d active", m.ActiveTrips)
	}
}

func TestCalculateFleetMetrics_AvgSpeedOverNonzeroTrips(t *testing.T) {
	windows := []domain.TripWindow{
		// avg 40 km/h
		{TripName: "A", Events: []domain.Event{ping(0), ping(10, moving(40))}},
		// no speed samples: excluded from the fleet mean
		{TripName: "B", Events: []domain.Event{ping(0), ping(10)}},
		// avg 60 km/h
		{TripName: "C", Events: []domain.Event{ping(0), ping(10, moving(60))}},
	}

	m := usecases.CalculateFleetMetrics(windows)
	if m.AvgSpeed != 50.0 {
		t.Errorf("expected mean of per-trip averages 50.0, got %f", m.AvgSpeed)
	}
}
