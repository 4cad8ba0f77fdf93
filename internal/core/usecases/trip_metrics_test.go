package usecases_test

import (
	"testing"
	"time"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/core/usecases"
)

var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func ping(minutes int, opts ...func(*domain.Event)) domain.Event {
	e := domain.Event{
		Timestamp: baseTime.Add(time.Duration(minutes) * time.Minute),
		EventType: domain.EventLocationPing,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func at(lat, lng float64) func(*domain.Event) {
	return func(e *domain.Event) { e.Location = &domain.Location{Lat: lat, Lng: lng} }
}

func moving(speed float64) func(*domain.Event) {
	return func(e *domain.Event) { e.Movement = &domain.Movement{SpeedKmh: speed} }
}

func battery(level float64) func(*domain.Event) {
	return func(e *domain.Event) { e.Device = &domain.Device{BatteryLevel: level} }
}

func signal(q string) func(*domain.Event) {
	return func(e *domain.Event) { e.SignalQuality = q }
}

func typed(eventType string) func(*domain.Event) {
	return func(e *domain.Event) { e.EventType = eventType }
}

func TestCalculateTripMetrics_Empty(t *testing.T) {
	m := usecases.CalculateTripMetrics(nil)

	if m.Status != domain.StatusNoData {
		t.Errorf("expected status %q, got %q", domain.StatusNoData, m.Status)
	}
	if m.TotalDistance != 0 || m.AvgSpeed != 0 || m.Duration != 0 || m.Alerts != 0 || m.TotalEvents != 0 {
		t.Errorf("expected all-zero metrics, got %+v", m)
	}
}

func TestCalculateTripMetrics_DistanceAndDuration(t *testing.T) {
	// Two fixes ~0.111 km apart (0.001 deg of latitude), 30 minutes apart.
	events := []domain.Event{
		ping(0, at(43.263, -2.935)),
		ping(30, at(43.264, -2.935)),
	}

	m := usecases.CalculateTripMetrics(events)

	if m.TotalDistance < 0.10 || m.TotalDistance > 0.12 {
		t.Errorf("expected ~0.11 km, got %f", m.TotalDistance)
	}
	if m.Duration != 0.5 {
		t.Errorf("expected 0.5 h duration, got %f", m.Duration)
	}
	if m.TotalEvents != 2 {
		t.Errorf("expected 2 events, got %d", m.TotalEvents)
	}
}

func TestCalculateTripMetrics_SkipsUnlocatedPairs(t *testing.T) {
	events := []domain.Event{
		ping(0, at(43.263, -2.935)),
		ping(10), // no location: both pairs around it contribute zero
		ping(20, at(43.280, -2.935)),
	}

	m := usecases.CalculateTripMetrics(events)
	if m.TotalDistance != 0 {
		t.Errorf("expected 0 distance with broken pairs, got %f", m.TotalDistance)
	}
}

func TestCalculateTripMetrics_AvgSpeedSkipsFirstEvent(t *testing.T) {
	// The first event's speed mirrors the pairwise walk and is never sampled.
	events := []domain.Event{
		ping(0, moving(500)),
		ping(10, moving(40)),
		ping(20, moving(0)),
		ping(30, moving(80)),
	}

	m := usecases.CalculateTripMetrics(events)
	if m.AvgSpeed != 40.0 { // (40+0+80)/3
		t.Errorf("expected 40.0, got %f", m.AvgSpeed)
	}
}

func TestCalculateTripMetrics_NoSpeedSamples(t *testing.T) {
	events := []domain.Event{ping(0), ping(10)}
	if m := usecases.CalculateTripMetrics(events); m.AvgSpeed != 0 {
		t.Errorf("expected 0 speed, got %f", m.AvgSpeed)
	}
}

func TestCalculateTripMetrics_Alerts(t *testing.T) {
	events := []domain.Event{
		ping(0, typed("speed_alert")), // first event never sampled
		ping(10, typed("battery_alert")),
		ping(20, typed("geofence_alert_triggered")),
		ping(30),
	}

	m := usecases.CalculateTripMetrics(events)
	if m.Alerts != 2 {
		t.Errorf("expected 2 alerts, got %d", m.Alerts)
	}
}

func TestCalculateTripMetrics_Status(t *testing.T) {
	tests := []struct {
		name     string
		lastType string
		want     domain.TripStatus
	}{
		{"completed", domain.EventTripCompleted, domain.StatusCompleted},
		{"cancelled", domain.EventTripCancelled, domain.StatusCancelled},
		{"in progress", domain.EventLocationPing, domain.StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []domain.Event{ping(0), ping(10, typed(tt.lastType))}
			if m := usecases.CalculateTripMetrics(events); m.Status != tt.want {
				t.Errorf("expected %q, got %q", tt.want, m.Status)
			}
		})
	}
}

func TestCalculateTripMetrics_Deterministic(t *testing.T) {
	events := []domain.Event{
		ping(0, at(43.263, -2.935), moving(30)),
		ping(10, at(43.270, -2.940), moving(45)),
		ping(20, at(43.280, -2.950), typed(domain.EventTripCompleted)),
	}

	first := usecases.CalculateTripMetrics(events)
	second := usecases.CalculateTripMetrics(events)
	if first != second {
		t.Errorf("metrics not deterministic: %+v vs %+v", first, second)
	}
}
