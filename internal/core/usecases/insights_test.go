package usecases_test

import (
	"testing"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/core/usecases"
)

func insightWindows() []domain.TripWindow {
	return []domain.TripWindow{
		{TripName: "Healthy Runner", Events: []domain.Event{
			ping(0, battery(80), moving(40)),
			ping(10, battery(80), moving(40)),
		}},
		{TripName: "Drained Runner", Events: []domain.Event{
			ping(0, battery(20), moving(60)),
			ping(10, battery(20), moving(60)),
		}},
	}
}

func TestDeriveInsights_Empty(t *testing.T) {
	ins := usecases.DeriveInsights(domain.FleetMetrics{}, nil)
	if ins.EfficiencyScore != 0 || ins.TTE != 0 || len(ins.Vehicles) != 0 {
		t.Errorf("expected zero insights for empty input, got %+v", ins)
	}
}

func TestDeriveInsights_Forecasts(t *testing.T) {
	windows := insightWindows()
	fm := usecases.CalculateFleetMetrics(windows)

	ins := usecases.DeriveInsights(fm, windows)

	if len(ins.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicle forecasts, got %d", len(ins.Vehicles))
	}

	v1, v2 := ins.Vehicles[0], ins.Vehicles[1]
	if v1.Range != 400 || v1.TTE != 10.0 {
		t.Errorf("vehicle 1: expected range 400 / tte 10.0, got %+v", v1)
	}
	if v2.Range != 100 || v2.TTE != 1.7 {
		t.Errorf("vehicle 2: expected range 100 / tte 1.7, got %+v", v2)
	}

	if ins.AvgBattery != 50.0 {
		t.Errorf("expected avg battery 50.0, got %f", ins.AvgBattery)
	}
	if ins.TTE != 5.9 {
		t.Errorf("expected fleet tte 5.9, got %f", ins.TTE)
	}
	if ins.Range != 250 {
		t.Errorf("expected fleet range 250, got %f", ins.Range)
	}
}

func TestDeriveInsights_AlertCounts(t *testing.T) {
	windows := insightWindows()
	ins := usecases.DeriveInsights(usecases.CalculateFleetMetrics(windows), windows)

	if ins.LowBatteryCount != 1 {
		t.Errorf("expected 1 low-battery vehicle (the 20%% one), got %d", ins.LowBatteryCount)
	}
	if ins.HighSpeedCount != 0 {
		t.Errorf("expected 0 high-speed vehicles, got %d", ins.HighSpeedCount)
	}
	if ins.CriticalTTE != 1 {
		t.Errorf("expected 1 vehicle under the critical TTE threshold, got %d", ins.CriticalTTE)
	}
	if ins.MaintenanceDue != 0 {
		t.Errorf("expected no maintenance flags at the thresholds, got %d", ins.MaintenanceDue)
	}
}

func TestDeriveInsights_EfficiencyScore(t *testing.T) {
	windows := insightWindows()
	ins := usecases.DeriveInsights(usecases.CalculateFleetMetrics(windows), windows)

	// battery 50% -> 20 pts, no speeders -> 30 pts, half low-battery -> 15 pts
	if ins.EfficiencyScore != 65 {
		t.Errorf("expected efficiency 65, got %d", ins.EfficiencyScore)
	}
}

func TestDeriveInsights_FallbacksWithoutSamples(t *testing.T) {
	windows := []domain.TripWindow{
		{TripName: "Silent Vehicle", Events: []domain.Event{ping(0), ping(10)}},
	}

	ins := usecases.DeriveInsights(usecases.CalculateFleetMetrics(windows), windows)
	v := ins.Vehicles[0]
	if v.Battery != 95.6 || v.Speed != 50.0 {
		t.Errorf("expected fallback battery/speed, got %+v", v)
	}
	if v.Range != 478 {
		t.Errorf("expected fallback range 478, got %f", v.Range)
	}
	// range 478 km exceeds the maintenance proxy threshold
	if ins.MaintenanceDue != 1 {
		t.Errorf("expected maintenance flag for long projected range, got %d", ins.MaintenanceDue)
	}
}

func TestDeriveInsights_HighSpeedFlag(t *testing.T) {
	windows := []domain.TripWindow{
		{TripName: "Speeder", Events: []domain.Event{
			ping(0, battery(90), moving(95)),
			ping(10, battery(88), moving(95)),
		}},
	}

	ins := usecases.DeriveInsights(usecases.CalculateFleetMetrics(windows), windows)
	if ins.HighSpeedCount != 1 {
		t.Errorf("expected high-speed flag, got %d", ins.HighSpeedCount)
	}
}
