package fixtures_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/roadpulse/fleetsim/internal/adapters/fixtures"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadFleet(t *testing.T) {
	loader := fixtures.NewLoader("testdata", []fixtures.Dataset{
		{Name: "City Run", File: "trip_valid.json"},
		{Name: "Sparse Run", File: "trip_sparse.json"},
	}, quietLogger())

	fleet, err := loader.LoadFleet(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(fleet.Trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(fleet.Trips))
	}

	city := fleet.Trips[0]
	if city.TripName != "City Run" {
		t.Errorf("expected configured name, got %q", city.TripName)
	}
	if len(city.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(city.Events))
	}

	first := city.Events[0]
	want := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, first.Timestamp)
	}
	if first.Movement == nil || first.Movement.SpeedKmh != 52.4 {
		t.Errorf("unexpected movement: %+v", first.Movement)
	}
	if first.Device == nil || first.Device.BatteryLevel != 96.5 {
		t.Errorf("unexpected device: %+v", first.Device)
	}
	if !first.HasLocation() {
		t.Error("expected a usable location")
	}

	// Optional sections stay nil when the sample omits them.
	sparse := fleet.Trips[1].Events[0]
	if sparse.Location != nil || sparse.Movement != nil || sparse.Device != nil {
		t.Errorf("expected nil optional sections, got %+v", sparse)
	}
	// A zero battery reading survives as a present device section.
	drained := fleet.Trips[1].Events[1]
	if drained.Device == nil || drained.Device.BatteryLevel != 0 {
		t.Errorf("expected zero battery reading preserved, got %+v", drained.Device)
	}
}

func TestLoadFleet_SkipsBadFiles(t *testing.T) {
	loader := fixtures.NewLoader("testdata", []fixtures.Dataset{
		{Name: "Good", File: "trip_valid.json"},
		{Name: "Broken", File: "trip_broken.json"},
		{Name: "Missing", File: "does_not_exist.json"},
	}, quietLogger())

	fleet, err := loader.LoadFleet(context.Background())
	if err == nil {
		t.Fatal("expected a joined error for the bad datasets")
	}
	if len(fleet.Trips) != 1 || fleet.Trips[0].TripName != "Good" {
		t.Errorf("expected only the good trip to load, got %+v", fleet.Trips)
	}
}

func TestLoadFleet_ContextCancelled(t *testing.T) {
	loader := fixtures.NewLoader("testdata", nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.LoadFleet(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestDefaultDatasets(t *testing.T) {
	loader := fixtures.NewLoader("testdata", nil, quietLogger())
	fleet, err := loader.LoadFleet(context.Background())

	// None of the default files exist under testdata: every dataset fails
	// but the loader still returns an (empty) fleet.
	if err == nil {
		t.Fatal("expected errors for missing default files")
	}
	if len(fleet.Trips) != 0 {
		t.Errorf("expected no trips, got %d", len(fleet.Trips))
	}
}
