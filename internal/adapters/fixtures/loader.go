package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roadpulse/fleetsim/internal/core/domain"
)

// Dataset names one telemetry fixture file and the trip it becomes.
type Dataset struct {
	Name string `mapstructure:"name" json:"name"`
	File string `mapstructure:"file" json:"file"`
}

// DefaultDatasets is the bundled five-trip demo fleet.
var DefaultDatasets = []Dataset{
	{Name: "Cross-Country Long Haul", File: "trip_1_cross_country.json"},
	{Name: "Urban Dense Delivery", File: "trip_2_urban_dense.json"},
	{Name: "Mountain Route Cancelled", File: "trip_3_mountain_cancelled.json"},
	{Name: "Southern Technical Issues", File: "trip_4_southern_technical.json"},
	{Name: "Regional Logistics", File: "trip_5_regional_logistics.json"},
}

// Loader reads trip telemetry from JSON fixture files on disk.
// Each file holds one trip's event array in recorded order; the loader
// preserves that order and never sorts.
type Loader struct {
	dir      string
	datasets []Dataset
	logger   *slog.Logger
}

// NewLoader creates a Loader over dir. An empty dataset list falls back
// to DefaultDatasets.
func NewLoader(dir string, datasets []Dataset, logger *slog.Logger) *Loader {
	if len(datasets) == 0 {
		datasets = DefaultDatasets
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, datasets: datasets, logger: logger}
}

// LoadFleet reads every configured dataset. A trip that fails to load
// is dropped and its error joined into the returned error; the fleet
// still contains every trip that parsed, so one bad file does not take
// the dashboard down.
func (l *Loader) LoadFleet(ctx context.Context) (domain.Fleet, error) {
	fleet := domain.Fleet{Trips: make([]domain.Trip, 0, len(l.datasets))}
	var errs []error

	for _, ds := range l.datasets {
		if err := ctx.Err(); err != nil {
			return domain.Fleet{}, err
		}

		events, err := l.readTrip(ds)
		if err != nil {
			l.logger.Warn("skipping dataset", "trip", ds.Name, "file", ds.File, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", ds.File, err))
			continue
		}

		l.logger.Info("loaded dataset", "trip", ds.Name, "events", len(events))
		fleet.Trips = append(fleet.Trips, domain.Trip{TripName: ds.Name, Events: events})
	}

	return fleet, errors.Join(errs...)
}

func (l *Loader) readTrip(ds Dataset) ([]domain.Event, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, ds.File))
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return events, nil
}
