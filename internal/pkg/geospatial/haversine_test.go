package geospatial_test

import (
	"math"
	"testing"

	"github.com/roadpulse/fleetsim/internal/pkg/geospatial"
)

func TestHaversine_Symmetric(t *testing.T) {
	a := geospatial.Haversine(40.7128, -74.0060, 34.0522, -118.2437)
	b := geospatial.Haversine(34.0522, -118.2437, 40.7128, -74.0060)
	if a != b {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	d := geospatial.Haversine(43.263, -2.935, 43.263, -2.935)
	if d != 0 {
		t.Errorf("expected 0 for identical points, got %f", d)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// New York -> Los Angeles is roughly 3936 km great-circle.
	d := geospatial.Haversine(40.7128, -74.0060, 34.0522, -118.2437)
	if math.Abs(d-3936) > 10 {
		t.Errorf("expected ~3936 km, got %f", d)
	}
}

func TestHaversine_ShortDistance(t *testing.T) {
	// Two points ~111 m apart along a meridian (0.001 deg of latitude).
	d := geospatial.Haversine(43.263, -2.935, 43.264, -2.935)
	if d < 0.10 || d > 0.12 {
		t.Errorf("expected ~0.111 km, got %f", d)
	}
}
