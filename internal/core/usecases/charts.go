package usecases

import (
	"strings"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/pkg/geospatial"
)

// seriesCap bounds the time-series charts to the first qualifying
// events across the flattened trip sequence.
const seriesCap = 100

const chartTimeLayout = "15:04:05"

// PrepareSpeedSeries flattens the visible events across trips and emits
// one point per positive speed sample, capped at seriesCap.
func PrepareSpeedSeries(windows []domain.TripWindow) []domain.SpeedPoint {
	points := make([]domain.SpeedPoint, 0, seriesCap)
	for _, w := range windows {
		for i := range w.Events {
			e := &w.Events[i]
			if e.Movement == nil || e.Movement.SpeedKmh <= 0 {
				continue
			}
			points = append(points, domain.SpeedPoint{
				Time:  e.Timestamp.Format(chartTimeLayout),
				Speed: e.Movement.SpeedKmh,
			})
			if len(points) == seriesCap {
				return points
			}
		}
	}
	return points
}

// PrepareBatterySeries emits one point per event that carries a device
// reading. A battery level of zero is a valid sample.
func PrepareBatterySeries(windows []domain.TripWindow) []domain.BatteryPoint {
	points := make([]domain.BatteryPoint, 0, seriesCap)
	for _, w := range windows {
		for i := range w.Events {
			e := &w.Events[i]
			if e.Device == nil {
				continue
			}
			points = append(points, domain.BatteryPoint{
				Time:    e.Timestamp.Format(chartTimeLayout),
				Battery: e.Device.BatteryLevel,
			})
			if len(points) == seriesCap {
				return points
			}
		}
	}
	return points
}

// PrepareSignalQuality counts events by lower-cased signal quality.
// The four buckets are always emitted, in fixed order; unrecognized
// values are dropped.
func PrepareSignalQuality(windows []domain.TripWindow) []domain.SignalBucket {
	counts := map[string]int{
		domain.SignalExcellent: 0,
		domain.SignalGood:      0,
		domain.SignalFair:      0,
		domain.SignalPoor:      0,
	}

	for _, w := range windows {
		for i := range w.Events {
			q := strings.ToLower(w.Events[i].SignalQuality)
			if _, ok := counts[q]; ok {
				counts[q]++
			}
		}
	}

	return []domain.SignalBucket{
		{Name: "Excellent", Value: counts[domain.SignalExcellent]},
		{Name: "Good", Value: counts[domain.SignalGood]},
		{Name: "Fair", Value: counts[domain.SignalFair]},
		{Name: "Poor", Value: counts[domain.SignalPoor]},
	}
}

// PrepareAverageSpeedPerTrip emits one record per trip, in input order,
// averaging only strictly positive speed samples.
func PrepareAverageSpeedPerTrip(windows []domain.TripWindow) []domain.TripSpeed {
	out := make([]domain.TripSpeed, 0, len(windows))
	for _, w := range windows {
		var sum float64
		var n int
		for i := range w.Events {
			e := &w.Events[i]
			if e.Movement != nil && e.Movement.SpeedKmh > 0 {
				sum += e.Movement.SpeedKmh
				n++
			}
		}
		avg := 0.0
		if n > 0 {
			avg = sum / float64(n)
		}
		out = append(out, domain.TripSpeed{
			Trip:     tripLabel(w.TripName),
			AvgSpeed: round1(avg),
		})
	}
	return out
}

// PrepareDistancePerTrip sums consecutive located-pair distances per
// trip. Trips with zero computed distance are dropped so the chart has
// no empty slices.
func PrepareDistancePerTrip(windows []domain.TripWindow) []domain.TripDistance {
	out := make([]domain.TripDistance, 0, len(windows))
	for _, w := range windows {
		var total float64
		for i := 1; i < len(w.Events); i++ {
			prev := &w.Events[i-1]
			curr := &w.Events[i]
			if prev.HasLocation() && curr.HasLocation() {
				total += geospatial.Haversine(
					prev.Location.Lat, prev.Location.Lng,
					curr.Location.Lat, curr.Location.Lng,
				)
			}
		}
		if total == 0 {
			continue
		}
		out = append(out, domain.TripDistance{
			Trip:     tripLabel(w.TripName),
			Distance: round2(total),
		})
	}
	return out
}

// PrepareDurationPerTrip emits one record per trip with the span
// between its first and last visible event, in hours.
func PrepareDurationPerTrip(windows []domain.TripWindow) []domain.TripDuration {
	out := make([]domain.TripDuration, 0, len(windows))
	for _, w := range windows {
		var hours float64
		if len(w.Events) >= 2 {
			first := w.Events[0].Timestamp
			last := w.Events[len(w.Events)-1].Timestamp
			hours = last.Sub(first).Hours()
		}
		out = append(out, domain.TripDuration{
			Trip:     tripLabel(w.TripName),
			Duration: round1(hours),
		})
	}
	return out
}

// tripLabel shortens a trip name to its first two words for axis labels.
func tripLabel(name string) string {
	if name == "" {
		return "Unknown"
	}
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}
