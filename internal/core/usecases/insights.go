package usecases

import (
	"fmt"
	"math"

	"github.com/roadpulse/fleetsim/internal/core/domain"
)

// Forecast model and alerting thresholds. These are fixed business
// rules, exposed as constants for testability.
const (
	// RangeKmPerBatteryPercent converts remaining charge into range.
	RangeKmPerBatteryPercent = 5.0

	// LowBatteryThreshold flags vehicles below this charge percentage.
	LowBatteryThreshold = 30.0

	// HighSpeedThreshold flags vehicles averaging above this speed.
	HighSpeedThreshold = 80.0

	// CriticalTTEThreshold flags vehicles below this time-to-empty, in hours.
	CriticalTTEThreshold = 2.0

	// MaintenanceRangeThreshold treats a projected range above this as a
	// high-mileage-since-service proxy.
	MaintenanceRangeThreshold = 400.0

	// MaintenanceBatteryThreshold flags maintenance below this charge.
	MaintenanceBatteryThreshold = 20.0
)

// Fallbacks used when a vehicle has no battery or speed samples.
const (
	fallbackBatteryPercent = 95.6
	fallbackSpeedKmh       = 50.0
)

// DeriveInsights projects fleet metrics and the current trip windows
// into a composite efficiency score, time-to-empty forecasts, and alert
// counts. An empty trip collection yields zero-valued insights.
func DeriveInsights(fm domain.FleetMetrics, windows []domain.TripWindow) domain.FleetInsights {
	if len(windows) == 0 {
		return domain.FleetInsights{}
	}

	ins := domain.FleetInsights{
		TotalVehicles: fm.TotalVehicles,
		ActiveTrips:   fm.ActiveTrips,
		TotalDistance: fm.TotalDistance,
		AvgSpeed:      fm.AvgSpeed,
		Vehicles:      make([]domain.VehicleForecast, 0, len(windows)),
	}

	// Fleet-wide average battery over every sampled reading.
	var batterySum float64
	var batteryCount int
	for _, w := range windows {
		for i := range w.Events {
			if w.Events[i].Device != nil {
				batterySum += w.Events[i].Device.BatteryLevel
				batteryCount++
			}
		}
	}
	if batteryCount > 0 {
		ins.AvgBattery = round1(batterySum / float64(batteryCount))
	} else {
		ins.AvgBattery = fallbackBatteryPercent
	}

	var tteSum, rangeSum float64
	for i, w := range windows {
		v := forecastVehicle(i, w)
		ins.Vehicles = append(ins.Vehicles, v)
		tteSum += v.TTE
		rangeSum += v.Range

		if v.Battery < LowBatteryThreshold {
			ins.LowBatteryCount++
		}
		if v.Speed > HighSpeedThreshold {
			ins.HighSpeedCount++
		}
		if v.TTE < CriticalTTEThreshold {
			ins.CriticalTTE++
		}
		if v.Range > MaintenanceRangeThreshold || v.Battery < MaintenanceBatteryThreshold {
			ins.MaintenanceDue++
		}
	}

	n := float64(len(ins.Vehicles))
	ins.TTE = round1(tteSum / n)
	ins.Range = math.Round(rangeSum / n)

	// Weighted composite: battery level 40%, speed safety 30%,
	// battery safety 30%, clamped to [0,100].
	score := (ins.AvgBattery/100)*40 +
		(1-float64(ins.HighSpeedCount)/n)*30 +
		(1-float64(ins.LowBatteryCount)/n)*30
	ins.EfficiencyScore = int(math.Min(100, math.Round(score)))

	return ins
}

// forecastVehicle projects one trip's remaining range and time-to-empty
// from its last known battery level and mean speed.
func forecastVehicle(index int, w domain.TripWindow) domain.VehicleForecast {
	battery := fallbackBatteryPercent
	for i := len(w.Events) - 1; i >= 0; i-- {
		if w.Events[i].Device != nil {
			battery = w.Events[i].Device.BatteryLevel
			break
		}
	}

	// Only moving samples feed the mean; zero speeds are idle readings.
	var speedSum float64
	var speedCount int
	for i := range w.Events {
		if w.Events[i].Movement != nil && w.Events[i].Movement.SpeedKmh > 0 {
			speedSum += w.Events[i].Movement.SpeedKmh
			speedCount++
		}
	}
	speed := fallbackSpeedKmh
	if speedCount > 0 {
		speed = round1(speedSum / float64(speedCount))
	}

	name := w.TripName
	if name == "" {
		name = fmt.Sprintf("Vehicle %d", index+1)
	}

	rangeKm := battery * RangeKmPerBatteryPercent
	tte := 0.0
	if speed > 0 {
		tte = round1(rangeKm / speed)
	}

	return domain.VehicleForecast{
		Vehicle: name,
		Battery: battery,
		Speed:   speed,
		TTE:     tte,
		Range:   math.Round(rangeKm),
	}
}
