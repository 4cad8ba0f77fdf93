package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SimulationStatus is the control-surface view of the engine, without
// the per-trip event windows.
type SimulationStatus struct {
	SimulationTime *time.Time `json:"simulation_time"`
	IsPlaying      bool       `json:"is_playing"`
	Speed          int        `json:"speed"`
	Filter         int        `json:"filter"`
	Trips          int        `json:"trips"`
	VisibleEvents  int        `json:"visible_events"`
}

func statusOf(deps *Dependencies) SimulationStatus {
	snap := deps.Engine.Snapshot()
	visible := 0
	for _, w := range snap.Trips {
		visible += len(w.Events)
	}
	return SimulationStatus{
		SimulationTime: snap.SimulationTime,
		IsPlaying:      snap.IsPlaying,
		Speed:          snap.Speed,
		Filter:         snap.Filter,
		Trips:          len(snap.Trips),
		VisibleEvents:  visible,
	}
}

// SimulationStatusHandler returns the current clock state.
func SimulationStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(statusOf(deps))
	}
}

// PlayHandler starts the replay clock.
func PlayHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Engine.Play()
		return c.JSON(statusOf(deps))
	}
}

// PauseHandler stops the replay clock.
func PauseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Engine.Pause()
		return c.JSON(statusOf(deps))
	}
}

// ResetHandler restores the load-time state for the current filter.
func ResetHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Engine.Reset()
		return c.JSON(statusOf(deps))
	}
}

// FastForwardHandler jumps the virtual clock ahead one hour.
func FastForwardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deps.Engine.FastForward()
		return c.JSON(statusOf(deps))
	}
}

// SetSpeedHandler updates the clock multiplier.
func SetSpeedHandler(deps *Dependencies) fiber.Handler {
	type speedRequest struct {
		Speed int `json:"speed"`
	}
	return func(c *fiber.Ctx) error {
		var req speedRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Engine.SetSpeed(req.Speed); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(statusOf(deps))
	}
}

// SetFilterHandler selects a trip filter (-1 for all trips).
func SetFilterHandler(deps *Dependencies) fiber.Handler {
	type filterRequest struct {
		Filter int `json:"filter"`
	}
	return func(c *fiber.Ctx) error {
		var req filterRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Engine.SetFilter(req.Filter); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(statusOf(deps))
	}
}

// SetTimeHandler seeks the virtual clock to an RFC 3339 instant.
func SetTimeHandler(deps *Dependencies) fiber.Handler {
	type timeRequest struct {
		Time time.Time `json:"time"`
	}
	return func(c *fiber.Ctx) error {
		var req timeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Time.IsZero() {
			return errBadRequest(c, "time is required (RFC 3339)")
		}
		deps.Engine.SetSimulationTime(req.Time)
		return c.JSON(statusOf(deps))
	}
}
