package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/core/usecases"
	"github.com/roadpulse/fleetsim/internal/pkg/metrics"
)

// TripSummary is the list representation of one trip window.
type TripSummary struct {
	Index    int                `json:"index"`
	TripName string             `json:"trip_name"`
	Metrics  domain.TripMetrics `json:"metrics"`
}

// TripDetail adds the windowed event stream to the summary.
type TripDetail struct {
	TripSummary
	Events []domain.Event `json:"events"`
}

// ListTripsHandler returns summaries for every trip's current window.
func ListTripsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		windows := deps.Engine.CurrentEvents()

		summaries := make([]TripSummary, len(windows))
		for i, w := range windows {
			summaries[i] = TripSummary{
				Index:    i,
				TripName: w.TripName,
				Metrics:  usecases.CalculateTripMetrics(w.Events),
			}
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(summaries)
		if offset >= total {
			summaries = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			summaries = summaries[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: summaries, Pagination: pg})
	}
}

// GetTripHandler returns one trip's window with its metrics and events.
func GetTripHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		index, err := c.ParamsInt("index")
		if err != nil {
			return errBadRequest(c, "trip index must be an integer")
		}

		windows := deps.Engine.CurrentEvents()
		if index < 0 || index >= len(windows) {
			return errNotFound(c, "trip not found")
		}

		w := windows[index]
		return c.JSON(TripDetail{
			TripSummary: TripSummary{
				Index:    index,
				TripName: w.TripName,
				Metrics:  usecases.CalculateTripMetrics(w.Events),
			},
			Events: w.Events,
		})
	}
}

// FleetMetricsHandler returns the aggregated fleet metrics for the
// current replay window.
func FleetMetricsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		windows := deps.Engine.CurrentEvents()
		return c.JSON(usecases.CalculateFleetMetrics(windows))
	}
}

// InsightsHandler returns the derived fleet health projection.
func InsightsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		windows := deps.Engine.CurrentEvents()
		fm := usecases.CalculateFleetMetrics(windows)
		return c.JSON(usecases.DeriveInsights(fm, windows))
	}
}

// ChartHandler serves one of the prepared chart series by kind.
func ChartHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		windows := deps.Engine.CurrentEvents()

		switch c.Params("kind") {
		case "speed":
			return c.JSON(usecases.PrepareSpeedSeries(windows))
		case "battery":
			return c.JSON(usecases.PrepareBatterySeries(windows))
		case "signal-quality":
			return c.JSON(usecases.PrepareSignalQuality(windows))
		case "average-speed":
			return c.JSON(usecases.PrepareAverageSpeedPerTrip(windows))
		case "distance":
			return c.JSON(usecases.PrepareDistancePerTrip(windows))
		case "duration":
			return c.JSON(usecases.PrepareDurationPerTrip(windows))
		default:
			return errNotFound(c, "unknown chart kind: "+c.Params("kind"))
		}
	}
}

// assistantRequest is the body of an assistant question.
type assistantRequest struct {
	Question string `json:"question"`
}

// AskAssistantHandler answers a free-text fleet question.
func AskAssistantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req assistantRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Question) == "" {
			return errBadRequest(c, "question is required")
		}

		windows := deps.Engine.CurrentEvents()
		fm := usecases.CalculateFleetMetrics(windows)
		answer := deps.Assistant.Ask(req.Question, windows, fm)
		metrics.AssistantQuestions.Inc()

		return c.JSON(fiber.Map{
			"question": req.Question,
			"answer":   answer,
		})
	}
}

// AssistantHistoryHandler returns the conversation transcript.
func AssistantHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"messages": deps.Assistant.Transcript(),
		})
	}
}
