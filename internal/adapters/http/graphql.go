package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/roadpulse/fleetsim/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to the simulation engine.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	tripMetricsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TripMetrics",
		Fields: graphql.Fields{
			"total_distance": &graphql.Field{Type: graphql.Float},
			"avg_speed":      &graphql.Field{Type: graphql.Float},
			"duration":       &graphql.Field{Type: graphql.Float},
			"alerts":         &graphql.Field{Type: graphql.Int},
			"status":         &graphql.Field{Type: graphql.String},
			"total_events":   &graphql.Field{Type: graphql.Int},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"index":     &graphql.Field{Type: graphql.Int},
			"trip_name": &graphql.Field{Type: graphql.String},
			"metrics":   &graphql.Field{Type: tripMetricsType},
		},
	})

	fleetMetricsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FleetMetrics",
		Fields: graphql.Fields{
			"total_distance":  &graphql.Field{Type: graphql.Float},
			"total_vehicles":  &graphql.Field{Type: graphql.Int},
			"active_trips":    &graphql.Field{Type: graphql.Int},
			"completed_trips": &graphql.Field{Type: graphql.Int},
			"cancelled_trips": &graphql.Field{Type: graphql.Int},
			"avg_speed":       &graphql.Field{Type: graphql.Float},
		},
	})

	vehicleForecastType := graphql.NewObject(graphql.ObjectConfig{
		Name: "VehicleForecast",
		Fields: graphql.Fields{
			"vehicle": &graphql.Field{Type: graphql.String},
			"battery": &graphql.Field{Type: graphql.Float},
			"speed":   &graphql.Field{Type: graphql.Float},
			"tte":     &graphql.Field{Type: graphql.Float},
			"range":   &graphql.Field{Type: graphql.Float},
		},
	})

	insightsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FleetInsights",
		Fields: graphql.Fields{
			"total_vehicles":    &graphql.Field{Type: graphql.Int},
			"active_trips":      &graphql.Field{Type: graphql.Int},
			"total_distance":    &graphql.Field{Type: graphql.Float},
			"avg_speed":         &graphql.Field{Type: graphql.Float},
			"avg_battery":       &graphql.Field{Type: graphql.Float},
			"tte":               &graphql.Field{Type: graphql.Float},
			"range":             &graphql.Field{Type: graphql.Float},
			"vehicles":          &graphql.Field{Type: graphql.NewList(vehicleForecastType)},
			"efficiency_score":  &graphql.Field{Type: graphql.Int},
			"low_battery_count": &graphql.Field{Type: graphql.Int},
			"high_speed_count":  &graphql.Field{Type: graphql.Int},
			"critical_tte":      &graphql.Field{Type: graphql.Int},
			"maintenance_due":   &graphql.Field{Type: graphql.Int},
		},
	})

	simulationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Simulation",
		Fields: graphql.Fields{
			"simulation_time": &graphql.Field{Type: graphql.String},
			"is_playing":      &graphql.Field{Type: graphql.Boolean},
			"speed":           &graphql.Field{Type: graphql.Int},
			"filter":          &graphql.Field{Type: graphql.Int},
		},
	})

	tripSummaries := func() []map[string]interface{} {
		windows := deps.Engine.CurrentEvents()
		out := make([]map[string]interface{}, len(windows))
		for i, w := range windows {
			out[i] = map[string]interface{}{
				"index":     i,
				"trip_name": w.TripName,
				"metrics":   usecases.CalculateTripMetrics(w.Events),
			}
		}
		return out
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"trips": &graphql.Field{
				Type:        graphql.NewList(tripType),
				Description: "Current window of every trip with per-trip metrics",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return tripSummaries(), nil
				},
			},
			"trip": &graphql.Field{
				Type:        tripType,
				Description: "One trip by its fleet index",
				Args: graphql.FieldConfigArgument{
					"index": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					index := p.Args["index"].(int)
					trips := tripSummaries()
					if index < 0 || index >= len(trips) {
						return nil, nil
					}
					return trips[index], nil
				},
			},
			"fleetMetrics": &graphql.Field{
				Type:        fleetMetricsType,
				Description: "Aggregated metrics over the current replay window",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return usecases.CalculateFleetMetrics(deps.Engine.CurrentEvents()), nil
				},
			},
			"insights": &graphql.Field{
				Type:        insightsType,
				Description: "Derived fleet health projection",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					windows := deps.Engine.CurrentEvents()
					fm := usecases.CalculateFleetMetrics(windows)
					return usecases.DeriveInsights(fm, windows), nil
				},
			},
			"simulation": &graphql.Field{
				Type:        simulationType,
				Description: "Replay clock state",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap := deps.Engine.Snapshot()
					m := map[string]interface{}{
						"is_playing": snap.IsPlaying,
						"speed":      snap.Speed,
						"filter":     snap.Filter,
					}
					if snap.SimulationTime != nil {
						m["simulation_time"] = snap.SimulationTime.Format(time.RFC3339)
					}
					return m, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
