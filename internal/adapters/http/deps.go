package http

import (
	"github.com/roadpulse/fleetsim/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Engine    *usecases.SimulationEngine
	Assistant *usecases.Assistant
	Hub       *Hub
}
