package ports

import (
	"context"

	"github.com/roadpulse/fleetsim/internal/core/domain"
)

// FleetSource loads the session's fleet once at startup.
// Loading failures must be reported as a single aggregated error.
type FleetSource interface {
	LoadFleet(ctx context.Context) (domain.Fleet, error)
}

// SnapshotPublisher receives engine snapshots after every state change.
// Implementations must not block the engine's tick loop.
type SnapshotPublisher interface {
	PublishSnapshot(snapshot domain.SimulationSnapshot)
}
