package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/core/ports"
)

const (
	// DefaultTickInterval is the wall-clock period of the replay loop.
	DefaultTickInterval = time.Second

	// simMinutesPerSpeedUnit: each tick advances the virtual clock by
	// this many simulated minutes per speed unit.
	simMinutesPerSpeedUnit = time.Minute

	// fastForwardStep is the one-shot advance applied by FastForward.
	fastForwardStep = time.Hour

	// DefaultSpeed is the initial clock multiplier.
	DefaultSpeed = 1
)

// DefaultSpeeds is the fixed set of accepted clock multipliers.
var DefaultSpeeds = []int{1, 5, 10, 50}

// SimulationEngine owns the virtual clock and replays the fleet's
// pre-recorded event streams against it. All mutations are serialized
// through a single mutex so visibility recomputation never races a
// concurrent tick. The engine never modifies the fleet itself.
type SimulationEngine struct {
	mu sync.Mutex

	fleet        domain.Fleet
	publisher    ports.SnapshotPublisher
	clock        clockz.Clock
	tickInterval time.Duration
	speeds       map[int]bool

	simTime time.Time
	timeSet bool
	playing bool
	speed   int
	filter  int // domain.FilterAll or a trip index
	visible []domain.TripWindow
}

// NewSimulationEngine loads a fleet into a stopped engine. The initial
// simulation time is the earliest event timestamp across the fleet;
// a fleet without events leaves the engine inert. publisher may be nil.
func NewSimulationEngine(fleet domain.Fleet, publisher ports.SnapshotPublisher) *SimulationEngine {
	e := &SimulationEngine{
		fleet:        fleet,
		publisher:    publisher,
		clock:        clockz.RealClock,
		tickInterval: DefaultTickInterval,
		speeds:       speedSet(DefaultSpeeds),
		speed:        DefaultSpeed,
		filter:       domain.FilterAll,
	}

	if start, ok := e.startTimeLocked(); ok {
		e.simTime = start
		e.timeSet = true
	}
	e.recomputeVisibleLocked()
	return e
}

// WithClock replaces the wall clock. Call before Run; intended for
// fake-clock tests.
func (e *SimulationEngine) WithClock(clock clockz.Clock) *SimulationEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = clock
	return e
}

// WithTickInterval overrides the wall-clock tick period.
func (e *SimulationEngine) WithTickInterval(d time.Duration) *SimulationEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.tickInterval = d
	}
	return e
}

// WithSpeeds overrides the accepted clock multipliers.
func (e *SimulationEngine) WithSpeeds(speeds []int) *SimulationEngine {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(speeds) > 0 {
		e.speeds = speedSet(speeds)
	}
	return e
}

// Run drives the tick loop until ctx is cancelled. Cancellation is the
// only way the loop stops, so teardown deterministically ends all
// clock-driven mutation.
func (e *SimulationEngine) Run(ctx context.Context) {
	e.mu.Lock()
	clock := e.clock
	interval := e.tickInterval
	e.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clock.After(interval):
			e.Tick()
		}
	}
}

// Play starts the clock. No-op while already playing or before any
// event exists to seed the simulation time.
func (e *SimulationEngine) Play() {
	e.mu.Lock()
	if !e.timeSet || e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = true
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
}

// Pause stops the clock and snaps the visible window back to the full
// dataset: a paused engine always shows everything.
func (e *SimulationEngine) Pause() {
	e.mu.Lock()
	if !e.playing {
		e.mu.Unlock()
		return
	}
	e.playing = false
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
}

// Tick advances the virtual clock by one step (speed simulated minutes)
// and refilters the visible windows. Only effective while playing.
func (e *SimulationEngine) Tick() {
	e.mu.Lock()
	if !e.playing || !e.timeSet {
		e.mu.Unlock()
		return
	}
	e.simTime = e.simTime.Add(time.Duration(e.speed) * simMinutesPerSpeedUnit)
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
}

// FastForward advances the virtual clock by one hour, independent of
// the tick loop. Valid whenever the simulation time is set.
func (e *SimulationEngine) FastForward() {
	e.mu.Lock()
	if !e.timeSet {
		e.mu.Unlock()
		return
	}
	e.simTime = e.simTime.Add(fastForwardStep)
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
}

// Reset stops the clock, restores the full dataset, and reseeds the
// simulation time from the trips relevant to the current filter —
// exactly what loading the fleet would have produced.
func (e *SimulationEngine) Reset() {
	e.mu.Lock()
	e.playing = false
	if start, ok := e.startTimeLocked(); ok {
		e.simTime = start
		e.timeSet = true
	}
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
}

// SetSpeed updates the per-tick minute increment. Takes effect on the
// next tick; the simulation time itself is untouched.
func (e *SimulationEngine) SetSpeed(speed int) error {
	e.mu.Lock()
	if !e.speeds[speed] {
		e.mu.Unlock()
		return fmt.Errorf("speed %d not allowed", speed)
	}
	e.speed = speed
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
	return nil
}

// SetFilter selects domain.FilterAll or a trip index. An active
// simulation is implicitly paused, the simulation time is reseeded from
// the newly relevant subset's earliest event, and the visible windows
// reset to the full dataset. The filter never removes trips from the
// fleet; it only changes which subset seeds the clock.
func (e *SimulationEngine) SetFilter(filter int) error {
	e.mu.Lock()
	if filter != domain.FilterAll && (filter < 0 || filter >= len(e.fleet.Trips)) {
		e.mu.Unlock()
		return fmt.Errorf("trip filter %d out of range", filter)
	}
	e.filter = filter
	e.playing = false
	if start, ok := e.startTimeLocked(); ok {
		e.simTime = start
		e.timeSet = true
	}
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
	return nil
}

// SetSimulationTime seeks the virtual clock to an explicit instant.
// No-op before the fleet has seeded a simulation time.
func (e *SimulationEngine) SetSimulationTime(t time.Time) {
	e.mu.Lock()
	if !e.timeSet {
		e.mu.Unlock()
		return
	}
	e.simTime = t
	e.recomputeVisibleLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
}

// Snapshot returns a copy of the current engine state.
func (e *SimulationEngine) Snapshot() domain.SimulationSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// CurrentEvents returns the per-trip visible windows for the whole fleet.
func (e *SimulationEngine) CurrentEvents() []domain.TripWindow {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.TripWindow, len(e.visible))
	copy(out, e.visible)
	return out
}

// SimulationTime returns the virtual clock value, or nil before the
// fleet seeded it.
func (e *SimulationEngine) SimulationTime() *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.timeSet {
		return nil
	}
	t := e.simTime
	return &t
}

// IsPlaying reports whether the clock is advancing.
func (e *SimulationEngine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Speed returns the current clock multiplier.
func (e *SimulationEngine) Speed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// Filter returns the selected trip filter.
func (e *SimulationEngine) Filter() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Fleet returns the immutable trip collection backing the simulation.
func (e *SimulationEngine) Fleet() domain.Fleet {
	return e.fleet
}

// startTimeLocked computes the earliest event timestamp among the trips
// relevant to the current filter. Returns false when the subset has no
// events, in which case the previous simulation time is kept.
func (e *SimulationEngine) startTimeLocked() (time.Time, bool) {
	var earliest time.Time
	var found bool
	for i := range e.fleet.Trips {
		if e.filter != domain.FilterAll && i != e.filter {
			continue
		}
		for j := range e.fleet.Trips[i].Events {
			ts := e.fleet.Trips[i].Events[j].Timestamp
			if !found || ts.Before(earliest) {
				earliest = ts
				found = true
			}
		}
	}
	return earliest, found
}

// recomputeVisibleLocked rebuilds the per-trip windows. Stopped shows
// the full dataset for every trip; playing shows the subset of events
// whose timestamp is not after the simulation time. The check is a pure
// predicate over the timestamp, independent of array position.
func (e *SimulationEngine) recomputeVisibleLocked() {
	windows := make([]domain.TripWindow, len(e.fleet.Trips))
	for i := range e.fleet.Trips {
		trip := &e.fleet.Trips[i]
		windows[i].TripName = trip.TripName

		if !e.playing || !e.timeSet {
			windows[i].Events = trip.Events
			continue
		}

		filtered := make([]domain.Event, 0, len(trip.Events))
		for j := range trip.Events {
			if !trip.Events[j].Timestamp.After(e.simTime) {
				filtered = append(filtered, trip.Events[j])
			}
		}
		windows[i].Events = filtered
	}
	e.visible = windows
}

func (e *SimulationEngine) snapshotLocked() domain.SimulationSnapshot {
	snap := domain.SimulationSnapshot{
		IsPlaying: e.playing,
		Speed:     e.speed,
		Filter:    e.filter,
		Trips:     make([]domain.TripWindow, len(e.visible)),
	}
	copy(snap.Trips, e.visible)
	if e.timeSet {
		t := e.simTime
		snap.SimulationTime = &t
	}
	return snap
}

func (e *SimulationEngine) publish(snap domain.SimulationSnapshot) {
	if e.publisher != nil {
		e.publisher.PublishSnapshot(snap)
	}
}

func speedSet(speeds []int) map[int]bool {
	set := make(map[int]bool, len(speeds))
	for _, s := range speeds {
		if s > 0 {
			set[s] = true
		}
	}
	return set
}
