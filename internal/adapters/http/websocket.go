package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/roadpulse/fleetsim/internal/core/domain"
	"github.com/roadpulse/fleetsim/internal/core/ports"
	"github.com/roadpulse/fleetsim/internal/pkg/metrics"
)

// wsCommand is sent from client to drive the simulation.
type wsCommand struct {
	Action string `json:"action"` // "play" | "pause" | "reset" | "fast_forward" | "set_speed" | "set_filter"
	Speed  int    `json:"speed,omitempty"`
	Filter *int   `json:"filter,omitempty"`
}

// wsClient wraps one connection with a write lock; gorilla-style
// websockets allow a single concurrent writer.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Hub fans simulation snapshots out to every connected WebSocket client.
// It implements ports.SnapshotPublisher, so the engine pushes a frame on
// every tick and control action.
type Hub struct {
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*wsClient]struct{})}
}

// PublishSnapshot broadcasts the snapshot to all clients and refreshes
// the simulation gauges. Clients that fail to write are dropped.
func (h *Hub) PublishSnapshot(snap domain.SimulationSnapshot) {
	playing := 0.0
	if snap.IsPlaying {
		playing = 1
	}
	visible := 0
	for _, w := range snap.Trips {
		visible += len(w.Events)
	}
	metrics.SimulationPlaying.Set(playing)
	metrics.SimulationSpeed.Set(float64(snap.Speed))
	metrics.VisibleEvents.Set(float64(visible))
	metrics.SnapshotsPublished.Inc()

	data, err := json.Marshal(snap)
	if err != nil {
		slog.Error("marshal snapshot", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.mu.Lock()
		err := client.conn.WriteMessage(websocket.TextMessage, data)
		client.mu.Unlock()
		if err != nil {
			delete(h.clients, client)
			metrics.ActiveWebSockets.Dec()
		}
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	metrics.ActiveWebSockets.Inc()
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		metrics.ActiveWebSockets.Dec()
	}
	h.mu.Unlock()
}

// WebSocketHandler upgrades to WebSocket, streams simulation snapshots,
// and accepts control commands from the client.
// Clients send JSON like {"action":"set_speed","speed":10}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		remoteAddr := conn.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		client := &wsClient{conn: conn}
		deps.Hub.register(client)
		defer deps.Hub.unregister(client)

		// Initial frame so the client renders without waiting for a tick.
		_ = client.writeJSON(deps.Engine.Snapshot())

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := client.ping(); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read control commands until the client goes away
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var cmd wsCommand
			if err := json.Unmarshal(msg, &cmd); err != nil {
				_ = client.writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch cmd.Action {
			case "play":
				deps.Engine.Play()
			case "pause":
				deps.Engine.Pause()
			case "reset":
				deps.Engine.Reset()
			case "fast_forward":
				deps.Engine.FastForward()
			case "set_speed":
				if err := deps.Engine.SetSpeed(cmd.Speed); err != nil {
					_ = client.writeJSON(map[string]string{"error": err.Error()})
				}
			case "set_filter":
				filter := domain.FilterAll
				if cmd.Filter != nil {
					filter = *cmd.Filter
				}
				if err := deps.Engine.SetFilter(filter); err != nil {
					_ = client.writeJSON(map[string]string{"error": err.Error()})
				}
			default:
				_ = client.writeJSON(map[string]string{"error": "unknown action: " + cmd.Action})
			}
		}

		close(done)
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}

var _ ports.SnapshotPublisher = (*Hub)(nil)
