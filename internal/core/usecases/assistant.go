package usecases

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/roadpulse/fleetsim/internal/core/domain"
)

// Assistant answers free-text fleet questions from already-computed
// metrics using keyword matching. It holds no state besides the
// conversation transcript.
type Assistant struct {
	mu         sync.Mutex
	transcript []domain.ChatMessage
}

// NewAssistant creates an Assistant with an empty transcript.
func NewAssistant() *Assistant {
	return &Assistant{}
}

// Ask records the question, derives an answer from the trip windows and
// fleet metrics, records it, and returns it.
func (a *Assistant) Ask(question string, windows []domain.TripWindow, fm domain.FleetMetrics) string {
	answer := respond(question, windows, fm)

	a.mu.Lock()
	now := time.Now()
	a.transcript = append(a.transcript,
		domain.ChatMessage{Role: "user", Content: question, At: now},
		domain.ChatMessage{Role: "assistant", Content: answer, At: now},
	)
	a.mu.Unlock()

	return answer
}

// Transcript returns a copy of the conversation so far.
func (a *Assistant) Transcript() []domain.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ChatMessage, len(a.transcript))
	copy(out, a.transcript)
	return out
}

func respond(question string, windows []domain.TripWindow, fm domain.FleetMetrics) string {
	q := normalizeQuestion(question)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}

	batteries := batteryLevels(windows)
	signals := signalCounts(windows)

	switch {
	case has("vehicle", "car", "truck", "fleet") && has("how many", "count", "number", "total"):
		if has("active", "running", "moving", "working") {
			pct := 0.0
			if fm.TotalVehicles > 0 {
				pct = float64(fm.ActiveTrips) / float64(fm.TotalVehicles) * 100
			}
			return fmt.Sprintf("%d out of %d vehicles are currently active — %.0f%% of the fleet is on the move.",
				fm.ActiveTrips, fm.TotalVehicles, pct)
		}
		return fmt.Sprintf("Total vehicles: %d\nActive: %d\nAvailable: %d",
			fm.TotalVehicles, fm.ActiveTrips, fm.TotalVehicles-fm.ActiveTrips)

	case has("distance", "km", "kilometer", "far", "travel", "cover", "driven"):
		perVehicle := 0.0
		if fm.TotalVehicles > 0 {
			perVehicle = fm.TotalDistance / float64(fm.TotalVehicles)
		}
		return fmt.Sprintf("Total distance covered: %.2f km\nAverage per vehicle: %.2f km",
			fm.TotalDistance, perVehicle)

	case has("speed", "fast", "velocity", "pace"):
		return fmt.Sprintf("The fleet is averaging %.1f km/h across all active trips.", fm.AvgSpeed)

	case has("battery", "charge", "power", "energy"):
		if len(batteries) == 0 {
			return "No battery readings are available yet."
		}
		avg, min, max := batteryStats(batteries)
		low := 0
		for _, b := range batteries {
			if b < LowBatteryThreshold {
				low++
			}
		}
		verdict := "All batteries are healthy."
		if low > 0 {
			verdict = "Some vehicles need charging soon."
		}
		return fmt.Sprintf("Battery health report:\n- Average: %.1f%%\n- Highest: %.1f%%\n- Lowest: %.1f%%\n- Readings: %d\n- Low battery (<%.0f%%): %d\n%s",
			avg, max, min, len(batteries), LowBatteryThreshold, low, verdict)

	case has("signal", "connection", "network", "connectivity"):
		if len(signals) == 0 {
			return "No signal quality readings are available yet."
		}
		return formatSignalReport(signals)

	case has("trip", "name", "list"):
		var sb strings.Builder
		sb.WriteString("Available trips:\n")
		for i, w := range windows {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, w.TripName)
		}
		fmt.Fprintf(&sb, "Total: %d trips", len(windows))
		return sb.String()

	case has("status", "overview", "summary", "report", "dashboard", "all"):
		avgBattery := "n/a"
		if len(batteries) > 0 {
			avg, _, _ := batteryStats(batteries)
			avgBattery = fmt.Sprintf("%.1f%%", avg)
		}
		return fmt.Sprintf("Fleet overview:\n- Total vehicles: %d\n- Active trips: %d\n- Total distance: %.2f km\n- Avg speed: %.1f km/h\n- Avg battery: %s",
			fm.TotalVehicles, fm.ActiveTrips, fm.TotalDistance, fm.AvgSpeed, avgBattery)

	case has("hi", "hello", "hey", "greet", "hola", "start"):
		return "Hello! I can report on vehicle counts, distance covered, battery health, speed, and signal quality. Try \"how many vehicles are active?\" or \"what's the total distance?\"."

	default:
		return "I can help with vehicle status and counts, distance and trip analytics, battery monitoring, speed statistics, signal quality, and the fleet overview. Try asking \"fleet overview\" or \"battery status\"."
	}
}

func normalizeQuestion(q string) string {
	q = strings.ToLower(q)
	q = strings.Map(func(r rune) rune {
		switch r {
		case '?', '!', '.', ',':
			return -1
		}
		return r
	}, q)
	return strings.Join(strings.Fields(q), " ")
}

func batteryLevels(windows []domain.TripWindow) []float64 {
	var out []float64
	for _, w := range windows {
		for i := range w.Events {
			if w.Events[i].Device != nil {
				out = append(out, w.Events[i].Device.BatteryLevel)
			}
		}
	}
	return out
}

func batteryStats(levels []float64) (avg, min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	var sum float64
	for _, b := range levels {
		sum += b
		if b < min {
			min = b
		}
		if b > max {
			max = b
		}
	}
	return sum / float64(len(levels)), min, max
}

func signalCounts(windows []domain.TripWindow) map[string]int {
	counts := make(map[string]int)
	for _, w := range windows {
		for i := range w.Events {
			if q := w.Events[i].SignalQuality; q != "" {
				counts[strings.ToLower(q)]++
			}
		}
	}
	return counts
}

func formatSignalReport(signals map[string]int) string {
	total := 0
	for _, n := range signals {
		total += n
	}

	qualities := make([]string, 0, len(signals))
	for q := range signals {
		qualities = append(qualities, q)
	}
	sort.Strings(qualities)

	var sb strings.Builder
	sb.WriteString("Network signal quality:\n")
	for _, q := range qualities {
		n := signals[q]
		fmt.Fprintf(&sb, "- %s: %d events (%.1f%%)\n", capitalize(q), n, float64(n)/float64(total)*100)
	}

	excellentShare := float64(signals[domain.SignalExcellent]) / float64(total) * 100
	if excellentShare > 50 {
		sb.WriteString("Excellent network coverage overall.")
	} else {
		sb.WriteString("Consider reviewing coverage on weaker segments.")
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
