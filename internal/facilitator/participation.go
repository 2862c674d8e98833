package facilitator

import (
	"sync"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// ParticipationTracker counts per-agent contributions. The router increments
// it as responses land; Resync rebuilds it from the authoritative message
// history when a caller needs to correct drift.
type ParticipationTracker struct {
	mu     sync.Mutex
	counts map[core.AgentID]int
}

// NewParticipationTracker creates an empty tracker.
func NewParticipationTracker() *ParticipationTracker {
	return &ParticipationTracker{counts: make(map[core.AgentID]int)}
}

// Record increments an agent's contribution count.
func (t *ParticipationTracker) Record(id core.AgentID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[id]++
}

// Count returns an agent's contribution count.
func (t *ParticipationTracker) Count(id core.AgentID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[id]
}

// Resync rebuilds the counters from the message history.
func (t *ParticipationTracker) Resync(messages []core.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts = make(map[core.AgentID]int)
	for _, m := range messages {
		if m.Role == core.RoleAgent && m.AgentID != "" {
			t.counts[m.AgentID]++
		}
	}
}

// LeastActive returns the agent with the fewest contributions, breaking ties
// by canonical list order.
func (t *ParticipationTracker) LeastActive(agents []core.Agent) (core.Agent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(agents) == 0 {
		return core.Agent{}, false
	}
	best := agents[0]
	for _, a := range agents[1:] {
		if t.counts[a.ID] < t.counts[best.ID] {
			best = a
		}
	}
	return best, true
}
