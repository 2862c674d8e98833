package vote

import "github.com/hugo-lorenzo-mato/polylogue/internal/core"

// Tally aggregates extracted votes into winner sets.
type Tally struct {
	extractor *Extractor
}

// NewTally creates a tally over the given extractor.
func NewTally(extractor *Extractor) *Tally {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &Tally{extractor: extractor}
}

// TallyResponses extracts a vote from each response and returns the vote map
// (voter -> voted-for) plus every agent tied at the maximum count. Ties are
// preserved as multiple winners; downstream consumers must handle
// multi-winner finalization. No discernible votes yields an empty winner set.
func (t *Tally) TallyResponses(responses []core.Message, agents []core.Agent) (core.VotingResults, []core.AgentID) {
	results := make(core.VotingResults)
	counts := make(map[core.AgentID]int)

	for _, msg := range responses {
		res := t.extractor.Extract(msg.Content, agents)
		if res.Kind != KindMatched {
			continue
		}
		if msg.AgentID != "" {
			results[msg.AgentID] = res.AgentID
		}
		counts[res.AgentID]++
	}

	return results, Winners(counts, agents)
}

// Winners returns all agents whose count equals the observed maximum,
// ordered by first occurrence in the canonical agent list.
func Winners(counts map[core.AgentID]int, agents []core.Agent) []core.AgentID {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil
	}
	var winners []core.AgentID
	for _, a := range agents {
		if counts[a.ID] == max {
			winners = append(winners, a.ID)
		}
	}
	return winners
}

// BreakTie selects a single agent from a winner set by first occurrence in
// the canonical agent list.
func BreakTie(winners []core.AgentID, agents []core.Agent) (core.Agent, bool) {
	for _, a := range agents {
		for _, w := range winners {
			if a.ID == w {
				return a, true
			}
		}
	}
	return core.Agent{}, false
}
