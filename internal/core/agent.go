package core

import "fmt"

// AgentID uniquely identifies an agent persona (e.g., "eiro-001").
type AgentID string

// String returns the string representation of the agent ID.
func (id AgentID) String() string { return string(id) }

// Style classifies an agent's reasoning disposition. Styles drive the
// conflict root-cause heuristics and facilitator targeting.
type Style string

const (
	StyleLogical    Style = "logical"
	StyleCritical   Style = "critical"
	StyleIntuitive  Style = "intuitive"
	StyleMeta       Style = "meta"
	StyleEmotive    Style = "emotive"
	StyleAnalytical Style = "analytical"
)

// ValidStyle checks if a style string is one of the declared styles.
func ValidStyle(s Style) bool {
	switch s {
	case StyleLogical, StyleCritical, StyleIntuitive, StyleMeta, StyleEmotive, StyleAnalytical:
		return true
	default:
		return false
	}
}

// Agent is an immutable persona descriptor. Agents are created from static
// configuration at startup and never mutated, except the transient
// IsSummarizer flag the router sets per stage.
type Agent struct {
	ID          AgentID  `json:"id"`
	Name        string   `json:"name"`
	Furigana    string   `json:"furigana,omitempty"` // phonetic reading, used for vote matching
	Style       Style    `json:"style"`
	Priority    int      `json:"priority"`
	Tone        string   `json:"tone,omitempty"`
	Personality string   `json:"personality,omitempty"`
	Preferences []string `json:"preferences,omitempty"`

	// IsSummarizer marks the agent elected to summarize the current stage.
	// Transient; reset by the router on every stage entry.
	IsSummarizer bool `json:"is_summarizer,omitempty"`
}

// Validate checks the descriptor fields that configuration can get wrong.
func (a Agent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("agent id is required")
	}
	if a.Name == "" {
		return fmt.Errorf("agent %s: name is required", a.ID)
	}
	if !ValidStyle(a.Style) {
		return fmt.Errorf("agent %s: invalid style %q", a.ID, a.Style)
	}
	return nil
}

// FindAgent returns the agent with the given id from the list.
func FindAgent(agents []Agent, id AgentID) (Agent, bool) {
	for _, a := range agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}
