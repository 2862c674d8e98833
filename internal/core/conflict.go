package core

// Severity grades how contentious a conflict is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Conflict is a structured disagreement between two or more agents, derived
// from the message history. Conflicts are regenerable, not authoritative.
type Conflict struct {
	ID          string    `json:"id"`
	Agents      []AgentID `json:"agents"` // at least two
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
}
