package events

// Event type constants for dialogue events.
const (
	TypeStageStarted        = "stage_started"
	TypeStageCompleted      = "stage_completed"
	TypeAgentResponded      = "agent_responded"
	TypeAgentSkipped        = "agent_skipped"
	TypeConflictsIdentified = "conflicts_identified"
	TypeConsensusEvaluated  = "consensus_evaluated"
	TypeVotesTallied        = "votes_tallied"
	TypeSummaryAppended     = "summary_appended"
	TypeSessionCompleted    = "session_completed"
)

// StageStartedEvent is emitted when a stage begins executing.
type StageStartedEvent struct {
	BaseEvent
	Stage    string `json:"stage"`
	Sequence int    `json:"sequence"`
}

// NewStageStartedEvent creates a new stage started event.
func NewStageStartedEvent(sessionID, stage string, sequence int) StageStartedEvent {
	return StageStartedEvent{
		BaseEvent: NewBaseEvent(TypeStageStarted, sessionID),
		Stage:     stage,
		Sequence:  sequence,
	}
}

// StageCompletedEvent is emitted after a stage's responses are committed.
type StageCompletedEvent struct {
	BaseEvent
	Stage     string `json:"stage"`
	Sequence  int    `json:"sequence"`
	Responses int    `json:"responses"`
}

// NewStageCompletedEvent creates a new stage completed event.
func NewStageCompletedEvent(sessionID, stage string, sequence, responses int) StageCompletedEvent {
	return StageCompletedEvent{
		BaseEvent: NewBaseEvent(TypeStageCompleted, sessionID),
		Stage:     stage,
		Sequence:  sequence,
		Responses: responses,
	}
}

// AgentRespondedEvent is emitted for each successful agent response.
type AgentRespondedEvent struct {
	BaseEvent
	Stage   string `json:"stage"`
	AgentID string `json:"agent_id"`
	Chars   int    `json:"chars"`
}

// NewAgentRespondedEvent creates a new agent responded event.
func NewAgentRespondedEvent(sessionID, stage, agentID string, chars int) AgentRespondedEvent {
	return AgentRespondedEvent{
		BaseEvent: NewBaseEvent(TypeAgentResponded, sessionID),
		Stage:     stage,
		AgentID:   agentID,
		Chars:     chars,
	}
}

// AgentSkippedEvent is emitted when an agent's AI call fails and the stage
// proceeds without it.
type AgentSkippedEvent struct {
	BaseEvent
	Stage   string `json:"stage"`
	AgentID string `json:"agent_id"`
	Reason  string `json:"reason"`
}

// NewAgentSkippedEvent creates a new agent skipped event.
func NewAgentSkippedEvent(sessionID, stage, agentID, reason string) AgentSkippedEvent {
	return AgentSkippedEvent{
		BaseEvent: NewBaseEvent(TypeAgentSkipped, sessionID),
		Stage:     stage,
		AgentID:   agentID,
		Reason:    reason,
	}
}

// ConflictsIdentifiedEvent is emitted after conflict identification.
type ConflictsIdentifiedEvent struct {
	BaseEvent
	Count     int  `json:"count"`
	Synthetic bool `json:"synthetic"`
}

// NewConflictsIdentifiedEvent creates a new conflicts identified event.
func NewConflictsIdentifiedEvent(sessionID string, count int, synthetic bool) ConflictsIdentifiedEvent {
	return ConflictsIdentifiedEvent{
		BaseEvent: NewBaseEvent(TypeConflictsIdentified, sessionID),
		Count:     count,
		Synthetic: synthetic,
	}
}

// ConsensusEvaluatedEvent is emitted after each round's consensus evaluation.
type ConsensusEvaluatedEvent struct {
	BaseEvent
	Round           int     `json:"round"`
	Score           float64 `json:"score"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	ReadyCount      int     `json:"ready_count"`
	ShouldContinue  bool    `json:"should_continue"`
}

// NewConsensusEvaluatedEvent creates a new consensus evaluated event.
func NewConsensusEvaluatedEvent(sessionID string, round int, score, avgSat float64, ready int, cont bool) ConsensusEvaluatedEvent {
	return ConsensusEvaluatedEvent{
		BaseEvent:       NewBaseEvent(TypeConsensusEvaluated, sessionID),
		Round:           round,
		Score:           score,
		AvgSatisfaction: avgSat,
		ReadyCount:      ready,
		ShouldContinue:  cont,
	}
}

// VotesTalliedEvent is emitted after the output-generation vote tally.
type VotesTalliedEvent struct {
	BaseEvent
	Votes   map[string]string `json:"votes"`
	Winners []string          `json:"winners"`
}

// NewVotesTalliedEvent creates a new votes tallied event.
func NewVotesTalliedEvent(sessionID string, votes map[string]string, winners []string) VotesTalliedEvent {
	return VotesTalliedEvent{
		BaseEvent: NewBaseEvent(TypeVotesTallied, sessionID),
		Votes:     votes,
		Winners:   winners,
	}
}

// SummaryAppendedEvent is emitted when a stage summary system message lands.
type SummaryAppendedEvent struct {
	BaseEvent
	Stage string `json:"stage"`
}

// NewSummaryAppendedEvent creates a new summary appended event.
func NewSummaryAppendedEvent(sessionID, stage string) SummaryAppendedEvent {
	return SummaryAppendedEvent{
		BaseEvent: NewBaseEvent(TypeSummaryAppended, sessionID),
		Stage:     stage,
	}
}

// SessionCompletedEvent is emitted when finalize marks the session complete.
// This is a PRIORITY event.
type SessionCompletedEvent struct {
	BaseEvent
	Finalizer string `json:"finalizer"`
	OutputID  string `json:"output_id,omitempty"`
}

// NewSessionCompletedEvent creates a new session completed event.
func NewSessionCompletedEvent(sessionID, finalizer, outputID string) SessionCompletedEvent {
	return SessionCompletedEvent{
		BaseEvent: NewBaseEvent(TypeSessionCompleted, sessionID),
		Finalizer: finalizer,
		OutputID:  outputID,
	}
}
