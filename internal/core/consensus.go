package core

// ConsensusIndicator is one agent's self-reported signal for the current
// round. Indicators are recomputed every round and never persisted
// independently of it.
type ConsensusIndicator struct {
	AgentID             AgentID  `json:"agent_id"`
	SatisfactionLevel   float64  `json:"satisfaction_level"` // 0-10
	HasAdditionalPoints bool     `json:"has_additional_points"`
	ReadyToMove         bool     `json:"ready_to_move"`
	QuestionsForOthers  []string `json:"questions_for_others,omitempty"`
}

// ConsensusReport is the engine's per-round evaluation.
type ConsensusReport struct {
	Round           int                  `json:"round"`
	Score           float64              `json:"score"` // 0-10, one decimal
	AvgSatisfaction float64              `json:"avg_satisfaction"`
	ReadyCount      int                  `json:"ready_count"`
	ShouldContinue  bool                 `json:"should_continue"`
	ActionCount     int                  `json:"action_count"`
	Indicators      []ConsensusIndicator `json:"indicators,omitempty"`
}
