package core

// FacilitatorActionType enumerates the interventions the facilitator can
// propose for a round.
type FacilitatorActionType string

const (
	ActionDeepDive         FacilitatorActionType = "deep_dive"
	ActionClarification    FacilitatorActionType = "clarification"
	ActionPerspectiveShift FacilitatorActionType = "perspective_shift"
	ActionSummarize        FacilitatorActionType = "summarize"
	ActionConclude         FacilitatorActionType = "conclude"
)

// ValidFacilitatorActionType checks an action type string.
func ValidFacilitatorActionType(t FacilitatorActionType) bool {
	switch t {
	case ActionDeepDive, ActionClarification, ActionPerspectiveShift, ActionSummarize, ActionConclude:
		return true
	default:
		return false
	}
}

// FacilitatorAction is one proposed facilitation move.
type FacilitatorAction struct {
	Type     FacilitatorActionType `json:"type"`
	Target   AgentID               `json:"target,omitempty"`
	Reason   string                `json:"reason"`
	Priority int                   `json:"priority"`
}
