package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author category of a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// Reflection is one agent's reaction to another agent's individual thought,
// recorded during the mutual-reflection stage.
type Reflection struct {
	TargetAgentID AgentID `json:"target_agent_id"`
	Agreement     bool    `json:"agreement"`
	Reaction      string  `json:"reaction"`
}

// MessageMetadata carries the structured side-channel of an agent response.
// All fields are optional; absent fields mean the response carried no such
// signal.
type MessageMetadata struct {
	// Approach is the agent's declared problem-solving approach
	// (individual-thought stage).
	Approach string `json:"approach,omitempty"`

	// Reflections are per-target reactions (mutual-reflection stage).
	Reflections []Reflection `json:"reflections,omitempty"`

	// VotedAgent is the agent id extracted from a voting response
	// (output-generation stage).
	VotedAgent AgentID `json:"voted_agent,omitempty"`

	// SummaryOf names the stage a system summary message condenses.
	SummaryOf Stage `json:"summary_of,omitempty"`
}

// Message is one entry of a session transcript. Messages are append-only;
// insertion order defines the "recent N" windows used for prompting.
type Message struct {
	ID             string           `json:"id"`
	AgentID        AgentID          `json:"agent_id,omitempty"`
	Content        string           `json:"content"`
	Role           Role             `json:"role"`
	Stage          Stage            `json:"stage,omitempty"`
	SequenceNumber int              `json:"sequence_number"`
	Timestamp      time.Time        `json:"timestamp"`
	Metadata       *MessageMetadata `json:"metadata,omitempty"`
}

// NewMessage creates a message with a fresh id and timestamp.
func NewMessage(agentID AgentID, content string, role Role, stage Stage, seq int) Message {
	return Message{
		ID:             uuid.NewString(),
		AgentID:        agentID,
		Content:        content,
		Role:           role,
		Stage:          stage,
		SequenceNumber: seq,
		Timestamp:      time.Now(),
	}
}

// RecentMessages returns the last n messages, oldest first.
func RecentMessages(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) == 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
