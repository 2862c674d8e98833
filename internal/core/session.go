package core

import (
	"time"

	"github.com/google/uuid"
)

// SessionID uniquely identifies a dialogue session.
type SessionID string

// String returns the string representation of the session ID.
func (id SessionID) String() string { return string(id) }

// SessionStatus represents the lifecycle state of a session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// StageExecution records one execution of a stage within a sequence.
// EndTime unset marks the execution as in progress.
type StageExecution struct {
	Stage          Stage      `json:"stage"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	AgentResponses []Message  `json:"agent_responses,omitempty"`
	SequenceNumber int        `json:"sequence_number"`
}

// StageSummary is the condensed record of a completed stage.
type StageSummary struct {
	Stage          Stage     `json:"stage"`
	Summary        string    `json:"summary"`
	SequenceNumber int       `json:"sequence_number"`
	Timestamp      time.Time `json:"timestamp"`
}

// VotingResults maps each voter to the agent it voted for. Built once per
// output-generation stage; only references agent ids present in the session.
type VotingResults map[AgentID]AgentID

// Session is the aggregate root of one dialogue. It is mutated only by the
// router and persisted after every mutation; a single orchestration driver
// owns it at a time.
type Session struct {
	ID             SessionID        `json:"id"`
	Title          string           `json:"title,omitempty"`
	UserPrompt     string           `json:"user_prompt,omitempty"`
	Language       string           `json:"language,omitempty"`
	Agents         []Agent          `json:"agents"`
	Messages       []Message        `json:"messages"`
	StageHistory   []StageExecution `json:"stage_history"`
	StageSummaries []StageSummary   `json:"stage_summaries"`
	CurrentStage   Stage            `json:"current_stage,omitempty"`
	SequenceNumber int              `json:"sequence_number"`
	Status         SessionStatus    `json:"status"`
	Complete       bool             `json:"complete"`
	VotingResults  VotingResults    `json:"voting_results,omitempty"`

	// FinalConclusions holds the finalize output per sequence number.
	// Carried forward as context when a new sequence starts.
	FinalConclusions map[int]string `json:"final_conclusions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an active session over the given agents.
func NewSession(title string, agents []Agent) *Session {
	now := time.Now()
	return &Session{
		ID:             SessionID(uuid.NewString()),
		Title:          title,
		Agents:         agents,
		Messages:       make([]Message, 0),
		StageHistory:   make([]StageExecution, 0),
		StageSummaries: make([]StageSummary, 0),
		SequenceNumber: 1,
		Status:         SessionStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AppendMessage adds a message to the transcript and bumps UpdatedAt.
func (s *Session) AppendMessage(m Message) {
	s.Messages = append(s.Messages, m)
	s.UpdatedAt = time.Now()
}

// BeginStage records the start of a stage execution and returns the new
// history entry index.
func (s *Session) BeginStage(stage Stage) int {
	s.CurrentStage = stage
	s.StageHistory = append(s.StageHistory, StageExecution{
		Stage:          stage,
		StartTime:      time.Now(),
		SequenceNumber: s.SequenceNumber,
	})
	s.UpdatedAt = time.Now()
	return len(s.StageHistory) - 1
}

// EndStage closes the history entry at idx with the collected responses.
func (s *Session) EndStage(idx int, responses []Message) {
	if idx < 0 || idx >= len(s.StageHistory) {
		return
	}
	now := time.Now()
	s.StageHistory[idx].EndTime = &now
	s.StageHistory[idx].AgentResponses = responses
	s.UpdatedAt = now
}

// StartNewSequence begins a logically fresh dialogue pass within the same
// session. The sequence number increments and the dialogue restarts; prior
// sequences' messages, stage history, and summaries stay on the session so
// the next persist does not erase them, and all per-sequence reads filter
// on SequenceNumber. The previous sequence's final conclusion remains
// available through FinalConclusions.
func (s *Session) StartNewSequence() {
	s.SequenceNumber++
	s.VotingResults = nil
	s.CurrentStage = ""
	s.Complete = false
	s.Status = SessionStatusActive
	s.UpdatedAt = time.Now()
}

// HasDialogueState reports whether the current sequence already holds
// messages or stage history, i.e. entering individual-thought must start a
// new sequence.
func (s *Session) HasDialogueState() bool {
	for _, m := range s.Messages {
		if m.SequenceNumber == s.SequenceNumber {
			return true
		}
	}
	for _, e := range s.StageHistory {
		if e.SequenceNumber == s.SequenceNumber {
			return true
		}
	}
	return false
}

// RecordConclusion stores the finalize output for the current sequence.
func (s *Session) RecordConclusion(content string) {
	if s.FinalConclusions == nil {
		s.FinalConclusions = make(map[int]string)
	}
	s.FinalConclusions[s.SequenceNumber] = content
}

// PreviousConclusion returns the finalize output of the sequence before the
// current one, if any.
func (s *Session) PreviousConclusion() (string, bool) {
	if s.FinalConclusions == nil {
		return "", false
	}
	c, ok := s.FinalConclusions[s.SequenceNumber-1]
	return c, ok
}

// MarkComplete finalizes the session.
func (s *Session) MarkComplete() {
	s.Complete = true
	s.Status = SessionStatusCompleted
	s.CurrentStage = ""
	s.UpdatedAt = time.Now()
}

// StageMessages returns the transcript messages recorded for the given stage
// in the current sequence.
func (s *Session) StageMessages(stage Stage) []Message {
	var out []Message
	for _, m := range s.Messages {
		if m.Stage == stage && m.SequenceNumber == s.SequenceNumber {
			out = append(out, m)
		}
	}
	return out
}

// SequenceMessages returns the transcript of the current sequence only.
func (s *Session) SequenceMessages() []Message {
	var out []Message
	for _, m := range s.Messages {
		if m.SequenceNumber == s.SequenceNumber {
			out = append(out, m)
		}
	}
	return out
}

// SequenceSummaries returns the stage summaries of the current sequence.
func (s *Session) SequenceSummaries() []StageSummary {
	var out []StageSummary
	for _, sum := range s.StageSummaries {
		if sum.SequenceNumber == s.SequenceNumber {
			out = append(out, sum)
		}
	}
	return out
}

// AgentByID looks up an agent in the session's agent list.
func (s *Session) AgentByID(id AgentID) (Agent, bool) {
	return FindAgent(s.Agents, id)
}
