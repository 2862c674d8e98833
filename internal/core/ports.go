package core

import (
	"context"
	"time"
)

// =============================================================================
// AIExecutor Port
// =============================================================================

// ExecuteResult contains the output of one AI call.
type ExecuteResult struct {
	Content  string
	Duration time.Duration
}

// AIExecutor runs a prompt against the configured AI provider. The engine
// never depends on provider wire formats; it only sees the reply text.
type AIExecutor interface {
	// Execute runs a prompt with supporting context and returns the reply.
	// May fail on provider errors; callers decide whether a failure is
	// skippable (per-agent stage calls) or needs a fallback (facilitation).
	Execute(ctx context.Context, prompt, contextText string) (*ExecuteResult, error)
}

// =============================================================================
// SessionStore Port
// =============================================================================

// SessionStore persists sessions. The router saves after every mutation;
// there is no optimistic concurrency control.
type SessionStore interface {
	// SaveSession persists the full session state.
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves a session by id.
	// Returns ErrSessionNotFound if it does not exist.
	GetSession(ctx context.Context, id SessionID) (*Session, error)

	// GetAllSessions returns all stored sessions, newest first.
	GetAllSessions(ctx context.Context) ([]*Session, error)

	// DeleteSession removes a session. Returns false if it did not exist.
	DeleteSession(ctx context.Context, id SessionID) (bool, error)
}

// =============================================================================
// InteractionLogger Port
// =============================================================================

// InteractionLog is the audit record of one AI call.
type InteractionLog struct {
	SessionID SessionID     `json:"session_id"`
	AgentID   AgentID       `json:"agent_id,omitempty"`
	Stage     Stage         `json:"stage,omitempty"`
	Prompt    string        `json:"prompt"`
	Output    string        `json:"output,omitempty"`
	Duration  time.Duration `json:"duration"`
	Status    string        `json:"status"` // ok, error
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// InteractionLogger records every AI call. Fire-and-forget: failures are
// logged, never propagated.
type InteractionLogger interface {
	SaveInteractionLog(entry InteractionLog)
}

// =============================================================================
// StageSummarizer Port
// =============================================================================

// StageSummarizer condenses stage transcripts.
type StageSummarizer interface {
	// SummarizeStage condenses the messages of one completed stage.
	SummarizeStage(ctx context.Context, stage Stage, messages []Message, agents []Agent, sessionID SessionID, language string) (*StageSummary, error)

	// GenerateFinalSummary combines all stage summaries into one narrative.
	GenerateFinalSummary(ctx context.Context, summaries []StageSummary, agents []Agent, sessionID SessionID) (string, error)
}

// =============================================================================
// OutputStore Port
// =============================================================================

// SavedOutput identifies a persisted final output.
type SavedOutput struct {
	ID string `json:"id"`
}

// OutputStore persists the finalized answer of a session.
type OutputStore interface {
	SaveOutput(ctx context.Context, title, content, userPrompt, language string, sessionID SessionID) (*SavedOutput, error)
}

// =============================================================================
// Shuffler Port
// =============================================================================

// Shuffler provides the randomness source for agent ordering. Injectable so
// tests can pin a seed and assert deterministic order.
type Shuffler interface {
	// Shuffle permutes n elements via the swap function (Fisher-Yates).
	Shuffle(n int, swap func(i, j int))
}

// Sleeper abstracts pacing delays so tests run without real waits.
type Sleeper interface {
	// Sleep waits for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}
