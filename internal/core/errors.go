package core

import "errors"

// Sentinel errors for the dialogue engine. Callers match with errors.Is.
var (
	// ErrUnknownStage indicates a stage name outside the declared pipeline.
	// Fatal for the call; never retried.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrSessionNotFound indicates the session id has no stored state.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionComplete indicates an execution attempt on a finalized session.
	ErrSessionComplete = errors.New("session already complete")

	// ErrNoAgents indicates a session was created without agents.
	ErrNoAgents = errors.New("session has no agents")

	// ErrAgentNotFound indicates an agent id not present in the session.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrNoResponses indicates a stage produced zero successful responses
	// where at least one was required (finalize).
	ErrNoResponses = errors.New("no agent responses")
)
