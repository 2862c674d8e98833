package core

import "fmt"

// Stage represents a phase of the dialogue pipeline.
type Stage string

const (
	// StageIndividualThought is the first stage where each agent forms an
	// independent position on the user prompt.
	StageIndividualThought Stage = "individual-thought"

	// StageMutualReflection is the second stage where agents react to the
	// other agents' individual thoughts.
	StageMutualReflection Stage = "mutual-reflection"

	// StageMutualReflectionSummary condenses the reflection stage into a
	// single system message.
	StageMutualReflectionSummary Stage = "mutual-reflection-summary"

	// StageConflictResolution is where identified disagreements are worked
	// through. It may repeat over multiple rounds.
	StageConflictResolution Stage = "conflict-resolution"

	// StageConflictResolutionSummary condenses the conflict-resolution stage.
	StageConflictResolutionSummary Stage = "conflict-resolution-summary"

	// StageSynthesisAttempt is where agents converge toward a shared answer.
	StageSynthesisAttempt Stage = "synthesis-attempt"

	// StageSynthesisAttemptSummary condenses the synthesis stage.
	StageSynthesisAttemptSummary Stage = "synthesis-attempt-summary"

	// StageOutputGeneration is where agents draft final candidates and vote
	// for the agent that should write the authoritative answer.
	StageOutputGeneration Stage = "output-generation"

	// StageFinalize executes the elected agent once to produce the final
	// output. It is the terminal executable stage.
	StageFinalize Stage = "finalize"
)

// AllStages returns the executable stages in pipeline order, summary stages
// included.
func AllStages() []Stage {
	return []Stage{
		StageIndividualThought,
		StageMutualReflection,
		StageMutualReflectionSummary,
		StageConflictResolution,
		StageConflictResolutionSummary,
		StageSynthesisAttempt,
		StageSynthesisAttemptSummary,
		StageOutputGeneration,
		StageFinalize,
	}
}

// NextStage returns the stage following the given stage.
// Returns empty string after finalize.
func NextStage(s Stage) Stage {
	switch s {
	case StageIndividualThought:
		return StageMutualReflection
	case StageMutualReflection:
		return StageMutualReflectionSummary
	case StageMutualReflectionSummary:
		return StageConflictResolution
	case StageConflictResolution:
		return StageConflictResolutionSummary
	case StageConflictResolutionSummary:
		return StageSynthesisAttempt
	case StageSynthesisAttempt:
		return StageSynthesisAttemptSummary
	case StageSynthesisAttemptSummary:
		return StageOutputGeneration
	case StageOutputGeneration:
		return StageFinalize
	default:
		return ""
	}
}

// IsSummaryStage reports whether the stage is a condensation stage rather
// than a full agent round.
func (s Stage) IsSummaryStage() bool {
	switch s {
	case StageMutualReflectionSummary, StageConflictResolutionSummary, StageSynthesisAttemptSummary:
		return true
	default:
		return false
	}
}

// SummarizedStage returns the regular stage a summary stage condenses.
// Returns empty string for non-summary stages.
func (s Stage) SummarizedStage() Stage {
	switch s {
	case StageMutualReflectionSummary:
		return StageMutualReflection
	case StageConflictResolutionSummary:
		return StageConflictResolution
	case StageSynthesisAttemptSummary:
		return StageSynthesisAttempt
	default:
		return ""
	}
}

// ValidStage checks if a stage string is valid.
func ValidStage(s Stage) bool {
	switch s {
	case StageIndividualThought, StageMutualReflection, StageMutualReflectionSummary,
		StageConflictResolution, StageConflictResolutionSummary,
		StageSynthesisAttempt, StageSynthesisAttemptSummary,
		StageOutputGeneration, StageFinalize:
		return true
	default:
		return false
	}
}

// ParseStage converts a string to a Stage with validation.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !ValidStage(st) {
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, s)
	}
	return st, nil
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// Description returns a human-readable description of the stage.
func (s Stage) Description() string {
	switch s {
	case StageIndividualThought:
		return "Each agent forms an independent position"
	case StageMutualReflection:
		return "Agents react to each other's positions"
	case StageConflictResolution:
		return "Agents work through identified disagreements"
	case StageSynthesisAttempt:
		return "Agents converge toward a shared answer"
	case StageOutputGeneration:
		return "Agents draft final candidates and vote for a finalizer"
	case StageFinalize:
		return "The elected agent writes the final answer"
	case StageMutualReflectionSummary, StageConflictResolutionSummary, StageSynthesisAttemptSummary:
		return "Condense the previous stage into a summary"
	default:
		return "Unknown stage"
	}
}
