package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStage(t *testing.T) {
	stages := AllStages()
	for i := 0; i < len(stages)-1; i++ {
		assert.Equal(t, stages[i+1], NextStage(stages[i]))
	}
	assert.Empty(t, NextStage(StageFinalize))
	assert.Empty(t, NextStage(Stage("bogus")))
}

func TestIsSummaryStage(t *testing.T) {
	assert.True(t, StageMutualReflectionSummary.IsSummaryStage())
	assert.True(t, StageConflictResolutionSummary.IsSummaryStage())
	assert.True(t, StageSynthesisAttemptSummary.IsSummaryStage())
	assert.False(t, StageIndividualThought.IsSummaryStage())
	assert.False(t, StageFinalize.IsSummaryStage())
}

func TestSummarizedStage(t *testing.T) {
	assert.Equal(t, StageMutualReflection, StageMutualReflectionSummary.SummarizedStage())
	assert.Equal(t, StageConflictResolution, StageConflictResolutionSummary.SummarizedStage())
	assert.Equal(t, StageSynthesisAttempt, StageSynthesisAttemptSummary.SummarizedStage())
	assert.Empty(t, StageOutputGeneration.SummarizedStage())
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("conflict-resolution")
	require.NoError(t, err)
	assert.Equal(t, StageConflictResolution, s)

	_, err = ParseStage("negotiation")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestStageDescriptionCoversAllStages(t *testing.T) {
	for _, s := range AllStages() {
		assert.NotEqual(t, "Unknown stage", s.Description(), "stage %s", s)
	}
}
