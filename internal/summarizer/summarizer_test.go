package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

type stubExecutor struct {
	reply      string
	err        error
	lastPrompt string
}

func (s *stubExecutor) Execute(_ context.Context, prompt, _ string) (*core.ExecuteResult, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &core.ExecuteResult{Content: s.reply}, nil
}

func summarizerAgents() []core.Agent {
	return []core.Agent{
		{ID: "eiro-001", Name: "Eiro", Style: core.StyleLogical},
		{ID: "kanshi-001", Name: "Kanshi", Style: core.StyleCritical},
	}
}

func stageMessages() []core.Message {
	return []core.Message{
		core.NewMessage("eiro-001", "We should phase the rollout.", core.RoleAgent, core.StageMutualReflection, 2),
		core.NewMessage("kanshi-001", "Phasing hides the real risk.", core.RoleAgent, core.StageMutualReflection, 2),
	}
}

func TestSummarizeStage(t *testing.T) {
	exec := &stubExecutor{reply: "  The group split on rollout pacing.  \n"}
	s := New(exec, nil)

	summary, err := s.SummarizeStage(context.Background(), core.StageMutualReflection,
		stageMessages(), summarizerAgents(), "sess-1", "en")
	require.NoError(t, err)

	assert.Equal(t, core.StageMutualReflection, summary.Stage)
	assert.Equal(t, "The group split on rollout pacing.", summary.Summary)
	assert.Equal(t, 2, summary.SequenceNumber)

	assert.Contains(t, exec.lastPrompt, "[Eiro] We should phase the rollout.")
	assert.Contains(t, exec.lastPrompt, "[Kanshi] Phasing hides the real risk.")
	assert.Contains(t, exec.lastPrompt, `language "en"`)
}

func TestSummarizeStageNoMessages(t *testing.T) {
	s := New(&stubExecutor{reply: "unused"}, nil)
	_, err := s.SummarizeStage(context.Background(), core.StageMutualReflection,
		nil, summarizerAgents(), "sess-1", "")
	assert.Error(t, err)
}

func TestSummarizeStageExecutorFailure(t *testing.T) {
	s := New(&stubExecutor{err: errors.New("provider down")}, nil)
	_, err := s.SummarizeStage(context.Background(), core.StageMutualReflection,
		stageMessages(), summarizerAgents(), "sess-1", "")
	assert.ErrorContains(t, err, "provider down")
}

func TestSummarizeStageTruncatesLongTranscript(t *testing.T) {
	exec := &stubExecutor{reply: "short"}
	s := New(exec, nil)

	long := strings.Repeat("a very long line of dialogue. ", 600)
	msgs := []core.Message{
		core.NewMessage("eiro-001", "EARLY-MARKER", core.RoleAgent, core.StageConflictResolution, 1),
		core.NewMessage("kanshi-001", long, core.RoleAgent, core.StageConflictResolution, 1),
	}
	_, err := s.SummarizeStage(context.Background(), core.StageConflictResolution,
		msgs, summarizerAgents(), "sess-1", "")
	require.NoError(t, err)

	// The tail survives truncation, the head does not.
	assert.NotContains(t, exec.lastPrompt, "EARLY-MARKER")
	assert.Contains(t, exec.lastPrompt, "a very long line of dialogue.")
}

func TestGenerateFinalSummary(t *testing.T) {
	exec := &stubExecutor{reply: "One narrative."}
	s := New(exec, nil)

	summaries := []core.StageSummary{
		{Stage: core.StageMutualReflection, Summary: "Positions diverged."},
		{Stage: core.StageConflictResolution, Summary: "Positions converged."},
	}
	out, err := s.GenerateFinalSummary(context.Background(), summaries, summarizerAgents(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "One narrative.", out)

	assert.Contains(t, exec.lastPrompt, "## mutual-reflection\nPositions diverged.")
	assert.Contains(t, exec.lastPrompt, "## conflict-resolution\nPositions converged.")
}

func TestGenerateFinalSummaryEmpty(t *testing.T) {
	s := New(&stubExecutor{reply: "unused"}, nil)
	_, err := s.GenerateFinalSummary(context.Background(), nil, summarizerAgents(), "sess-1")
	assert.Error(t, err)
}
