// Package summarizer condenses stage transcripts through the AI executor.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
)

// maxTranscriptChars bounds the transcript passed to the executor so long
// dialogues do not blow the provider's context window.
const maxTranscriptChars = 8000

// Summarizer implements core.StageSummarizer over an AI executor.
type Summarizer struct {
	executor core.AIExecutor
	logger   *logging.Logger
}

// New creates a summarizer.
func New(executor core.AIExecutor, logger *logging.Logger) *Summarizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Summarizer{executor: executor, logger: logger}
}

// SummarizeStage condenses one completed stage into a short summary.
func (s *Summarizer) SummarizeStage(ctx context.Context, stage core.Stage, messages []core.Message, agents []core.Agent, sessionID core.SessionID, language string) (*core.StageSummary, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to summarize for stage %s", stage)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the %q stage of a multi-agent dialogue in at most five sentences. ", stage)
	b.WriteString("Capture each agent's position and any open disagreement. ")
	if language != "" {
		fmt.Fprintf(&b, "Answer in language %q. ", language)
	}
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript(messages, agents))

	result, err := s.executor.Execute(ctx, b.String(), "")
	if err != nil {
		return nil, fmt.Errorf("summarizing stage %s: %w", stage, err)
	}

	seq := messages[0].SequenceNumber
	return &core.StageSummary{
		Stage:          stage,
		Summary:        strings.TrimSpace(result.Content),
		SequenceNumber: seq,
		Timestamp:      time.Now(),
	}, nil
}

// GenerateFinalSummary combines the per-stage summaries into one narrative.
func (s *Summarizer) GenerateFinalSummary(ctx context.Context, summaries []core.StageSummary, agents []core.Agent, sessionID core.SessionID) (string, error) {
	if len(summaries) == 0 {
		return "", fmt.Errorf("no stage summaries for session %s", sessionID)
	}

	var b strings.Builder
	b.WriteString("Combine the stage summaries below into one short narrative of how the group reached its answer.\n\n")
	for _, sum := range summaries {
		fmt.Fprintf(&b, "## %s\n%s\n\n", sum.Stage, sum.Summary)
	}

	result, err := s.executor.Execute(ctx, b.String(), "")
	if err != nil {
		return "", fmt.Errorf("generating final summary: %w", err)
	}
	return strings.TrimSpace(result.Content), nil
}

func transcript(messages []core.Message, agents []core.Agent) string {
	var b strings.Builder
	for _, m := range messages {
		who := string(m.AgentID)
		if a, ok := core.FindAgent(agents, m.AgentID); ok {
			who = a.Name
		}
		fmt.Fprintf(&b, "[%s] %s\n", who, m.Content)
	}
	s := b.String()
	if len(s) > maxTranscriptChars {
		s = s[len(s)-maxTranscriptChars:]
	}
	return s
}
