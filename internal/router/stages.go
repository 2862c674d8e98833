package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/events"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
	"github.com/hugo-lorenzo-mato/polylogue/internal/vote"
)

// executeFinalize resolves the top-voted agent(s), executes exactly that
// agent for the final output, persists the output, and marks the session
// complete.
func (r *Router) executeFinalize(ctx context.Context, session *core.Session, log *logging.Logger) ([]Effect, error) {
	idx := session.BeginStage(core.StageFinalize)

	finalizer := r.resolveFinalizer(session)
	log.Info("finalizer elected", "agent", finalizer.ID)

	prompt := r.buildFinalizePrompt(session, finalizer)
	result, err := r.execute(ctx, session, finalizer, core.StageFinalize, prompt)
	if err != nil {
		session.EndStage(idx, nil)
		return nil, fmt.Errorf("%w: finalizer %s: %v", core.ErrNoResponses, finalizer.ID, err)
	}

	msg := core.NewMessage(finalizer.ID, result.Content, core.RoleAgent, core.StageFinalize, session.SequenceNumber)
	session.AppendMessage(msg)
	session.EndStage(idx, []core.Message{msg})
	session.RecordConclusion(result.Content)
	r.deps.Planner.Tracker().Record(finalizer.ID)

	content := result.Content
	if summaries := session.SequenceSummaries(); r.deps.Summarizer != nil && len(summaries) > 0 {
		// Best-effort: the dialogue summary enriches the saved output.
		if summary, err := r.deps.Summarizer.GenerateFinalSummary(ctx, summaries, session.Agents, session.ID); err == nil && summary != "" {
			content += "\n\n---\n\n## Dialogue summary\n\n" + summary
		} else if err != nil {
			log.Warn("final summary failed", "error", err)
		}
	}

	outputID := ""
	if r.deps.Outputs != nil {
		title := session.Title
		if title == "" {
			title = truncateTitle(session.UserPrompt)
		}
		saved, err := r.deps.Outputs.SaveOutput(ctx, title, content, session.UserPrompt, session.Language, session.ID)
		if err != nil {
			log.Warn("output save failed", "error", err)
		} else {
			outputID = saved.ID
		}
	}

	session.MarkComplete()
	r.publishPriority(events.NewSessionCompletedEvent(string(session.ID), string(finalizer.ID), outputID))
	return nil, nil
}

// resolveFinalizer picks the top-voted agent from VotingResults, breaking
// ties by first occurrence in the canonical agent list. With no discernible
// votes the first agent in canonical order serves.
func (r *Router) resolveFinalizer(session *core.Session) core.Agent {
	counts := make(map[core.AgentID]int)
	for _, voted := range session.VotingResults {
		counts[voted]++
	}
	winners := vote.Winners(counts, session.Agents)
	if agent, ok := vote.BreakTie(winners, session.Agents); ok {
		return agent
	}
	return session.Agents[0]
}

func truncateTitle(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	r := []rune(s)
	if len(r) <= 60 {
		return s
	}
	return string(r[:60]) + "..."
}
