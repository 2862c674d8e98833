package router

import (
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// buildPrompt assembles the per-agent prompt for a regular stage: persona,
// stage instruction, recent transcript window, and the structured-reply
// footer the parsers expect.
func (r *Router) buildPrompt(session *core.Session, stage core.Stage, agent core.Agent, conflicts []core.Conflict) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s (%s), a %s thinker.", agent.Name, agent.ID, agent.Style)
	if agent.Personality != "" {
		fmt.Fprintf(&b, " Personality: %s.", agent.Personality)
	}
	if agent.Tone != "" {
		fmt.Fprintf(&b, " Tone: %s.", agent.Tone)
	}
	if len(agent.Preferences) > 0 {
		fmt.Fprintf(&b, " You favor: %s.", strings.Join(agent.Preferences, ", "))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Question: %s\n\n", session.UserPrompt)

	if stage == core.StageIndividualThought {
		if prev, ok := session.PreviousConclusion(); ok {
			fmt.Fprintf(&b, "The previous pass of this dialogue concluded:\n%s\n\n", prev)
		}
	}

	switch stage {
	case core.StageIndividualThought:
		b.WriteString("Give your independent position before seeing the others. ")
		b.WriteString("Include a line 'Approach: <one-line description of your approach>'.\n")
	case core.StageMutualReflection:
		b.WriteString("React to each other agent's position. For each one, write a line:\n")
		b.WriteString("<agent-id>: agree|disagree - <one-sentence reaction>\n")
		b.WriteString("Then elaborate freely.\n")
	case core.StageConflictResolution:
		b.WriteString("Work through the open disagreements below.\n")
		for _, c := range conflicts {
			fmt.Fprintf(&b, "- [%s] %s\n", c.Severity, c.Description)
		}
		b.WriteString(indicatorFooter)
	case core.StageSynthesisAttempt:
		b.WriteString("Propose a synthesis the whole group could stand behind.\n")
		b.WriteString(indicatorFooter)
	case core.StageOutputGeneration:
		b.WriteString("Draft your candidate final answer, then vote for the agent ")
		b.WriteString("best placed to write the authoritative version (yourself allowed). ")
		b.WriteString("End with a line 'Agent Vote: <agent-id>'.\n")
	}

	if window := core.RecentMessages(session.SequenceMessages(), r.cfg.RecentWindow); len(window) > 0 {
		b.WriteString("\nRecent dialogue:\n")
		for _, m := range window {
			b.WriteString(formatTranscriptLine(session, m))
		}
	}

	return b.String()
}

const indicatorFooter = "\nEnd with these lines:\n" +
	"Satisfaction: <0-10>\n" +
	"Ready to move: yes|no\n" +
	"Additional points: yes|no\n"

// facilitationMessage folds the planned actions, capped at the round's
// action budget, into a system message for the conflict-resolution
// transcript. Returns false when there is nothing to relay.
func facilitationMessage(actions []core.FacilitatorAction, budget int, session *core.Session) (core.Message, bool) {
	if len(actions) == 0 {
		return core.Message{}, false
	}
	if budget < 1 {
		budget = 1
	}
	if len(actions) > budget {
		actions = actions[:budget]
	}

	var b strings.Builder
	b.WriteString("Facilitator guidance for the next round:\n")
	for _, a := range actions {
		b.WriteString("- ")
		b.WriteString(string(a.Type))
		if a.Target != "" {
			name := string(a.Target)
			if agent, ok := session.AgentByID(a.Target); ok {
				name = agent.Name
			}
			fmt.Fprintf(&b, " (focus on %s)", name)
		}
		if a.Reason != "" {
			fmt.Fprintf(&b, ": %s", a.Reason)
		}
		b.WriteString("\n")
	}

	msg := core.NewMessage("", b.String(), core.RoleSystem, core.StageConflictResolution, session.SequenceNumber)
	return msg, true
}

// buildFinalizePrompt assembles the elected agent's final-output prompt.
func (r *Router) buildFinalizePrompt(session *core.Session, agent core.Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s (%s). The group voted for you to write the final answer.\n\n", agent.Name, agent.ID)
	fmt.Fprintf(&b, "Question: %s\n\n", session.UserPrompt)
	if summaries := session.SequenceSummaries(); len(summaries) > 0 {
		b.WriteString("Stage summaries:\n")
		for _, s := range summaries {
			fmt.Fprintf(&b, "## %s\n%s\n\n", s.Stage, s.Summary)
		}
	}
	b.WriteString("Write the single authoritative answer on behalf of the whole group.\n")
	return b.String()
}

// transcript renders the current sequence's recent message window for
// executor context.
func (r *Router) transcript(session *core.Session) string {
	var b strings.Builder
	for _, m := range core.RecentMessages(session.SequenceMessages(), r.cfg.RecentWindow) {
		b.WriteString(formatTranscriptLine(session, m))
	}
	return b.String()
}

func formatTranscriptLine(session *core.Session, m core.Message) string {
	who := "user"
	switch m.Role {
	case core.RoleSystem:
		who = "system"
	case core.RoleAgent:
		who = string(m.AgentID)
		if a, ok := session.AgentByID(m.AgentID); ok {
			who = a.Name
		}
	}
	return fmt.Sprintf("[%s/%s] %s\n", m.Stage, who, m.Content)
}
