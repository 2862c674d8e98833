// Package facilitator proposes the next facilitation moves for a dialogue
// round: AI-suggested when possible, deterministic otherwise.
package facilitator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
)

// Planner produces ranked facilitation actions. An AI suggestion is tried
// first; any parse, empty, or provider failure falls back to a deterministic
// priority walk, so planning never blocks on AI availability.
type Planner struct {
	cfg      config.FacilitatorConfig
	executor core.AIExecutor
	tracker  *ParticipationTracker
	logger   *logging.Logger
}

// NewPlanner creates a planner. The executor may be nil, in which case only
// the deterministic fallback runs.
func NewPlanner(cfg config.FacilitatorConfig, executor core.AIExecutor, tracker *ParticipationTracker, logger *logging.Logger) *Planner {
	if tracker == nil {
		tracker = NewParticipationTracker()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if len(cfg.PriorityOrder) == 0 {
		cfg.PriorityOrder = []string{
			string(core.ActionPerspectiveShift),
			string(core.ActionClarification),
			string(core.ActionSummarize),
			string(core.ActionConclude),
			string(core.ActionDeepDive),
		}
	}
	if cfg.ClarificationThreshold == 0 {
		cfg.ClarificationThreshold = 6.5
	}
	if cfg.SummarizeThreshold == 0 {
		cfg.SummarizeThreshold = 6.5
	}
	if cfg.ConcludeSatisfaction == 0 {
		cfg.ConcludeSatisfaction = 8.0
	}
	return &Planner{cfg: cfg, executor: executor, tracker: tracker, logger: logger}
}

// Tracker exposes the participation tracker so the router can record
// contributions and resynchronize it against the message history.
func (p *Planner) Tracker() *ParticipationTracker {
	return p.tracker
}

// Plan proposes facilitation actions for the round.
func (p *Planner) Plan(ctx context.Context, transcript string, report core.ConsensusReport, agents []core.Agent) []core.FacilitatorAction {
	if p.executor != nil {
		if actions := p.planWithAI(ctx, transcript, report, agents); len(actions) > 0 {
			return actions
		}
	}
	if a, ok := p.Fallback(report, agents); ok {
		return []core.FacilitatorAction{a}
	}
	return nil
}

func (p *Planner) planWithAI(ctx context.Context, transcript string, report core.ConsensusReport, agents []core.Agent) []core.FacilitatorAction {
	prompt := p.buildPrompt(report, agents)
	result, err := p.executor.Execute(ctx, prompt, transcript)
	if err != nil {
		p.logger.Warn("facilitator AI suggestion failed, using fallback", "error", err)
		return nil
	}
	actions, err := ParseActions(result.Content, agents)
	if err != nil {
		p.logger.Warn("facilitator suggestion unparseable, using fallback", "error", err)
		return nil
	}
	return actions
}

func (p *Planner) buildPrompt(report core.ConsensusReport, agents []core.Agent) string {
	var b strings.Builder
	b.WriteString("You are the facilitator of a multi-agent dialogue. ")
	b.WriteString("Given the transcript and the consensus report below, propose the next facilitation actions ")
	fmt.Fprintf(&b, "as a JSON array of at most %d objects with fields type, target, reason, priority. ", max(report.ActionCount, 1))
	b.WriteString("Valid types: deep_dive, clarification, perspective_shift, summarize, conclude.\n\n")
	fmt.Fprintf(&b, "Consensus: round=%d score=%.1f avg_satisfaction=%.1f ready=%d/%d\n",
		report.Round, report.Score, report.AvgSatisfaction, report.ReadyCount, len(report.Indicators))
	b.WriteString("Speaker balance:\n")
	for _, a := range agents {
		fmt.Fprintf(&b, "- %s (%s): %d contributions\n", a.ID, a.Style, p.tracker.Count(a.ID))
	}
	return b.String()
}

var (
	fencedRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	bracketRe = regexp.MustCompile(`(?s)\[.*\]`)
)

type rawAction struct {
	Type     string `json:"type"`
	Target   string `json:"target"`
	Reason   string `json:"reason"`
	Priority int    `json:"priority"`
}

// ParseActions reads facilitation actions from an AI reply. It accepts a
// bare JSON array, a fenced code block, or the first bracketed substring.
func ParseActions(reply string, agents []core.Agent) ([]core.FacilitatorAction, error) {
	candidates := []string{strings.TrimSpace(reply)}
	if m := fencedRe.FindStringSubmatch(reply); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := bracketRe.FindString(reply); m != "" {
		candidates = append(candidates, m)
	}

	for _, c := range candidates {
		var raws []rawAction
		if err := json.Unmarshal([]byte(c), &raws); err != nil {
			continue
		}
		actions := validateActions(raws, agents)
		if len(actions) > 0 {
			return actions, nil
		}
	}
	return nil, fmt.Errorf("no valid action array in reply")
}

func validateActions(raws []rawAction, agents []core.Agent) []core.FacilitatorAction {
	var actions []core.FacilitatorAction
	for _, r := range raws {
		t := core.FacilitatorActionType(r.Type)
		if !core.ValidFacilitatorActionType(t) {
			continue
		}
		target := core.AgentID(r.Target)
		if target != "" {
			if _, ok := core.FindAgent(agents, target); !ok {
				target = ""
			}
		}
		actions = append(actions, core.FacilitatorAction{
			Type:     t,
			Target:   target,
			Reason:   r.Reason,
			Priority: r.Priority,
		})
	}
	return actions
}

// Fallback walks the configured priority order and emits the first
// applicable action. Exactly one action category is selected per call.
func (p *Planner) Fallback(report core.ConsensusReport, agents []core.Agent) (core.FacilitatorAction, bool) {
	for _, name := range p.cfg.PriorityOrder {
		switch core.FacilitatorActionType(name) {
		case core.ActionPerspectiveShift:
			if a, ok := p.perspectiveShift(report, agents); ok {
				return a, true
			}
		case core.ActionClarification:
			if a, ok := p.clarification(report, agents); ok {
				return a, true
			}
		case core.ActionSummarize:
			if a, ok := p.summarize(report, agents); ok {
				return a, true
			}
		case core.ActionConclude:
			if a, ok := p.conclude(report, agents); ok {
				return a, true
			}
		case core.ActionDeepDive:
			if a, ok := p.deepDive(report, agents); ok {
				return a, true
			}
		}
	}
	return core.FacilitatorAction{}, false
}

// perspectiveShift targets the least-active agent that still has unanswered
// questions for the group.
func (p *Planner) perspectiveShift(report core.ConsensusReport, agents []core.Agent) (core.FacilitatorAction, bool) {
	var withQuestions []core.Agent
	for _, ind := range report.Indicators {
		if len(ind.QuestionsForOthers) == 0 {
			continue
		}
		if a, ok := core.FindAgent(agents, ind.AgentID); ok {
			withQuestions = append(withQuestions, a)
		}
	}
	target, ok := p.tracker.LeastActive(withQuestions)
	if !ok {
		return core.FacilitatorAction{}, false
	}
	return core.FacilitatorAction{
		Type:     core.ActionPerspectiveShift,
		Target:   target.ID,
		Reason:   fmt.Sprintf("%s has open questions and the fewest contributions", target.Name),
		Priority: 1,
	}, true
}

// clarification targets the lowest-satisfaction agent below the threshold.
func (p *Planner) clarification(report core.ConsensusReport, agents []core.Agent) (core.FacilitatorAction, bool) {
	var lowest *core.ConsensusIndicator
	for i := range report.Indicators {
		ind := &report.Indicators[i]
		if lowest == nil || ind.SatisfactionLevel < lowest.SatisfactionLevel {
			lowest = ind
		}
	}
	if lowest == nil || lowest.SatisfactionLevel >= p.cfg.ClarificationThreshold {
		return core.FacilitatorAction{}, false
	}
	target, ok := core.FindAgent(agents, lowest.AgentID)
	if !ok {
		return core.FacilitatorAction{}, false
	}
	return core.FacilitatorAction{
		Type:     core.ActionClarification,
		Target:   target.ID,
		Reason:   fmt.Sprintf("%s reports the lowest satisfaction (%.1f)", target.Name, lowest.SatisfactionLevel),
		Priority: 1,
	}, true
}

// summarize proposes a logical or analytical agent once satisfaction is
// adequate.
func (p *Planner) summarize(report core.ConsensusReport, agents []core.Agent) (core.FacilitatorAction, bool) {
	if report.AvgSatisfaction < p.cfg.SummarizeThreshold {
		return core.FacilitatorAction{}, false
	}
	for _, a := range agents {
		if a.Style == core.StyleLogical || a.Style == core.StyleAnalytical {
			return core.FacilitatorAction{
				Type:     core.ActionSummarize,
				Target:   a.ID,
				Reason:   fmt.Sprintf("%s's %s style suits consolidating the discussion", a.Name, a.Style),
				Priority: 2,
			}, true
		}
	}
	return core.FacilitatorAction{}, false
}

// conclude fires only on high satisfaction with at least half the agents
// ready.
func (p *Planner) conclude(report core.ConsensusReport, agents []core.Agent) (core.FacilitatorAction, bool) {
	if report.AvgSatisfaction < p.cfg.ConcludeSatisfaction {
		return core.FacilitatorAction{}, false
	}
	if report.ReadyCount*2 < len(agents) {
		return core.FacilitatorAction{}, false
	}
	return core.FacilitatorAction{
		Type:     core.ActionConclude,
		Reason:   fmt.Sprintf("average satisfaction %.1f with %d/%d agents ready", report.AvgSatisfaction, report.ReadyCount, len(agents)),
		Priority: 3,
	}, true
}

// deepDive targets an agent with declared additional points, or else the
// most under-participating agent.
func (p *Planner) deepDive(report core.ConsensusReport, agents []core.Agent) (core.FacilitatorAction, bool) {
	for _, ind := range report.Indicators {
		if !ind.HasAdditionalPoints {
			continue
		}
		if a, ok := core.FindAgent(agents, ind.AgentID); ok {
			return core.FacilitatorAction{
				Type:     core.ActionDeepDive,
				Target:   a.ID,
				Reason:   fmt.Sprintf("%s has additional points to surface", a.Name),
				Priority: 2,
			}, true
		}
	}
	target, ok := p.tracker.LeastActive(agents)
	if !ok {
		return core.FacilitatorAction{}, false
	}
	return core.FacilitatorAction{
		Type:     core.ActionDeepDive,
		Target:   target.ID,
		Reason:   fmt.Sprintf("%s has contributed least so far", target.Name),
		Priority: 3,
	}, true
}
