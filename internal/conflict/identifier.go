// Package conflict derives structured disagreements from agent reflections,
// or synthesizes a default discussion conflict when none exist.
package conflict

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// Thought is one agent's individual-thought record.
type Thought struct {
	AgentID  core.AgentID
	Content  string
	Approach string
}

// ReflectionRecord is one agent's mutual-reflection record: its per-target
// reactions.
type ReflectionRecord struct {
	AgentID     core.AgentID
	Reflections []core.Reflection
}

const contentTruncateLen = 100

// Identifier builds conflicts from dialogue records. Identification is a
// pure function over already-collected data; malformed input degrades to an
// empty result rather than an error.
type Identifier struct{}

// NewIdentifier creates a conflict identifier.
func NewIdentifier() *Identifier {
	return &Identifier{}
}

// Identify extracts thought and reflection records from the session's
// current sequence and derives conflicts from them. The second return
// reports whether the result is the synthetic fallback conflict.
func (i *Identifier) Identify(session *core.Session) ([]core.Conflict, bool) {
	var thoughts []Thought
	var reflections []ReflectionRecord

	for _, m := range session.StageMessages(core.StageIndividualThought) {
		if m.Role != core.RoleAgent {
			continue
		}
		t := Thought{AgentID: m.AgentID, Content: m.Content}
		if m.Metadata != nil {
			t.Approach = m.Metadata.Approach
		}
		thoughts = append(thoughts, t)
	}
	for _, m := range session.StageMessages(core.StageMutualReflection) {
		if m.Role != core.RoleAgent || m.Metadata == nil || len(m.Metadata.Reflections) == 0 {
			continue
		}
		reflections = append(reflections, ReflectionRecord{
			AgentID:     m.AgentID,
			Reflections: m.Metadata.Reflections,
		})
	}

	return i.IdentifyFrom(thoughts, reflections, session.Agents)
}

// IdentifyFrom derives conflicts from explicit records.
//
// Primary path: one conflict per disagreement-flagged reaction. Fallback:
// when no disagreements exist but two or more thoughts do, exactly one
// low-severity conflict covering all agents, so the conflict-resolution
// stage always has something to discuss. The second return is true only
// for the fallback.
func (i *Identifier) IdentifyFrom(thoughts []Thought, reflections []ReflectionRecord, agents []core.Agent) ([]core.Conflict, bool) {
	thoughtByAgent := make(map[core.AgentID]Thought, len(thoughts))
	for _, t := range thoughts {
		thoughtByAgent[t.AgentID] = t
	}

	var conflicts []core.Conflict
	for _, rec := range reflections {
		source, ok := core.FindAgent(agents, rec.AgentID)
		if !ok {
			continue
		}
		for _, r := range rec.Reflections {
			if r.Agreement {
				continue
			}
			target, ok := core.FindAgent(agents, r.TargetAgentID)
			if !ok {
				continue
			}
			conflicts = append(conflicts, core.Conflict{
				ID:          uuid.NewString(),
				Agents:      []core.AgentID{source.ID, target.ID},
				Description: disagreementDescription(source, target, thoughtByAgent[target.ID], r.Reaction),
				Severity:    core.SeverityMedium,
			})
		}
	}

	if len(conflicts) == 0 && len(thoughts) >= 2 {
		return []core.Conflict{i.syntheticConflict(thoughts, agents)}, true
	}
	return conflicts, false
}

// disagreementDescription assembles the narrative of one disagreement:
// the target's original position (truncated), its declared approach, the
// disagreeing reaction, and the style-pair heuristics.
func disagreementDescription(source, target core.Agent, targetThought Thought, reaction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s disagrees with %s.", source.Name, target.Name)
	if c := truncate(targetThought.Content, contentTruncateLen); c != "" {
		fmt.Fprintf(&b, " %s's position: %s", target.Name, c)
	}
	if targetThought.Approach != "" {
		fmt.Fprintf(&b, " (approach: %s)", targetThought.Approach)
	}
	if reaction != "" {
		fmt.Fprintf(&b, " Reaction: %s", reaction)
	}
	fmt.Fprintf(&b, " Root cause: %s.", rootCause(source.Style, target.Style))
	fmt.Fprintf(&b, " Suggested direction: %s.", resolutionDirection(source.Style, target.Style))
	return b.String()
}

// syntheticConflict covers the perfect-agreement case: one low-severity
// conflict over all agents combining their approaches, a diversity analysis,
// and a generic potential-conflict narrative.
func (i *Identifier) syntheticConflict(thoughts []Thought, agents []core.Agent) core.Conflict {
	ids := make([]core.AgentID, 0, len(thoughts))
	var approaches []string
	styleSet := make(map[core.Style]bool)
	for _, t := range thoughts {
		ids = append(ids, t.AgentID)
		if a, ok := core.FindAgent(agents, t.AgentID); ok {
			styleSet[a.Style] = true
			name := a.Name
			if t.Approach != "" {
				approaches = append(approaches, fmt.Sprintf("%s: %s", name, t.Approach))
			} else {
				approaches = append(approaches, fmt.Sprintf("%s: %s", name, truncate(t.Content, contentTruncateLen)))
			}
		}
	}

	var b strings.Builder
	b.WriteString("No explicit disagreements surfaced, but the approaches differ enough to examine. ")
	b.WriteString("Approaches: ")
	b.WriteString(strings.Join(approaches, "; "))
	b.WriteString(". ")
	b.WriteString(diversityAnalysis(styleSet))
	b.WriteString(" ")
	b.WriteString(potentialConflictNarrative(styleSet, len(approaches)))

	return core.Conflict{
		ID:          uuid.NewString(),
		Agents:      ids,
		Description: b.String(),
		Severity:    core.SeverityLow,
	}
}

// rootCause classifies a disagreement by the pair of agent styles.
func rootCause(a, b core.Style) string {
	switch {
	case stylePair(a, b, core.StyleAnalytical, core.StyleIntuitive):
		return "conceptual tension between systematic analysis and intuitive leaps"
	case stylePair(a, b, core.StyleLogical, core.StyleCritical):
		return "value conflict over which standards an answer must satisfy"
	case stylePair(a, b, core.StyleMeta, core.StyleEmotive):
		return "framing mismatch between process-level and felt-sense concerns"
	default:
		return "conceptual tension between differing problem framings"
	}
}

// resolutionDirection suggests how a style pair can move forward.
func resolutionDirection(a, b core.Style) string {
	switch {
	case stylePair(a, b, core.StyleAnalytical, core.StyleIntuitive):
		return "ground the intuition in the analytical framework, then test where they diverge"
	case stylePair(a, b, core.StyleLogical, core.StyleCritical):
		return "agree on the shared goal first, then revisit which objections are load-bearing"
	default:
		return "restate both positions in shared terms and isolate the genuine disagreement"
	}
}

// diversityAnalysis characterizes the style spread of the group.
func diversityAnalysis(styles map[core.Style]bool) string {
	switch {
	case styles[core.StyleAnalytical] && styles[core.StyleIntuitive]:
		return "The group spans systematic and intuitive reasoning, a productive but friction-prone mix."
	case styles[core.StyleLogical] && styles[core.StyleCritical]:
		return "The group pairs constructive and adversarial reasoning, which tends to sharpen claims."
	case len(styles) >= 3:
		return "The group covers three or more reasoning styles; expect framing differences before substance differences."
	default:
		return "The group's reasoning styles are relatively homogeneous."
	}
}

// potentialConflictNarrative flags the discussion risks worth probing.
func potentialConflictNarrative(styles map[core.Style]bool, approachCount int) string {
	var risks []string
	if styles[core.StyleAnalytical] && styles[core.StyleIntuitive] {
		risks = append(risks, "analytical and intuitive members may be agreeing for different reasons")
	}
	if styles[core.StyleLogical] && styles[core.StyleCritical] {
		risks = append(risks, "logical and critical members may be deferring objections rather than resolving them")
	}
	if approachCount > 2 {
		risks = append(risks, "multiple perspectives may be converging prematurely")
	}
	if len(risks) == 0 {
		return "Probe whether the agreement holds under a concrete example."
	}
	return "Potential conflict: " + strings.Join(risks, "; ") + "."
}

// stylePair matches an unordered style pair.
func stylePair(a, b, x, y core.Style) bool {
	return (a == x && b == y) || (a == y && b == x)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
