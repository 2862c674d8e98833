package router

import (
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/vote"
)

var (
	approachRe   = regexp.MustCompile(`(?im)^[^\S\n]*(?:approach|アプローチ)[^\S\n]*[:：][^\S\n]*(.+)$`)
	reflectionRe = regexp.MustCompile(`(?im)^[^\S\n]*-?[^\S\n]*([a-z0-9-]+)[^\S\n]*[:：][^\S\n]*(agree|disagree|同意|反対)[^\S\n]*[-—–:：]?[^\S\n]*(.*)$`)
)

// parseResponseMetadata extracts the structured side-channel a stage's reply
// carries: the declared approach, per-target reflections, or the vote.
// Absent or malformed signals yield nil metadata, never an error.
func parseResponseMetadata(stage core.Stage, content string, agents []core.Agent) *core.MessageMetadata {
	switch stage {
	case core.StageIndividualThought:
		if m := approachRe.FindStringSubmatch(content); m != nil {
			return &core.MessageMetadata{Approach: strings.TrimSpace(m[1])}
		}
	case core.StageMutualReflection:
		if refs := parseReflections(content, agents); len(refs) > 0 {
			return &core.MessageMetadata{Reflections: refs}
		}
	case core.StageOutputGeneration:
		res := vote.NewExtractor().Extract(content, agents)
		if res.Kind == vote.KindMatched {
			return &core.MessageMetadata{VotedAgent: res.AgentID}
		}
	}
	return nil
}

func parseReflections(content string, agents []core.Agent) []core.Reflection {
	var refs []core.Reflection
	for _, m := range reflectionRe.FindAllStringSubmatch(content, -1) {
		target := core.AgentID(m[1])
		if _, ok := core.FindAgent(agents, target); !ok {
			continue
		}
		verdict := strings.ToLower(m[2])
		refs = append(refs, core.Reflection{
			TargetAgentID: target,
			Agreement:     verdict == "agree" || verdict == "同意",
			Reaction:      strings.TrimSpace(m[3]),
		})
	}
	return refs
}
