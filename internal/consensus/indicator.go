package consensus

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

var (
	satisfactionRe = regexp.MustCompile(`(?i)(?:satisfaction(?:\s*level)?|満足度)\s*[:：]?\s*([0-9]+(?:\.[0-9]+)?)`)
	readyRe        = regexp.MustCompile(`(?i)ready(?:\s*to\s*move(?:\s*on)?)?\s*[:：]\s*(yes|no|true|false)`)
	readyJaRe      = regexp.MustCompile(`(?:次へ|移行)\s*[:：]\s*(はい|いいえ)`)
	additionalRe   = regexp.MustCompile(`(?i)additional\s*points?\s*[:：]\s*(yes|no|true|false)`)
	questionRe     = regexp.MustCompile(`(?im)^\s*(?:Q|Question(?:\s*for\s*\S+)?|質問)\s*[:：]\s*(.+)$`)
)

// ParseIndicator extracts an agent's consensus signals from free-form reply
// text. Returns false when no satisfaction level is discernible; the agent
// then contributes no indicator for the round.
func ParseIndicator(agentID core.AgentID, text string) (core.ConsensusIndicator, bool) {
	ind := core.ConsensusIndicator{AgentID: agentID}

	m := satisfactionRe.FindStringSubmatch(text)
	if m == nil {
		return ind, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ind, false
	}
	ind.SatisfactionLevel = clamp(v, 0, 10)

	if m := readyRe.FindStringSubmatch(text); m != nil {
		ind.ReadyToMove = truthy(m[1])
	} else if m := readyJaRe.FindStringSubmatch(text); m != nil {
		ind.ReadyToMove = m[1] == "はい"
	}

	if m := additionalRe.FindStringSubmatch(text); m != nil {
		ind.HasAdditionalPoints = truthy(m[1])
	}

	for _, q := range questionRe.FindAllStringSubmatch(text, -1) {
		ind.QuestionsForOthers = append(ind.QuestionsForOthers, strings.TrimSpace(q[1]))
	}

	return ind, true
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true":
		return true
	default:
		return false
	}
}
