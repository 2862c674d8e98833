// Package vote parses finalizer votes out of free-form agent responses and
// aggregates them into winner sets.
package vote

import (
	"regexp"
	"strings"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// Kind classifies an extraction outcome.
type Kind string

const (
	// KindMatched means exactly one agent was identified.
	KindMatched Kind = "matched"
	// KindAmbiguous means the candidate string matched two or more agents.
	// Counted as no vote; callers may log it.
	KindAmbiguous Kind = "ambiguous"
	// KindNotFound means no agent could be identified.
	KindNotFound Kind = "not_found"
)

// Result is the typed outcome of one extraction.
type Result struct {
	Kind    Kind
	AgentID core.AgentID
}

var (
	// Labeled vote declaration, English or Japanese. The captured value is
	// the candidate target string.
	markerRe = regexp.MustCompile(`(?im)^[^\S\n]*(?:\*\*)?(?:agent\s*vote|vote|投票先|投票)(?:\*\*)?[^\S\n]*[:：][^\S\n]*(.+)$`)

	// Bold-emphasized token such as **eiro-001**. More specific than the
	// marker line, so it overrides the candidate when present.
	boldRe = regexp.MustCompile(`\*\*([A-Za-z0-9-]+)\*\*`)

	// Trailing parenthetical in a display name, e.g. "Eiro (慧露)" -> "Eiro".
	parenRe = regexp.MustCompile(`\s*[（(][^)）]*[)）]`)
)

// Extractor finds a voted-for agent in free-form text. Matching is
// deliberately permissive (case-insensitive substrings over name variants)
// to tolerate natural-language voting in English and Japanese.
type Extractor struct{}

// NewExtractor creates a vote extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the text for a vote among the given agents.
func (e *Extractor) Extract(text string, agents []core.Agent) Result {
	if strings.TrimSpace(text) == "" || len(agents) == 0 {
		return Result{Kind: KindNotFound}
	}

	candidate := ""
	if m := markerRe.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}
	if m := boldRe.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}

	if candidate != "" {
		matched := matchAgents(candidate, agents)
		switch len(matched) {
		case 1:
			return Result{Kind: KindMatched, AgentID: matched[0]}
		case 0:
			// Fall through to whole-text scan.
		default:
			return Result{Kind: KindAmbiguous}
		}
	}

	// Fallback: scan the entire text, first agent with any pattern match wins.
	lower := strings.ToLower(text)
	for _, a := range agents {
		for _, p := range patternsFor(a) {
			if strings.Contains(lower, p) {
				return Result{Kind: KindMatched, AgentID: a.ID}
			}
		}
	}
	return Result{Kind: KindNotFound}
}

// matchAgents returns every agent whose patterns match the candidate string.
func matchAgents(candidate string, agents []core.Agent) []core.AgentID {
	lower := strings.ToLower(candidate)
	var matched []core.AgentID
	for _, a := range agents {
		for _, p := range patternsFor(a) {
			if strings.Contains(lower, p) {
				matched = append(matched, a.ID)
				break
			}
		}
	}
	return matched
}

// patternsFor builds the lowercase match patterns for an agent: its id,
// display name, phonetic reading, and name with the parenthetical removed.
func patternsFor(a core.Agent) []string {
	seen := make(map[string]bool, 4)
	var patterns []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !seen[s] {
			seen[s] = true
			patterns = append(patterns, s)
		}
	}
	add(string(a.ID))
	add(a.Name)
	add(a.Furigana)
	add(parenRe.ReplaceAllString(a.Name, ""))
	return patterns
}
