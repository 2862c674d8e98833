package config

import "github.com/hugo-lorenzo-mato/polylogue/internal/core"

// DefaultConfigYAML contains the default configuration YAML content.
// Used by `polylogue init` so a fresh project starts from a documented file.
const DefaultConfigYAML = `# Polylogue Configuration
#
# Values not specified here use sensible defaults.

log:
  level: info
  format: auto

# External AI executor. The prompt is written to stdin; the reply is read
# from stdout.
executor:
  command: claude
  args: ["-p"]
  timeout: 2m

dialogue:
  agent_delay: 3s
  summary_delay: 2s
  recent_window: 10
  language: en

# Consensus termination parameters. Empirically tuned; change deliberately.
consensus:
  satisfaction_weight: 0.8
  readiness_weight: 0.2
  early_exit_satisfaction: 8.5
  convergence_threshold: 7.5
  max_rounds: 10
  min_satisfaction: 6.0

facilitator:
  priority_order: [perspective_shift, clarification, summarize, conclude, deep_dive]
  clarification_threshold: 6.5
  summarize_threshold: 6.5
  conclude_satisfaction: 8.0

state:
  backend: json # json or sqlite
  dir: .polylogue/sessions
  sqlite_path: .polylogue/polylogue.db

output:
  dir: .polylogue/outputs

audit:
  enabled: true
  path: .polylogue/interactions.jsonl

api:
  addr: 127.0.0.1:8787
  cors_origins: ["http://localhost:5173"]

# Agent roster. Omit to use the built-in five personas.
#agents:
#  - id: eiro-001
#    name: "Eiro (慧露)"
#    furigana: eiro
#    style: logical
#    priority: 1
#    tone: precise
#    personality: rigorous and methodical
#    preferences: [first-principles, definitions]
`

// DefaultAgents returns the built-in persona roster, used when the
// configuration declares no agents.
func DefaultAgents() []core.Agent {
	return []core.Agent{
		{
			ID:          "eiro-001",
			Name:        "Eiro (慧露)",
			Furigana:    "eiro",
			Style:       core.StyleLogical,
			Priority:    1,
			Tone:        "precise",
			Personality: "rigorous and methodical, argues from first principles",
			Preferences: []string{"definitions", "stepwise reasoning"},
		},
		{
			ID:          "kanshi-001",
			Name:        "Kanshi (観至)",
			Furigana:    "kanshi",
			Style:       core.StyleCritical,
			Priority:    2,
			Tone:        "incisive",
			Personality: "stress-tests every claim, hunts for counterexamples",
			Preferences: []string{"edge cases", "failure modes"},
		},
		{
			ID:          "yoga-001",
			Name:        "Yoga (陽雅)",
			Furigana:    "yoga",
			Style:       core.StyleIntuitive,
			Priority:    3,
			Tone:        "warm",
			Personality: "leaps to the shape of an answer, fills gaps with analogy",
			Preferences: []string{"analogies", "big picture"},
		},
		{
			ID:          "yui-000",
			Name:        "Yui (結)",
			Furigana:    "yui",
			Style:       core.StyleMeta,
			Priority:    4,
			Tone:        "measured",
			Personality: "watches the dialogue itself, names what the group is missing",
			Preferences: []string{"process", "framing"},
		},
		{
			ID:          "hekito-001",
			Name:        "Hekito (碧統)",
			Furigana:    "hekito",
			Style:       core.StyleAnalytical,
			Priority:    5,
			Tone:        "structured",
			Personality: "decomposes the problem and weighs evidence quantitatively",
			Preferences: []string{"decomposition", "evidence"},
		},
	}
}
