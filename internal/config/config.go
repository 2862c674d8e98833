package config

import (
	"time"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

// Config holds all application configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Agents      []PersonaConfig   `mapstructure:"agents"`
	Executor    ExecutorConfig    `mapstructure:"executor"`
	Dialogue    DialogueConfig    `mapstructure:"dialogue"`
	Consensus   ConsensusConfig   `mapstructure:"consensus"`
	Facilitator FacilitatorConfig `mapstructure:"facilitator"`
	State       StateConfig       `mapstructure:"state"`
	Output      OutputConfig      `mapstructure:"output"`
	Audit       AuditConfig       `mapstructure:"audit"`
	API         APIConfig         `mapstructure:"api"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // auto, text, json
}

// PersonaConfig describes one agent persona. Personas are immutable after
// startup.
type PersonaConfig struct {
	ID          string   `mapstructure:"id"`
	Name        string   `mapstructure:"name"`
	Furigana    string   `mapstructure:"furigana"`
	Style       string   `mapstructure:"style"`
	Priority    int      `mapstructure:"priority"`
	Tone        string   `mapstructure:"tone"`
	Personality string   `mapstructure:"personality"`
	Preferences []string `mapstructure:"preferences"`
}

// ExecutorConfig configures the external AI executor command.
type ExecutorConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Timeout string   `mapstructure:"timeout"`
}

// ExecTimeout parses the executor timeout, defaulting to two minutes.
func (c ExecutorConfig) ExecTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// DialogueConfig configures stage execution pacing and windows.
type DialogueConfig struct {
	// AgentDelay paces sequential agent calls within a stage.
	AgentDelay string `mapstructure:"agent_delay"`
	// SummaryDelay defers stage-summary generation after a stage commits.
	SummaryDelay string `mapstructure:"summary_delay"`
	// RecentWindow is the number of recent messages included in prompts.
	RecentWindow int `mapstructure:"recent_window"`
	// Language is the dialogue language hint passed to summarization.
	Language string `mapstructure:"language"`
	// Seed pins the agent-shuffle randomness source; 0 means time-seeded.
	Seed int64 `mapstructure:"seed"`
}

// ParsedAgentDelay returns the inter-agent pacing delay.
func (c DialogueConfig) ParsedAgentDelay() time.Duration {
	return parseDuration(c.AgentDelay)
}

// ParsedSummaryDelay returns the stage-summary delay.
func (c DialogueConfig) ParsedSummaryDelay() time.Duration {
	return parseDuration(c.SummaryDelay)
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ConsensusConfig carries the tuned termination parameters. The values are
// empirically tuned, not derived; treat changes as product decisions.
type ConsensusConfig struct {
	SatisfactionWeight    float64 `mapstructure:"satisfaction_weight"`
	ReadinessWeight       float64 `mapstructure:"readiness_weight"`
	EarlyExitSatisfaction float64 `mapstructure:"early_exit_satisfaction"`
	ConvergenceThreshold  float64 `mapstructure:"convergence_threshold"`
	MaxRounds             int     `mapstructure:"max_rounds"`
	MinSatisfaction       float64 `mapstructure:"min_satisfaction"`
}

// FacilitatorConfig configures the fallback action planner.
type FacilitatorConfig struct {
	// PriorityOrder is the walk order of the deterministic fallback.
	PriorityOrder []string `mapstructure:"priority_order"`
	// ClarificationThreshold is the satisfaction level below which an agent
	// becomes a clarification target.
	ClarificationThreshold float64 `mapstructure:"clarification_threshold"`
	// SummarizeThreshold is the average satisfaction required to propose a
	// summary.
	SummarizeThreshold float64 `mapstructure:"summarize_threshold"`
	// ConcludeSatisfaction is the average satisfaction required to propose
	// concluding.
	ConcludeSatisfaction float64 `mapstructure:"conclude_satisfaction"`
}

// StateConfig configures session persistence.
type StateConfig struct {
	Backend    string `mapstructure:"backend"` // json, sqlite
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// OutputConfig configures final output persistence.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// AuditConfig configures the interaction audit log.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// AgentList materializes the configured personas as core agents, falling
// back to the default roster when none are configured.
func (c *Config) AgentList() ([]core.Agent, error) {
	personas := c.Agents
	if len(personas) == 0 {
		return DefaultAgents(), nil
	}
	agents := make([]core.Agent, 0, len(personas))
	for _, p := range personas {
		a := core.Agent{
			ID:          core.AgentID(p.ID),
			Name:        p.Name,
			Furigana:    p.Furigana,
			Style:       core.Style(p.Style),
			Priority:    p.Priority,
			Tone:        p.Tone,
			Personality: p.Personality,
			Preferences: p.Preferences,
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}
