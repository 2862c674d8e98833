package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v:         viper.New(),
		envPrefix: "POLYLOGUE",
	}
}

// NewLoaderWithViper creates a loader using an existing viper instance.
// This allows integration with CLI flag bindings.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{
		v:         v,
		envPrefix: "POLYLOGUE",
	}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (POLYLOGUE_*)
// 3. Project config (.polylogue.yaml in current directory)
// 4. User config (~/.config/polylogue/config.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".polylogue")
		l.v.SetConfigType("yaml")

		// Project config takes precedence over user config
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", "polylogue"))
		}
	}

	// Read config file (ignore not found)
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values. The consensus and facilitator
// numbers are empirically tuned; see ConsensusConfig.
func (l *Loader) setDefaults() {
	// Log defaults
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")

	// Executor defaults
	l.v.SetDefault("executor.command", "claude")
	l.v.SetDefault("executor.args", []string{"-p"})
	l.v.SetDefault("executor.timeout", "2m")

	// Dialogue pacing defaults
	l.v.SetDefault("dialogue.agent_delay", "3s")
	l.v.SetDefault("dialogue.summary_delay", "2s")
	l.v.SetDefault("dialogue.recent_window", 10)
	l.v.SetDefault("dialogue.language", "en")
	l.v.SetDefault("dialogue.seed", 0)

	// Consensus termination defaults
	l.v.SetDefault("consensus.satisfaction_weight", 0.8)
	l.v.SetDefault("consensus.readiness_weight", 0.2)
	l.v.SetDefault("consensus.early_exit_satisfaction", 8.5)
	l.v.SetDefault("consensus.convergence_threshold", 7.5)
	l.v.SetDefault("consensus.max_rounds", 10)
	l.v.SetDefault("consensus.min_satisfaction", 6.0)

	// Facilitator fallback defaults
	l.v.SetDefault("facilitator.priority_order", []string{
		"perspective_shift", "clarification", "summarize", "conclude", "deep_dive",
	})
	l.v.SetDefault("facilitator.clarification_threshold", 6.5)
	l.v.SetDefault("facilitator.summarize_threshold", 6.5)
	l.v.SetDefault("facilitator.conclude_satisfaction", 8.0)

	// State defaults (unified under .polylogue/)
	l.v.SetDefault("state.backend", "json")
	l.v.SetDefault("state.dir", ".polylogue/sessions")
	l.v.SetDefault("state.sqlite_path", ".polylogue/polylogue.db")

	// Output defaults
	l.v.SetDefault("output.dir", ".polylogue/outputs")

	// Audit defaults
	l.v.SetDefault("audit.enabled", true)
	l.v.SetDefault("audit.path", ".polylogue/interactions.jsonl")

	// API defaults
	l.v.SetDefault("api.addr", "127.0.0.1:8787")
	l.v.SetDefault("api.cors_origins", []string{"http://localhost:5173"})
}
