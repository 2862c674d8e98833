package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

func TestLoadDefaults(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "claude", cfg.Executor.Command)
	assert.InDelta(t, 0.8, cfg.Consensus.SatisfactionWeight, 0.001)
	assert.InDelta(t, 0.2, cfg.Consensus.ReadinessWeight, 0.001)
	assert.InDelta(t, 8.5, cfg.Consensus.EarlyExitSatisfaction, 0.001)
	assert.Equal(t, 10, cfg.Consensus.MaxRounds)
	assert.Equal(t, "json", cfg.State.Backend)
	assert.Equal(t, "127.0.0.1:8787", cfg.API.Addr)
	assert.Equal(t,
		[]string{"perspective_shift", "clarification", "summarize", "conclude", "deep_dive"},
		cfg.Facilitator.PriorityOrder)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log:
  level: debug
executor:
  command: gemini
  timeout: 45s
consensus:
  max_rounds: 6
dialogue:
  agent_delay: 1s
  seed: 42
agents:
  - id: solo-001
    name: Solo
    style: logical
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "gemini", cfg.Executor.Command)
	assert.Equal(t, 6, cfg.Consensus.MaxRounds)
	assert.EqualValues(t, 42, cfg.Dialogue.Seed)

	agents, err := cfg.AgentList()
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, core.AgentID("solo-001"), agents[0].ID)
}

func TestAgentListDefaultRoster(t *testing.T) {
	cfg := &Config{}
	agents, err := cfg.AgentList()
	require.NoError(t, err)
	require.Len(t, agents, 5)

	ids := make(map[core.AgentID]bool)
	for _, a := range agents {
		require.NoError(t, a.Validate())
		ids[a.ID] = true
	}
	assert.True(t, ids["eiro-001"])
	assert.True(t, ids["yui-000"])
}

func TestAgentListRejectsInvalidPersona(t *testing.T) {
	cfg := &Config{Agents: []PersonaConfig{{ID: "", Name: "Nameless"}}}
	_, err := cfg.AgentList()
	assert.Error(t, err)
}

func TestExecTimeoutFallback(t *testing.T) {
	assert.Equal(t, "2m0s", ExecutorConfig{}.ExecTimeout().String())
	assert.Equal(t, "45s", ExecutorConfig{Timeout: "45s"}.ExecTimeout().String())
	assert.Equal(t, "2m0s", ExecutorConfig{Timeout: "junk"}.ExecTimeout().String())
}

func TestParsedDelays(t *testing.T) {
	d := DialogueConfig{AgentDelay: "3s", SummaryDelay: "bad"}
	assert.Equal(t, "3s", d.ParsedAgentDelay().String())
	assert.GreaterOrEqual(t, d.ParsedSummaryDelay().Seconds(), 0.0)
}
