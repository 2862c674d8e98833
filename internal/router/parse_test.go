package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

func TestParseResponseMetadata(t *testing.T) {
	agents := routerAgents()

	t.Run("approach on individual thought", func(t *testing.T) {
		md := parseResponseMetadata(core.StageIndividualThought,
			"I would start small.\nApproach: incremental rollout\n", agents)
		require.NotNil(t, md)
		assert.Equal(t, "incremental rollout", md.Approach)
	})

	t.Run("japanese approach label", func(t *testing.T) {
		md := parseResponseMetadata(core.StageIndividualThought,
			"小さく始める。\nアプローチ：段階的導入\n", agents)
		require.NotNil(t, md)
		assert.Equal(t, "段階的導入", md.Approach)
	})

	t.Run("reflections on mutual reflection", func(t *testing.T) {
		content := "eiro-001: agree - solid premise\n" +
			"yoga-001: disagree - too slow\n" +
			"Some free-form elaboration afterwards.\n"
		md := parseResponseMetadata(core.StageMutualReflection, content, agents)
		require.NotNil(t, md)
		require.Len(t, md.Reflections, 2)
		assert.True(t, md.Reflections[0].Agreement)
		assert.Equal(t, core.AgentID("yoga-001"), md.Reflections[1].TargetAgentID)
		assert.False(t, md.Reflections[1].Agreement)
		assert.Equal(t, "too slow", md.Reflections[1].Reaction)
	})

	t.Run("unknown reflection targets skipped", func(t *testing.T) {
		md := parseResponseMetadata(core.StageMutualReflection,
			"stranger-007: disagree - who are you\n", agents)
		assert.Nil(t, md)
	})

	t.Run("vote on output generation", func(t *testing.T) {
		md := parseResponseMetadata(core.StageOutputGeneration,
			"Draft above.\nAgent Vote: yoga-001\n", agents)
		require.NotNil(t, md)
		assert.Equal(t, core.AgentID("yoga-001"), md.VotedAgent)
	})

	t.Run("ambiguous vote carries no metadata", func(t *testing.T) {
		md := parseResponseMetadata(core.StageOutputGeneration,
			"Vote: either Eiro or Kanshi", agents)
		assert.Nil(t, md)
	})

	t.Run("no signal", func(t *testing.T) {
		assert.Nil(t, parseResponseMetadata(core.StageIndividualThought, "plain text", agents))
		assert.Nil(t, parseResponseMetadata(core.StageConflictResolution, "Approach: ignored here", agents))
	})
}
