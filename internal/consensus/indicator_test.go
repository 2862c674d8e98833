package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndicator(t *testing.T) {
	t.Run("english footer", func(t *testing.T) {
		text := "I think we have covered the key points.\n" +
			"Satisfaction: 8.5\n" +
			"Ready to move: yes\n" +
			"Additional points: no\n"

		ind, ok := ParseIndicator("eiro-001", text)
		require.True(t, ok)
		assert.Equal(t, 8.5, ind.SatisfactionLevel)
		assert.True(t, ind.ReadyToMove)
		assert.False(t, ind.HasAdditionalPoints)
	})

	t.Run("japanese footer", func(t *testing.T) {
		text := "議論は十分だと思います。\n満足度：9\n次へ：はい\n"

		ind, ok := ParseIndicator("kanshi-001", text)
		require.True(t, ok)
		assert.Equal(t, 9.0, ind.SatisfactionLevel)
		assert.True(t, ind.ReadyToMove)
	})

	t.Run("missing satisfaction yields no indicator", func(t *testing.T) {
		_, ok := ParseIndicator("eiro-001", "Ready to move: yes\n")
		assert.False(t, ok)
	})

	t.Run("satisfaction clamps to range", func(t *testing.T) {
		ind, ok := ParseIndicator("eiro-001", "Satisfaction: 37")
		require.True(t, ok)
		assert.Equal(t, 10.0, ind.SatisfactionLevel)
	})

	t.Run("not ready", func(t *testing.T) {
		ind, ok := ParseIndicator("eiro-001", "Satisfaction: 4\nReady to move: no\nAdditional points: yes\n")
		require.True(t, ok)
		assert.False(t, ind.ReadyToMove)
		assert.True(t, ind.HasAdditionalPoints)
	})

	t.Run("questions collected", func(t *testing.T) {
		text := "Satisfaction: 6\n" +
			"Question for yoga-001: how does this scale?\n" +
			"Q: what about failure modes?\n"

		ind, ok := ParseIndicator("eiro-001", text)
		require.True(t, ok)
		assert.Equal(t, []string{"how does this scale?", "what about failure modes?"}, ind.QuestionsForOthers)
	})
}
