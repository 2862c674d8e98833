package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
)

func shExecutor(t *testing.T, script string) *CommandExecutor {
	t.Helper()
	exec, err := NewCommandExecutor(config.ExecutorConfig{
		Command: "sh",
		Args:    []string{"-c", script},
		Timeout: "10s",
	}, nil)
	require.NoError(t, err)
	return exec
}

func TestNewCommandExecutorRequiresCommand(t *testing.T) {
	_, err := NewCommandExecutor(config.ExecutorConfig{}, nil)
	assert.Error(t, err)
}

func TestExecutePipesPromptThroughCommand(t *testing.T) {
	exec := shExecutor(t, "cat")

	result, err := exec.Execute(context.Background(), "what is the plan?", "earlier context")
	require.NoError(t, err)
	assert.Equal(t, "earlier context\n\nwhat is the plan?", result.Content)
	assert.Positive(t, result.Duration)
}

func TestExecuteWithoutContext(t *testing.T) {
	exec := shExecutor(t, "cat")

	result, err := exec.Execute(context.Background(), "solo prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "solo prompt", result.Content)
}

func TestExecuteEmptyOutput(t *testing.T) {
	exec := shExecutor(t, "true")

	_, err := exec.Execute(context.Background(), "anything", "")
	assert.ErrorContains(t, err, "empty output")
}

func TestExecuteCommandFailure(t *testing.T) {
	exec := shExecutor(t, "echo oops >&2; exit 3")

	_, err := exec.Execute(context.Background(), "anything", "")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	exec := shExecutor(t, "cat")
	assert.NoError(t, exec.Ping())

	missing, err := NewCommandExecutor(config.ExecutorConfig{Command: "definitely-not-a-binary-xyz"}, nil)
	require.NoError(t, err)
	assert.Error(t, missing.Ping())
}
