// Package ai provides the external-command AI executor adapter.
package ai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/polylogue/internal/config"
	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
	"github.com/hugo-lorenzo-mato/polylogue/internal/logging"
)

// CommandExecutor implements core.AIExecutor by shelling out to a configured
// CLI (claude, gemini, codex, ...). The prompt goes to stdin; the reply is
// whatever the command prints to stdout.
type CommandExecutor struct {
	command string
	args    []string
	timeout time.Duration
	logger  *logging.Logger
}

// NewCommandExecutor creates an executor for the configured command.
func NewCommandExecutor(cfg config.ExecutorConfig, logger *logging.Logger) (*CommandExecutor, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("executor command not configured")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandExecutor{
		command: cfg.Command,
		args:    cfg.Args,
		timeout: cfg.ExecTimeout(),
		logger:  logger.With("adapter", "command-executor"),
	}, nil
}

// Ping checks that the configured command is on PATH.
func (e *CommandExecutor) Ping() error {
	if _, err := exec.LookPath(e.command); err != nil {
		return fmt.Errorf("executor command %q not found: %w", e.command, err)
	}
	return nil
}

// Execute runs the prompt through the external command.
func (e *CommandExecutor) Execute(ctx context.Context, prompt, contextText string) (*core.ExecuteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	input := prompt
	if contextText != "" {
		input = contextText + "\n\n" + prompt
	}

	cmd := exec.CommandContext(ctx, e.command, e.args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("executor %s timed out after %s", e.command, e.timeout)
		}
		e.logger.Warn("executor command failed",
			"command", e.command,
			"duration", duration,
			"stderr", truncateForLog(stderr.String(), 500),
		)
		return nil, fmt.Errorf("running %s: %w", e.command, err)
	}

	content := strings.TrimSpace(stdout.String())
	if content == "" {
		return nil, fmt.Errorf("executor %s returned empty output", e.command)
	}

	e.logger.Debug("executor command completed",
		"command", e.command,
		"duration", duration,
		"output_length", len(content),
	)

	return &core.ExecuteResult{Content: content, Duration: duration}, nil
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ core.AIExecutor = (*CommandExecutor)(nil)
