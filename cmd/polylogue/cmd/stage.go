package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

var stagePrompt string

var stageCmd = &cobra.Command{
	Use:   "stage <session-id> <stage>",
	Short: "Execute a single dialogue stage",
	Long: `Stage runs one stage of an existing session, for stepping through a
dialogue manually instead of running the whole sequence.

Stages: ` + stageNames(),
	Args: cobra.ExactArgs(2),
	RunE: runStage,
}

func init() {
	stageCmd.Flags().StringVar(&stagePrompt, "prompt", "", "user prompt to record before the stage")
	rootCmd.AddCommand(stageCmd)
}

func stageNames() string {
	names := ""
	for i, s := range core.AllStages() {
		if i > 0 {
			names += ", "
		}
		names += string(s)
	}
	return names
}

func runStage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := buildLogger(cfg)

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	stage, err := core.ParseStage(args[1])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := eng.router.ExecuteStage(ctx, core.SessionID(args[0]), stage, stagePrompt)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stage %s complete (sequence %d, %d messages)\n",
		stage, session.SequenceNumber, len(session.Messages))
	for _, m := range session.StageMessages(stage) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s ---\n%s\n", m.AgentID, m.Content)
	}
	return nil
}
