package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

var (
	runSessionID string
	runTitle     string
	runLanguage  string
)

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Run a full dialogue sequence for a prompt",
	Long: `Run drives one complete dialogue pass: individual thought, mutual
reflection, conflict-resolution rounds until consensus, synthesis, a
voted output stage, and the elected agent's final answer.

With --session it resumes (or restarts) an existing session; completed
sessions start a new sequence that can see the previous conclusion.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSessionID, "session", "", "existing session id to continue")
	runCmd.Flags().StringVar(&runTitle, "title", "", "session title (defaults to the prompt)")
	runCmd.Flags().StringVar(&runLanguage, "language", "", "reply language override")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	prompt := ""
	if len(args) > 0 {
		prompt = strings.TrimSpace(args[0])
	}

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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionID := core.SessionID(runSessionID)
	if sessionID == "" {
		if prompt == "" {
			return fmt.Errorf("a prompt is required to start a new session")
		}
		session := core.NewSession(runTitle, eng.agents)
		session.UserPrompt = prompt
		if runLanguage != "" {
			session.Language = runLanguage
		} else {
			session.Language = cfg.Dialogue.Language
		}
		if err := eng.store.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		sessionID = session.ID
		logger.Info("session created", "session", sessionID)
	}

	session, err := eng.router.RunSequence(ctx, sessionID, prompt)
	if err != nil {
		return err
	}

	if conclusion, ok := conclusionOf(session); ok {
		fmt.Fprintln(cmd.OutOrStdout(), conclusion)
	}
	logger.Info("dialogue complete",
		"session", session.ID,
		"sequence", session.SequenceNumber,
		"messages", len(session.Messages),
	)
	return nil
}

func conclusionOf(session *core.Session) (string, bool) {
	c, ok := session.FinalConclusions[session.SequenceNumber]
	return c, ok
}
