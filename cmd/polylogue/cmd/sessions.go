package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/polylogue/internal/core"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored dialogue sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Dump one session as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, buildLogger(cfg))
	if err != nil {
		return err
	}
	defer eng.close()

	sessions, err := eng.store.GetAllSessions(cmd.Context())
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-38s %-12s %-22s %4s %s\n", "ID", "STATUS", "STAGE", "SEQ", "TITLE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%-38s %-12s %-22s %4d %s\n",
			s.ID, s.Status, s.CurrentStage, s.SequenceNumber, s.Title)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, buildLogger(cfg))
	if err != nil {
		return err
	}
	defer eng.close()

	session, err := eng.store.GetSession(cmd.Context(), core.SessionID(args[0]))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := buildEngine(cfg, buildLogger(cfg))
	if err != nil {
		return err
	}
	defer eng.close()

	deleted, err := eng.store.DeleteSession(cmd.Context(), core.SessionID(args[0]))
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("session %s not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
	return nil
}
