package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/models"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved scoring sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		application, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		sessions, err := application.Screener.ListSessions(limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tJOB TITLE\tRESUMES\tAVERAGE\tCREATED")
		for _, session := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				session.ID,
				session.SessionName,
				session.JobTitle,
				session.NumResumes(),
				formatScore(session.AverageScore),
				session.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		if err := application.Screener.DeleteSession(models.SessionID(args[0])); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsDeleteCmd)

	sessionsListCmd.Flags().IntP("limit", "n", 10, "number of sessions to show")
}
