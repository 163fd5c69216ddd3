package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score [flags] RESUME...",
	Short: "Score PDF or DOCX resumes against a job description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("job-title", "t", "", "job title the resumes are screened for")
	scoreCmd.Flags().StringP("description", "D", "", "job description text")
	scoreCmd.Flags().StringP("description-file", "f", "", "file containing the job description")
	scoreCmd.Flags().StringP("session", "s", "", "save the results as a named session")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jobTitle, _ := cmd.Flags().GetString("job-title")
	inline, _ := cmd.Flags().GetString("description")
	file, _ := cmd.Flags().GetString("description-file")
	sessionName, _ := cmd.Flags().GetString("session")

	description, err := jobDescription(inline, file)
	if err != nil {
		return err
	}

	application, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer application.Close()

	run, err := application.Screener.NewRun(jobTitle, description)
	if err != nil {
		return err
	}

	var docs []models.ResumeDocument
	for _, path := range args {
		doc, err := services.ReadDocumentFile(path)
		if err != nil {
			application.Log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return &models.MissingInputError{Field: "resumes"}
	}

	scoreErr := application.Screener.ScoreAll(ctx, run, docs)
	printResults(cmd.OutOrStdout(), run)
	if scoreErr != nil {
		return fmt.Errorf("scoring stopped early: %w", scoreErr)
	}

	if sessionName != "" && len(run.Results()) > 0 {
		session, err := application.Screener.SaveSession(run, sessionName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved session %q (%s)\n", session.SessionName, session.ID)
	}

	return nil
}

func printResults(out io.Writer, run *services.ScreeningRun) {
	fmt.Fprintf(out, "Results for %s\n\n", run.JobTitle)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tNAME\tEMAIL\tPHONE\tFILE")
	for i, record := range run.Ranked() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			formatScore(record.Evaluation.OverallScore),
			record.Candidate.Name,
			record.Candidate.Email,
			record.Candidate.Phone,
			record.Filename,
		)
	}
	w.Flush()

	for _, skipped := range run.Skipped() {
		fmt.Fprintf(out, "skipped %s: %s\n", skipped.Filename, skipped.Reason)
	}

	fmt.Fprintf(out, "\nAverage score: %s\n", formatScore(run.Average()))
}
