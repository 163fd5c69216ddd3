package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/services"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List job titles that have scored candidates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		titles, err := application.Records.ListJobTitles()
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no scored candidates yet")
			return nil
		}

		for _, title := range titles {
			fmt.Fprintln(cmd.OutOrStdout(), title)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a job's workflow board to an Excel workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobTitle, _ := cmd.Flags().GetString("job-title")
		output, _ := cmd.Flags().GetString("output")

		application, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		board := application.Board(jobTitle)
		if err := board.Refresh(); err != nil {
			return err
		}

		return exportBoard(cmd, board, output)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd, exportCmd)

	exportCmd.Flags().StringP("job-title", "t", "", "job title to export")
	exportCmd.Flags().StringP("output", "o", "", "output file (default is <job-title>-board-<date>.xlsx)")
	exportCmd.MarkFlagRequired("job-title")
}

func exportBoard(cmd *cobra.Command, board *services.WorkflowBoard, output string) error {
	if output == "" {
		output = services.ExportFilename(board.JobTitle())
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}

	if err := services.ExportBoard(board.JobTitle(), board.Columns(), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported board to %s\n", output)
	return nil
}
