package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	PromptExport = "Export to Excel"
	PromptQuit   = "Quit"
	PromptMove   = "Move to another stage"
	PromptNotes  = "Edit notes"
	PromptBack   = "back"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Review candidates for a job and move them through hiring stages",
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().StringP("job-title", "t", "", "job title to open (prompted when empty)")
	boardCmd.Flags().BoolP("list", "l", false, "print the board and exit")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	jobTitle, _ := cmd.Flags().GetString("job-title")
	listOnly, _ := cmd.Flags().GetBool("list")

	application, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer application.Close()

	if jobTitle == "" {
		titles, err := application.Records.ListJobTitles()
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no scored candidates yet")
			return nil
		}

		jobPrompt := promptui.Select{
			Label: "Choose a job title",
			Items: titles,
		}
		if _, jobTitle, err = jobPrompt.Run(); err != nil {
			return ignoreInterrupt(err)
		}
	}

	board := application.Board(jobTitle)
	if err := board.Refresh(); err != nil {
		return err
	}

	if listOnly {
		printBoard(cmd.OutOrStdout(), board)
		return nil
	}

	return ignoreInterrupt(browseBoard(cmd, board))
}

func browseBoard(cmd *cobra.Command, board *services.WorkflowBoard) error {
	out := cmd.OutOrStdout()

	for {
		printSummary(out, board)

		records := board.Records()
		items := make([]string, 0, len(records)+2)
		for i, record := range records {
			items = append(items, candidateLabel(i, record))
		}
		items = append(items, PromptExport, PromptQuit)

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: items,
			Size:  15,
		}

		idx, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		switch selected {
		case PromptQuit:
			return nil
		case PromptExport:
			if err := exportBoard(cmd, board, ""); err != nil {
				return err
			}
		default:
			if err := reviewCandidate(cmd, board, records[idx].ID); err != nil {
				return err
			}
		}
	}
}

func reviewCandidate(cmd *cobra.Command, board *services.WorkflowBoard, id models.RecordID) error {
	out := cmd.OutOrStdout()

	for {
		record, err := board.Select(id)
		if err != nil {
			return err
		}
		printCandidate(out, record)

		actionPrompt := promptui.Select{
			Label: "What next?",
			Items: []string{PromptMove, PromptNotes, PromptBack},
		}
		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptBack:
			return nil
		case PromptMove:
			stages := make([]string, len(models.Stages))
			cursor := 0
			for i, stage := range models.Stages {
				stages[i] = string(stage)
				if stage == record.Status {
					cursor = i
				}
			}

			stagePrompt := promptui.Select{
				Label:     "Move to stage",
				Items:     stages,
				CursorPos: cursor,
				Size:      len(stages),
			}
			_, chosen, err := stagePrompt.Run()
			if err != nil {
				return err
			}

			stage, err := models.ParseStage(chosen)
			if err != nil {
				return err
			}
			if _, err := board.MoveCandidate(cmd.Context(), id, stage); err != nil {
				return err
			}
			fmt.Fprintf(out, "moved %s to %s\n", record.Candidate.Name, stage)
		case PromptNotes:
			notesPrompt := promptui.Prompt{
				Label:     "Notes",
				Default:   record.Notes,
				AllowEdit: true,
			}
			notes, err := notesPrompt.Run()
			if err != nil {
				return err
			}
			if _, err := board.SaveNotes(cmd.Context(), id, notes); err != nil {
				return err
			}
			fmt.Fprintln(out, "notes saved")
		}
	}
}

func candidateLabel(i int, record models.CandidateRecord) string {
	return fmt.Sprintf("%d. [%s] %s (%s) %s",
		i+1, record.Status, record.Candidate.Name, formatScore(record.Evaluation.OverallScore), record.Filename,
	)
}

func printSummary(out io.Writer, board *services.WorkflowBoard) {
	parts := make([]string, 0, len(models.Stages))
	for _, column := range board.Columns() {
		parts = append(parts, fmt.Sprintf("%s: %d", column.Stage, column.Count))
	}
	fmt.Fprintf(out, "\n%s\n%s\n\n", board.JobTitle(), strings.Join(parts, " | "))
}

func printBoard(out io.Writer, board *services.WorkflowBoard) {
	fmt.Fprintf(out, "%s\n", board.JobTitle())
	for _, column := range board.Columns() {
		fmt.Fprintf(out, "\n%s (%d)\n", column.Stage, column.Count)
		for _, record := range column.Records {
			fmt.Fprintf(out, "  %s  %s  %s  %s\n",
				formatScore(record.Evaluation.OverallScore), record.Candidate.Name, record.Candidate.Email, record.Filename,
			)
		}
	}
}

func printCandidate(out io.Writer, record *models.CandidateRecord) {
	fmt.Fprintf(out, "\nName:   %s\n", record.Candidate.Name)
	fmt.Fprintf(out, "Phone:  %s\n", record.Candidate.Phone)
	fmt.Fprintf(out, "Email:  %s\n", record.Candidate.Email)
	fmt.Fprintf(out, "File:   %s\n", record.Filename)
	fmt.Fprintf(out, "Stage:  %s\n", record.Status)
	fmt.Fprintf(out, "Score:  %s\n", formatScore(record.Evaluation.OverallScore))
	if record.Notes != "" {
		fmt.Fprintf(out, "Notes:  %s\n", record.Notes)
	}
	fmt.Fprintf(out, "\n%s\n\n", record.Evaluation.RawText)
}

// ignoreInterrupt treats Ctrl+C inside a prompt as a normal exit.
func ignoreInterrupt(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}
