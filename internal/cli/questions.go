package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate technical interview questions for a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		inline, _ := cmd.Flags().GetString("description")
		file, _ := cmd.Flags().GetString("description-file")

		description, err := jobDescription(inline, file)
		if err != nil {
			return err
		}

		application, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer application.Close()

		questions, err := application.Screener.GenerateQuestions(cmd.Context(), description)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), questions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().StringP("description", "D", "", "job description text")
	questionsCmd.Flags().StringP("description-file", "f", "", "file containing the job description")
}
