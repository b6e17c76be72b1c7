package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [document-url] [question]...",
	Short: "Answer questions about a policy document",
	Long: `Downloads the document at the given URL, indexes it and answers each
question from its content.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answers as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	documentURL := args[0]
	questions := args[1:]

	answers, err := app.answers.AnswerQuestions(context.Background(), documentURL, questions)
	if err != nil {
		return fmt.Errorf("answering questions: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(map[string][]string{"answers": answers}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answers: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i, question := range questions {
		cmd.Printf("Q: %s\n", question)
		cmd.Printf("A: %s\n", answers[i])
		cmd.Println()
	}
	return nil
}
