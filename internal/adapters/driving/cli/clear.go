package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all records from the vector index",
	Long:  `Deletes every record from the vector index. This is irreversible.`,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		return errors.New("refusing to clear the index without --yes")
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.admin.ClearIndex(context.Background()); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	cmd.Println("Index cleared.")
	return nil
}
