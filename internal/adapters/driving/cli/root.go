// Package cli implements the policyqa command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/policyqa/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

var (
	verboseFlag bool
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "policyqa",
	Short: "Policy document question answering",
	Long: `policyqa downloads insurance policy documents, indexes their content
as vector embeddings and answers natural-language questions about them,
either ad hoc from the command line or as an HTTP service.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.policyqa)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
