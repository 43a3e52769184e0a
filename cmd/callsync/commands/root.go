package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "callsync",
	Short: "Callsync - ingest call report emails into the document store",
	Long: `Callsync retrieves periodic call/appointment report emails, extracts the
embedded HTML tables regardless of which report revision produced them, and
merge-upserts each normalized record into the document store under a stable
content hash.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Credentials commonly live in a local .env during development.
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
