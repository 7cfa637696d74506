package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tripgen/cmd/tripgen/commands"
	"github.com/teranos/tripgen/errors"
	"github.com/teranos/tripgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tripgen",
	Short: "tripgen - Kotlin sources from subject/relationship/object scenarios",
	Long: `tripgen - Kotlin sources from subject/relationship/object scenarios.

Each scenario is an ordered list of triplets such as "user pay tariff(simple)".
tripgen turns them into one Kotlin interface per subject, one data class per
distinct parameter and one JUnit test per scenario.

Available commands:
  generate - Synthesize sources from scenario files
  watch    - Regenerate sources whenever scenario files change
  serve    - Start the HTTP API
  project  - Manage stored projects
  am       - Show or initialize configuration
  version  - Show version information

Examples:
  tripgen generate billing.yaml --out src/test/kotlin
  tripgen watch billing.yaml --out src/test/kotlin
  tripgen serve --port 9010`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: system, user and project am.toml)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ProjectCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}
