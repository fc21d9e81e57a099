// Command bailgen generates commercial lease documents from a rule table and
// a facts file without running the HTTP server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bailgen/internal/config"
)

var (
	verbose bool
	logger  *slog.Logger
	cfg     config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bailgen",
	Short: "Assemble commercial lease clauses from rule tables",
	Long: `bailgen resolves the clauses of a commercial lease from a rule table
and a set of deal facts, then writes the assembled document.

Defaults for file paths are read from the environment (RULES_PATH,
LETTERHEADS_PATH), optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvErr := config.LoadDotenv()
		cfg = config.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		if dotenvErr != nil {
			logger.Warn(".env file not loaded", "error", dotenvErr)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(spellCmd)
	rootCmd.AddCommand(placeholdersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
