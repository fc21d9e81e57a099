package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bailgen/internal/loader"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <rules-file>",
	Short: "List the sections declared in a rule table",
	Args:  cobra.ExactArgs(1),
	RunE:  runSections,
}

func runSections(cmd *cobra.Command, args []string) error {
	table, err := loader.LoadRulesFile(args[0])
	if err != nil {
		return err
	}
	for _, key := range table.Sections() {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	logger.Debug("rule table listed", "rows", table.Len(), "sections", len(table.Sections()))
	return nil
}
