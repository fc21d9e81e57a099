package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bailgen/internal/derive"
	"github.com/dgallion1/bailgen/internal/loader"
	"github.com/dgallion1/bailgen/internal/template"
)

var placeholderFacts string

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders <template.docx>",
	Short: "Inventory the placeholders of a Word template",
	Long: `List the placeholders found in a .docx template, grouped by kind.
With --facts, only the variables the facts cannot fill are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaceholders,
}

func init() {
	placeholdersCmd.Flags().StringVar(&placeholderFacts, "facts", "", "Facts file to check the template against")
}

func runPlaceholders(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	inv, err := template.Extract(f)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if placeholderFacts != "" {
		facts, err := loader.LoadFactsFile(placeholderFacts)
		if err != nil {
			return err
		}
		for _, name := range inv.Missing(derive.Calculator{}.Extend(facts, nil)) {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	groups := []struct {
		label string
		names []string
	}{
		{"articles", inv.Articles},
		{"in words", inv.InWords},
		{"variables", inv.Variables},
		{"other", inv.Other},
	}
	for _, g := range groups {
		if len(g.names) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s (%d):\n", g.label, len(g.names))
		for _, n := range g.names {
			fmt.Fprintln(out, "  "+strings.TrimSpace(n))
		}
	}
	logger.Debug("template inventoried", "path", args[0], "placeholders", inv.Len())
	return nil
}
