package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bailgen/internal/numwords"
	"github.com/dgallion1/bailgen/internal/vars"
)

var currency string

var spellCmd = &cobra.Command{
	Use:   "spell <amount>...",
	Short: "Write amounts out in French words",
	Long: `Print each amount in uppercase French words, the way clauses render
"[Loyer en lettres]". Amounts accept French formatting ("12 500,50").
With --currency the unit word follows the amount.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpell,
}

func init() {
	spellCmd.Flags().StringVar(&currency, "currency", "", `Currency word appended to the amount, e.g. "EUROS"`)
}

func runSpell(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		d, err := vars.ParseNumber(arg)
		if err != nil {
			return fmt.Errorf("parse %q: %w", arg, err)
		}
		words := numwords.SpellDecimal(d)
		if currency != "" {
			words = numwords.Amount(d, currency)
		}
		fmt.Fprintln(cmd.OutOrStdout(), words)
	}
	return nil
}
