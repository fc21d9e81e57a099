package vars

import "fmt"

// Aliases maps alternate spellings used by authors and source workbooks to
// the canonical variable name.
var Aliases = buildAliases()

func buildAliases() map[string]string {
	m := map[string]string{
		"Durée du Bail":                 "Durée Bail",
		"Durée du DG":                   "Durée DG",
		"Date prise d'effet":            "Date de prise d'effet",
		"Date de prise d'effet du bail": "Date de prise d'effet",
		"Date début bail":               "Date de prise d'effet",
		"Date de Prise d'effet + 9 ans": "Date de prise d'effet + 9 ans",
		"Statut Locaux loués":           "Statut Locaux Loués",
		"Durée ferme bail":              "Durée ferme Bail",
		"Duré GAPD":                     "Durée GAPD",
	}
	for i := 1; i <= 6; i++ {
		canonical := fmt.Sprintf("Montant du palier %d", i)
		m[fmt.Sprintf("Montant Palier %d", i)] = canonical
		m[fmt.Sprintf("Montant du Palier %d", i)] = canonical
	}
	return m
}

// Canonical returns the canonical spelling of name.
func Canonical(name string) string {
	if c, ok := Aliases[name]; ok {
		return c
	}
	return name
}
