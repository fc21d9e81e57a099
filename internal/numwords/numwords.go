// Package numwords spells amounts out in French, the way contract clauses
// write them "en lettres": uppercase, with the legacy drafting conventions
// of the lease templates (QUATRE-VINGTS, DEUX CENTS MILLE, SOIXANTE-ONZE).
package numwords

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	units = [...]string{"", "UN", "DEUX", "TROIS", "QUATRE", "CINQ", "SIX", "SEPT", "HUIT", "NEUF"}
	teens = [...]string{"DIX", "ONZE", "DOUZE", "TREIZE", "QUATORZE", "QUINZE", "SEIZE",
		"DIX-SEPT", "DIX-HUIT", "DIX-NEUF"}
	tens = [...]string{"", "DIX", "VINGT", "TRENTE", "QUARANTE", "CINQUANTE",
		"SOIXANTE", "SOIXANTE", "QUATRE-VINGT", "QUATRE-VINGT"}
)

const (
	zero  = "ZÉRO"
	minus = "MOINS"
)

// Spell converts n to words.
func Spell(n int64) string {
	if n == 0 {
		return zero
	}
	if n < 0 {
		// Negate in uint64 so math.MinInt64 does not overflow.
		return minus + " " + spellScaled(uint64(-(n+1))+1)
	}
	return spellScaled(uint64(n))
}

// SpellDecimal rounds d to the nearest integer (half away from zero) and
// spells it.
func SpellDecimal(d decimal.Decimal) string {
	return Spell(d.Round(0).IntPart())
}

// Amount spells d followed by the currency word, singular for exactly one.
// An empty currency defaults to euros.
func Amount(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "EUROS"
	}
	rounded := d.Round(0)
	if rounded.Equal(decimal.NewFromInt(1)) && strings.HasSuffix(currency, "S") {
		currency = strings.TrimSuffix(currency, "S")
	}
	return SpellDecimal(rounded) + " " + currency
}

type scale struct {
	size     uint64
	singular string
	plural   string
	// One is written without "UN" (MILLE, not UN MILLE).
	bareOne bool
}

var scales = []scale{
	{size: 1_000_000_000, singular: "MILLIARD", plural: "MILLIARDS"},
	{size: 1_000_000, singular: "MILLION", plural: "MILLIONS"},
	{size: 1_000, singular: "MILLE", plural: "MILLE", bareOne: true},
}

func spellScaled(n uint64) string {
	var parts []string
	for _, s := range scales {
		if n < s.size {
			continue
		}
		count := n / s.size
		n %= s.size
		switch {
		case count == 1 && s.bareOne:
			parts = append(parts, s.singular)
		case count == 1:
			parts = append(parts, "UN "+s.singular)
		default:
			parts = append(parts, spellScaled(count)+" "+s.plural)
		}
	}
	if n > 0 {
		parts = append(parts, belowThousand(int(n)))
	}
	return strings.Join(parts, " ")
}

func belowThousand(n int) string {
	switch {
	case n == 0:
		return ""
	case n < 10:
		return units[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		return belowHundred(n)
	}

	hundreds, rest := n/100, n%100
	var out string
	if hundreds == 1 {
		out = "CENT"
	} else {
		out = units[hundreds] + " CENT"
		if rest == 0 {
			out += "S"
		}
	}
	if rest > 0 {
		out += " " + belowThousand(rest)
	}
	return out
}

func belowHundred(n int) string {
	t, u := n/10, n%10
	switch {
	case t == 7 || t == 9:
		return tens[t] + "-" + teens[u]
	case t == 8 && u == 0:
		return "QUATRE-VINGTS"
	case t == 8:
		return tens[t] + "-" + units[u]
	case u == 0:
		return tens[t]
	case u == 1:
		return tens[t] + " ET UN"
	default:
		return tens[t] + "-" + units[u]
	}
}
