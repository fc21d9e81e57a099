package numwords

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSpell_Vectors(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "ZÉRO"},
		{1, "UN"},
		{10, "DIX"},
		{16, "SEIZE"},
		{17, "DIX-SEPT"},
		{20, "VINGT"},
		{21, "VINGT ET UN"},
		{22, "VINGT-DEUX"},
		{31, "TRENTE ET UN"},
		{61, "SOIXANTE ET UN"},
		{70, "SOIXANTE-DIX"},
		{71, "SOIXANTE-ONZE"},
		{77, "SOIXANTE-DIX-SEPT"},
		{80, "QUATRE-VINGTS"},
		{81, "QUATRE-VINGT-UN"},
		{89, "QUATRE-VINGT-NEUF"},
		{90, "QUATRE-VINGT-DIX"},
		{91, "QUATRE-VINGT-ONZE"},
		{99, "QUATRE-VINGT-DIX-NEUF"},
		{100, "CENT"},
		{101, "CENT UN"},
		{180, "CENT QUATRE-VINGTS"},
		{200, "DEUX CENTS"},
		{201, "DEUX CENT UN"},
		{999, "NEUF CENT QUATRE-VINGT-DIX-NEUF"},
		{1000, "MILLE"},
		{1001, "MILLE UN"},
		{2000, "DEUX MILLE"},
		{5000, "CINQ MILLE"},
		{40000, "QUARANTE MILLE"},
		{160000, "CENT SOIXANTE MILLE"},
		{200000, "DEUX CENTS MILLE"},
		{12500, "DOUZE MILLE CINQ CENTS"},
		{1000000, "UN MILLION"},
		{2500000, "DEUX MILLIONS CINQ CENTS MILLE"},
		{1000000000, "UN MILLIARD"},
		{-5, "MOINS CINQ"},
		{-1000, "MOINS MILLE"},
	}
	for _, tt := range tests {
		if got := Spell(tt.n); got != tt.want {
			t.Errorf("Spell(%d): expected %q, got %q", tt.n, tt.want, got)
		}
	}
}

func TestSpell_ThousandNeverPluralized(t *testing.T) {
	for _, n := range []int64{2000, 3000, 80000, 300000} {
		got := Spell(n)
		if got[len(got)-5:] != "MILLE" {
			t.Errorf("Spell(%d): expected trailing MILLE, got %q", n, got)
		}
	}
}

func TestSpellDecimal_Rounds(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12499.5", "DOUZE MILLE CINQ CENTS"},
		{"12500.4", "DOUZE MILLE CINQ CENTS"},
		{"0.4", "ZÉRO"},
		{"-2.5", "MOINS TROIS"},
	}
	for _, tt := range tests {
		got := SpellDecimal(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("SpellDecimal(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestAmount_Currency(t *testing.T) {
	if got := Amount(decimal.NewFromInt(160000), ""); got != "CENT SOIXANTE MILLE EUROS" {
		t.Errorf("expected %q, got %q", "CENT SOIXANTE MILLE EUROS", got)
	}
	if got := Amount(decimal.NewFromInt(1), "EUROS"); got != "UN EURO" {
		t.Errorf("expected %q, got %q", "UN EURO", got)
	}
}
