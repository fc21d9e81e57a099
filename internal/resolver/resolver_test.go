package resolver

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/rules"
	"github.com/dgallion1/bailgen/internal/vars"
)

func ctxOf(m map[string]any) vars.Context { return vars.FromAny(m) }

func TestResolve_FirstMatchWins(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Article 7", Condition1: `Si Option = "Yes"`, Text1: "T1"},
		{Condition1: "", Text1: "T2"},
	})
	r := New(table)

	got, ok := r.Resolve(rules.Key("Article 7"), ctxOf(map[string]any{"Option": "Yes"}), nil)
	assert.True(t, ok)
	assert.Equal(t, "T1", got)

	got, ok = r.Resolve(rules.Key("Article 7"), ctxOf(map[string]any{"Option": "No"}), nil)
	assert.True(t, ok)
	assert.Equal(t, "T2", got)
}

func TestResolve_OptionTwoWithinRow(t *testing.T) {
	table := rules.NewTable([]rules.Row{{
		Section:    "Article 3",
		Condition1: "Si Franchise = Oui",
		Text1:      "avec franchise",
		Condition2: "Si Franchise = Non",
		Text2:      "sans franchise",
	}})
	got, ok := New(table).Resolve(rules.Key("Article 3"), ctxOf(map[string]any{"Franchise": "Non"}), nil)
	assert.True(t, ok)
	assert.Equal(t, "sans franchise", got)
}

func TestResolve_BlankTextFallsThrough(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Article 3", Text1: "  ", Text2: "second"},
	})
	got, ok := New(table).Resolve(rules.Key("Article 3"), vars.Context{}, nil)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestResolve_LookupGate(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Comparution", Designation: "Comparution Bailleur", LookupNames: "Société Bailleur", LookupValue: "SCI ALPHA", Text1: "alpha"},
		{LookupNames: "Société Bailleur", LookupValue: " SCI BETA ", Text1: "beta"},
		{Text1: "défaut"},
	})
	key := rules.SectionKey{Section: "Comparution", Designation: "Comparution Bailleur"}
	r := New(table)

	tests := []struct {
		company any
		want    string
	}{
		{"SCI ALPHA", "alpha"},
		{"SCI BETA  ", "beta"},
		{"SCI GAMMA", "défaut"},
		{nil, "défaut"},
	}
	for _, tt := range tests {
		facts := map[string]any{}
		if tt.company != nil {
			facts["Société Bailleur"] = tt.company
		}
		got, ok := r.Resolve(key, ctxOf(facts), nil)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "company %v", tt.company)
	}
}

func TestResolve_LookupGateMultiName(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Article 1", LookupNames: "Activité 1, 2, 3", LookupValue: "Restauration", Text1: "restaurant"},
		{Text1: "commerce"},
	})
	r := New(table)

	got, _ := r.Resolve(rules.Key("Article 1"), ctxOf(map[string]any{"Activité 1": "Vente", "Activité 3": "Restauration"}), nil)
	assert.Equal(t, "restaurant", got)

	got, _ = r.Resolve(rules.Key("Article 1"), ctxOf(map[string]any{"Activité 1": "Vente"}), nil)
	assert.Equal(t, "commerce", got)
}

func TestLookupPasses_Numbers(t *testing.T) {
	row := rules.Row{Section: "Article 5.3", LookupNames: "Loyer", LookupValue: "1500"}
	tests := []struct {
		value vars.Value
		want  bool
	}{
		{vars.Int(1500), true},
		{vars.Text("1500"), true},
		{vars.Int(1501), false},
		{vars.Text("1 500"), false},
	}
	for _, tt := range tests {
		ctx := vars.New(map[string]vars.Value{"Loyer": tt.value})
		assert.Equal(t, tt.want, LookupPasses(row, ctx), "value %v", tt.value)
	}

	frac := rules.Row{Section: "Article 5.3", LookupNames: "Taux", LookupValue: "2,5"}
	ctx := vars.New(map[string]vars.Value{"Taux": vars.Number(decimal.RequireFromString("2.50"))})
	assert.True(t, LookupPasses(frac, ctx))
}

func TestResolve_HalfDeclaredLookupIsNoGate(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Article 2", LookupNames: "Société Bailleur", Text1: "always"},
	})
	got, ok := New(table).Resolve(rules.Key("Article 2"), vars.Context{}, nil)
	assert.True(t, ok)
	assert.Equal(t, "always", got)
}

func TestResolve_Diagnostics(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Article 5.3", Condition1: "Si Option = Oui", Text1: "x"},
	})
	r := New(table)

	rec := &diag.Recorder{}
	_, ok := r.Resolve(rules.Key("Article 404"), vars.Context{}, rec)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.Count(diag.KindSectionNotFound))

	rec = &diag.Recorder{}
	_, ok = r.Resolve(rules.Key("Article 5.3"), vars.Context{}, rec)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.Count(diag.KindNoMatchingRule))
	assert.Equal(t, 0, rec.Count(diag.KindSectionNotFound))
}

func TestResolve_NilTable(t *testing.T) {
	_, ok := Resolver{}.Resolve(rules.Key("Article 1"), vars.Context{}, nil)
	assert.False(t, ok)
}

func TestResolve_Deterministic(t *testing.T) {
	table := rules.NewTable([]rules.Row{
		{Section: "Article 8", Condition1: "Si Loyer > 1000", Text1: "élevé", Condition2: "Si Loyer non vide", Text2: "bas"},
	})
	ctx := ctxOf(map[string]any{"Loyer": "900"})
	r := New(table)
	first, _ := r.Resolve(rules.Key("Article 8"), ctx, nil)
	for i := 0; i < 20; i++ {
		got, _ := r.Resolve(rules.Key("Article 8"), ctx, nil)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, "bas", first)
}
