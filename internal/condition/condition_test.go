package condition

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/vars"
)

func ctxOf(m map[string]any) vars.Context { return vars.FromAny(m) }

func TestEvaluate_BlankIsTrue(t *testing.T) {
	for _, cond := range []string{"", "   ", "\n"} {
		if !Evaluate(cond, vars.Context{}, nil) {
			t.Errorf("expected blank condition %q to be true", cond)
		}
	}
}

func TestEvaluate_Equality(t *testing.T) {
	cond := "IF [Indexation] = 'Yes'"
	tests := []struct {
		name string
		ctx  vars.Context
		want bool
	}{
		{"match", ctxOf(map[string]any{"Indexation": "Yes"}), true},
		{"match with padding", ctxOf(map[string]any{"Indexation": "  Yes "}), true},
		{"different", ctxOf(map[string]any{"Indexation": "No"}), false},
		{"absent", vars.Context{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(cond, tt.ctx, nil); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluate_FrenchSyntax(t *testing.T) {
	ctx := ctxOf(map[string]any{
		"Actualisation": "Oui",
		"Durée Bail":    "10",
		"Type Bail":     "3/6/9",
	})
	tests := []struct {
		cond string
		want bool
	}{
		{"Si [Actualisation] = 'Oui'", true},
		{"Si [Actualisation] = \"Oui\"", true},
		{"Si [Actualisation] = “Oui”", true},
		{"Si [Actualisation] = ‘Non’", false},
		{"Si [Actualisation] != 'Non'", true},
		{"Si [Durée Bail] > 9", true},
		{"Si [Durée Bail] >= 10", true},
		{"Si [Durée Bail] < 10", false},
		{"Si [Durée Bail] <= 10", true},
		{"Si [Durée Bail] supérieur à 9", true},
		{"Si [Durée Bail] supérieure à 12", false},
		{"If [Durée Bail] greater than 9", true},
		{"Si [Durée du Bail] = 10", true},
		{"Si Durée Bail > 9", true},
		{"si [Type Bail] = 3/6/9", true},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.cond, ctx, nil); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.cond, tt.want, got)
		}
	}
}

func TestEvaluate_EqualityOnNumbers(t *testing.T) {
	ctx := vars.New(map[string]vars.Value{
		"Loyer": vars.Int(1500),
		"Taux":  vars.Number(decimal.RequireFromString("2.5")),
	})
	tests := []struct {
		cond string
		want bool
	}{
		{"Si [Loyer] = 1500", true},
		{"Si [Loyer] = 1 500", true},
		{"Si [Loyer] = '1500,00'", true},
		{"Si [Loyer] = 1501", false},
		{"Si [Loyer] != 1500", false},
		{"Si [Taux] = 2,5", true},
		{"Si [Taux] = 2.5", true},
		{"Si [Taux] = 2,50", true},
		{"Si [Taux] != 3", true},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.cond, ctx, nil); got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.cond, tt.want, got)
		}
	}
}

func TestEvaluate_NoBreakSpaces(t *testing.T) {
	ctx := ctxOf(map[string]any{"Loyer": "45 000", "Durée Bail": 9})
	tests := []string{
		"Si [Loyer]\u00a0non vide",
		"Si\u00a0[Durée Bail]\u202f=\u00a09",
		"Si [Durée Bail]\u00a0>\u00a08",
	}
	for _, cond := range tests {
		rec := &diag.Recorder{}
		if !Evaluate(cond, ctx, rec) {
			t.Errorf("%q: expected true", cond)
		}
		if rec.Len() != 0 {
			t.Errorf("%q: expected no diagnostics, got %v", cond, rec.Diagnostics())
		}
	}
}

func TestEvaluate_EqualityNeedsValue(t *testing.T) {
	rec := &diag.Recorder{}
	if Evaluate("Si [Absent] =", vars.Context{}, rec) {
		t.Error("expected comparison without a value to be false")
	}
	if rec.Count(diag.KindUnrecognizedCondition) != 1 {
		t.Errorf("expected 1 unrecognized_condition diagnostic, got %v", rec.Diagnostics())
	}

	if !Evaluate(`Si [Absent] = ""`, vars.Context{}, nil) {
		t.Error("expected an explicit empty literal to match an absent value")
	}
}

func TestEvaluate_NumericCoercionFailure(t *testing.T) {
	rec := &diag.Recorder{}
	ctx := ctxOf(map[string]any{"Durée Bail": "neuf"})
	if Evaluate("Si [Durée Bail] > 9", ctx, rec) {
		t.Error("expected non-numeric comparison to be false")
	}
	if rec.Count(diag.KindNumericCoercion) != 1 {
		t.Errorf("expected 1 numeric_coercion diagnostic, got %v", rec.Diagnostics())
	}

	rec = &diag.Recorder{}
	if Evaluate("Si [Durée Bail] > 9", vars.Context{}, rec) {
		t.Error("expected absent operand to be false")
	}
	if rec.Count(diag.KindNumericCoercion) != 1 {
		t.Errorf("expected 1 numeric_coercion diagnostic, got %v", rec.Diagnostics())
	}
}

func TestEvaluate_NotEmpty(t *testing.T) {
	tests := []struct {
		name string
		cond string
		ctx  map[string]any
		want bool
	}{
		{"present", "Si [Loyer année 1] non vide", map[string]any{"Loyer année 1": "45 000"}, true},
		{"blank", "Si [Loyer année 1] non vide", map[string]any{"Loyer année 1": " "}, false},
		{"absent", "Si [Loyer année 1] non vide", nil, false},
		{"zero", "Si [Franchise] non nul", map[string]any{"Franchise": 0}, false},
		{"english", "IF [Franchise] not empty", map[string]any{"Franchise": 3}, true},
		{"english null", "If [Franchise] not null", map[string]any{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &diag.Recorder{}
			if got := Evaluate(tt.cond, ctxOf(tt.ctx), rec); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if rec.Len() != 0 {
				t.Errorf("expected no diagnostics, got %v", rec.Diagnostics())
			}
		})
	}
}

func TestEvaluate_MultipleSuspensiveConditions(t *testing.T) {
	cond := "Si plusieurs conditions suspensives"
	one := ctxOf(map[string]any{"Condition suspensive 1": "Obtention du permis"})
	two := ctxOf(map[string]any{
		"Condition suspensive 1": "Obtention du permis",
		"Condition suspensive 3": "Accord de la copropriété",
	})
	blankSecond := ctxOf(map[string]any{
		"Condition suspensive 1": "Obtention du permis",
		"Condition suspensive 2": "",
	})

	if Evaluate(cond, one, nil) {
		t.Error("expected one condition to be false")
	}
	if !Evaluate(cond, two, nil) {
		t.Error("expected two conditions to be true")
	}
	if Evaluate(cond, blankSecond, nil) {
		t.Error("expected blank condition not to count")
	}
	if !Evaluate("multiple conditions present", two, nil) {
		t.Error("expected english phrasing to be recognized")
	}
}

func TestEvaluate_Unrecognized(t *testing.T) {
	rec := &diag.Recorder{}
	if Evaluate("Lorsque le preneur le souhaite", vars.Context{}, rec) {
		t.Error("expected unrecognized condition to be false")
	}
	ds := rec.Diagnostics()
	if len(ds) != 1 || ds[0].Kind != diag.KindUnrecognizedCondition {
		t.Fatalf("expected one unrecognized_condition diagnostic, got %v", ds)
	}
	if ds[0].Subject != "Lorsque le preneur le souhaite" {
		t.Errorf("expected subject to carry the condition text, got %q", ds[0].Subject)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	ctx := ctxOf(map[string]any{"Durée Bail": 9})
	first := Evaluate("Si [Durée Bail] >= 9", ctx, nil)
	for i := 0; i < 50; i++ {
		if Evaluate("Si [Durée Bail] >= 9", ctx, nil) != first {
			t.Fatal("expected identical results across calls")
		}
	}
}

func TestNormalizeQuotes(t *testing.T) {
	got := NormalizeQuotes("« a » “b” ‘c’")
	want := `" a " "b" 'c'`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
