package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/rules"
	"github.com/dgallion1/bailgen/internal/vars"
)

var testNow = func() time.Time { return time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC) }

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testTable() *rules.Table {
	return rules.NewTable([]rules.Row{
		{Section: "Comparution", Designation: "Comparution Bailleur", LookupNames: "Société Bailleur", LookupValue: "SCI ALPHA", Text1: "<b>SCI ALPHA</b>, bailleur"},
		{Text1: "[Société Bailleur], bailleur"},
		{Section: "Comparution", Designation: "Comparution Preneur", Text1: "[Nom Preneur], preneur"},
		{Section: "Article 2", Condition1: `Si Type Bail = "3/6/9"`, Text1: "## Durée\nBail [Type Bail] de [Durée Bail] ans.", Text2: "Bail dérogatoire."},
		{Section: "Article 8", Text1: "Dépôt de garantie : [Montant du DG en lettres] EUROS ([Montant du DG] €), soit un [Période DG] du loyer."},
		{Section: "Article 19", Condition1: "Si Option = Oui", Text1: "clause optionnelle"},
	})
}

func TestGenerate_Sections(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	facts := vars.FromAny(map[string]any{
		"Société Bailleur": "SCI ALPHA",
		"Nom Preneur":      "ACME",
		"Durée Bail":       9,
		"Montant du loyer": "50 000",
		"Durée DG":         3,
	})
	keys := []rules.SectionKey{
		{Section: "Comparution", Designation: "Comparution Bailleur"},
		{Section: "Comparution", Designation: "Comparution Preneur"},
		rules.Key("Article 2"),
		rules.Key("Article 8"),
		rules.Key("Article 19"),
		rules.Key("Article 99"),
	}
	res := g.Generate(facts, keys)

	if len(res.Sections) != len(keys) {
		t.Fatalf("expected %d sections, got %d", len(keys), len(res.Sections))
	}
	wantNames := []string{"Comparution Bailleur", "Comparution Preneur", "Article 2", "Article 8", "Article 19", "Article 99"}
	for i, s := range res.Sections {
		if s.Name != wantNames[i] {
			t.Errorf("section %d: expected %q, got %q", i, wantNames[i], s.Name)
		}
	}

	bailleur, _ := res.Section("Comparution Bailleur")
	if got := bailleur.Blocks[0].Segments[0]; got.Text != "SCI ALPHA" || got.Format != doctree.Bold {
		t.Errorf("expected bold landlord name, got %+v", got)
	}

	art2, _ := res.Section("Article 2")
	if len(art2.Blocks) != 1 || art2.Blocks[0].Level != 2 {
		t.Fatalf("expected one level-2 block, got %+v", art2.Blocks)
	}
	if got, want := art2.Blocks[0].Text(), "Durée\nBail 3/6/9 de 9 ans."; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	art8, _ := res.Section("Article 8")
	want := "Dépôt de garantie : DOUZE MILLE CINQ CENTS EUROS (12 500 €), soit un quart du loyer."
	if got := art8.Blocks[0].Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if s, _ := res.Section("Article 19"); s.Present {
		t.Error("expected Article 19 absent when option is not set")
	}
	if s, _ := res.Section("Article 99"); s.Present {
		t.Error("expected unknown article absent")
	}
	if len(res.Present()) != 4 {
		t.Errorf("expected 4 present sections, got %d", len(res.Present()))
	}

	kinds := map[diag.Kind]int{}
	for _, d := range res.Diagnostics {
		kinds[d.Kind]++
	}
	if kinds[diag.KindNoMatchingRule] != 1 || kinds[diag.KindSectionNotFound] != 1 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if len(res.Missing) != 0 {
		t.Errorf("expected no missing placeholders, got %v", res.Missing)
	}
}

func TestGenerate_MissingPlaceholders(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	res := g.Generate(vars.FromAny(map[string]any{"Société Bailleur": "SCI BETA"}), []rules.SectionKey{
		{Section: "Comparution", Designation: "Comparution Bailleur"},
		{Section: "Comparution", Designation: "Comparution Preneur"},
	})
	bailleur, _ := res.Section("Comparution Bailleur")
	if got := bailleur.Blocks[0].Text(); got != "SCI BETA, bailleur" {
		t.Errorf("expected fallback row, got %q", got)
	}
	if len(res.Missing) != 1 || res.Missing[0] != "[Nom Preneur]" {
		t.Errorf("expected [Nom Preneur] missing, got %v", res.Missing)
	}
}

func TestGenerate_DefaultSections(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	res := g.Generate(vars.Context{}, nil)
	if len(res.Sections) != len(DefaultSections) {
		t.Errorf("expected %d sections, got %d", len(DefaultSections), len(res.Sections))
	}
}

func TestGenerate_DoesNotMutateFacts(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	facts := vars.FromAny(map[string]any{"Durée Bail": 9})
	_ = g.Generate(facts, nil)
	if !facts.Resolve("Type Bail").IsAbsent() {
		t.Error("expected caller context unchanged")
	}
}

func TestGenerateBatch(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	var reqs []Request
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		reqs = append(reqs, Request{
			Facts:    vars.FromAny(map[string]any{"Nom Preneur": name}),
			Sections: []rules.SectionKey{{Section: "Comparution", Designation: "Comparution Preneur"}},
		})
	}
	results, err := g.GenerateBatch(context.Background(), reqs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, res := range results {
		want := reqs[i].Facts.Resolve("Nom Preneur").String() + ", preneur"
		if got := res.Sections[0].Blocks[0].Text(); got != want {
			t.Errorf("result %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestGenerateBatch_Cancelled(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.GenerateBatch(ctx, []Request{{}, {}}, 1)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestDocument_Letterhead(t *testing.T) {
	g := NewGenerator(testTable(), testNow, testLogger())
	res := g.Generate(vars.FromAny(map[string]any{"Société Bailleur": "SCI ALPHA", "Nom Preneur": "ACME"}), nil)
	heads := map[string]doctree.Letterhead{
		"SCI ALPHA": {Header: "SCI ALPHA", Footer: []string{"Siège : Paris"}},
	}
	doc := Document(res, heads)
	if doc.Letterhead.Header != "SCI ALPHA" {
		t.Errorf("expected letterhead %q, got %q", "SCI ALPHA", doc.Letterhead.Header)
	}
	for _, s := range doc.Sections {
		if !s.Present {
			t.Errorf("expected only present sections, got %q", s.Name)
		}
	}

	doc = Document(g.Generate(vars.Context{}, nil), heads)
	if !doc.Letterhead.IsZero() {
		t.Errorf("expected no letterhead, got %+v", doc.Letterhead)
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		facts map[string]any
		want  string
	}{
		{map[string]any{"Nom Preneur": "ACME", "Date LOI": "01/03/2024"}, "BAIL - ACME - 01-03-2024.docx"},
		{map[string]any{"Client": "Karavel"}, "BAIL - Karavel.docx"},
		{map[string]any{}, "BAIL - Client.docx"},
	}
	for _, tt := range tests {
		if got := OutputFilename(vars.FromAny(tt.facts)); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestParseSectionKeys(t *testing.T) {
	keys, err := ParseSectionKeys([]string{"Article 1", "Comparution / Comparution Preneur"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys[0] != rules.Key("Article 1") {
		t.Errorf("expected %v, got %v", rules.Key("Article 1"), keys[0])
	}
	if keys[1].Designation != "Comparution Preneur" {
		t.Errorf("expected designation, got %q", keys[1].Designation)
	}
	if _, err := ParseSectionKeys([]string{" / x"}); err == nil || !strings.Contains(err.Error(), "empty section") {
		t.Errorf("expected empty section error, got %v", err)
	}
}
