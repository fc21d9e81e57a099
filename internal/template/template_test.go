package template

import (
	"bytes"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/bailgen/internal/vars"
)

func buildDOCX(t *testing.T, paras ...string) []byte {
	t.Helper()
	w := docx.New().WithDefaultTheme()
	for _, p := range paras {
		w.AddParagraph().AddText(p)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestCategorize(t *testing.T) {
	inv := Categorize(
		"{{COMPARUTION_BAILLEUR}} {{ARTICLE_1}} {{VILLE}}",
		"Loyer : [Montant du loyer en lettres] ([Montant du loyer] €)",
		"Preneur : [Nom Preneur], [Nom Preneur]",
	)
	want := Inventory{
		Articles:  []string{"ARTICLE_1", "COMPARUTION_BAILLEUR"},
		InWords:   []string{"Montant du loyer en lettres"},
		Variables: []string{"Montant du loyer", "Nom Preneur"},
		Other:     []string{"VILLE"},
	}
	if diff := cmp.Diff(want, inv); diff != "" {
		t.Errorf("inventory mismatch (-want +got):\n%s", diff)
	}
	if inv.Len() != 6 {
		t.Errorf("expected 6 placeholders, got %d", inv.Len())
	}
}

func TestCategorize_Empty(t *testing.T) {
	inv := Categorize("aucun champ")
	if inv.Len() != 0 {
		t.Errorf("expected no placeholders, got %+v", inv)
	}
	if inv.Variables == nil {
		t.Error("expected empty, non-nil slices")
	}
}

func TestInventoryMissing(t *testing.T) {
	inv := Categorize("[Nom Preneur] [Montant du DG en lettres] [Durée du Bail] [Surface RDC]")
	ctx := vars.FromAny(map[string]any{
		"Nom Preneur": "ACME",
		"Durée Bail":  9,
	})
	want := []string{"Montant du DG", "Surface RDC"}
	if diff := cmp.Diff(want, inv.Missing(ctx)); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract(t *testing.T) {
	data := buildDOCX(t,
		"BAIL COMMERCIAL",
		"{{COMPARUTION_PRENEUR}}",
		"Fait à [Ville ou arrondissement], le [Date de signature]",
	)
	inv, err := Extract(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"COMPARUTION_PRENEUR"}, inv.Articles); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Date de signature", "Ville ou arrondissement"}, inv.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_NotADocx(t *testing.T) {
	if _, err := Extract(bytes.NewReader([]byte("plain text"))); err == nil {
		t.Fatal("expected error for non-docx input")
	}
}

func TestReadDOCX_HeadingLevel(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().Style("Heading2").AddText("Article 1")
	w.AddParagraph().AddText("Corps")
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	paras, err := ReadDOCX(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[0].Level != 2 || paras[0].Text != "Article 1" {
		t.Errorf("expected level-2 %q, got %+v", "Article 1", paras[0])
	}
	if paras[1].Level != 0 || paras[1].Text != "Corps" {
		t.Errorf("expected body %q, got %+v", "Corps", paras[1])
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading2", 2},
		{"heading 3", 3},
		{"Title", 0},
		{"Heading", 0},
		{"HeadingX", 0},
	}
	for _, tt := range tests {
		if got := headingLevel(tt.style); got != tt.want {
			t.Errorf("headingLevel(%q): expected %d, got %d", tt.style, tt.want, got)
		}
	}
}
