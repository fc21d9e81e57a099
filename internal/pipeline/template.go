package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/bailgen/internal/derive"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/render"
	"github.com/dgallion1/bailgen/internal/vars"
)

// Template tokens that do not name a section.
const (
	CityToken          = "VILLE"
	SignatureDateToken = "DATE_SIGNATURE"
	DefaultCity        = "Paris"
)

// TemplateToken is the {{TOKEN}} a section goes by in a Word template:
// "Article 5.3" is ARTICLE_5_3, "Article préliminaire" is
// ARTICLE_PRELIMINAIRE.
func TemplateToken(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = name
	}

	var sb strings.Builder
	sep := false
	for _, r := range strings.ToUpper(folded) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			sep = true
			continue
		}
		if sep && sb.Len() > 0 {
			sb.WriteByte('_')
		}
		sep = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// TemplateData fills a lease template from res: each section under its
// token (absent sections remove theirs) plus the variable tokens.
func TemplateData(res Result) render.FillData {
	data := VariableData(res.Context)
	for _, s := range res.Sections {
		data.Blocks[TemplateToken(s.Name)] = s.Blocks
	}
	return data
}

// VariableData fills a template that carries no sections, such as a
// letter of intent. ctx should already hold the derived variables.
func VariableData(ctx vars.Context) render.FillData {
	city, _, _ := strings.Cut(ctx.Resolve(derive.Town).String(), "(")
	city = strings.TrimSpace(city)
	if city == "" {
		city = DefaultCity
	}
	return render.FillData{
		Context: ctx,
		Blocks: map[string][]doctree.Block{
			CityToken:          textBlocks(city),
			SignatureDateToken: textBlocks(ctx.Resolve(derive.SignatureDate).String()),
		},
	}
}

func textBlocks(s string) []doctree.Block {
	if s == "" {
		return nil
	}
	return []doctree.Block{{Segments: []doctree.Segment{{Text: s}}}}
}
