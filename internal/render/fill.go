package render

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/bailgen/internal/assemble"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/vars"
)

const blackColor = "000000"

var (
	fillPattern      = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}|\[([^\[\]\n]+)\]`)
	tokenOnlyPattern = regexp.MustCompile(`^\s*(?:\{\{[^{}]+\}\}\s*)+$`)
)

// FillData is what a Word template is filled with.
type FillData struct {
	Context vars.Context
	// Blocks replaces {{NAME}} tokens, keyed by NAME. A present key with no
	// blocks removes the token.
	Blocks map[string][]doctree.Block
}

// FillReport summarizes a template fill.
type FillReport struct {
	Missing []string `json:"missing_placeholders"`
	Removed int      `json:"removed_paragraphs"`
}

// Fill writes tmpl with its placeholders filled from data.
//
// A paragraph holding only {{NAME}} tokens is replaced by the paragraphs of
// the named blocks. Tokens inside running text and [Variable] placeholders
// are substituted in place, keeping the formatting of the run they start
// in. Unresolved placeholders stay verbatim in red. Paragraphs written in
// blue are optional: they are dropped unless every placeholder in them has
// a non-empty value, in which case they turn black.
func Fill(w io.Writer, tmpl io.ReaderAt, size int64, data FillData) (FillReport, error) {
	f, err := docx.Parse(tmpl, size)
	if err != nil {
		return FillReport{}, fmt.Errorf("parse template: %w", err)
	}

	fl := &filler{data: data, missing: map[string]struct{}{}}
	f.Document.Body.Items = fl.items(f.Document.Body.Items)

	if _, err := f.WriteTo(w); err != nil {
		return FillReport{}, fmt.Errorf("write docx: %w", err)
	}
	return fl.report(), nil
}

type filler struct {
	data    FillData
	missing map[string]struct{}
	removed int
}

func (fl *filler) report() FillReport {
	rep := FillReport{Missing: make([]string, 0, len(fl.missing)), Removed: fl.removed}
	for name := range fl.missing {
		rep.Missing = append(rep.Missing, name)
	}
	sort.Strings(rep.Missing)
	return rep
}

func (fl *filler) items(items []interface{}) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case *docx.Paragraph:
			for _, p := range fl.paragraph(x) {
				out = append(out, p)
			}
		case *docx.Table:
			fl.table(x)
			out = append(out, x)
		default:
			out = append(out, it)
		}
	}
	return out
}

func (fl *filler) table(t *docx.Table) {
	for _, row := range t.TableRows {
		for _, cell := range row.TableCells {
			var paras []*docx.Paragraph
			for _, p := range cell.Paragraphs {
				paras = append(paras, fl.paragraph(p)...)
			}
			// Word rejects a cell without a paragraph.
			if len(paras) == 0 {
				paras = []*docx.Paragraph{{}}
			}
			cell.Paragraphs = paras
			for _, nested := range cell.Tables {
				fl.table(nested)
			}
		}
	}
}

// piece is one child of a paragraph: a run's text, a run's non-text
// element (tab, break, drawing), or a paragraph-level element when run is
// nil.
type piece struct {
	run  *docx.Run
	text string
	elem interface{}
}

func piecesOf(p *docx.Paragraph) ([]piece, string) {
	var (
		out []piece
		sb  strings.Builder
	)
	for _, c := range p.Children {
		r, ok := c.(*docx.Run)
		if !ok || r.InstrText != "" {
			out = append(out, piece{elem: c})
			continue
		}
		for _, rc := range r.Children {
			if t, ok := rc.(*docx.Text); ok {
				out = append(out, piece{run: r, text: t.Text})
				sb.WriteString(t.Text)
			} else {
				out = append(out, piece{run: r, elem: rc})
			}
		}
	}
	return out, sb.String()
}

type replacement struct {
	name    string
	value   string
	missing bool
}

func (fl *filler) paragraph(p *docx.Paragraph) []*docx.Paragraph {
	pieces, text := piecesOf(p)
	if tokenOnlyPattern.MatchString(text) {
		return fl.expand(p, text)
	}
	matches := fillPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []*docx.Paragraph{p}
	}

	reps := make([]replacement, len(matches))
	complete := true
	for i, m := range matches {
		reps[i] = fl.resolve(text, m)
		if reps[i].missing || strings.TrimSpace(reps[i].value) == "" {
			complete = false
		}
	}

	optional := isOptional(pieces)
	if optional && !complete {
		fl.removed++
		return nil
	}
	for _, r := range reps {
		if r.missing {
			fl.missing[r.name] = struct{}{}
		}
	}

	color := ""
	if optional {
		color = blackColor
	}
	p.Children = rebuild(pieces, text, matches, reps, color)
	return []*docx.Paragraph{p}
}

func (fl *filler) resolve(text string, m []int) replacement {
	literal := text[m[0]:m[1]]
	if m[2] >= 0 {
		blocks, ok := fl.data.Blocks[text[m[2]:m[3]]]
		if !ok {
			return replacement{name: literal, value: literal, missing: true}
		}
		return replacement{name: literal, value: blocksText(blocks)}
	}
	name := strings.TrimSpace(text[m[4]:m[5]])
	if v, ok := assemble.Placeholder(name, fl.data.Context); ok {
		return replacement{name: name, value: v}
	}
	return replacement{name: name, value: literal, missing: true}
}

// expand replaces a paragraph made only of {{NAME}} tokens with the
// paragraphs of the named blocks, in the paragraph's own style.
func (fl *filler) expand(p *docx.Paragraph, text string) []*docx.Paragraph {
	var out []*docx.Paragraph
	for _, m := range fillPattern.FindAllStringSubmatch(text, -1) {
		blocks, ok := fl.data.Blocks[m[1]]
		if !ok {
			fl.missing[m[0]] = struct{}{}
			continue
		}
		for _, b := range blocks {
			out = append(out, blockParagraphs(b, p.Properties)...)
		}
	}
	if len(out) == 0 {
		fl.removed++
	}
	return out
}

// rebuild re-creates a paragraph's children with every match replaced.
// Text between matches keeps its run; a replacement takes the formatting
// of the run its placeholder starts in.
func rebuild(pieces []piece, text string, matches [][]int, reps []replacement, color string) []interface{} {
	var (
		out    []interface{}
		offset int
		mi     int
	)
	for _, pc := range pieces {
		if pc.run == nil {
			out = append(out, pc.elem)
			continue
		}
		if pc.elem != nil {
			out = append(out, &docx.Run{
				Space:         pc.run.Space,
				RunProperties: cloneProps(pc.run.RunProperties, ""),
				Children:      []interface{}{pc.elem},
			})
			continue
		}

		start, end := offset, offset+len(pc.text)
		offset = end
		for cur := start; cur < end; {
			for mi < len(matches) && matches[mi][1] <= cur {
				mi++
			}
			if mi < len(matches) && matches[mi][0] <= cur {
				m, r := matches[mi], reps[mi]
				if m[0] == cur && r.value != "" {
					rc := color
					if r.missing {
						rc = missingColor
					}
					out = append(out, textRun(pc.run, r.value, rc))
				}
				cur = min(end, m[1])
				continue
			}
			next := end
			if mi < len(matches) && matches[mi][0] < next {
				next = matches[mi][0]
			}
			out = append(out, textRun(pc.run, text[cur:next], color))
			cur = next
		}
	}
	return out
}

func textRun(src *docx.Run, s, color string) *docx.Run {
	r := &docx.Run{Space: src.Space, RunProperties: cloneProps(src.RunProperties, color)}
	appendText(r, s)
	return r
}

func appendText(r *docx.Run, s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			r.Children = append(r.Children, &docx.BarterRabbet{})
		}
		if line != "" {
			r.Children = append(r.Children, &docx.Text{Text: line, XMLSpace: "preserve"})
		}
	}
}

func cloneProps(p *docx.RunProperties, color string) *docx.RunProperties {
	if p == nil && color == "" {
		return nil
	}
	var cp docx.RunProperties
	if p != nil {
		cp = *p
	}
	if color != "" {
		cp.Color = &docx.Color{Val: color}
	}
	return &cp
}

// isOptional reports whether any text run of the paragraph is blue.
func isOptional(pieces []piece) bool {
	for _, pc := range pieces {
		if pc.run == nil || pc.text == "" || pc.run.RunProperties == nil || pc.run.RunProperties.Color == nil {
			continue
		}
		if isBlue(pc.run.RunProperties.Color.Val) {
			return true
		}
	}
	return false
}

func isBlue(hex string) bool {
	if len(hex) != 6 {
		return false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return false
	}
	r, g, b := v>>16, v>>8&0xff, v&0xff
	return b > r && b > g
}

func blocksText(blocks []doctree.Block) string {
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if t := strings.TrimSpace(b.Text()); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "\n")
}
