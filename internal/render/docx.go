package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/bailgen/internal/doctree"
)

const (
	missingColor   = "FF0000"
	headerSize     = 22 // points
	footerSize     = 9
	titleSize      = 16
	underlineStyle = "single"
)

// halfPoints converts a point size to the half-point unit DOCX uses.
func halfPoints(pt int) string { return strconv.Itoa(pt * 2) }

// DOCX writes doc as a Word document. Each newline inside a block starts a
// new paragraph, and unresolved placeholders are printed in red.
func DOCX(w io.Writer, doc doctree.Document) error {
	f := docx.New().WithDefaultTheme()

	if doc.Letterhead.Header != "" {
		f.AddParagraph().Justification("center").
			AddText(doc.Letterhead.Header).Bold().Size(halfPoints(headerSize))
	}
	if doc.Title != "" {
		f.AddParagraph().Justification("center").
			AddText(doc.Title).Bold().Size(halfPoints(titleSize))
	}

	for _, sec := range doc.Sections {
		for _, b := range sec.Blocks {
			writeBlock(f, b)
		}
	}

	for _, line := range doc.Letterhead.Footer {
		if strings.TrimSpace(line) == "" {
			continue
		}
		f.AddParagraph().Justification("center").
			AddText(line).Size(halfPoints(footerSize))
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func writeBlock(f *docx.Docx, b doctree.Block) {
	for _, p := range blockParagraphs(b, nil) {
		f.Document.Body.Items = append(f.Document.Body.Items, p)
	}
}

// blockParagraphs converts a block into one paragraph per line. base is
// copied into each paragraph; headings override its style.
func blockParagraphs(b doctree.Block, base *docx.ParagraphProperties) []*docx.Paragraph {
	var out []*docx.Paragraph
	for _, line := range splitLines(b.Segments) {
		p := &docx.Paragraph{Properties: paragraphProps(base, b)}
		for _, s := range line {
			p.Children = append(p.Children, segmentRun(s))
		}
		out = append(out, p)
	}
	return out
}

func paragraphProps(base *docx.ParagraphProperties, b doctree.Block) *docx.ParagraphProperties {
	if base == nil && !b.IsHeading() {
		return nil
	}
	var pp docx.ParagraphProperties
	if base != nil {
		pp = *base
	}
	if b.IsHeading() {
		pp.Style = &docx.Style{Val: "Heading" + strconv.Itoa(b.Level)}
	}
	return &pp
}

func segmentRun(s doctree.Segment) *docx.Run {
	props := &docx.RunProperties{}
	if s.Format.Has(doctree.Bold) {
		props.Bold = &docx.Bold{}
	}
	if s.Format.Has(doctree.Italic) {
		props.Italic = &docx.Italic{}
	}
	if s.Format.Has(doctree.Underline) {
		props.Underline = &docx.Underline{Val: underlineStyle}
	}
	if s.Missing {
		props.Color = &docx.Color{Val: missingColor}
	}
	r := &docx.Run{RunProperties: props}
	appendText(r, s.Text)
	return r
}

// splitLines breaks segments at newlines, keeping each piece's format.
func splitLines(segs []doctree.Segment) [][]doctree.Segment {
	lines := [][]doctree.Segment{nil}
	for _, s := range segs {
		parts := strings.Split(s.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			cur := &lines[len(lines)-1]
			*cur = append(*cur, doctree.Segment{Text: part, Format: s.Format, Missing: s.Missing})
		}
	}
	return lines
}
