package template

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// Paragraph is the plain text of one DOCX paragraph with its heading level
// (0 for body text).
type Paragraph struct {
	Style string
	Level int
	Text  string
}

// ReadDOCX returns the paragraphs of a DOCX document in order.
func ReadDOCX(r io.ReaderAt, size int64) ([]Paragraph, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var out []Paragraph
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		p := Paragraph{Text: paragraphText(para)}
		if para.Properties != nil && para.Properties.Style != nil {
			p.Style = para.Properties.Style.Val
			p.Level = headingLevel(p.Style)
		}
		out = append(out, p)
	}
	return out, nil
}

// headingLevel maps "Heading2" or "heading 2" styles to 2.
func headingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") || len(s) != len("heading")+1 {
		return 0
	}
	d := s[len(s)-1]
	if d < '1' || d > '9' {
		return 0
	}
	return int(d - '0')
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return buf.String()
}
