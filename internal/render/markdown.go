package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/bailgen/internal/doctree"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"`", "\\`",
)

// Markdown renders doc as Markdown for previews. Missing placeholders are
// wrapped in <mark>.
func Markdown(doc doctree.Document) string {
	var sb strings.Builder
	if doc.Letterhead.Header != "" {
		fmt.Fprintf(&sb, "**%s**\n\n", markdownEscaper.Replace(doc.Letterhead.Header))
	}
	if doc.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", markdownEscaper.Replace(doc.Title))
	}
	for _, sec := range doc.Sections {
		for _, b := range sec.Blocks {
			sb.WriteString(markdownBlock(b))
			sb.WriteString("\n\n")
		}
	}
	if len(doc.Letterhead.Footer) > 0 {
		sb.WriteString("---\n\n")
		for _, line := range doc.Letterhead.Footer {
			fmt.Fprintf(&sb, "*%s*\n\n", markdownEscaper.Replace(line))
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func markdownBlock(b doctree.Block) string {
	var parts []string
	for _, line := range splitLines(b.Segments) {
		var sb strings.Builder
		for _, s := range line {
			sb.WriteString(markdownSegment(s))
		}
		parts = append(parts, sb.String())
	}
	if b.IsHeading() {
		return strings.Repeat("#", b.Level) + " " + strings.Join(parts, " ")
	}
	for i, p := range parts {
		parts[i] = escapeLineStart(p)
	}
	return strings.Join(parts, "<br>\n")
}

var orderedListStart = regexp.MustCompile(`^(\d+)([.)])(\s|$)`)

// escapeLineStart keeps a paragraph line from being read as a list item,
// a rule or a setext underline.
func escapeLineStart(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '-', '+', '=':
		return `\` + line
	}
	return orderedListStart.ReplaceAllString(line, `$1\$2$3`)
}

// markdownSegment wraps a segment in emphasis markers. Surrounding spaces
// stay outside the markers so the emphasis still parses.
func markdownSegment(s doctree.Segment) string {
	core := strings.TrimSpace(s.Text)
	if core == "" {
		return s.Text
	}
	lead := s.Text[:strings.Index(s.Text, core)]
	trail := s.Text[len(lead)+len(core):]

	out := markdownEscaper.Replace(core)
	if s.Missing {
		out = "<mark>" + out + "</mark>"
	}
	if s.Format.Has(doctree.Underline) {
		out = "<u>" + out + "</u>"
	}
	if s.Format.Has(doctree.Italic) {
		out = "*" + out + "*"
	}
	if s.Format.Has(doctree.Bold) {
		out = "**" + out + "**"
	}
	return lead + out + trail
}

var previewMarkdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// HTML renders doc as an HTML fragment by converting its Markdown form.
func HTML(doc doctree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := previewMarkdown.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// Page wraps an HTML fragment in a standalone page titled title.
func Page(title string, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<style>body{font-family:serif;max-width:48em;margin:2em auto}mark{background:#fdd;color:#c00}</style>\n</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}
