package assemble

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/vars"
)

var tagFormats = map[string]doctree.Format{
	"b":         doctree.Bold,
	"bold":      doctree.Bold,
	"strong":    doctree.Bold,
	"i":         doctree.Italic,
	"italic":    doctree.Italic,
	"em":        doctree.Italic,
	"u":         doctree.Underline,
	"underline": doctree.Underline,
}

// formatStack tracks open formatting tags. The active format is the union
// of every open flag.
type formatStack []doctree.Format

func (s formatStack) format() doctree.Format {
	var f doctree.Format
	for _, x := range s {
		f |= x
	}
	return f
}

// pop removes the most recently opened occurrence of f. A close tag with
// no matching open tag is ignored.
func (s formatStack) pop(f doctree.Format) formatStack {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == f {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// parseInline tokenizes text and returns its formatted segments. Unknown
// tags are kept as literal text, comments are dropped and <br> becomes a
// newline.
func parseInline(text string, ctx vars.Context) []doctree.Segment {
	var (
		segs  segments
		stack formatStack
	)
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		tt := z.Next()
		raw := string(z.Raw())
		switch tt {
		case html.ErrorToken:
			// A tag cut off by the end of input is still text.
			if raw != "" {
				segs.add(substitute(raw, stack.format(), ctx)...)
			}
			return segs.merged()
		case html.TextToken:
			segs.add(substitute(raw, stack.format(), ctx)...)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "br" {
				segs.add(doctree.Segment{Text: "\n", Format: stack.format()})
				continue
			}
			f, ok := tagFormats[tag]
			if !ok {
				segs.add(doctree.Segment{Text: raw, Format: stack.format()})
				continue
			}
			if tt == html.StartTagToken {
				stack = append(stack, f)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "br" {
				continue
			}
			f, ok := tagFormats[tag]
			if !ok {
				segs.add(doctree.Segment{Text: raw, Format: stack.format()})
				continue
			}
			stack = stack.pop(f)
		case html.CommentToken:
		default:
			segs.add(doctree.Segment{Text: raw, Format: stack.format()})
		}
	}
}

type segments []doctree.Segment

func (s *segments) add(segs ...doctree.Segment) {
	for _, seg := range segs {
		if seg.Text != "" {
			*s = append(*s, seg)
		}
	}
}

// merged joins neighbouring resolved segments that share a format and trims
// whitespace at the block edges.
func (s segments) merged() []doctree.Segment {
	var out []doctree.Segment
	for _, seg := range s {
		if n := len(out); n > 0 && !seg.Missing && !out[n-1].Missing && out[n-1].Format == seg.Format {
			out[n-1].Text += seg.Text
			continue
		}
		out = append(out, seg)
	}
	for len(out) > 0 {
		out[0].Text = strings.TrimLeft(out[0].Text, " \t\n")
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	for len(out) > 0 {
		n := len(out) - 1
		out[n].Text = strings.TrimRight(out[n].Text, " \t\n")
		if out[n].Text != "" {
			break
		}
		out = out[:n]
	}
	return out
}
