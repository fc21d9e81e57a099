// Package assemble turns resolved rule text into formatted blocks.
//
// Raw text is split into paragraphs on blank lines, and lines starting with
// "##" to "####" open heading blocks. Inline <b>, <i> and <u> tags (and
// their long forms) set segment formats, and [Name] placeholders are
// replaced from the variable context. A placeholder that cannot be resolved
// stays in the text as a missing segment.
package assemble

import (
	"regexp"
	"strings"

	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/numwords"
	"github.com/dgallion1/bailgen/internal/vars"
)

const (
	headingMarker   = '#'
	minHeadingLevel = 2
	maxHeadingLevel = 4
	wordsSuffix     = " en lettres"
)

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// Assemble converts raw rule text into blocks using ctx for placeholders.
func Assemble(raw string, ctx vars.Context) []doctree.Block {
	var blocks []doctree.Block
	for _, unit := range Units(raw) {
		level, body := headingLevel(unit)
		segs := parseInline(body, ctx)
		if len(segs) == 0 {
			continue
		}
		blocks = append(blocks, doctree.Block{Level: level, Segments: segs})
	}
	return blocks
}

// Units splits raw text into block-sized units: blank lines separate
// paragraphs, and a heading line always starts a new unit.
func Units(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var units []string
	for _, group := range blankLine.Split(raw, -1) {
		var cur []string
		flush := func() {
			if u := strings.TrimSpace(strings.Join(cur, "\n")); u != "" {
				units = append(units, u)
			}
			cur = nil
		}
		for _, line := range strings.Split(group, "\n") {
			if markerCount(strings.TrimLeft(line, " \t")) >= minHeadingLevel {
				flush()
			}
			cur = append(cur, line)
		}
		flush()
	}
	return units
}

func markerCount(s string) int {
	n := 0
	for n < len(s) && s[n] == headingMarker {
		n++
	}
	return n
}

// headingLevel strips the leading markers and caps the level at four.
// Fewer than two markers leave the unit as a paragraph.
func headingLevel(unit string) (int, string) {
	n := markerCount(unit)
	if n < minHeadingLevel {
		return 0, unit
	}
	text := strings.TrimLeft(unit[n:], " \t")
	return min(n, maxHeadingLevel), text
}

var placeholderPattern = regexp.MustCompile(`\[([^\[\]\n]+)\]`)

// substitute splits text into segments, replacing placeholders from ctx.
func substitute(text string, f doctree.Format, ctx vars.Context) []doctree.Segment {
	var out []doctree.Segment
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, doctree.Segment{Text: text[last:m[0]], Format: f})
		}
		literal := text[m[0]:m[1]]
		if v, ok := Placeholder(text[m[2]:m[3]], ctx); ok {
			out = append(out, doctree.Segment{Text: v, Format: f})
		} else {
			out = append(out, doctree.Segment{Text: literal, Format: f, Missing: true})
		}
		last = m[1]
	}
	if last < len(text) {
		out = append(out, doctree.Segment{Text: text[last:], Format: f})
	}
	return out
}

// Placeholder resolves the inside of a [Name] placeholder. A name ending in
// " en lettres" is spelled out in words from its numeric value.
func Placeholder(name string, ctx vars.Context) (string, bool) {
	name = strings.TrimSpace(name)
	if base, ok := cutSuffixFold(name, wordsSuffix); ok {
		d, ok := ctx.Resolve(base).Decimal()
		if !ok {
			return "", false
		}
		return numwords.SpellDecimal(d), true
	}
	v := ctx.Resolve(name)
	if v.IsAbsent() {
		return "", false
	}
	return v.String(), true
}

func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) <= len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return strings.TrimSpace(s[:len(s)-len(suffix)]), true
}

// MissingPlaceholders lists the distinct unresolved placeholders in blocks,
// in order of first appearance.
func MissingPlaceholders(blocks []doctree.Block) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, b := range blocks {
		for _, s := range b.Segments {
			if !s.Missing || seen[s.Text] {
				continue
			}
			seen[s.Text] = true
			out = append(out, s.Text)
		}
	}
	return out
}
