package rules

import (
	"strings"
	"unicode"
)

// ExpandLookupNames splits a lookup declaration into variable names.
// Names are separated by newlines or commas, and a comma list whose tail
// items are single words reuses the head's prefix:
//
//	"Dirigeant 1, 2, 3" -> "Dirigeant 1", "Dirigeant 2", "Dirigeant 3"
func ExpandLookupNames(s string) []string {
	var names []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, expandLine(line)...)
	}
	return names
}

func expandLine(line string) []string {
	parts := strings.Split(line, ",")
	head := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return []string{head}
	}
	prefix := ""
	if i := strings.LastIndexFunc(head, unicode.IsSpace); i > 0 {
		prefix = head[:i]
	}
	out := []string{}
	if head != "" {
		out = append(out, head)
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if prefix != "" && !strings.ContainsFunc(p, unicode.IsSpace) {
			out = append(out, prefix+" "+p)
			continue
		}
		out = append(out, p)
	}
	return out
}
