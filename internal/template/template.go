// Package template inventories the placeholders of a DOCX contract template.
package template

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/bailgen/internal/vars"
)

const wordsSuffix = " en lettres"

var (
	variablePattern = regexp.MustCompile(`\[([^\[\]\n]+)\]`)
	articlePattern  = regexp.MustCompile(`\{\{([^{}\n]+)\}\}`)
)

// articlePrefixes mark {{...}} placeholders filled with generated sections.
var articlePrefixes = []string{"ARTICLE", "COMPARUTION"}

// Inventory lists the placeholders of a template by category, sorted.
type Inventory struct {
	Articles  []string `json:"articles"`
	InWords   []string `json:"in_words"`
	Variables []string `json:"variables"`
	Other     []string `json:"other"` // {{...}} placeholders that are not sections
}

// Len returns the number of distinct placeholders.
func (inv Inventory) Len() int {
	return len(inv.Articles) + len(inv.InWords) + len(inv.Variables) + len(inv.Other)
}

// Missing lists the variables the template needs that ctx cannot resolve.
// "X en lettres" placeholders need X.
func (inv Inventory) Missing(ctx vars.Context) []string {
	seen := make(map[string]bool)
	out := []string{}
	check := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if ctx.Resolve(name).IsAbsent() {
			out = append(out, name)
		}
	}
	for _, v := range inv.Variables {
		check(v)
	}
	for _, v := range inv.InWords {
		check(strings.TrimSpace(v[:len(v)-len(wordsSuffix)]))
	}
	sort.Strings(out)
	return out
}

// Extract reads a DOCX template and collects its placeholders.
func Extract(r io.Reader) (Inventory, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Inventory{}, fmt.Errorf("read template: %w", err)
	}
	paras, err := ReadDOCX(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Inventory{}, err
	}
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text
	}
	return Categorize(texts...), nil
}

// Categorize collects the placeholders found in texts.
func Categorize(texts ...string) Inventory {
	sets := map[*[]string]map[string]bool{}
	var inv Inventory
	add := func(dst *[]string, name string) {
		if sets[dst] == nil {
			sets[dst] = make(map[string]bool)
		}
		if sets[dst][name] {
			return
		}
		sets[dst][name] = true
		*dst = append(*dst, name)
	}

	for _, text := range texts {
		for _, m := range articlePattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if isArticle(name) {
				add(&inv.Articles, name)
			} else {
				add(&inv.Other, name)
			}
		}
		for _, m := range variablePattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if strings.HasSuffix(strings.ToLower(name), wordsSuffix) {
				add(&inv.InWords, name)
			} else {
				add(&inv.Variables, name)
			}
		}
	}
	for _, s := range []*[]string{&inv.Articles, &inv.InWords, &inv.Variables, &inv.Other} {
		if *s == nil {
			*s = []string{}
		}
		sort.Strings(*s)
	}
	return inv
}

func isArticle(name string) bool {
	upper := strings.ToUpper(name)
	for _, p := range articlePrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}
