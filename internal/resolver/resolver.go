// Package resolver picks the applicable text variant of a section.
package resolver

import (
	"strings"

	"github.com/dgallion1/bailgen/internal/condition"
	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/rules"
	"github.com/dgallion1/bailgen/internal/vars"
)

// Resolver selects text from a rule table. The zero value has no rules.
type Resolver struct {
	Table *rules.Table
}

// New returns a Resolver over table.
func New(table *rules.Table) Resolver { return Resolver{Table: table} }

// Resolve returns the raw text of the first candidate row whose lookup
// gate passes and whose condition holds with non-blank text. Option 1 of a
// row is tried before its option 2, and rows are tried in authoring order.
func (r Resolver) Resolve(key rules.SectionKey, ctx vars.Context, rec *diag.Recorder) (string, bool) {
	var candidates []rules.Row
	if r.Table != nil {
		candidates = r.Table.CandidatesFor(key)
	}
	if len(candidates) == 0 {
		rec.Warn(diag.KindSectionNotFound, key.String(), "no rule rows for section")
		return "", false
	}

	for _, row := range candidates {
		if row.HasLookup() && !LookupPasses(row, ctx) {
			continue
		}
		if text, ok := option(row.Condition1, row.Text1, ctx, rec); ok {
			return text, true
		}
		if text, ok := option(row.Condition2, row.Text2, ctx, rec); ok {
			return text, true
		}
	}

	rec.Warn(diag.KindNoMatchingRule, key.String(), "no condition satisfied among %d candidate rows", len(candidates))
	return "", false
}

func option(cond, text string, ctx vars.Context, rec *diag.Recorder) (string, bool) {
	if !condition.Evaluate(cond, ctx, rec) {
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// LookupPasses reports whether any of the row's lookup variables holds the
// expected value. Numbers compare numerically, anything else as trimmed
// strings.
func LookupPasses(row rules.Row, ctx vars.Context) bool {
	want := strings.TrimSpace(row.LookupValue)
	for _, name := range rules.ExpandLookupNames(row.LookupNames) {
		v := ctx.Resolve(name)
		if v.IsAbsent() {
			continue
		}
		if v.Matches(want) {
			return true
		}
	}
	return false
}
