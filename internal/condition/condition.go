// Package condition evaluates the gating expressions authored in the rule
// table ("Si [Durée Bail] > 9", "Si [Loyer année 1] non vide", ...).
//
// Expressions are not compiled; each call matches the text against an
// ordered list of patterns and the first pattern that matches decides.
// Evaluation is total: anything unparsable is false and is reported to the
// caller's diag.Recorder.
package condition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/vars"
)

// Pattern is one recognized sub-grammar.
type Pattern struct {
	Name string
	// Eval reports whether the pattern applies and, if so, its result.
	Eval func(cond string, ctx vars.Context, rec *diag.Recorder) (result, matched bool)
}

// Patterns is the ordered pattern list. Blank conditions are handled
// before the list is consulted.
var Patterns = []Pattern{
	{Name: "multiple_conditions", Eval: evalMultiple},
	{Name: "comparison", Eval: evalComparison},
	{Name: "not_empty", Eval: evalNotEmpty},
}

// SuspensiveConditionCount is the size of the "Condition suspensive N" family.
const SuspensiveConditionCount = 4

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "«", `"`, "»", `"`,
	"‘", "'", "’", "'", "‚", "'",
	"\u00a0", " ", "\u202f", " ",
)

// NormalizeQuotes replaces typographic quotes with their ASCII forms and
// no-break spaces with plain spaces.
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// Evaluate reports whether cond holds for ctx. A blank condition is true.
func Evaluate(cond string, ctx vars.Context, rec *diag.Recorder) bool {
	cond = NormalizeQuotes(strings.TrimSpace(cond))
	if cond == "" {
		return true
	}
	for _, p := range Patterns {
		if result, ok := p.Eval(cond, ctx, rec); ok {
			return result
		}
	}
	rec.Warn(diag.KindUnrecognizedCondition, cond, "condition not recognized, evaluated as false")
	return false
}

var multiplePattern = regexp.MustCompile(`(?i)(plusieurs\s+conditions\s+suspensives|multiple\s+conditions)`)

func evalMultiple(cond string, ctx vars.Context, _ *diag.Recorder) (bool, bool) {
	if !multiplePattern.MatchString(cond) {
		return false, false
	}
	return CountSuspensiveConditions(ctx) > 1, true
}

// CountSuspensiveConditions counts the non-empty "Condition suspensive N".
func CountSuspensiveConditions(ctx vars.Context) int {
	n := 0
	for i := 1; i <= SuspensiveConditionCount; i++ {
		if !ctx.Resolve(suspensiveName(i)).IsEmpty() {
			n++
		}
	}
	return n
}

func suspensiveName(i int) string {
	return "Condition suspensive " + strconv.Itoa(i)
}

// Longer operators come first so ">=" is not read as ">" followed by "=".
var comparisonPattern = regexp.MustCompile(
	`(?i)(?:^|\s)(?:si|if)\s+("[^"]+"|'[^']+'|\[[^\]]+\]|[^"'\[\]=!<>]+?)\s*` +
		`(!=|>=|<=|=|>|<|sup[ée]rieure?\s+[àa]|greater\s+than)\s*` +
		`("[^"]*"|'[^']*'|[^"'\s][^"']*)`,
)

func evalComparison(cond string, ctx vars.Context, rec *diag.Recorder) (bool, bool) {
	m := comparisonPattern.FindStringSubmatch(cond)
	if m == nil {
		return false, false
	}
	name := variableName(m[1])
	op := strings.ToLower(strings.Join(strings.Fields(m[2]), " "))
	expected := unquote(m[3])
	actual := ctx.Resolve(name)

	switch op {
	case "=":
		return actual.Matches(expected), true
	case "!=":
		return !actual.Matches(expected), true
	}

	left, lok := actual.Decimal()
	right, rerr := vars.ParseNumber(expected)
	if !lok || rerr != nil {
		rec.Warn(diag.KindNumericCoercion, cond, "cannot compare %q with %q numerically", actual.String(), expected)
		return false, true
	}
	switch op {
	case ">=":
		return left.GreaterThanOrEqual(right), true
	case "<=":
		return left.LessThanOrEqual(right), true
	case "<":
		return left.LessThan(right), true
	default: // ">", "supérieur à", "greater than"
		return left.GreaterThan(right), true
	}
}

var notEmptyPattern = regexp.MustCompile(
	`(?i)(?:^|\s)(?:si|if)\s+("[^"]+"|'[^']+'|\[[^\]]+\]|[^"'\[\]]+?)\s+(?:non\s+(?:vide|nul)|not\s+(?:empty|null))`,
)

func evalNotEmpty(cond string, ctx vars.Context, _ *diag.Recorder) (bool, bool) {
	m := notEmptyPattern.FindStringSubmatch(cond)
	if m == nil {
		return false, false
	}
	return !ctx.Resolve(variableName(m[1])).IsEmpty(), true
}

func variableName(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, `"'`)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	return strings.TrimSpace(raw)
}

func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	}
	return strings.TrimSpace(raw)
}
