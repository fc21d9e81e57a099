package vars

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned by ParseNumber for text that is not a number.
var ErrNotNumeric = errors.New("not a number")

// DateLayouts are tried in order when parsing dates; the first that parses wins.
var DateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2.1.2006",
}

const outputDateLayout = "02/01/2006"

var spaceReplacer = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// ParseNumber parses French-formatted numbers: thousands separated by
// (no-break) spaces and a decimal comma. "12 500,50" and "12500.5" both parse.
func ParseNumber(s string) (decimal.Decimal, error) {
	clean := spaceReplacer.Replace(strings.TrimSpace(s))
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return decimal.Zero, ErrNotNumeric
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}

// FormatNumber renders a number with space-grouped thousands, a decimal
// comma and two decimals, dropping a ",00" fraction.
func FormatNumber(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg && !(intPart == "0" && frac == "00") {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if frac != "00" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// ParseDate tries DateLayouts in order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(outputDateLayout)
}
