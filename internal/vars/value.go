package vars

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the variant tag of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "absent"
	}
}

// Value is one fact of a Context: text, a decimal number, a calendar date,
// or absent. The zero Value is Absent.
type Value struct {
	kind Kind
	text string
	num  decimal.Decimal
	date time.Time
}

// Absent is the missing value.
var Absent = Value{}

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

func Int(n int64) Value { return Number(decimal.NewFromInt(n)) }

func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ValueOf converts a decoded JSON/YAML/cell value into a Value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Absent
	case Value:
		return x
	case string:
		return Text(x)
	case bool:
		if x {
			return Text("true")
		}
		return Text("false")
	case int:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Number(decimal.NewFromUint64(uint64(x)))
	case uint64:
		return Number(decimal.NewFromUint64(x))
	case float32:
		return Number(decimal.NewFromFloat32(x))
	case float64:
		return Number(decimal.NewFromFloat(x))
	case decimal.Decimal:
		return Number(x)
	case time.Time:
		return Date(x)
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(x))
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsEmpty reports the "no data" state: absent, blank text, numeric zero or
// a zero date.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindNumber:
		return v.num.IsZero()
	case KindDate:
		return v.date.IsZero()
	default:
		return true
	}
}

// Decimal coerces the value to a number. Text is parsed with ParseNumber.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		d, err := ParseNumber(v.text)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// Time coerces the value to a date. Text is parsed with ParseDate.
func (v Value) Time() (time.Time, bool) {
	switch v.kind {
	case KindDate:
		return v.date, true
	case KindText:
		return ParseDate(v.text)
	default:
		return time.Time{}, false
	}
}

// String renders the value the way it is substituted into contract text.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return FormatNumber(v.num)
	case KindDate:
		return FormatDate(v.date)
	default:
		return ""
	}
}

// Raw is the plain form authored literals are compared with: numbers
// without grouping and with a decimal point ("1500", "2.5"), dates as
// dd/mm/yyyy.
func (v Value) Raw() string {
	if v.kind == KindNumber {
		return v.num.String()
	}
	return v.String()
}

// Matches reports whether v equals the authored literal s. A number
// matches any literal holding the same number ("1500", "1 500", "1500,00").
// Everything else compares its trimmed Raw form.
func (v Value) Matches(s string) bool {
	s = strings.TrimSpace(s)
	if v.kind == KindNumber {
		if d, err := ParseNumber(s); err == nil {
			return v.num.Equal(d)
		}
	}
	return strings.TrimSpace(v.Raw()) == s
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindNumber:
		return v.num.Equal(o.num)
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// MarshalJSON emits the rendered string form, or null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindAbsent {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", v.String())), nil
}
