package diag

import "fmt"

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Kind identifies the recoverable condition that produced a diagnostic.
type Kind string

const (
	KindUnrecognizedCondition Kind = "unrecognized_condition"
	KindNumericCoercion       Kind = "numeric_coercion"
	KindDerivationSkipped     Kind = "derivation_skipped"
	KindSectionNotFound       Kind = "section_not_found"
	KindNoMatchingRule        Kind = "no_matching_rule"
)

// Diagnostic is one recoverable issue reported during a generation call.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s [%s]: %s", d.Severity, d.Kind, d.Subject, d.Message)
}

// Recorder accumulates diagnostics for a single call. A nil *Recorder
// discards everything, so callers that do not care can pass nil.
// A Recorder is not safe for concurrent use; use one per call.
type Recorder struct {
	items []Diagnostic
}

// Warn records a warning.
func (r *Recorder) Warn(kind Kind, subject, format string, args ...any) {
	r.add(SeverityWarning, kind, subject, fmt.Sprintf(format, args...))
}

// Info records an informational diagnostic.
func (r *Recorder) Info(kind Kind, subject, format string, args ...any) {
	r.add(SeverityInfo, kind, subject, fmt.Sprintf(format, args...))
}

func (r *Recorder) add(sev Severity, kind Kind, subject, msg string) {
	if r == nil {
		return
	}
	r.items = append(r.items, Diagnostic{
		Severity: sev,
		Kind:     kind,
		Subject:  subject,
		Message:  msg,
	})
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	if r == nil || len(r.items) == 0 {
		return []Diagnostic{}
	}
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// Count returns how many recorded diagnostics have the given kind.
func (r *Recorder) Count(kind Kind) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
