// Package rules holds the authored rule table and groups its rows by section.
package rules

import "strings"

// Row is one authored text variant. A Row with an empty Section continues
// the nearest preceding sectioned row.
type Row struct {
	Section     string `yaml:"section" json:"section"`
	Designation string `yaml:"designation,omitempty" json:"designation,omitempty"`
	LookupNames string `yaml:"lookup_names,omitempty" json:"lookup_names,omitempty"`
	LookupValue string `yaml:"lookup_value,omitempty" json:"lookup_value,omitempty"`
	Condition1  string `yaml:"condition1,omitempty" json:"condition1,omitempty"`
	Text1       string `yaml:"text1,omitempty" json:"text1,omitempty"`
	Condition2  string `yaml:"condition2,omitempty" json:"condition2,omitempty"`
	Text2       string `yaml:"text2,omitempty" json:"text2,omitempty"`
}

// IsContinuation reports whether the row has no section of its own.
func (r Row) IsContinuation() bool { return strings.TrimSpace(r.Section) == "" }

// HasLookup reports whether the row declares a lookup gate. Both the
// variable names and the expected value must be present.
func (r Row) HasLookup() bool {
	return strings.TrimSpace(r.LookupNames) != "" && strings.TrimSpace(r.LookupValue) != ""
}

// SectionKey identifies one section of the contract.
type SectionKey struct {
	Section     string `json:"section"`
	Designation string `json:"designation,omitempty"`
}

// Key is shorthand for a SectionKey without designation.
func Key(section string) SectionKey { return SectionKey{Section: section} }

// Name is the output name of the section: the designation when set.
func (k SectionKey) Name() string {
	if k.Designation != "" {
		return k.Designation
	}
	return k.Section
}

func (k SectionKey) String() string {
	if k.Designation == "" {
		return k.Section
	}
	return k.Section + " / " + k.Designation
}

// Matches reports whether a sectioned row starts a candidate run for k.
func (k SectionKey) Matches(r Row) bool {
	if strings.TrimSpace(r.Section) != strings.TrimSpace(k.Section) {
		return false
	}
	return k.Designation == "" || strings.TrimSpace(r.Designation) == strings.TrimSpace(k.Designation)
}

// run is a sectioned head row followed by its continuations.
type run struct {
	head Row
	rows []Row
}

// Table is a loaded rule table. It is read-only after NewTable and safe
// for concurrent use.
type Table struct {
	runs []run
	size int
}

// NewTable folds rows into runs. Continuation rows before the first
// sectioned row have no owner and are dropped.
func NewTable(rows []Row) *Table {
	t := &Table{}
	for _, r := range rows {
		if r.IsContinuation() {
			if len(t.runs) == 0 {
				continue
			}
			last := &t.runs[len(t.runs)-1]
			last.rows = append(last.rows, r)
			t.size++
			continue
		}
		t.runs = append(t.runs, run{head: r, rows: []Row{r}})
		t.size++
	}
	return t
}

// Len returns the number of rows kept in the table.
func (t *Table) Len() int { return t.size }

// Sections lists the distinct section keys in authoring order.
func (t *Table) Sections() []SectionKey {
	seen := make(map[SectionKey]bool)
	var keys []SectionKey
	for _, r := range t.runs {
		k := SectionKey{Section: strings.TrimSpace(r.head.Section), Designation: strings.TrimSpace(r.head.Designation)}
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// CandidatesFor returns the rows authored for key, in order. Rows for one
// key are contiguous: the first non-matching sectioned row after a match
// ends the scan. An empty result means the section is not generated.
func (t *Table) CandidatesFor(key SectionKey) []Row {
	var out []Row
	active := false
	for _, r := range t.runs {
		if key.Matches(r.head) {
			active = true
			out = append(out, r.rows...)
			continue
		}
		if active {
			break
		}
	}
	return out
}
