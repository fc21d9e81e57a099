package doctree

import "strings"

// Format is the set of inline styles applied to a segment.
type Format uint8

const (
	Bold Format = 1 << iota
	Italic
	Underline
)

// Has reports whether every flag in f2 is set in f.
func (f Format) Has(f2 Format) bool { return f&f2 == f2 }

func (f Format) String() string {
	var parts []string
	if f.Has(Bold) {
		parts = append(parts, "bold")
	}
	if f.Has(Italic) {
		parts = append(parts, "italic")
	}
	if f.Has(Underline) {
		parts = append(parts, "underline")
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, "+")
}

// Segment is a run of text sharing one format.
type Segment struct {
	Text    string `json:"text"`
	Format  Format `json:"format,omitempty"`
	Missing bool   `json:"missing,omitempty"` // unresolved placeholder kept verbatim
}

// Block is a paragraph (Level 0) or a heading (Level 2..4).
type Block struct {
	Level    int       `json:"level"`
	Segments []Segment `json:"segments"`
}

// IsHeading reports whether the block renders as a heading.
func (b Block) IsHeading() bool { return b.Level >= 2 }

// Text concatenates the block's segment texts.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Section is the assembled output for one section key.
type Section struct {
	Name    string  `json:"name"`    // output key (designation or article)
	Key     string  `json:"key"`     // article identifier
	Present bool    `json:"present"` // false when the section is not generated
	Blocks  []Block `json:"blocks,omitempty"`
}

// Document is the root handed to renderers.
type Document struct {
	Title      string     // Document title
	Letterhead Letterhead // Landlord header/footer, zero when none applies
	Sections   []Section  // In generation order
}

// Letterhead holds the header and footer printed on every page.
type Letterhead struct {
	Header string   `yaml:"header" json:"header"`
	Footer []string `yaml:"footer" json:"footer"`
}

// IsZero reports whether the letterhead carries no text.
func (l Letterhead) IsZero() bool { return l.Header == "" && len(l.Footer) == 0 }
