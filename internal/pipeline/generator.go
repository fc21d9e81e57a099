package pipeline

import (
	"log/slog"
	"time"

	"github.com/dgallion1/bailgen/internal/assemble"
	"github.com/dgallion1/bailgen/internal/derive"
	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/resolver"
	"github.com/dgallion1/bailgen/internal/rules"
	"github.com/dgallion1/bailgen/internal/vars"
)

// Generator assembles contract sections from a loaded rule table.
// It is safe for concurrent use.
type Generator struct {
	resolver resolver.Resolver
	calc     derive.Calculator
	log      *slog.Logger
}

// NewGenerator creates a Generator over table. A nil clock uses time.Now.
func NewGenerator(table *rules.Table, now func() time.Time, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		resolver: resolver.New(table),
		calc:     derive.Calculator{Now: now},
		log:      log,
	}
}

// Result is the outcome of one generation call.
type Result struct {
	Context     vars.Context
	Sections    []doctree.Section
	Diagnostics []diag.Diagnostic
	Missing     []string // distinct unresolved placeholders across sections
	FactsHash   string
}

// Present returns the generated sections only.
func (r Result) Present() []doctree.Section {
	var out []doctree.Section
	for _, s := range r.Sections {
		if s.Present {
			out = append(out, s)
		}
	}
	return out
}

// Section returns the section named name.
func (r Result) Section(name string) (doctree.Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return doctree.Section{}, false
}

// Generate extends facts with derived variables and assembles every key in
// order. Keys without a matching rule come back with Present unset. An
// empty keys list uses DefaultSections.
func (g *Generator) Generate(facts vars.Context, keys []rules.SectionKey) Result {
	if len(keys) == 0 {
		keys = DefaultSections
	}
	rec := &diag.Recorder{}
	ctx := g.calc.Extend(facts, rec)

	res := Result{
		Context:   ctx,
		Sections:  make([]doctree.Section, 0, len(keys)),
		FactsHash: FactsHash(facts),
	}
	var all []doctree.Block
	for _, key := range keys {
		sec := doctree.Section{Name: key.Name(), Key: key.Section}
		if raw, ok := g.resolver.Resolve(key, ctx, rec); ok {
			sec.Present = true
			sec.Blocks = assemble.Assemble(raw, ctx)
			all = append(all, sec.Blocks...)
		}
		res.Sections = append(res.Sections, sec)
	}
	res.Diagnostics = rec.Diagnostics()
	res.Missing = assemble.MissingPlaceholders(all)

	for _, d := range res.Diagnostics {
		g.log.Warn("generation diagnostic", "kind", d.Kind, "subject", d.Subject, "message", d.Message)
	}
	g.log.Info("generation complete",
		"sections", len(keys),
		"present", len(res.Present()),
		"diagnostics", len(res.Diagnostics),
		"missing_placeholders", len(res.Missing),
	)
	return res
}

// Extend returns facts with the derived variables added.
func (g *Generator) Extend(facts vars.Context) vars.Context {
	return g.calc.Extend(facts, nil)
}

// Document wraps a result for rendering. The letterhead is chosen by the
// landlord company variable.
func Document(res Result, letterheads map[string]doctree.Letterhead) doctree.Document {
	doc := doctree.Document{
		Title:    DocumentTitle,
		Sections: res.Present(),
	}
	if company := res.Context.Resolve(LandlordCompany).String(); company != "" {
		doc.Letterhead = letterheads[company]
	}
	return doc
}
