package pipeline

import (
	"fmt"
	"strings"

	"github.com/dgallion1/bailgen/internal/rules"
	"github.com/dgallion1/bailgen/internal/vars"
)

const (
	DocumentTitle   = "BAIL COMMERCIAL"
	LandlordCompany = "Société Bailleur"
	TenantName      = "Nom Preneur"
	ClientName      = "Client"
	LOIDate         = "Date LOI"
)

// DefaultSections is the order sections appear in a lease.
var DefaultSections = []rules.SectionKey{
	{Section: "Comparution", Designation: "Comparution Bailleur"},
	{Section: "Comparution", Designation: "Comparution Preneur"},
	rules.Key("Article préliminaire"),
	rules.Key("Article 1"),
	rules.Key("Article 2"),
	rules.Key("Article 3"),
	rules.Key("Article 5.3"),
	rules.Key("Article 7.1"),
	rules.Key("Article 7.2"),
	rules.Key("Article 7.3"),
	rules.Key("Article 7.6"),
	rules.Key("Article 8"),
	rules.Key("Article 19"),
	rules.Key("Article 22.2"),
	rules.Key("Article 26"),
	rules.Key("Article 26.1"),
	rules.Key("Article 26.2"),
}

var filenameReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-")

// OutputFilename names the generated document after the tenant and the
// letter of intent date.
func OutputFilename(ctx vars.Context) string {
	tenant := strings.TrimSpace(ctx.Resolve(TenantName).String())
	if tenant == "" {
		tenant = strings.TrimSpace(ctx.Resolve(ClientName).String())
	}
	if tenant == "" {
		tenant = "Client"
	}
	name := "BAIL - " + tenant
	if date := strings.TrimSpace(ctx.Resolve(LOIDate).String()); date != "" {
		name += " - " + date
	}
	return filenameReplacer.Replace(name) + ".docx"
}

// ParseSectionKeys reads "Section" or "Section / Designation" strings.
func ParseSectionKeys(names []string) ([]rules.SectionKey, error) {
	keys := make([]rules.SectionKey, 0, len(names))
	for _, n := range names {
		section, designation, _ := strings.Cut(n, " / ")
		section = strings.TrimSpace(section)
		if section == "" {
			return nil, fmt.Errorf("empty section name in %q", n)
		}
		keys = append(keys, rules.SectionKey{Section: section, Designation: strings.TrimSpace(designation)})
	}
	return keys, nil
}
