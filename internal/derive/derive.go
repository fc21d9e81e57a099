// Package derive computes the facts that contract clauses reference but
// nobody types in: rent steps, deposit amount, lease type, key dates.
package derive

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dgallion1/bailgen/internal/diag"
	"github.com/dgallion1/bailgen/internal/vars"
)

// Input variable names.
const (
	Town               = "Ville ou arrondissement"
	Street             = "Numéro et rue"
	BaseRent           = "Montant du loyer"
	TotalArea          = "Surface totale"
	GroundFloorArea    = "Surface RDC"
	LeaseDuration      = "Durée Bail"
	ReferenceDate      = "Date d'aujourd'hui"
	EffectiveDate      = "Date de prise d'effet"
	DepositMonths      = "Durée DG"
	rentYearPrefix     = "Loyer année "
	rentStepPrefix     = "Montant du palier "
	RentStepYears      = 6
	SignatureDelayDays = 15
)

// Derived variable names.
const (
	PremisesAddress     = "Adresse Locaux Loués"
	BasementArea        = "Surface R-1"
	LeaseType           = "Type Bail"
	SignatureDate       = "Date de signature"
	EffectivePlus9      = "Date de prise d'effet + 9 ans"
	EffectivePlus9Upper = "Date de Prise d'effet + 9 ans"
	DepositAmount       = "Montant du DG"
	DepositPeriod       = "Période DG"
)

// DepositPeriods labels the deposit by the fraction of a year it covers.
var DepositPeriods = map[int64]string{
	3: "quart",
	4: "tiers",
	6: "moitié",
}

var leaseTypes = map[int64]string{
	9:  "3/6/9",
	10: "6/9/10",
}

var twelve = decimal.NewFromInt(12)

// RentYear returns the name of the year-i rent variable.
func RentYear(i int) string { return fmt.Sprintf("%s%d", rentYearPrefix, i) }

// RentStep returns the name of the year-i rent step variable.
func RentStep(i int) string { return fmt.Sprintf("%s%d", rentStepPrefix, i) }

// Calculator extends a Context with derived variables.
type Calculator struct {
	// Now supplies the reference date when the context has none.
	// Nil means time.Now.
	Now func() time.Time
}

// Extend returns ctx plus every derivation whose inputs are present.
// A derivation with unusable inputs is skipped and reported to rec; it
// never prevents the others.
func (c Calculator) Extend(ctx vars.Context, rec *diag.Recorder) vars.Context {
	out := map[string]vars.Value{}
	set := func(name string, v vars.Value) { out[name] = v }

	c.address(ctx, set)
	c.rentSteps(ctx, rec, set)
	c.basementArea(ctx, rec, set)
	c.leaseType(ctx, rec, set)
	c.signatureDate(ctx, set)
	c.effectivePlusNine(ctx, rec, set)
	c.deposit(ctx, rec, set)

	return ctx.Merge(out)
}

type setter func(name string, v vars.Value)

func (c Calculator) address(ctx vars.Context, set setter) {
	town := ctx.Resolve(Town)
	street := ctx.Resolve(Street)
	if town.IsEmpty() || street.IsEmpty() {
		return
	}
	set(PremisesAddress, vars.Text(town.String()+", "+street.String()))
}

func (c Calculator) rentSteps(ctx vars.Context, rec *diag.Recorder, set setter) {
	base, ok := number(ctx, BaseRent, rec)
	if !ok {
		return
	}
	for i := 1; i <= RentStepYears; i++ {
		year, ok := number(ctx, RentYear(i), rec)
		if !ok {
			continue
		}
		set(RentStep(i), vars.Number(base.Sub(year)))
	}
}

func (c Calculator) basementArea(ctx vars.Context, rec *diag.Recorder, set setter) {
	total, ok := number(ctx, TotalArea, rec)
	if !ok {
		return
	}
	ground, ok := number(ctx, GroundFloorArea, rec)
	if !ok {
		return
	}
	set(BasementArea, vars.Number(total.Sub(ground)))
}

func (c Calculator) leaseType(ctx vars.Context, rec *diag.Recorder, set setter) {
	years, ok := number(ctx, LeaseDuration, rec)
	if !ok {
		return
	}
	if label, ok := leaseTypes[years.IntPart()]; ok {
		set(LeaseType, vars.Text(label))
	}
}

func (c Calculator) signatureDate(ctx vars.Context, set setter) {
	ref, ok := ctx.Resolve(ReferenceDate).Time()
	if !ok {
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		ref = now()
	}
	set(SignatureDate, vars.Date(ref.AddDate(0, 0, SignatureDelayDays)))
}

func (c Calculator) effectivePlusNine(ctx vars.Context, rec *diag.Recorder, set setter) {
	raw := ctx.Resolve(EffectiveDate)
	if raw.IsEmpty() {
		return
	}
	start, ok := raw.Time()
	if !ok {
		rec.Warn(diag.KindDerivationSkipped, EffectiveDate, "unrecognized date %q", raw.String())
		return
	}
	// Nine 365-day years, not nine calendar years.
	end := vars.Date(start.AddDate(0, 0, 9*365))
	set(EffectivePlus9, end)
	set(EffectivePlus9Upper, end)
}

func (c Calculator) deposit(ctx vars.Context, rec *diag.Recorder, set setter) {
	months, ok := number(ctx, DepositMonths, rec)
	if !ok {
		return
	}
	if label, ok := DepositPeriods[months.IntPart()]; ok {
		set(DepositPeriod, vars.Text(label))
	}
	rent, ok := number(ctx, BaseRent, nil)
	if !ok {
		return
	}
	set(DepositAmount, vars.Number(rent.Mul(months).Div(twelve)))
}

// number resolves name as a decimal. Absent or blank inputs are silent;
// present but unparsable ones are reported.
func number(ctx vars.Context, name string, rec *diag.Recorder) (decimal.Decimal, bool) {
	v := ctx.Resolve(name)
	if v.IsAbsent() || (v.Kind() == vars.KindText && v.IsEmpty()) {
		return decimal.Zero, false
	}
	d, ok := v.Decimal()
	if !ok {
		rec.Warn(diag.KindDerivationSkipped, name, "not a number: %q", v.String())
		return decimal.Zero, false
	}
	return d, true
}
