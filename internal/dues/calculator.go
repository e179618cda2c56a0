package dues

import (
	"fmt"
	"sort"

	"github.com/nagarseva/nagarseva-api/pkg/money"
)

// Calculator derives a property's dues ledger. Stateless and safe for
// concurrent use.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the given rate defaults.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.withDefaults()}
}

// dueSpec is the date/amount derivation for one due before interest.
// One builder per kind produces these; buildLine finishes the job.
type dueSpec struct {
	code    string
	label   string
	kind    DueKind
	dueDate money.Date
	base    float64
}

// Build computes the full ledger for prop as of the given date. payments is
// the property's append-only settlement log keyed by due code.
func (c *Calculator) Build(prop Property, payments []Payment, asOf money.Date) Ledger {
	interestRate := prop.AnnualInterestRatePct
	if interestRate <= 0 {
		interestRate = c.cfg.AnnualInterestRatePct
	}
	dcfRate := prop.DCFRatePct
	if dcfRate <= 0 {
		dcfRate = c.cfg.DCFRatePct
	}
	value := c.propertyValue(prop)

	specs := c.installmentSpecs(prop, value)
	if spec, ok := c.additionalAreaSpec(prop); ok {
		specs = append(specs, spec)
	}
	if spec, ok := c.delayedCompletionSpec(prop, value, dcfRate); ok {
		specs = append(specs, spec)
	}

	byCode := make(map[string][]Payment, len(payments))
	for _, p := range payments {
		byCode[p.DueCode] = append(byCode[p.DueCode], p)
	}

	lines := make([]DueLine, 0, len(specs))
	for _, spec := range specs {
		lines = append(lines, buildLine(spec, byCode[spec.code], interestRate, asOf))
	}

	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].DueDate.Equal(lines[j].DueDate) {
			return lines[i].DueDate.Before(lines[j].DueDate)
		}
		return lines[i].DueCode < lines[j].DueCode
	})

	// Totals are summed over the displayed (already rounded) rows and then
	// rounded again, so they always match what a citizen adds up by hand.
	var totals Totals
	for _, l := range lines {
		totals.BaseAmount += l.BaseAmount
		totals.InterestAmount += l.InterestAmount
		totals.TotalDueAmount += l.TotalDueAmount
		totals.PaidAmount += l.PaidAmount
		totals.BalanceAmount += l.BalanceAmount
	}
	totals.BaseAmount = money.Round2(totals.BaseAmount)
	totals.InterestAmount = money.Round2(totals.InterestAmount)
	totals.TotalDueAmount = money.Round2(totals.TotalDueAmount)
	totals.PaidAmount = money.Round2(totals.PaidAmount)
	totals.BalanceAmount = money.Round2(totals.BalanceAmount)

	allPaid := totals.BalanceAmount <= PaidTolerance

	return Ledger{
		PropertyUPN:           prop.UPN,
		AuthorityID:           prop.AuthorityID,
		AllotmentDate:         prop.AllotmentDate,
		PropertyValue:         value,
		AnnualInterestRatePct: interestRate,
		DCFRatePct:            dcfRate,
		Dues:                  lines,
		Totals:                totals,
		AllDuesPaid:           allPaid,
		CertificateEligible:   allPaid,
		AsOf:                  asOf,
	}
}

// propertyValue resolves the seeded value or derives it from area and usage.
func (c *Calculator) propertyValue(prop Property) float64 {
	if prop.PropertyValue > 0 {
		return prop.PropertyValue
	}
	rate := c.cfg.ResidentialRatePerSqm
	if prop.UsageType == "COMMERCIAL" {
		rate = c.cfg.CommercialRatePerSqm
	}
	return money.Round2(prop.AreaSqm * rate)
}

// installmentSpecs generates the six installment dues at allotment + 6, 12,
// 18, 24, 30, 36 months. Each defaults to 10% of property value unless an
// explicit per-installment schedule with at least six entries is seeded.
func (c *Calculator) installmentSpecs(prop Property, value float64) []dueSpec {
	useSchedule := len(prop.InstallmentSchedule) >= InstallmentCount

	specs := make([]dueSpec, 0, InstallmentCount)
	for i := 0; i < InstallmentCount; i++ {
		base := money.Round2(value * installmentShare)
		if useSchedule {
			base = money.Round2(prop.InstallmentSchedule[i])
		}
		specs = append(specs, dueSpec{
			code:    fmt.Sprintf("INST-%d", i+1),
			label:   fmt.Sprintf("Installment %d of %d", i+1, InstallmentCount),
			kind:    KindInstallment,
			dueDate: prop.AllotmentDate.AddMonths((i + 1) * InstallmentIntervalMonth),
			base:    base,
		})
	}
	return specs
}

// additionalAreaSpec adds the one-off additional-area charge at allotment
// + 24 months when extra area is seeded.
func (c *Calculator) additionalAreaSpec(prop Property) (dueSpec, bool) {
	if prop.AdditionalAreaSqm <= 0 {
		return dueSpec{}, false
	}
	return dueSpec{
		code:    "ADDL-AREA",
		label:   "Additional area charge",
		kind:    KindAdditionalArea,
		dueDate: prop.AllotmentDate.AddMonths(AdditionalAreaDueMonths),
		base:    money.Round2(prop.AdditionalAreaSqm * prop.AdditionalAreaRatePerSqm),
	}, true
}

// delayedCompletionSpec adds the delayed-completion fee at allotment + 3
// years when construction was not completed within the deadline.
func (c *Calculator) delayedCompletionSpec(prop Property, value, dcfRate float64) (dueSpec, bool) {
	deadline := prop.AllotmentDate.AddYears(CompletionDeadlineYears)
	if prop.ConstructionCompletedOn != nil && !prop.ConstructionCompletedOn.After(deadline) {
		return dueSpec{}, false
	}
	return dueSpec{
		code:    "DCF",
		label:   "Delayed completion fee",
		kind:    KindDelayedCompletionFee,
		dueDate: deadline,
		base:    money.Round2(value * dcfRate / 100),
	}, true
}

// buildLine finishes one due: interest accrual, settlement state and
// balance. Shared by every due kind.
//
// Interest accrues on the base past the due date at simple daily interest.
// When payments exist, accrual stops at the latest recorded payment date
// (lexicographic max on ISO dates); otherwise it runs to asOf.
func buildLine(spec dueSpec, payments []Payment, annualRatePct float64, asOf money.Date) DueLine {
	var paid float64
	var lastPayment *money.Date
	for i := range payments {
		paid += payments[i].Amount
		if lastPayment == nil || payments[i].PaymentDate.After(*lastPayment) {
			d := payments[i].PaymentDate
			lastPayment = &d
		}
	}
	paid = money.Round2(paid)

	accrualStop := asOf
	if lastPayment != nil {
		accrualStop = *lastPayment
	}

	daysDelayed := money.DaysBetween(spec.dueDate, accrualStop)
	if daysDelayed < 0 {
		daysDelayed = 0
	}

	interest := money.Round2(spec.base * (annualRatePct / 100) * float64(daysDelayed) / 365)
	totalDue := money.Round2(spec.base + interest)

	balance := money.Round2(totalDue - paid)
	if balance < 0 {
		balance = 0
	}

	status := StatusPending
	switch {
	case balance <= PaidTolerance:
		status = StatusPaid
	case paid > 0:
		status = StatusPartiallyPaid
	}

	return DueLine{
		DueCode:        spec.code,
		Label:          spec.label,
		DueKind:        spec.kind,
		DueDate:        spec.dueDate,
		BaseAmount:     spec.base,
		InterestAmount: interest,
		TotalDueAmount: totalDue,
		PaidAmount:     paid,
		BalanceAmount:  balance,
		Status:         status,
		PaymentDate:    lastPayment,
		DaysDelayed:    daysDelayed,
	}
}
