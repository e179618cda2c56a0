// Package dues computes the No Due Certificate ledger for a property.
// The ledger is a pure function of the property seed and its append-only
// payment log; nothing here touches storage.
package dues

import (
	"github.com/nagarseva/nagarseva-api/pkg/money"
)

// DueKind is the closed set of obligation kinds on a property ledger.
type DueKind string

const (
	KindInstallment          DueKind = "INSTALLMENT"
	KindAdditionalArea       DueKind = "ADDITIONAL_AREA"
	KindDelayedCompletionFee DueKind = "DELAYED_COMPLETION_FEE"
)

// Due status constants
const (
	StatusPending       = "PENDING"
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusPaid          = "PAID"
)

// PaidTolerance is the residual below which a due counts as settled.
// Guards against float dust after repeated round-trips through Round2.
const PaidTolerance = 0.01

// Installment plan constants: six installments, one every six months,
// each 10% of property value unless an explicit schedule is seeded.
const (
	InstallmentCount         = 6
	InstallmentIntervalMonth = 6
	installmentShare         = 0.10
)

// AdditionalAreaDueMonths is how many months after allotment the
// additional-area charge falls due.
const AdditionalAreaDueMonths = 24

// CompletionDeadlineYears is the construction completion window; missing it
// triggers the delayed-completion fee.
const CompletionDeadlineYears = 3

// Config carries the rate defaults injected at construction so tests can
// vary them per case.
type Config struct {
	AnnualInterestRatePct float64
	DCFRatePct            float64
	CommercialRatePerSqm  float64
	ResidentialRatePerSqm float64
}

// DefaultConfig returns the statutory defaults.
func DefaultConfig() Config {
	return Config{
		AnnualInterestRatePct: 12,
		DCFRatePct:            2.5,
		CommercialRatePerSqm:  22000,
		ResidentialRatePerSqm: 14000,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AnnualInterestRatePct <= 0 {
		c.AnnualInterestRatePct = d.AnnualInterestRatePct
	}
	if c.DCFRatePct <= 0 {
		c.DCFRatePct = d.DCFRatePct
	}
	if c.CommercialRatePerSqm <= 0 {
		c.CommercialRatePerSqm = d.CommercialRatePerSqm
	}
	if c.ResidentialRatePerSqm <= 0 {
		c.ResidentialRatePerSqm = d.ResidentialRatePerSqm
	}
	return c
}

// Property is the seed a ledger is derived from. Zero-valued optional
// fields fall back to the configured defaults.
type Property struct {
	UPN           string
	AuthorityID   string
	AllotmentDate money.Date
	UsageType     string // RESIDENTIAL or COMMERCIAL
	AreaSqm       float64

	// PropertyValue overrides the usage-rate derivation when > 0.
	PropertyValue float64

	// Per-property rate overrides; 0 falls back to Config.
	AnnualInterestRatePct float64
	DCFRatePct            float64

	// InstallmentSchedule overrides the default 10% installments when it
	// carries at least InstallmentCount entries.
	InstallmentSchedule []float64

	AdditionalAreaSqm        float64
	AdditionalAreaRatePerSqm float64

	ConstructionCompletedOn *money.Date
}

// Payment is one recorded settlement against a due code.
type Payment struct {
	DueCode     string
	Amount      float64
	PaymentDate money.Date
}

// DueLine is one computed obligation row. Never persisted; recomputed on
// every read.
type DueLine struct {
	DueCode        string      `json:"dueCode"`
	Label          string      `json:"label"`
	DueKind        DueKind     `json:"dueKind"`
	DueDate        money.Date  `json:"dueDate"`
	BaseAmount     float64     `json:"baseAmount"`
	InterestAmount float64     `json:"interestAmount"`
	TotalDueAmount float64     `json:"totalDueAmount"`
	PaidAmount     float64     `json:"paidAmount"`
	BalanceAmount  float64     `json:"balanceAmount"`
	Status         string      `json:"status"`
	PaymentDate    *money.Date `json:"paymentDate,omitempty"`
	DaysDelayed    int         `json:"daysDelayed"`
}

// Totals aggregates the numeric ledger columns, each independently rounded
// after summing the displayed rows.
type Totals struct {
	BaseAmount     float64 `json:"baseAmount"`
	InterestAmount float64 `json:"interestAmount"`
	TotalDueAmount float64 `json:"totalDueAmount"`
	PaidAmount     float64 `json:"paidAmount"`
	BalanceAmount  float64 `json:"balanceAmount"`
}

// Ledger is the full dues view for a property as of a given date.
type Ledger struct {
	PropertyUPN           string     `json:"propertyUpn"`
	AuthorityID           string     `json:"authorityId"`
	AllotmentDate         money.Date `json:"allotmentDate"`
	PropertyValue         float64    `json:"propertyValue"`
	AnnualInterestRatePct float64    `json:"annualInterestRatePct"`
	DCFRatePct            float64    `json:"dcfRatePct"`
	Dues                  []DueLine  `json:"dues"`
	Totals                Totals     `json:"totals"`
	AllDuesPaid           bool       `json:"allDuesPaid"`

	// CertificateEligible mirrors AllDuesPaid today; kept separate so future
	// policy (e.g. officer sign-off) can diverge without touching the
	// payment-complete signal.
	CertificateEligible bool `json:"certificateEligible"`

	AsOf money.Date `json:"generatedAt"`
}

// Line returns the due line with the given code, or nil.
func (l *Ledger) Line(dueCode string) *DueLine {
	for i := range l.Dues {
		if l.Dues[i].DueCode == dueCode {
			return &l.Dues[i]
		}
	}
	return nil
}
