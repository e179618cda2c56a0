package dues

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagarseva/nagarseva-api/pkg/money"
)

func date(y int, m time.Month, d int) money.Date {
	return money.NewDate(y, m, d)
}

func seededProperty() Property {
	return Property{
		UPN:           "UPN-1001",
		AuthorityID:   "AUTH-01",
		AllotmentDate: date(2024, time.January, 1),
		UsageType:     "RESIDENTIAL",
		PropertyValue: 1500000,
	}
}

func TestInstallmentScheduleGeneration(t *testing.T) {
	calc := NewCalculator(Config{})
	ledger := calc.Build(seededProperty(), nil, date(2024, time.February, 1))

	require.Len(t, ledger.Dues, 7) // 6 installments + DCF (no completion date seeded)

	expected := []struct {
		code string
		due  string
	}{
		{"INST-1", "2024-07-01"},
		{"INST-2", "2025-01-01"},
		{"INST-3", "2025-07-01"},
		{"INST-4", "2026-01-01"},
		{"INST-5", "2026-07-01"},
		{"INST-6", "2027-01-01"},
		{"DCF", "2027-01-01"},
	}
	for i, e := range expected {
		assert.Equal(t, e.code, ledger.Dues[i].DueCode)
		assert.Equal(t, e.due, ledger.Dues[i].DueDate.String())
	}

	// Default installment is 10% of property value, DCF is 2.5%.
	assert.Equal(t, 150000.0, ledger.Dues[0].BaseAmount)
	assert.Equal(t, 37500.0, ledger.Line("DCF").BaseAmount)
	assert.Equal(t, 12.0, ledger.AnnualInterestRatePct)
	assert.Equal(t, 2.5, ledger.DCFRatePct)
}

func TestDelayedPaymentInterest(t *testing.T) {
	// Allotment 2024-01-01, value 1,500,000, 12%: installment #1 due
	// 2024-07-01 for 150,000, settled 45 days late on 2024-08-15.
	calc := NewCalculator(Config{})
	prop := seededProperty()

	// First compute what is owed at the payment date.
	atPayment := calc.Build(prop, nil, date(2024, time.August, 15))
	line := atPayment.Line("INST-1")
	require.NotNil(t, line)

	assert.Equal(t, 45, line.DaysDelayed)
	assert.Equal(t, 2219.18, line.InterestAmount) // round2(150000 * 0.12 * 45/365)
	assert.Equal(t, 152219.18, line.TotalDueAmount)
	assert.Equal(t, StatusPending, line.Status)

	// Post the full amount owed at that date; the line settles exactly.
	payments := []Payment{{DueCode: "INST-1", Amount: 152219.18, PaymentDate: date(2024, time.August, 15)}}
	later := calc.Build(prop, payments, date(2025, time.March, 1))
	line = later.Line("INST-1")
	require.NotNil(t, line)

	// Interest stops at the payment date, not the as-of date.
	assert.Equal(t, 45, line.DaysDelayed)
	assert.Equal(t, 2219.18, line.InterestAmount)
	assert.Equal(t, 0.0, line.BalanceAmount)
	assert.Equal(t, StatusPaid, line.Status)
	require.NotNil(t, line.PaymentDate)
	assert.Equal(t, "2024-08-15", line.PaymentDate.String())
}

func TestInterestMonotonicity(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()

	prevDays := -1
	prevInterest := -1.0
	for _, asOf := range []money.Date{
		date(2024, time.July, 1),
		date(2024, time.July, 15),
		date(2024, time.August, 15),
		date(2024, time.December, 31),
		date(2025, time.June, 1),
	} {
		ledger := calc.Build(prop, nil, asOf)
		line := ledger.Line("INST-1")
		require.NotNil(t, line)
		assert.GreaterOrEqual(t, line.DaysDelayed, prevDays)
		assert.GreaterOrEqual(t, line.InterestAmount, prevInterest)
		prevDays = line.DaysDelayed
		prevInterest = line.InterestAmount
	}
}

func TestNoInterestBeforeDueDate(t *testing.T) {
	calc := NewCalculator(Config{})
	ledger := calc.Build(seededProperty(), nil, date(2024, time.March, 1))
	line := ledger.Line("INST-1")
	require.NotNil(t, line)

	assert.Equal(t, 0, line.DaysDelayed)
	assert.Equal(t, 0.0, line.InterestAmount)
	assert.Equal(t, 150000.0, line.TotalDueAmount)
}

func TestDerivedPropertyValue(t *testing.T) {
	calc := NewCalculator(Config{})

	commercial := Property{
		UPN:           "UPN-C1",
		AllotmentDate: date(2024, time.January, 1),
		UsageType:     "COMMERCIAL",
		AreaSqm:       100,
	}
	ledger := calc.Build(commercial, nil, date(2024, time.February, 1))
	assert.Equal(t, 2200000.0, ledger.PropertyValue)
	assert.Equal(t, 220000.0, ledger.Dues[0].BaseAmount)

	residential := commercial
	residential.UsageType = "RESIDENTIAL"
	ledger = calc.Build(residential, nil, date(2024, time.February, 1))
	assert.Equal(t, 1400000.0, ledger.PropertyValue)
}

func TestExplicitInstallmentScheduleOverride(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()
	prop.InstallmentSchedule = []float64{100000, 200000, 300000, 400000, 250000, 250000}

	ledger := calc.Build(prop, nil, date(2024, time.February, 1))
	assert.Equal(t, 100000.0, ledger.Line("INST-1").BaseAmount)
	assert.Equal(t, 400000.0, ledger.Line("INST-4").BaseAmount)

	// Short schedules are ignored and the 10% default applies.
	prop.InstallmentSchedule = []float64{100000}
	ledger = calc.Build(prop, nil, date(2024, time.February, 1))
	assert.Equal(t, 150000.0, ledger.Line("INST-1").BaseAmount)
}

func TestAdditionalAreaDue(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()
	prop.AdditionalAreaSqm = 25
	prop.AdditionalAreaRatePerSqm = 1200

	ledger := calc.Build(prop, nil, date(2024, time.February, 1))
	line := ledger.Line("ADDL-AREA")
	require.NotNil(t, line)
	assert.Equal(t, KindAdditionalArea, line.DueKind)
	assert.Equal(t, "2026-01-01", line.DueDate.String()) // allotment + 24 months
	assert.Equal(t, 30000.0, line.BaseAmount)
}

func TestDelayedCompletionFee(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()

	// Completed within the 3-year deadline: no DCF due.
	onTime := date(2026, time.June, 1)
	prop.ConstructionCompletedOn = &onTime
	ledger := calc.Build(prop, nil, date(2027, time.June, 1))
	assert.Nil(t, ledger.Line("DCF"))
}

func TestDelayedCompletionFeeLate(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()

	late := date(2027, time.March, 1)
	prop.ConstructionCompletedOn = &late
	ledger := calc.Build(prop, nil, date(2027, time.June, 1))
	line := ledger.Line("DCF")
	require.NotNil(t, line)
	assert.Equal(t, KindDelayedCompletionFee, line.DueKind)
	assert.Equal(t, "2027-01-01", line.DueDate.String()) // allotment + 3 years
	assert.Equal(t, 37500.0, line.BaseAmount)            // 1,500,000 * 2.5%

	// Missing completion date also triggers the fee.
	prop.ConstructionCompletedOn = nil
	ledger = calc.Build(prop, nil, date(2027, time.June, 1))
	assert.NotNil(t, ledger.Line("DCF"))
}

func TestMultiplePaymentsLatestDateRetained(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()

	// Two partial payments against the same due code: amounts sum, the
	// latest payment date wins for interest-stop purposes.
	payments := []Payment{
		{DueCode: "INST-1", Amount: 50000, PaymentDate: date(2024, time.July, 20)},
		{DueCode: "INST-1", Amount: 50000, PaymentDate: date(2024, time.September, 1)},
	}
	ledger := calc.Build(prop, payments, date(2025, time.January, 1))
	line := ledger.Line("INST-1")
	require.NotNil(t, line)

	assert.Equal(t, 100000.0, line.PaidAmount)
	require.NotNil(t, line.PaymentDate)
	assert.Equal(t, "2024-09-01", line.PaymentDate.String())
	assert.Equal(t, money.DaysBetween(date(2024, time.July, 1), date(2024, time.September, 1)), line.DaysDelayed)
	assert.Equal(t, StatusPartiallyPaid, line.Status)
	assert.Greater(t, line.BalanceAmount, 0.0)
}

func TestTotalsAreSumOfDisplayedRows(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()
	prop.AdditionalAreaSqm = 33.33
	prop.AdditionalAreaRatePerSqm = 999.99

	payments := []Payment{
		{DueCode: "INST-1", Amount: 152219.18, PaymentDate: date(2024, time.August, 15)},
		{DueCode: "INST-2", Amount: 70000, PaymentDate: date(2025, time.February, 10)},
	}
	ledger := calc.Build(prop, payments, date(2025, time.June, 1))

	var base, interest, total, paid, balance float64
	for _, l := range ledger.Dues {
		base += l.BaseAmount
		interest += l.InterestAmount
		total += l.TotalDueAmount
		paid += l.PaidAmount
		balance += l.BalanceAmount
	}

	assert.Equal(t, money.Round2(base), ledger.Totals.BaseAmount)
	assert.Equal(t, money.Round2(interest), ledger.Totals.InterestAmount)
	assert.Equal(t, money.Round2(total), ledger.Totals.TotalDueAmount)
	assert.Equal(t, money.Round2(paid), ledger.Totals.PaidAmount)
	assert.Equal(t, money.Round2(balance), ledger.Totals.BalanceAmount)
}

func TestNoNegativeBalances(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()

	// Overpay one due; balance clamps to zero instead of going negative.
	payments := []Payment{
		{DueCode: "INST-1", Amount: 500000, PaymentDate: date(2024, time.July, 1)},
	}
	ledger := calc.Build(prop, payments, date(2025, time.June, 1))
	for _, l := range ledger.Dues {
		assert.GreaterOrEqual(t, l.BalanceAmount, 0.0, "due %s", l.DueCode)
	}
}

func TestAllDuesPaidAndCertificateEligibility(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := Property{
		UPN:           "UPN-2002",
		AllotmentDate: date(2020, time.January, 1),
		PropertyValue: 100000,
	}
	completed := date(2021, time.June, 1)
	prop.ConstructionCompletedOn = &completed

	asOf := date(2023, time.June, 1)

	// Nothing paid yet.
	ledger := calc.Build(prop, nil, asOf)
	assert.False(t, ledger.AllDuesPaid)
	assert.False(t, ledger.CertificateEligible)

	// Pay each due exactly what is owed as of the as-of date.
	var payments []Payment
	for _, l := range ledger.Dues {
		payments = append(payments, Payment{DueCode: l.DueCode, Amount: l.TotalDueAmount, PaymentDate: asOf})
	}
	settled := calc.Build(prop, payments, asOf)
	assert.True(t, settled.AllDuesPaid)
	assert.True(t, settled.CertificateEligible)
	assert.LessOrEqual(t, settled.Totals.BalanceAmount, PaidTolerance)
	for _, l := range settled.Dues {
		assert.Equal(t, StatusPaid, l.Status, "due %s", l.DueCode)
	}
}

func TestRateOverrides(t *testing.T) {
	calc := NewCalculator(Config{})
	prop := seededProperty()
	prop.AnnualInterestRatePct = 6
	prop.DCFRatePct = 5

	ledger := calc.Build(prop, nil, date(2024, time.August, 15))
	assert.Equal(t, 6.0, ledger.AnnualInterestRatePct)
	assert.Equal(t, 5.0, ledger.DCFRatePct)

	line := ledger.Line("INST-1")
	require.NotNil(t, line)
	assert.Equal(t, money.Round2(150000*0.06*45/365), line.InterestAmount)
	assert.Equal(t, 75000.0, ledger.Line("DCF").BaseAmount) // 1,500,000 * 5%
}
