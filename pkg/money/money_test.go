package money

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Already two decimals", 152219.18, 152219.18},
		{"Truncates repeating fraction", 2219.178082191781, 2219.18},
		{"Rounds up past midpoint", 10.006, 10.01},
		{"Rounds down below midpoint", 10.004, 10.0},
		{"Negative value", -10.006, -10.01},
		{"Zero", 0, 0},
		{"Large amount", 1500000.004999, 1500000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Round2(tt.input))
		})
	}
}

func TestRound2Idempotent(t *testing.T) {
	values := []float64{2219.178082191781, 0.015, 99999.999, 1.0 / 3.0, 150000 * 0.12 * 45 / 365}
	for _, v := range values {
		once := Round2(v)
		assert.Equal(t, once, Round2(once), "rounding must be idempotent for %v", v)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     Date
		to       Date
		expected int
	}{
		{"45 days late", NewDate(2024, time.July, 1), NewDate(2024, time.August, 15), 45},
		{"Same day", NewDate(2024, time.July, 1), NewDate(2024, time.July, 1), 0},
		{"Crosses leap day", NewDate(2024, time.February, 28), NewDate(2024, time.March, 1), 2},
		{"Crosses year boundary", NewDate(2023, time.December, 31), NewDate(2024, time.January, 1), 1},
		{"Negative when reversed", NewDate(2024, time.August, 15), NewDate(2024, time.July, 1), -45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestDateOfStripsTimeAndZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2024-07-01 01:30 IST is 2024-06-30 20:00 UTC; the calendar date in UTC is June 30.
	d := DateOf(time.Date(2024, time.July, 1, 1, 30, 0, 0, loc))
	assert.Equal(t, "2024-06-30", d.String())

	// Midday UTC keeps its own date.
	d = DateOf(time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-07-01", d.String())
}

func TestAddMonths(t *testing.T) {
	allotment := NewDate(2024, time.January, 1)
	assert.Equal(t, "2024-07-01", allotment.AddMonths(6).String())
	assert.Equal(t, "2026-01-01", allotment.AddMonths(24).String())
	assert.Equal(t, "2027-01-01", allotment.AddYears(3).String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-08-15")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.August, 15), d)

	_, err = ParseDate("15-08-2024")
	assert.Error(t, err)

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		DueDate Date `json:"due_date"`
	}

	b, err := json.Marshal(payload{DueDate: NewDate(2024, time.July, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_date":"2024-07-01"}`, string(b))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2024-07-01"}`), &decoded))
	assert.Equal(t, NewDate(2024, time.July, 1), decoded.DueDate)
}
