package format

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   *float64
		currency string
		expected string
	}{
		{"fraction kept", Float(1234567.5), "", "1,234,567.50 ريال"},
		{"whole amount", Float(1000), "", "1,000 ريال"},
		{"small amount", Float(999), "", "999 ريال"},
		{"zero is formatted", Float(0), "", "0 ريال"},
		{"nil amount", nil, "", Unspecified},
		{"custom currency", Float(2500.25), "دولار", "2,500.25 دولار"},
		{"rounded to two digits", Float(10.456), "", "10.46 ريال"},
		{"negative", Float(-1234.5), "", "-1,234.50 ريال"},
		{"millions", Float(12000000), "SAR", "12,000,000 SAR"},
		{"positive infinity", Float(math.Inf(1)), "", Unspecified},
		{"negative infinity", Float(math.Inf(-1)), "SAR", Unspecified},
		{"not a number", Float(math.NaN()), "", Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Money(tt.amount, tt.currency))
		})
	}
}

func TestMoneyGrouping(t *testing.T) {
	for _, amount := range []float64{1, 12, 123, 1234, 12345, 123456, 1234567, 98765432.1} {
		out := Money(Float(amount), "")
		whole := strings.Split(strings.TrimSuffix(out, " "+DefaultCurrency), ".")[0]

		groups := strings.Split(whole, ",")
		assert.LessOrEqual(t, len(groups[0]), 3, out)
		assert.NotEmpty(t, groups[0], out)

		for _, g := range groups[1:] {
			assert.Len(t, g, 3, out)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		expected string
	}{
		{"rounded", Float(12.3456), "12.35%"},
		{"whole", Float(50), "50%"},
		{"zero", Float(0), "0%"},
		{"one decimal", Float(7.5), "7.50%"},
		{"above hundred", Float(120), "120%"},
		{"nil", nil, Unspecified},
		{"positive infinity", Float(math.Inf(1)), Unspecified},
		{"negative infinity", Float(math.Inf(-1)), Unspecified},
		{"not a number", Float(math.NaN()), Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percent(tt.value))
		})
	}
}

func TestPercentProperties(t *testing.T) {
	for _, v := range []float64{-3, 0, 1, 33.333, 66.6666, 99.999, 100, 250.5} {
		out := Percent(Float(v))
		assert.True(t, strings.HasSuffix(out, "%"), out)

		if v == math.Round(v) {
			assert.NotContains(t, out, ".", out)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		value    DateValue
		expected string
	}{
		{"text date", TextDate("2025-03-14"), "14 مارس 2025"},
		{"text date time", TextDate("2024-12-01 08:30:00"), "1 ديسمبر 2024"},
		{"single digit month", TextDate("2023-4-9"), "9 إبريل 2023"},
		{"unparseable text", TextDate("not-a-date"), "not-a-date"},
		{"invalid day", TextDate("2025-02-30"), "2025-02-30"},
		{"empty text", TextDate(""), Unspecified},
		{"calendar date", CalendarDate(time.Date(2022, time.January, 31, 0, 0, 0, 0, time.UTC)), "31 يناير 2022"},
		{"zero calendar date", CalendarDate(time.Time{}), Unspecified},
		{"nil", nil, Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Date(tt.value))
		})
	}
}

func TestDateMonthNames(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		out := Date(CalendarDate(time.Date(2025, m, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, "1 "+monthNames[m-1]+" 2025", out)
	}
}
