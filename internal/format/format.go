// Package format renders numbers and dates for Arabic-language output.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// Unspecified is rendered for absent values
	Unspecified = "غير محدد"
	// DefaultCurrency is the label used when no currency is given
	DefaultCurrency = "ريال"
)

var monthNames = [12]string{
	"يناير", "فبراير", "مارس", "إبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// Digits are Western with "," grouping, which is what the dashboards display.
var printer = message.NewPrinter(language.English)

// Float returns a pointer to v, for passing literals to Money and Percent.
func Float(v float64) *float64 {
	return &v
}

// absent reports whether v has no displayable value: nil, NaN or infinite
func absent(v *float64) bool {
	return v == nil || math.IsNaN(*v) || math.IsInf(*v, 0)
}

// Money renders amount as "1,234,567.50 ريال". A nil or non-finite amount
// renders as Unspecified; zero is a valid amount.
func Money(amount *float64, currency string) string {
	if absent(amount) {
		return Unspecified
	}

	if currency == "" {
		currency = DefaultCurrency
	}

	grouped := printer.Sprintf("%v", number.Decimal(*amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	return trimZeroFraction(grouped) + " " + currency
}

// Percent renders value with two decimals and a trailing "%", dropping ".00".
// Nil and non-finite values render as Unspecified.
func Percent(value *float64) string {
	if absent(value) {
		return Unspecified
	}

	return trimZeroFraction(fmt.Sprintf("%.2f", *value)) + "%"
}

func trimZeroFraction(s string) string {
	return strings.TrimSuffix(s, ".00")
}

// DateValue is either a TextDate or a CalendarDate.
type DateValue interface {
	isDateValue()
}

// TextDate is a date in "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS" form.
type TextDate string

// CalendarDate is an already parsed date.
type CalendarDate time.Time

func (TextDate) isDateValue()     {}
func (CalendarDate) isDateValue() {}

// Layouts tried in order; single-digit months and days are accepted.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:4:5",
}

// Date renders v as "<day> <Arabic month> <year>". Text that matches none of the
// known layouts is returned unchanged.
func Date(v DateValue) string {
	switch d := v.(type) {
	case CalendarDate:
		t := time.Time(d)
		if t.IsZero() {
			return Unspecified
		}

		return arabicDate(t)
	case TextDate:
		text := string(d)
		if strings.TrimSpace(text) == "" {
			return Unspecified
		}

		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return arabicDate(t)
			}
		}

		return text
	default:
		return Unspecified
	}
}

func arabicDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
