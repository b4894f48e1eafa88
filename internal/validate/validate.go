// Package validate checks records against declarative per-field rules and
// reports localized messages per failing field.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"tenderkit/internal/i18n"
)

// FieldType is the expected shape of a field value
type FieldType string

const (
	TypeNumber FieldType = "number"
	TypeEmail  FieldType = "email"
	TypeDate   FieldType = "date"
)

// Rule describes the checks applied to one field. Nil bounds are not checked.
type Rule struct {
	Required  bool
	Type      FieldType
	Min       *float64
	Max       *float64
	MinLength *int
	MaxLength *int
}

// RuleSet maps field names to their rules
type RuleSet map[string]Rule

// Report maps each failing field to its messages in check order
type Report map[string][]string

// Valid reports whether no field failed
func (r Report) Valid() bool {
	return len(r) == 0
}

// Fields returns the failing field names sorted
func (r Report) Fields() []string {
	fields := make([]string, 0, len(r))
	for field := range r {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	return fields
}

// ErrInvalid is matched by every *ReportError
var ErrInvalid = errors.New("validation failed")

// ReportError carries a non-empty report through error returns
type ReportError struct {
	Report Report
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Report.Fields(), ", "))
}

func (e *ReportError) Unwrap() error {
	return ErrInvalid
}

// Err returns nil for a valid report and a *ReportError otherwise
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}

	return &ReportError{Report: r}
}

var (
	emailPattern = regexp.MustCompile(`^[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+\.[\p{L}\p{N}_]+$`)
	datePattern  = regexp.MustCompile(`^\p{Nd}{4}-\p{Nd}{2}-\p{Nd}{2}$`)
)

// Validate checks record against rules with Arabic messages
func Validate(record map[string]any, rules RuleSet) Report {
	return ValidateLang(record, rules, i18n.DefaultLanguage)
}

// ValidateLang checks record against rules with messages in lang
func ValidateLang(record map[string]any, rules RuleSet, lang string) Report {
	report := Report{}

	for field, rule := range rules {
		if messages := check(record[field], rule, lang); len(messages) > 0 {
			report[field] = messages
		}
	}

	return report
}

func check(value any, rule Rule, lang string) []string {
	var messages []string

	if isMissing(value) {
		if rule.Required {
			messages = append(messages, i18n.Get(lang, "validation_required"))
		}

		return messages
	}

	text, isString := value.(string)

	switch rule.Type {
	case TypeNumber:
		if _, ok := asNumber(value); !ok {
			messages = append(messages, i18n.Get(lang, "validation_number"))
		}
	case TypeEmail:
		if !isString || !emailPattern.MatchString(text) {
			messages = append(messages, i18n.Get(lang, "validation_email"))
		}
	case TypeDate:
		if !isString || !datePattern.MatchString(text) {
			messages = append(messages, i18n.Get(lang, "validation_date"))
		}
	}

	if n, ok := asNumber(value); ok {
		if rule.Min != nil && n < *rule.Min {
			messages = append(messages, i18n.Format(lang, "validation_min",
				map[string]string{"min": formatBound(*rule.Min)}))
		}

		if rule.Max != nil && n > *rule.Max {
			messages = append(messages, i18n.Format(lang, "validation_max",
				map[string]string{"max": formatBound(*rule.Max)}))
		}
	}

	if isString {
		length := utf8.RuneCountInString(text)

		if rule.MinLength != nil && length < *rule.MinLength {
			messages = append(messages, i18n.Format(lang, "validation_min_length",
				map[string]string{"n": strconv.Itoa(*rule.MinLength)}))
		}

		if rule.MaxLength != nil && length > *rule.MaxLength {
			messages = append(messages, i18n.Format(lang, "validation_max_length",
				map[string]string{"n": strconv.Itoa(*rule.MaxLength)}))
		}
	}

	return messages
}

func isMissing(value any) bool {
	if value == nil {
		return true
	}

	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	return false
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// asNumber returns the numeric value of integers, floats and numeral strings.
// Booleans are not numbers.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil, bool:
		return 0, false
	case string:
		return parseNumeral(v)
	case json.Number:
		return parseNumeral(string(v))
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// parseNumeral accepts decimal digits of any script with at most one '.', no sign
func parseNumeral(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	var b strings.Builder

	digits, dots := 0, 0

	for _, r := range s {
		switch {
		case r == '.':
			dots++
			if dots > 1 {
				return 0, false
			}

			b.WriteByte('.')
		case unicode.IsDigit(r):
			digits++

			b.WriteRune('0' + digitValue(r))
		default:
			return 0, false
		}
	}

	if digits == 0 {
		return 0, false
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

// digitValue relies on every Unicode decimal digit run starting at its zero
func digitValue(r rune) rune {
	zero := r
	for unicode.IsDigit(zero - 1) {
		zero--
	}

	return (r - zero) % 10
}
