package validate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"tenderkit/internal/document"
)

// ParseRuleSet builds a RuleSet from a loosely typed mapping such as a decoded
// TOML, YAML or JSON document. Unknown keys are ignored; malformed values are
// reported per field.
func ParseRuleSet(raw map[string]any) (RuleSet, error) {
	rules := make(RuleSet, len(raw))

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	var errs []error

	for _, field := range fields {
		rule, err := parseRule(raw[field])
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: field %q: %w", document.ErrMalformed, field, err))
			continue
		}

		rules[field] = rule
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return rules, nil
}

// LoadRuleSet reads a rule set from a .toml, .yaml, .yml or .json file
func LoadRuleSet(path string) (RuleSet, error) {
	var raw map[string]any

	if err := document.DecodeFile(path, &raw); err != nil {
		return nil, err
	}

	rules, err := ParseRuleSet(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

func parseRule(v any) (Rule, error) {
	var rule Rule

	if v == nil {
		return rule, nil
	}

	params, ok := v.(map[string]any)
	if !ok {
		return rule, fmt.Errorf("rule must be a mapping, got %T", v)
	}

	if raw, ok := params["required"]; ok {
		required, ok := raw.(bool)
		if !ok {
			return rule, fmt.Errorf("required must be a boolean, got %v", raw)
		}

		rule.Required = required
	}

	if raw, ok := params["type"]; ok {
		name, ok := raw.(string)
		if !ok {
			return rule, fmt.Errorf("type must be a string, got %v", raw)
		}

		rule.Type = FieldType(strings.ToLower(strings.TrimSpace(name)))
	}

	var err error

	if rule.Min, err = floatParam(params, "min"); err != nil {
		return rule, err
	}

	if rule.Max, err = floatParam(params, "max"); err != nil {
		return rule, err
	}

	if rule.MinLength, err = intParam(params, "min_length"); err != nil {
		return rule, err
	}

	if rule.MaxLength, err = intParam(params, "max_length"); err != nil {
		return rule, err
	}

	return rule, nil
}

func floatParam(params map[string]any, key string) (*float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}

	f, ok := toFloat64(raw)
	if !ok {
		return nil, fmt.Errorf("%s must be a number, got %v", key, raw)
	}

	return &f, nil
}

func intParam(params map[string]any, key string) (*int, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return nil, nil
	}

	f, ok := toFloat64(raw)
	if !ok || f != math.Trunc(f) || f < 0 {
		return nil, fmt.Errorf("%s must be a non-negative integer, got %v", key, raw)
	}

	n := int(f)

	return &n, nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
