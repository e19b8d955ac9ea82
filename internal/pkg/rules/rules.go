// Package rules is a small declarative field-rule evaluator. Entities declare
// a Rule per field and collect the resulting messages; an empty list means the
// value is valid. Checks are pure functions of (value, rule) and never
// fail-fast — every violated rule is reported.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule describes the constraints applied to a single field value.
// Zero-value fields are skipped. Message fields override the generated
// wording for the matching check.
type Rule struct {
	Required    bool
	Pattern     *regexp.Regexp
	MinLength   int
	Min         *int
	Max         *int
	ValidValues []string

	RequiredMessage    string
	PatternMessage     string
	MinLengthMessage   string
	RangeMessage       string
	ValidValuesMessage string
}

// CheckString evaluates r against a string value and returns all violation
// messages. An absent value only triggers the required check; the remaining
// rules apply to present values.
func CheckString(field, value string, r Rule) []string {
	var errs []string
	if value == "" {
		if r.Required {
			errs = append(errs, orDefault(r.RequiredMessage, field+" is required"))
		}
		return errs
	}
	if r.MinLength > 0 && len(value) < r.MinLength {
		errs = append(errs, orDefault(r.MinLengthMessage,
			fmt.Sprintf("%s must be at least %d characters", field, r.MinLength)))
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		errs = append(errs, orDefault(r.PatternMessage, "Invalid "+strings.ToLower(field)+" format"))
	}
	if len(r.ValidValues) > 0 && !contains(r.ValidValues, value) {
		errs = append(errs, orDefault(r.ValidValuesMessage,
			fmt.Sprintf("%s must be one of: %s", field, strings.Join(r.ValidValues, ", "))))
	}
	return errs
}

// CheckInt evaluates the numeric range rules against an optional int value.
func CheckInt(field string, value *int, r Rule) []string {
	var errs []string
	if value == nil {
		if r.Required {
			errs = append(errs, orDefault(r.RequiredMessage, field+" is required"))
		}
		return errs
	}
	if r.Min != nil && r.Max != nil {
		if *value < *r.Min || *value > *r.Max {
			errs = append(errs, orDefault(r.RangeMessage,
				fmt.Sprintf("%s must be between %d and %d", field, *r.Min, *r.Max)))
		}
		return errs
	}
	if r.Min != nil && *value < *r.Min {
		errs = append(errs, orDefault(r.RangeMessage, fmt.Sprintf("%s must be at least %d", field, *r.Min)))
	}
	if r.Max != nil && *value > *r.Max {
		errs = append(errs, orDefault(r.RangeMessage, fmt.Sprintf("%s must be at most %d", field, *r.Max)))
	}
	return errs
}

// Result aggregates the collected messages for one entity.
type Result struct {
	Errors []string
}

// IsValid reports whether no rule was violated.
func (r Result) IsValid() bool { return len(r.Errors) == 0 }

// Collect appends the given messages, preserving check order.
func (r *Result) Collect(msgs []string) { r.Errors = append(r.Errors, msgs...) }

// Int returns a pointer for inline range bounds.
func Int(n int) *int { return &n }

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
