package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Validation rule patterns
var (
	// NamePattern accepts letters and spaces only
	NamePattern = `^[a-zA-Z ]+$`

	// EmailPattern accepts local@domain.tld
	EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

	// DigitsPattern accepts unsigned whole numbers
	DigitsPattern = `^[0-9]+$`

	// SignedDigitsPattern accepts whole numbers with an optional sign
	SignedDigitsPattern = `^[+-]?[0-9]+$`

	PhoneLength   = 10
	PincodeLength = 6
	ISBNLength    = 13

	// TextLength bounds names and emails
	TextLength = 255
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Name         *regexp.Regexp
	Email        *regexp.Regexp
	Digits       *regexp.Regexp
	SignedDigits *regexp.Regexp
}{
	Name:         regexp.MustCompile(NamePattern),
	Email:        regexp.MustCompile(EmailPattern),
	Digits:       regexp.MustCompile(DigitsPattern),
	SignedDigits: regexp.MustCompile(SignedDigitsPattern),
}

// StringValidation checks a single text field
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithExactLength requires exactly n characters
func (v *StringValidation) WithExactLength(n int) *StringValidation {
	v.MinLen = n
	v.MaxLen = n
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}

	// Skip other validations for empty optional values
	if !v.Required && v.Value == "" {
		return true
	}

	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}

	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// IsBlank reports whether s holds only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsDigits reports whether s is a non-empty run of ASCII digits
func IsDigits(s string) bool {
	return CompiledPatterns.Digits.MatchString(s)
}

// ParseWhole parses an unsigned whole number
func ParseWhole(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !IsDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// ParseSigned parses a whole number with an optional sign
func ParseSigned(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !CompiledPatterns.SignedDigits.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// ParseDecimal parses a plain decimal such as "87" or "87.5"
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// Reject forms ParseFloat accepts that a clerk would not type
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.ContainsAny(lower, "ex_") {
		return 0, false
	}
	return f, true
}
