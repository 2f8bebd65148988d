// Package normalize implements the per-field and per-row normalization rules
// for contact records: phone numbers to E.164-shaped strings, dates of birth
// to ISO calendar dates, and the ordered row-level transform combining both.
//
// All functions here are pure and side-effect free so that the pipeline can
// replicate them across workers without coordination.
package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// E.164 bounds applied to the significant digits (country code included).
const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// PhoneRule configures how numbers without an international prefix are
// interpreted. It is deliberately configuration, not a constant: the pipeline
// passes it in from the decoded config.
type PhoneRule struct {
	// CountryCode is the home country calling code, digits only (e.g. "971").
	CountryCode string

	// LocalDigits is the total digit count of a local mobile number written
	// with its leading zero (e.g. 10 for "0501234567").
	LocalDigits int
}

// DefaultPhoneRule matches the UAE numbering the datasets were collected under.
var DefaultPhoneRule = PhoneRule{CountryCode: "971", LocalDigits: 10}

var (
	errEmptyPhone  = errors.New("empty phone")
	errNoDigits    = errors.New("no digits")
	errPhoneLength = fmt.Errorf("digit count outside [%d,%d]", minPhoneDigits, maxPhoneDigits)
)

// NormalizePhone converts a raw phone value into canonical "+<digits>" form,
// or returns an error when the value cannot be a valid number.
//
// Rules, in order:
//  1. a leading '+' is authoritative: keep it, drop every other non-digit;
//  2. otherwise strip non-digits and treat a leading-zero number of exactly
//     rule.LocalDigits digits as a local mobile for rule.CountryCode;
//  3. otherwise a digit string already starting with the country code, or any
//     digit string of plausible E.164 length, is kept as-is behind '+'.
func NormalizePhone(raw string, rule PhoneRule) (string, error) {
	if raw == "" {
		return "", errEmptyPhone
	}
	if rule.CountryCode == "" {
		rule = DefaultPhoneRule
	}

	if strings.HasPrefix(raw, "+") {
		digits := keepDigits(raw[1:])
		if digits == "" {
			return "", errNoDigits
		}
		if !plausibleLength(digits) {
			return "", errPhoneLength
		}
		return "+" + digits, nil
	}

	digits := keepDigits(raw)
	if digits == "" {
		return "", errNoDigits
	}

	// Local mobile: 0XXXXXXXXX -> +<cc>XXXXXXXXX.
	if strings.HasPrefix(digits, "0") && len(digits) == rule.LocalDigits {
		return "+" + rule.CountryCode + digits[1:], nil
	}

	// Country code present but '+' missing.
	if strings.HasPrefix(digits, rule.CountryCode) && plausibleLength(digits) {
		return "+" + digits, nil
	}

	// International number missing its '+'.
	if plausibleLength(digits) {
		return "+" + digits, nil
	}

	return "", errPhoneLength
}

func plausibleLength(digits string) bool {
	return len(digits) >= minPhoneDigits && len(digits) <= maxPhoneDigits
}

// keepDigits returns s with every non-ASCII-digit byte removed.
func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
