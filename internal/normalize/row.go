package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RawRow is one parsed input line: field name -> raw value. Field names are
// matched case-insensitively; values may still carry whitespace or Unicode
// junk. A RawRow is owned by whichever stage currently processes it.
type RawRow map[string]string

// Contact is the canonical output record.
type Contact struct {
	ID    string
	Phone string // "+<8..15 digits>"
	DOB   string // "YYYY-MM-DD"
}

// ErrMissingID is the first-ranked row failure; a row without an id is never
// reported as a phone or date failure.
var ErrMissingID = errors.New("missing id")

// Normalizer applies the ordered row transform. The zero value is not usable;
// construct with New.
type Normalizer struct {
	Phone PhoneRule

	// Now is the clock used for the future-date check. Tests override it.
	Now func() time.Time
}

func New(rule PhoneRule) *Normalizer {
	if rule.CountryCode == "" {
		rule = DefaultPhoneRule
	}
	if rule.LocalDigits <= 0 {
		rule.LocalDigits = DefaultPhoneRule.LocalDigits
	}
	return &Normalizer{Phone: rule, Now: time.Now}
}

// Row normalizes one input row or fails with a labeled reason. Failure causes
// are checked strictly in order: missing id, then phone, then date.
func (n *Normalizer) Row(raw RawRow) (Contact, error) {
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(strings.TrimSpace(k))] = Clean(v)
	}

	id := fields["id"]
	if id == "" {
		return Contact{}, ErrMissingID
	}

	phone, err := NormalizePhone(fields["phone"], n.Phone)
	if err != nil {
		return Contact{}, fmt.Errorf("invalid phone: %s", fields["phone"])
	}

	dob, err := NormalizeDate(fields["dob"], n.Now())
	if err != nil {
		return Contact{}, fmt.Errorf("invalid date: %s", fields["dob"])
	}

	return Contact{ID: id, Phone: phone, DOB: dob}, nil
}

// ID extracts the trimmed id field from a row without validating the rest.
// The pipeline uses it to label error lines for rows that failed.
func ID(raw RawRow) string {
	for k, v := range raw {
		if strings.ToLower(strings.TrimSpace(k)) == "id" {
			return Clean(v)
		}
	}
	return ""
}
