package normalize

import (
	"errors"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// dateLayout pairs a time.Parse layout with whether it carries a two-digit
// year. Go's own two-digit expansion (69..99 -> 19xx, 00..68 -> 20xx) differs
// from the pivot rule used here, so flagged layouts get their year re-derived
// after parsing.
type dateLayout struct {
	layout       string
	twoDigitYear bool
}

// dateLayouts is tried strictly in order; the first layout that parses the
// full input wins. The ordering is a disambiguation policy, not an
// optimization: year-first numeric forms come before month-name forms, and
// day-first numeric forms before month-first, so "01/02/1990" resolves as
// day-first. Do not reorder.
var dateLayouts = []dateLayout{
	// Year-first numeric.
	{layout: "2006-01-02"},
	{layout: "2006/01/02"},
	{layout: "2006.01.02"},
	{layout: "20060102"},
	// Month-name forms, full-year.
	{layout: "02-Jan-2006"},
	{layout: "02-January-2006"},
	{layout: "02 Jan 2006"},
	{layout: "02 January 2006"},
	{layout: "Jan-02-2006"},
	{layout: "January-02-2006"},
	{layout: "Jan 02 2006"},
	{layout: "January 02 2006"},
	{layout: "Jan 02, 2006"},
	{layout: "January 02, 2006"},
	// Month-name forms, two-digit-year.
	{layout: "02-Jan-06", twoDigitYear: true},
	{layout: "02-January-06", twoDigitYear: true},
	{layout: "02 Jan 06", twoDigitYear: true},
	{layout: "02.Jan.2006"},
	{layout: "02.January.2006"},
	{layout: "02/Jan/06", twoDigitYear: true},
	{layout: "02/January/06", twoDigitYear: true},
	{layout: "2006-Jan-02"},
	{layout: "2006 Jan 02"},
	// Day-first numeric.
	{layout: "02.01.2006"},
	{layout: "02/01/2006"},
	{layout: "02-01-2006"},
	{layout: "02-01-06", twoDigitYear: true},
	{layout: "02/01/06", twoDigitYear: true},
	// Month-first numeric.
	{layout: "01.02.2006"},
	{layout: "01/02/2006"},
	{layout: "01-02-2006"},
	{layout: "01-02-06", twoDigitYear: true},
	{layout: "01/02/06", twoDigitYear: true},
}

var (
	errEmptyDate    = errors.New("empty date")
	errFutureDate   = errors.New("date is in the future")
	errUnparsedDate = errors.New("unrecognized date")
)

// NormalizeDate parses a raw date value into "YYYY-MM-DD". Dates strictly
// after now are rejected. When no explicit layout matches, the numeric
// ambiguity resolver (ambiguous.go) is consulted as a last resort.
func NormalizeDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyDate
	}

	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, raw)
		if err != nil {
			continue
		}
		if dl.twoDigitYear {
			t = applyYearPivot(t)
		}
		if t.After(now) {
			return "", errFutureDate
		}
		return t.Format(isoDate), nil
	}

	t, err := resolveAmbiguous(raw)
	if err != nil {
		return "", err
	}
	if t.After(now) {
		return "", errFutureDate
	}
	return t.Format(isoDate), nil
}

// applyYearPivot rewrites a date parsed from a two-digit-year layout using
// the pivot rule: 00..25 -> 2000..2025, 26..99 -> 1926..1999.
func applyYearPivot(t time.Time) time.Time {
	return time.Date(pivotYear(t.Year()%100), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func pivotYear(yy int) int {
	if yy <= 25 {
		return 2000 + yy
	}
	return 1900 + yy
}
