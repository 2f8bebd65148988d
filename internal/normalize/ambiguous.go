package normalize

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

var digitRuns = regexp.MustCompile(`\d+`)

var errAmbiguousDate = errors.New("ambiguous date: no valid day/month/year arrangement")

// resolveAmbiguous is the last-resort numeric date heuristic. It pulls the
// first three digit runs out of the raw string, decides which one is the
// year, then tries the remaining two as day/month and month/day in that
// order.
//
// Year selection precedence:
//  1. third run looks like a year (>=1000 or >31);
//  2. else first run looks like a year;
//  3. else second run if >=1000;
//  4. else the third run by default.
//
// Day-first is always preferred when both arrangements are calendar-valid.
// That tie-break is a documented behavioral contract: "02/03/2020" resolves
// to March 2nd, never February 3rd.
func resolveAmbiguous(raw string) (time.Time, error) {
	runs := digitRuns.FindAllString(raw, 3)
	if len(runs) < 3 {
		return time.Time{}, errUnparsedDate
	}

	p1, err1 := strconv.Atoi(runs[0])
	p2, err2 := strconv.Atoi(runs[1])
	p3, err3 := strconv.Atoi(runs[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, errUnparsedDate
	}

	var year, d1, m1, d2, m2 int
	switch {
	case p3 >= 1000 || p3 > 31:
		year = p3
		d1, m1 = p1, p2
		d2, m2 = p2, p1
	case p1 >= 1000 || p1 > 31:
		year = p1
		d1, m1 = p2, p3
		d2, m2 = p3, p2
	case p2 >= 1000:
		year = p2
		d1, m1 = p3, p1
		d2, m2 = p1, p3
	default:
		year = p3
		d1, m1 = p1, p2
		d2, m2 = p2, p1
	}

	if year < 100 {
		year = pivotYear(year)
	}

	if t, ok := calendarDate(year, m1, d1); ok {
		return t, nil
	}
	if t, ok := calendarDate(year, m2, d2); ok {
		return t, nil
	}
	return time.Time{}, errAmbiguousDate
}

// calendarDate builds a date and reports whether (year, month, day) name a
// real calendar day. time.Date normalizes overflow (Feb 30 -> Mar 1/2), so
// the round-trip check catches invalid combinations.
func calendarDate(year, month, day int) (time.Time, bool) {
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
