package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDate is returned when captured date parts pass the digit-shape
// check but do not form a real calendar date (month 13, February 30, ...).
var ErrInvalidDate = errors.New("invalid date")

// PartialDate is a date specification with one or more trailing fields
// absent. A zero field means the field was not captured. A month or day is
// never present without the coarser fields before it.
type PartialDate struct {
	Year  int
	Month int
	Day   int
}

// IsZero reports whether no field was captured at all.
func (d PartialDate) IsZero() bool { return d.Year == 0 }

// HasMonth reports whether the month field was captured.
func (d PartialDate) HasMonth() bool { return d.Month != 0 }

// HasDay reports whether the day field was captured.
func (d PartialDate) HasDay() bool { return d.Day != 0 }

// String renders the captured fields in year/month/day path form.
func (d PartialDate) String() string {
	switch {
	case d.IsZero():
		return ""
	case d.HasDay():
		return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
	case d.HasMonth():
		return fmt.Sprintf("%04d/%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d", d.Year)
	}
}

// DateRange is a half-open UTC interval [Start, End). The zero value means
// unbounded (all time).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is unbounded.
func (r DateRange) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	return !t.Before(r.Start) && t.Before(r.End)
}

// Range converts the partial date to the half-open interval it implies:
// the whole year, the whole month, or the single day. A zero PartialDate
// yields the unbounded range.
func (d PartialDate) Range() DateRange {
	switch {
	case d.IsZero():
		return DateRange{}
	case d.HasDay():
		start := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 0, 1)}
	case d.HasMonth():
		start := time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		start := time.Date(d.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(1, 0, 0)}
	}
}

// ValidateDateParts checks captured year/month/day strings for calendar
// correctness, not just digit shape. Empty strings mean the field was not
// captured; a finer field without its coarser fields is invalid. The returned
// PartialDate carries only the fields that were present.
func ValidateDateParts(year, month, day string) (PartialDate, error) {
	var d PartialDate

	if year == "" {
		if month != "" || day != "" {
			return PartialDate{}, fmt.Errorf("%w: month or day without year", ErrInvalidDate)
		}
		return d, nil
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return PartialDate{}, fmt.Errorf("%w: year %q", ErrInvalidDate, year)
	}
	d.Year = y

	if month == "" {
		if day != "" {
			return PartialDate{}, fmt.Errorf("%w: day without month", ErrInvalidDate)
		}
		return d, nil
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return PartialDate{}, fmt.Errorf("%w: month %q", ErrInvalidDate, month)
	}
	d.Month = m

	if day == "" {
		return d, nil
	}
	dd, err := strconv.Atoi(day)
	if err != nil || dd < 1 {
		return PartialDate{}, fmt.Errorf("%w: day %q", ErrInvalidDate, day)
	}
	// time.Date normalizes out-of-range days (Feb 30 becomes Mar 2), so a
	// round-trip that changes the day exposes an impossible date.
	if t := time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC); t.Day() != dd || t.Month() != time.Month(m) {
		return PartialDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, y, m, dd)
	}
	d.Day = dd
	return d, nil
}
