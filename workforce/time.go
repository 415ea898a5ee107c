package workforce

import (
	"time"
)

// =============================================================================
// DATE - Calendar-day time abstraction (scheduling works in whole days)
// =============================================================================

// Date is a calendar day in UTC. All absence scheduling in this package
// operates at day granularity; wall-clock time is discarded on construction.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now().UTC())
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// DaysBetween returns the whole-day span from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// StartOfMonth and EndOfMonth bound the month containing d.
func StartOfMonth(d Date) Date { return NewDate(d.Year(), d.Month(), 1) }
func EndOfMonth(d Date) Date {
	return NewDate(d.Year(), d.Month()+1, 1).AddDays(-1)
}

// =============================================================================
// DATE RANGE - Interval of calendar days
// =============================================================================

// DateRange is an interval of calendar days. Interpretation depends on the
// operation: day counting is inclusive of both endpoints (a one-day absence
// has Start == End), while overlap detection is half-open so an interval
// ending exactly when another starts does not collide.
type DateRange struct {
	Start Date
	End   Date
}

func NewDateRange(start, end Date) DateRange {
	return DateRange{Start: start, End: end}
}

// IsValid reports whether the range is well-formed (Start <= End).
func (r DateRange) IsValid() bool { return r.Start.BeforeOrEqual(r.End) }

// InclusiveDays returns the day count with both endpoints included.
// A range where Start == End counts as one day.
func (r DateRange) InclusiveDays() int {
	return DaysBetween(r.Start, r.End) + 1
}

// Overlaps reports half-open interval overlap:
// r.Start < other.End && other.Start < r.End.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the day falls within [Start, End] inclusive.
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// =============================================================================
// HOLIDAY CALENDAR - External lookup, stubbed by default
// =============================================================================

// HolidayCalendar answers whether a date is an organization holiday.
// The real calendar lives outside this engine; callers inject one.
type HolidayCalendar interface {
	IsHoliday(organizationID OrganizationID, date Date) bool
}

// NoHolidays is the default calendar: nothing is a holiday.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(OrganizationID, Date) bool { return false }
