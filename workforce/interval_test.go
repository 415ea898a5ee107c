package workforce_test

import (
	"testing"
	"time"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

func date(y, m, d int) workforce.Date {
	return workforce.NewDate(y, time.Month(m), d)
}

// =============================================================================
// OVERLAP SEMANTICS
// =============================================================================

func TestDateRange_Overlaps_HalfOpen(t *testing.T) {
	// GIVEN: Two ranges where one ends exactly when the other starts
	a := workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)}
	b := workforce.DateRange{Start: date(2025, 1, 15), End: date(2025, 1, 20)}

	// THEN: They do not overlap
	if a.Overlaps(b) {
		t.Error("range ending exactly when another starts must not overlap")
	}
	if b.Overlaps(a) {
		t.Error("overlap must be symmetric")
	}
}

func TestDateRange_Overlaps_Partial(t *testing.T) {
	a := workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)}
	b := workforce.DateRange{Start: date(2025, 1, 12), End: date(2025, 1, 20)}

	if !a.Overlaps(b) {
		t.Error("partially overlapping ranges must overlap")
	}
	if !b.Overlaps(a) {
		t.Error("overlap must be symmetric")
	}
}

func TestDateRange_Overlaps_Contained(t *testing.T) {
	outer := workforce.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 31)}
	inner := workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 12)}

	if !outer.Overlaps(inner) || !inner.Overlaps(outer) {
		t.Error("contained range must overlap its container")
	}
}

func TestDateRange_InclusiveDays(t *testing.T) {
	// A single day counts as 1; Mon..Fri counts as 5.
	cases := []struct {
		start, end workforce.Date
		want       int
	}{
		{date(2025, 3, 10), date(2025, 3, 10), 1},
		{date(2025, 3, 10), date(2025, 3, 14), 5},
		{date(2025, 2, 27), date(2025, 3, 2), 4},
	}
	for _, c := range cases {
		r := workforce.DateRange{Start: c.start, End: c.end}
		if got := r.InclusiveDays(); got != c.want {
			t.Errorf("InclusiveDays(%s..%s) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

// =============================================================================
// ADVANCE NOTICE
// =============================================================================

func TestMeetsAdvanceNotice(t *testing.T) {
	today := date(2025, 6, 1)

	// GIVEN: Policy requires 7 days notice
	// WHEN: Request starts in 3 days
	// THEN: Notice is not met
	if workforce.MeetsAdvanceNotice(today.AddDays(3), today, 7) {
		t.Error("3 days notice must fail a 7 day requirement")
	}

	// Exactly at the boundary passes
	if !workforce.MeetsAdvanceNotice(today.AddDays(7), today, 7) {
		t.Error("exactly 7 days notice must pass a 7 day requirement")
	}

	// Zero or negative requirement always passes
	if !workforce.MeetsAdvanceNotice(today, today, 0) {
		t.Error("zero requirement must always pass")
	}
	if !workforce.MeetsAdvanceNotice(today.AddDays(-5), today, -1) {
		t.Error("negative requirement must always pass")
	}
}

// =============================================================================
// BLACKOUTS AND CONSECUTIVE DAYS
// =============================================================================

func TestBlackoutViolations(t *testing.T) {
	blackouts := []workforce.BlackoutDate{
		{Name: "Memorial weekend", Start: date(2025, 5, 24), End: date(2025, 5, 27)},
		{Name: "Independence Day", Start: date(2025, 7, 4), End: date(2025, 7, 5)},
	}

	// Overlapping the first blackout only
	hits := workforce.BlackoutViolations(
		workforce.DateRange{Start: date(2025, 5, 26), End: date(2025, 5, 30)}, blackouts)
	if len(hits) != 1 || hits[0].Name != "Memorial weekend" {
		t.Fatalf("expected Memorial weekend violation, got %v", hits)
	}

	// Ending exactly at a blackout start does not violate
	hits = workforce.BlackoutViolations(
		workforce.DateRange{Start: date(2025, 7, 1), End: date(2025, 7, 4)}, blackouts)
	if len(hits) != 0 {
		t.Errorf("window ending at blackout start must not violate, got %v", hits)
	}
}

func TestExceedsConsecutiveDays(t *testing.T) {
	window := workforce.DateRange{Start: date(2025, 8, 1), End: date(2025, 8, 10)} // 10 inclusive days

	if !workforce.ExceedsConsecutiveDays(window, 9) {
		t.Error("10 days must exceed a limit of 9")
	}
	if workforce.ExceedsConsecutiveDays(window, 10) {
		t.Error("10 days must not exceed a limit of 10")
	}
	if workforce.ExceedsConsecutiveDays(window, 0) {
		t.Error("zero limit disables the check")
	}
}

// =============================================================================
// SCHEDULE CONFLICTS AND CONCURRENCY
// =============================================================================

func activePto(id string, emp workforce.EmployeeID, role string, start, end workforce.Date, status workforce.PtoStatus) workforce.PtoRequest {
	return workforce.PtoRequest{
		ID:        workforce.PtoRequestID(id),
		Employee:  workforce.EmployeeRef{ID: emp, Role: role},
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
}

func TestHasScheduleConflict(t *testing.T) {
	existing := []workforce.PtoRequest{
		activePto("r1", "emp-1", "director", date(2025, 4, 10), date(2025, 4, 15), workforce.PtoApproved),
		activePto("r2", "emp-1", "director", date(2025, 5, 1), date(2025, 5, 5), workforce.PtoCancelled),
		activePto("r3", "emp-2", "director", date(2025, 4, 10), date(2025, 4, 15), workforce.PtoPending),
	}

	// Overlapping window for the same employee conflicts
	if !workforce.HasScheduleConflict("emp-1", workforce.DateRange{Start: date(2025, 4, 12), End: date(2025, 4, 20)}, existing) {
		t.Error("overlapping active request for same employee must conflict")
	}

	// Cancelled requests do not conflict
	if workforce.HasScheduleConflict("emp-1", workforce.DateRange{Start: date(2025, 5, 2), End: date(2025, 5, 4)}, existing) {
		t.Error("cancelled request must not conflict")
	}

	// A different employee's overlap is not this employee's conflict
	if workforce.HasScheduleConflict("emp-3", workforce.DateRange{Start: date(2025, 4, 10), End: date(2025, 4, 15)}, existing) {
		t.Error("other employees' requests must not conflict")
	}

	// Adjacent windows do not conflict
	if workforce.HasScheduleConflict("emp-1", workforce.DateRange{Start: date(2025, 4, 15), End: date(2025, 4, 20)}, existing) {
		t.Error("window starting when another ends must not conflict")
	}
}

func TestCountConcurrent(t *testing.T) {
	requests := []workforce.PtoRequest{
		activePto("r1", "emp-1", "director", date(2025, 4, 10), date(2025, 4, 15), workforce.PtoApproved),
		activePto("r2", "emp-2", "director", date(2025, 4, 12), date(2025, 4, 18), workforce.PtoPending),
		activePto("r3", "emp-3", "embalmer", date(2025, 4, 12), date(2025, 4, 18), workforce.PtoPending),
		activePto("r4", "emp-4", "director", date(2025, 4, 12), date(2025, 4, 18), workforce.PtoRejected),
	}
	window := workforce.DateRange{Start: date(2025, 4, 13), End: date(2025, 4, 14)}

	if got := workforce.CountConcurrent(requests, window, "director"); got != 2 {
		t.Errorf("expected 2 concurrent directors, got %d", got)
	}
	if got := workforce.CountConcurrent(requests, window, ""); got != 3 {
		t.Errorf("expected 3 concurrent overall, got %d", got)
	}
}

// =============================================================================
// DATE HELPERS
// =============================================================================

func TestDaysBetween(t *testing.T) {
	if got := workforce.DaysBetween(date(2025, 1, 10), date(2025, 1, 15)); got != 5 {
		t.Errorf("DaysBetween = %d, want 5", got)
	}
	if got := workforce.DaysBetween(date(2025, 1, 15), date(2025, 1, 10)); got != -5 {
		t.Errorf("DaysBetween reversed = %d, want -5", got)
	}
}

func TestMonthBounds(t *testing.T) {
	d := date(2025, 2, 14)
	if got := workforce.StartOfMonth(d); !got.Equal(date(2025, 2, 1)) {
		t.Errorf("StartOfMonth = %s", got)
	}
	if got := workforce.EndOfMonth(d); !got.Equal(date(2025, 2, 28)) {
		t.Errorf("EndOfMonth = %s", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := workforce.ParseDate("2025-01-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2025-01-10" {
		t.Errorf("round trip = %s", d)
	}
	if _, err := workforce.ParseDate("10/01/2025"); err == nil {
		t.Error("expected error for non-ISO format")
	}
}
