/*
interval.go - Scheduling predicates for absence windows

PURPOSE:
  Pure interval reasoning used by every workflow: overlap, advance notice,
  blackout windows, consecutive-day limits, and concurrency counting.

KEY PROPERTIES:
  - Total: every function returns a boolean/count/slice, never an error
  - Pure: "now" is always an explicit argument, never read from the clock
  - Half-open overlap: a window ending exactly when another starts does
    not collide; day counting is inclusive of both endpoints

SEE ALSO:
  - time.go: Date/DateRange primitives
  - policy.go: BlackoutDate and the policy limits these check
*/
package workforce

// =============================================================================
// ADVANCE NOTICE
// =============================================================================

// MeetsAdvanceNotice reports whether the request start date is at least
// minDays calendar days after today. A zero or negative minimum always passes.
func MeetsAdvanceNotice(start Date, today Date, minDays int) bool {
	if minDays <= 0 {
		return true
	}
	return DaysBetween(today, start) >= minDays
}

// =============================================================================
// BLACKOUT WINDOWS
// =============================================================================

// BlackoutViolations returns every blackout entry the requested window
// overlaps. Empty result means the request is clear. The overlapping entries
// are returned (not just a flag) so error messages can name them.
func BlackoutViolations(window DateRange, blackouts []BlackoutDate) []BlackoutDate {
	var hits []BlackoutDate
	for _, b := range blackouts {
		if window.Overlaps(DateRange{Start: b.Start, End: b.End}) {
			hits = append(hits, b)
		}
	}
	return hits
}

// =============================================================================
// CONSECUTIVE DAYS
// =============================================================================

// ExceedsConsecutiveDays reports whether the inclusive day count of the
// window exceeds maxDays. Zero or negative maxDays means no limit.
func ExceedsConsecutiveDays(window DateRange, maxDays int) bool {
	if maxDays <= 0 {
		return false
	}
	return window.InclusiveDays() > maxDays
}

// =============================================================================
// SCHEDULE CONFLICT
// =============================================================================

// HasScheduleConflict reports whether any of the employee's existing
// requests in an active state overlaps the new window. Requests belonging
// to other employees and terminal requests (rejected, cancelled) are ignored.
func HasScheduleConflict(employeeID EmployeeID, window DateRange, existing []PtoRequest) bool {
	for i := range existing {
		r := &existing[i]
		if r.Employee.ID != employeeID || !r.Status.IsActive() {
			continue
		}
		if window.Overlaps(r.Window()) {
			return true
		}
	}
	return false
}

// =============================================================================
// CONCURRENCY COUNTING
// =============================================================================

// CountConcurrent returns how many requests overlap the window, optionally
// filtered by employee role (empty role matches everyone). Used against the
// policy's maximum concurrent employees on PTO.
func CountConcurrent(requests []PtoRequest, window DateRange, role string) int {
	count := 0
	for i := range requests {
		r := &requests[i]
		if role != "" && r.Employee.Role != role {
			continue
		}
		if window.Overlaps(r.Window()) {
			count++
		}
	}
	return count
}
