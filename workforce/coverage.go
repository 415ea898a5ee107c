/*
coverage.go - Coverage and capacity calculators

PURPOSE:
  Pure derivations over raw assignment data: how complete an absence's
  coverage is, how loaded a backfill employee is this month, and the
  canonical hour/cost estimators every workflow shares.

CANONICAL ESTIMATOR:
  EstimatedCoverageHours is THE duration formula: whole-day ceiling of the
  window times hours per day. Every workflow uses it; no alternate
  computation exists anywhere in the engine.

SEE ALSO:
  - backfill.go: the assignment records these aggregate
  - workflow/backfill.go: where estimates feed approval decisions
*/
package workforce

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DURATION AND PAY ESTIMATORS
// =============================================================================

// EstimatedCoverageHours returns the whole-day span of the window times
// hoursPerDay. A window where Start == End still needs one day of coverage.
// Pass hoursPerDay <= 0 to use the default shift length.
func EstimatedCoverageHours(start, end Date, hoursPerDay int) decimal.Decimal {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	days := DaysBetween(start, end)
	if days < 1 {
		days = 1
	}
	return decimal.NewFromInt(int64(days)).Mul(decimal.NewFromInt(int64(hoursPerDay)))
}

// EstimatedPremiumPay returns hours × baseRate × premiumMultiplier.
// The premium type never enters this calculation; only the explicit
// multiplier does.
func EstimatedPremiumPay(hours, baseRate, premiumMultiplier decimal.Decimal) decimal.Decimal {
	return hours.Mul(baseRate).Mul(premiumMultiplier)
}

// =============================================================================
// COVERAGE SUMMARY
// =============================================================================

// CoverageSummary describes how covered an absence is.
type CoverageSummary struct {
	AbsenceID      string
	TotalNeeded    int
	ConfirmedCount int
	PendingCount   int
	RejectedCount  int
	// CoverageComplete is true once confirmed assignments meet the need.
	CoverageComplete bool
	// EstimatedCost sums hours × rate × multiplier over every assignment
	// that is not rejected or cancelled.
	EstimatedCost decimal.Decimal
}

// ComputeCoverageSummary aggregates the assignments linked to one absence.
// totalNeeded <= 0 defaults to a single cover. Assignments for other
// absences are ignored so callers can pass unfiltered lists.
func ComputeCoverageSummary(absenceID string, backfills []BackfillAssignment, totalNeeded int, hourlyRate decimal.Decimal) CoverageSummary {
	if totalNeeded <= 0 {
		totalNeeded = 1
	}
	s := CoverageSummary{
		AbsenceID:     absenceID,
		TotalNeeded:   totalNeeded,
		EstimatedCost: decimal.Zero,
	}

	for i := range backfills {
		b := &backfills[i]
		if b.Absence.AbsenceID != absenceID {
			continue
		}
		switch b.Status {
		case BackfillConfirmed, BackfillCompleted:
			s.ConfirmedCount++
		case BackfillPendingConfirmation, BackfillSuggested:
			s.PendingCount++
		case BackfillRejected:
			s.RejectedCount++
		}
		if b.Status != BackfillRejected && b.Status != BackfillCancelled {
			s.EstimatedCost = s.EstimatedCost.Add(
				EstimatedPremiumPay(b.EstimatedHours, hourlyRate, b.PremiumMultiplier))
		}
	}

	s.CoverageComplete = s.ConfirmedCount >= s.TotalNeeded
	return s
}

// =============================================================================
// EMPLOYEE WORKLOAD
// =============================================================================

// EmployeeWorkload describes a backfill employee's load inside one month.
type EmployeeWorkload struct {
	EmployeeID     EmployeeID
	Month          DateRange
	ConfirmedCount int
	PendingCount   int
	TotalHours     decimal.Decimal
	TotalCost      decimal.Decimal
	// MaxCapacityReached is true once assigned hours meet or exceed the
	// configured monthly ceiling. It produces a warning, never a hard stop.
	MaxCapacityReached bool
}

// ComputeEmployeeWorkload aggregates the employee's blocking assignments
// whose windows overlap the month. monthlyHourCeiling <= 0 disables the
// capacity flag.
func ComputeEmployeeWorkload(
	employeeID EmployeeID,
	backfills []BackfillAssignment,
	month DateRange,
	hourlyRate decimal.Decimal,
	monthlyHourCeiling decimal.Decimal,
) EmployeeWorkload {
	w := EmployeeWorkload{
		EmployeeID: employeeID,
		Month:      month,
		TotalHours: decimal.Zero,
		TotalCost:  decimal.Zero,
	}

	for i := range backfills {
		b := &backfills[i]
		if b.BackfillEmployee.ID != employeeID || !b.Status.Blocks() {
			continue
		}
		if !b.Window().Overlaps(month) {
			continue
		}
		switch b.Status {
		case BackfillConfirmed:
			w.ConfirmedCount++
		case BackfillPendingConfirmation:
			w.PendingCount++
		}
		w.TotalHours = w.TotalHours.Add(b.EstimatedHours)
		w.TotalCost = w.TotalCost.Add(
			EstimatedPremiumPay(b.EstimatedHours, hourlyRate, b.PremiumMultiplier))
	}

	if monthlyHourCeiling.IsPositive() {
		w.MaxCapacityReached = w.TotalHours.GreaterThanOrEqual(monthlyHourCeiling)
	}
	return w
}
