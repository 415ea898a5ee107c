package workforce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// =============================================================================
// ESTIMATORS
// =============================================================================

func TestEstimatedCoverageHours(t *testing.T) {
	// GIVEN: A two-day span at 8 hours per day
	got := workforce.EstimatedCoverageHours(date(2025, 2, 1), date(2025, 2, 3), 8)
	// THEN: 2 days × 8 hours
	assert.True(t, got.Equal(workforce.Money(16)), "got %s", got)

	// Start == End still needs one day of coverage
	got = workforce.EstimatedCoverageHours(date(2025, 2, 1), date(2025, 2, 1), 8)
	assert.True(t, got.Equal(workforce.Money(8)), "got %s", got)

	// Non-positive hoursPerDay falls back to the default shift
	got = workforce.EstimatedCoverageHours(date(2025, 2, 1), date(2025, 2, 2), 0)
	assert.True(t, got.Equal(workforce.Money(workforce.DefaultHoursPerDay)), "got %s", got)
}

func TestEstimatedPremiumPay(t *testing.T) {
	got := workforce.EstimatedPremiumPay(workforce.Money(16), workforce.Money(25), workforce.Money(1.5))
	assert.True(t, got.Equal(workforce.Money(600)), "got %s", got)
}

// =============================================================================
// COVERAGE SUMMARY
// =============================================================================

func assignment(id, absenceID string, status workforce.BackfillStatus, hours, multiplier float64) workforce.BackfillAssignment {
	return workforce.BackfillAssignment{
		ID:                workforce.AssignmentID(id),
		OrganizationID:    "org-1",
		Absence:           workforce.AbsenceRef{AbsenceID: absenceID, Type: workforce.AbsencePto, Start: date(2025, 1, 10), End: date(2025, 1, 15)},
		BackfillEmployee:  workforce.EmployeeRef{ID: "emp-2"},
		PremiumMultiplier: workforce.Money(multiplier),
		EstimatedHours:    workforce.Money(hours),
		Status:            status,
	}
}

func TestComputeCoverageSummary(t *testing.T) {
	backfills := []workforce.BackfillAssignment{
		assignment("a1", "req-1", workforce.BackfillConfirmed, 40, 1.0),
		assignment("a2", "req-1", workforce.BackfillPendingConfirmation, 40, 1.5),
		assignment("a3", "req-1", workforce.BackfillRejected, 40, 1.0),
		assignment("a4", "req-other", workforce.BackfillConfirmed, 40, 1.0),
	}

	s := workforce.ComputeCoverageSummary("req-1", backfills, 2, workforce.Money(25))

	assert.Equal(t, 1, s.ConfirmedCount)
	assert.Equal(t, 1, s.PendingCount)
	assert.Equal(t, 1, s.RejectedCount)
	assert.False(t, s.CoverageComplete, "1 confirmed of 2 needed")

	// Cost sums confirmed + pending, skips rejected and other absences:
	// 40×25×1.0 + 40×25×1.5 = 1000 + 1500
	assert.True(t, s.EstimatedCost.Equal(workforce.Money(2500)), "got %s", s.EstimatedCost)
}

func TestComputeCoverageSummary_CompleteAndDefaults(t *testing.T) {
	backfills := []workforce.BackfillAssignment{
		assignment("a1", "req-1", workforce.BackfillCompleted, 40, 1.0),
	}

	// totalNeeded <= 0 defaults to one cover; completed counts as confirmed
	s := workforce.ComputeCoverageSummary("req-1", backfills, 0, workforce.Money(25))
	assert.Equal(t, 1, s.TotalNeeded)
	assert.Equal(t, 1, s.ConfirmedCount)
	assert.True(t, s.CoverageComplete)
}

// =============================================================================
// EMPLOYEE WORKLOAD
// =============================================================================

func workloadAssignment(id string, emp workforce.EmployeeID, status workforce.BackfillStatus, start, end workforce.Date, hours float64) workforce.BackfillAssignment {
	return workforce.BackfillAssignment{
		ID:                workforce.AssignmentID(id),
		OrganizationID:    "org-1",
		Absence:           workforce.AbsenceRef{AbsenceID: "abs-" + id, Type: workforce.AbsencePto, Start: start, End: end},
		BackfillEmployee:  workforce.EmployeeRef{ID: emp},
		PremiumMultiplier: workforce.Money(1.0),
		EstimatedHours:    workforce.Money(hours),
		Status:            status,
	}
}

func TestComputeEmployeeWorkload(t *testing.T) {
	january := workforce.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 31)}
	backfills := []workforce.BackfillAssignment{
		workloadAssignment("a1", "emp-2", workforce.BackfillConfirmed, date(2025, 1, 10), date(2025, 1, 15), 40),
		workloadAssignment("a2", "emp-2", workforce.BackfillPendingConfirmation, date(2025, 1, 20), date(2025, 1, 22), 16),
		// Outside the month
		workloadAssignment("a3", "emp-2", workforce.BackfillConfirmed, date(2025, 2, 10), date(2025, 2, 12), 16),
		// Non-blocking statuses are ignored
		workloadAssignment("a4", "emp-2", workforce.BackfillSuggested, date(2025, 1, 5), date(2025, 1, 6), 8),
		workloadAssignment("a5", "emp-2", workforce.BackfillCancelled, date(2025, 1, 5), date(2025, 1, 6), 8),
	}

	w := workforce.ComputeEmployeeWorkload("emp-2", backfills, january, workforce.Money(25), workforce.Money(80))

	assert.Equal(t, 1, w.ConfirmedCount)
	assert.Equal(t, 1, w.PendingCount)
	assert.True(t, w.TotalHours.Equal(workforce.Money(56)), "got %s", w.TotalHours)
	assert.True(t, w.TotalCost.Equal(workforce.Money(1400)), "got %s", w.TotalCost)
	assert.False(t, w.MaxCapacityReached, "56 < 80")
}

func TestComputeEmployeeWorkload_CapacityReached(t *testing.T) {
	january := workforce.DateRange{Start: date(2025, 1, 1), End: date(2025, 1, 31)}
	backfills := []workforce.BackfillAssignment{
		workloadAssignment("a1", "emp-2", workforce.BackfillConfirmed, date(2025, 1, 5), date(2025, 1, 10), 48),
		workloadAssignment("a2", "emp-2", workforce.BackfillConfirmed, date(2025, 1, 12), date(2025, 1, 16), 32),
	}

	w := workforce.ComputeEmployeeWorkload("emp-2", backfills, january, workforce.Money(25), workforce.Money(80))
	require.True(t, w.TotalHours.Equal(workforce.Money(80)))
	assert.True(t, w.MaxCapacityReached, "hitting the ceiling exactly flags capacity")

	// Ceiling <= 0 disables the flag
	w = workforce.ComputeEmployeeWorkload("emp-2", backfills, january, workforce.Money(25), workforce.Money(0))
	assert.False(t, w.MaxCapacityReached)
}
