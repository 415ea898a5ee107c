package workforce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// holidayOn marks a single date as a holiday.
type holidayOn struct{ day workforce.Date }

func (h holidayOn) IsHoliday(_ workforce.OrganizationID, d workforce.Date) bool {
	return d.Equal(h.day)
}

func suggestedAssignment(t *testing.T, start, end workforce.Date) workforce.BackfillAssignment {
	t.Helper()
	a, err := workforce.NewBackfillAssignment(
		"bf-1", "org-1",
		workforce.AbsenceRef{AbsenceID: "req-1", Type: workforce.AbsencePto, Start: start, End: end},
		workforce.EmployeeRef{ID: "emp-1", Name: "Dana", Role: "director"},
		workforce.EmployeeRef{ID: "emp-2", Name: "Jo", Role: "director"},
		workforce.PremiumNone,
		workforce.Money(1.0), workforce.Money(40),
		"mgr-1", testClock,
	)
	require.NoError(t, err)
	return a
}

// =============================================================================
// PREMIUM CLASSIFICATION
// =============================================================================

func TestClassifyPremiumType(t *testing.T) {
	// 2025-01-11 is a Saturday
	weekend := workforce.DateRange{Start: date(2025, 1, 11), End: date(2025, 1, 12)}
	weekdays := workforce.DateRange{Start: date(2025, 1, 13), End: date(2025, 1, 15)}

	assert.Equal(t, workforce.PremiumWeekend,
		workforce.ClassifyPremiumType(weekend, workforce.NoHolidays{}, "org-1"))
	assert.Equal(t, workforce.PremiumNone,
		workforce.ClassifyPremiumType(weekdays, workforce.NoHolidays{}, "org-1"))

	// Holiday outranks weekend
	cal := holidayOn{day: date(2025, 1, 11)}
	assert.Equal(t, workforce.PremiumHoliday,
		workforce.ClassifyPremiumType(weekend, cal, "org-1"))

	// Nil calendar behaves like NoHolidays
	assert.Equal(t, workforce.PremiumNone,
		workforce.ClassifyPremiumType(weekdays, nil, "org-1"))
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestBackfillAssignment_ConfirmationPath(t *testing.T) {
	a := suggestedAssignment(t, date(2025, 1, 10), date(2025, 1, 15))
	assert.Equal(t, workforce.BackfillSuggested, a.Status)

	pending, err := a.SendForConfirmation(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillPendingConfirmation, pending.Status)
	assert.True(t, pending.Status.Blocks())

	confirmed, err := pending.Confirm(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillConfirmed, confirmed.Status)
	assert.True(t, confirmed.Status.Blocks())

	completed, err := confirmed.Complete(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillCompleted, completed.Status)
	assert.True(t, completed.Status.IsTerminal())
	assert.False(t, completed.Status.Blocks())
}

func TestBackfillAssignment_SuggestedDoesNotBlock(t *testing.T) {
	a := suggestedAssignment(t, date(2025, 1, 10), date(2025, 1, 15))
	assert.False(t, a.Status.Blocks())
}

func TestBackfillAssignment_RejectAndCancelFromNonTerminal(t *testing.T) {
	a := suggestedAssignment(t, date(2025, 1, 10), date(2025, 1, 15))

	rejected, err := a.Reject(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillRejected, rejected.Status)

	_, err = rejected.Cancel(testClock)
	assert.Error(t, err, "terminal assignment cannot be cancelled")

	confirmed := mustConfirm(t, a)
	cancelled, err := confirmed.Cancel(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillCancelled, cancelled.Status)
}

func TestBackfillAssignment_Release(t *testing.T) {
	a := suggestedAssignment(t, date(2025, 1, 10), date(2025, 1, 15))

	// Confirmed coverage completes on release
	confirmed := mustConfirm(t, a)
	released, err := confirmed.Release(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillCompleted, released.Status)

	// Awaiting confirmation is cancelled on release
	pending, err := a.SendForConfirmation(testClock)
	require.NoError(t, err)
	released, err = pending.Release(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillCancelled, released.Status)

	// Terminal assignments cannot be released
	_, err = released.Release(testClock)
	assert.Error(t, err)
}

func mustConfirm(t *testing.T, a workforce.BackfillAssignment) workforce.BackfillAssignment {
	t.Helper()
	pending, err := a.SendForConfirmation(testClock)
	require.NoError(t, err)
	confirmed, err := pending.Confirm(testClock)
	require.NoError(t, err)
	return confirmed
}
