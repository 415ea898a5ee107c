package workforce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

func scheduledTraining(t *testing.T, scheduled, end workforce.Date) workforce.TrainingRecord {
	t.Helper()
	rec, err := workforce.NewTrainingRecord(
		"train-1", "org-1",
		workforce.EmployeeRef{ID: "emp-1", Name: "Dana", Role: "embalmer"},
		"certification", "Advanced Restorative Art",
		workforce.Money(16), workforce.Money(1200),
		scheduled, end,
		true, "emp-1", testClock,
	)
	require.NoError(t, err)
	return rec
}

func TestNewTrainingRecord_EndBeforeScheduledFails(t *testing.T) {
	_, err := workforce.NewTrainingRecord(
		"train-1", "org-1", workforce.EmployeeRef{ID: "emp-1"},
		"certification", "x", workforce.Money(8), workforce.Money(100),
		date(2025, 2, 3), date(2025, 2, 1),
		false, "emp-1", testClock,
	)
	assert.ErrorIs(t, err, workforce.ErrInvalidDateRange)
}

func TestIsMultiDay(t *testing.T) {
	assert.True(t, workforce.IsMultiDay(date(2025, 2, 1), date(2025, 2, 3)))
	assert.False(t, workforce.IsMultiDay(date(2025, 2, 1), date(2025, 2, 1)))
	assert.False(t, workforce.IsMultiDay(date(2025, 2, 1), workforce.Date{}))
}

func TestTrainingRecord_Span(t *testing.T) {
	rec := scheduledTraining(t, date(2025, 2, 1), date(2025, 2, 3))
	span := rec.Span()
	assert.True(t, span.Start.Equal(date(2025, 2, 1)))
	assert.True(t, span.End.Equal(date(2025, 2, 3)))

	// Started records span from the actual start date
	started, err := rec.Start(date(2025, 2, 2), testClock)
	require.NoError(t, err)
	assert.True(t, started.Span().Start.Equal(date(2025, 2, 2)))
}

func TestTrainingRecord_Lifecycle(t *testing.T) {
	rec := scheduledTraining(t, date(2025, 2, 1), date(2025, 2, 3))

	started, err := rec.Start(date(2025, 2, 1), testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.TrainingInProgress, started.Status)

	expires := date(2027, 2, 1)
	completed, err := started.Complete(workforce.Certification{
		Hours:               workforce.Money(18),
		CertificationNumber: "CERT-9981",
		ExpiresAt:           &expires,
	}, testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.TrainingCompleted, completed.Status)
	assert.Equal(t, "CERT-9981", completed.CertificationNumber)
	assert.True(t, completed.Hours.Equal(workforce.Money(18)), "actual hours override the estimate")

	// Terminal: no further transitions
	_, err = completed.Cancel(testClock)
	assert.Error(t, err)
	_, err = completed.Start(date(2025, 2, 5), testClock)
	assert.Error(t, err)
}

func TestTrainingRecord_CompleteDirectlyFromScheduled(t *testing.T) {
	// Single-day sessions are often completed without an explicit start
	rec := scheduledTraining(t, date(2025, 2, 1), workforce.Date{})

	completed, err := rec.Complete(workforce.Certification{}, testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.TrainingCompleted, completed.Status)
	assert.True(t, completed.Hours.Equal(workforce.Money(16)), "zero cert hours keep the estimate")
}

func TestTrainingRecord_CancelOnlyScheduled(t *testing.T) {
	rec := scheduledTraining(t, date(2025, 2, 1), date(2025, 2, 3))

	cancelled, err := rec.Cancel(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.TrainingCancelled, cancelled.Status)

	started, err := rec.Start(date(2025, 2, 1), testClock)
	require.NoError(t, err)
	_, err = started.Cancel(testClock)
	assert.Error(t, err, "in-progress training cannot be cancelled")
}
