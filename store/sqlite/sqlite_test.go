package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admsmc/dykstra-funeral-website-sub009/store/sqlite"
	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

var testClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func date(y, m, d int) workforce.Date { return workforce.NewDate(y, time.Month(m), d) }

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "workforce.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var dana = workforce.EmployeeRef{ID: "emp-1", Name: "Dana", Role: "director"}

// =============================================================================
// PTO POLICIES (SCD2)
// =============================================================================

func TestSqlite_PtoPolicyVersionChain(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	v1 := workforce.PtoPolicy{
		Meta:                 workforce.NewPolicyMeta("pol-1", "org-1", "pto-policy-org-1", testClock),
		MinAdvanceNoticeDays: 7,
		BlackoutDates: []workforce.BlackoutDate{
			{Name: "Memorial weekend", Start: date(2025, 5, 24), End: date(2025, 5, 27)},
		},
		MaxConsecutivePtoDays: 10,
		MaxConcurrentOnPto:    2,
	}
	require.NoError(t, store.CreatePtoPolicy(ctx, v1))

	// Round trip of the current version, blackout dates included
	current, err := store.GetPtoPolicy(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 1, current.Meta.Version)
	assert.True(t, current.Meta.IsCurrent)
	require.Len(t, current.BlackoutDates, 1)
	assert.Equal(t, "Memorial weekend", current.BlackoutDates[0].Name)
	assert.True(t, current.BlackoutDates[0].Start.Equal(date(2025, 5, 24)))

	// Updating supersedes: new current version, old version closed
	updated := v1
	updated.MinAdvanceNoticeDays = 14
	next, err := store.UpdatePtoPolicy(ctx, "org-1", updated)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Meta.Version)
	assert.Equal(t, "pto-policy-org-1", next.Meta.BusinessKey)
	assert.True(t, next.Meta.IsCurrent)
	assert.Equal(t, 14, next.MinAdvanceNoticeDays)

	versions, err := store.ListPtoPolicyVersions(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.False(t, versions[0].Meta.IsCurrent)
	assert.NotNil(t, versions[0].Meta.ValidTo)
	assert.True(t, versions[1].Meta.IsCurrent)
	assert.Nil(t, versions[1].Meta.ValidTo)

	// The closed version stays addressable by ID
	old, err := store.GetPtoPolicyVersion(ctx, "pol-1")
	require.NoError(t, err)
	assert.Equal(t, 7, old.MinAdvanceNoticeDays)
}

func TestSqlite_PtoPolicyNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPtoPolicy(context.Background(), "org-none")
	assert.ErrorIs(t, err, workforce.ErrPolicyNotFound)

	_, err = store.UpdatePtoPolicy(context.Background(), "org-none", workforce.PtoPolicy{})
	assert.ErrorIs(t, err, workforce.ErrPolicyNotFound)
}

func TestSqlite_TrainingPolicyRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	policy := workforce.TrainingPolicy{
		Meta:                      workforce.NewPolicyMeta("tpol-1", "org-1", "training-policy-org-1", testClock),
		ApprovalRequiredAboveCost: workforce.Money(1000),
		RoleRequirements: map[string]workforce.RoleRequirement{
			"director": {AnnualTrainingHours: workforce.Money(40), AnnualTrainingBudget: workforce.Money(5000)},
			"embalmer": {AnnualTrainingHours: workforce.Money(24), AnnualTrainingBudget: workforce.Money(3000)},
		},
	}
	require.NoError(t, store.CreateTrainingPolicy(ctx, policy))

	got, err := store.GetTrainingPolicy(ctx, "org-1")
	require.NoError(t, err)
	assert.True(t, got.ApprovalRequiredAboveCost.Equal(workforce.Money(1000)))
	require.Len(t, got.RoleRequirements, 2)
	req, ok := got.RequirementForRole("embalmer")
	require.True(t, ok)
	assert.True(t, req.AnnualTrainingBudget.Equal(workforce.Money(3000)))

	next, err := store.UpdateTrainingPolicy(ctx, "org-1", got)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Meta.Version)
}

// =============================================================================
// PTO REQUESTS
// =============================================================================

func newRequest(t *testing.T, id string, emp workforce.EmployeeRef, start, end workforce.Date) workforce.PtoRequest {
	t.Helper()
	req, err := workforce.NewPtoRequest(
		workforce.PtoRequestID(id), "org-1", emp, workforce.PtoVacation,
		start, end, "spring break", string(emp.ID), testClock,
	)
	require.NoError(t, err)
	return req
}

func TestSqlite_PtoRequestRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := newRequest(t, "req-1", dana, date(2025, 3, 17), date(2025, 3, 21))
	draft.PolicyVersionID = "pol-1"
	require.NoError(t, store.CreatePtoRequest(ctx, draft))

	got, err := store.GetPtoRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoDraft, got.Status)
	assert.Equal(t, 5, got.RequestedDays)
	assert.Equal(t, workforce.PolicyID("pol-1"), got.PolicyVersionID)
	assert.True(t, got.StartDate.Equal(date(2025, 3, 17)))
	assert.Equal(t, dana, got.Employee)

	pending, err := got.Submit(testClock)
	require.NoError(t, err)
	require.NoError(t, store.UpdatePtoRequest(ctx, pending))

	got, err = store.GetPtoRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoPending, got.Status)
}

func TestSqlite_GetPtoRequestNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPtoRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, workforce.ErrRequestNotFound)
}

func TestSqlite_ConcurrentPtoRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	marta := workforce.EmployeeRef{ID: "emp-2", Name: "Marta", Role: "director"}
	theo := workforce.EmployeeRef{ID: "emp-3", Name: "Theo", Role: "embalmer"}

	overlapping := newRequest(t, "req-1", dana, date(2025, 4, 10), date(2025, 4, 14))
	adjacent := newRequest(t, "req-2", marta, date(2025, 4, 14), date(2025, 4, 16))
	embalmer := newRequest(t, "req-3", theo, date(2025, 4, 11), date(2025, 4, 12))
	for _, r := range []workforce.PtoRequest{overlapping, adjacent, embalmer} {
		require.NoError(t, store.CreatePtoRequest(ctx, r))
	}

	// Rejected requests do not occupy their window
	rejected := newRequest(t, "req-4", workforce.EmployeeRef{ID: "emp-4", Role: "director"}, date(2025, 4, 10), date(2025, 4, 12))
	rejected.Status = workforce.PtoRejected
	require.NoError(t, store.CreatePtoRequest(ctx, rejected))

	window := workforce.DateRange{Start: date(2025, 4, 11), End: date(2025, 4, 14)}

	// req-2 starts where the window ends: half-open, no overlap
	all, err := store.GetConcurrentPtoRequests(ctx, "org-1", window, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, workforce.PtoRequestID("req-1"), all[0].ID)
	assert.Equal(t, workforce.PtoRequestID("req-3"), all[1].ID)

	directors, err := store.GetConcurrentPtoRequests(ctx, "org-1", window, "director")
	require.NoError(t, err)
	require.Len(t, directors, 1)
	assert.Equal(t, workforce.PtoRequestID("req-1"), directors[0].ID)
}

func TestSqlite_DeletePtoRequestDraftOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	draft := newRequest(t, "req-1", dana, date(2025, 3, 17), date(2025, 3, 21))
	require.NoError(t, store.CreatePtoRequest(ctx, draft))

	pending, err := draft.Submit(testClock)
	require.NoError(t, err)
	pending.ID = "req-2"
	require.NoError(t, store.CreatePtoRequest(ctx, pending))

	require.NoError(t, store.DeletePtoRequest(ctx, "req-1"))
	_, err = store.GetPtoRequest(ctx, "req-1")
	assert.ErrorIs(t, err, workforce.ErrRequestNotFound)

	err = store.DeletePtoRequest(ctx, "req-2")
	var invalidState *workforce.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, "pending", invalidState.Current)

	assert.ErrorIs(t, store.DeletePtoRequest(ctx, "missing"), workforce.ErrRequestNotFound)
}

func TestSqlite_PtoBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetEmployeePtoBalance(ctx, "org-1", "emp-1")
	assert.ErrorIs(t, err, workforce.ErrBalanceNotFound)

	require.NoError(t, store.SetEmployeePtoBalance(ctx, "org-1", workforce.PtoBalance{
		EmployeeID: "emp-1", AvailableDays: workforce.Money(12.5),
	}))
	b, err := store.GetEmployeePtoBalance(ctx, "org-1", "emp-1")
	require.NoError(t, err)
	assert.True(t, b.AvailableDays.Equal(workforce.Money(12.5)))

	// Upsert replaces
	require.NoError(t, store.SetEmployeePtoBalance(ctx, "org-1", workforce.PtoBalance{
		EmployeeID: "emp-1", AvailableDays: workforce.Money(7),
	}))
	b, err = store.GetEmployeePtoBalance(ctx, "org-1", "emp-1")
	require.NoError(t, err)
	assert.True(t, b.AvailableDays.Equal(workforce.Money(7)))
}

// =============================================================================
// TRAINING RECORDS
// =============================================================================

func TestSqlite_TrainingRecordRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := workforce.NewTrainingRecord(
		"tr-1", "org-1", dana, "certification", "Embalming recertification",
		workforce.Money(16), workforce.Money(1200),
		date(2025, 4, 7), date(2025, 4, 9),
		true, "emp-1", testClock,
	)
	require.NoError(t, err)
	require.NoError(t, store.CreateTrainingRecord(ctx, rec))

	got, err := store.GetTrainingRecord(ctx, "tr-1")
	require.NoError(t, err)
	assert.Equal(t, workforce.TrainingScheduled, got.Status)
	assert.True(t, got.Hours.Equal(workforce.Money(16)))
	assert.True(t, got.EndDate.Equal(date(2025, 4, 9)))
	assert.True(t, got.RequiredForRole)

	expires := date(2026, 4, 9)
	completed, err := got.Complete(workforce.Certification{
		Hours:               workforce.Money(18),
		CertificationNumber: "CERT-9981",
		ExpiresAt:           &expires,
	}, testClock)
	require.NoError(t, err)
	require.NoError(t, store.UpdateTrainingRecord(ctx, completed))

	got, err = store.GetTrainingRecord(ctx, "tr-1")
	require.NoError(t, err)
	assert.Equal(t, workforce.TrainingCompleted, got.Status)
	assert.Equal(t, "CERT-9981", got.CertificationNumber)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))
}

func TestSqlite_MultiDayTrainingsScheduled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	multiDay, err := workforce.NewTrainingRecord(
		"tr-1", "org-1", dana, "certification", "Crematory operator course",
		workforce.Money(16), workforce.Money(800),
		date(2025, 4, 7), date(2025, 4, 9),
		false, "emp-1", testClock,
	)
	require.NoError(t, err)
	singleDay, err := workforce.NewTrainingRecord(
		"tr-2", "org-1", dana, "seminar", "Grief support seminar",
		workforce.Money(4), workforce.Money(200),
		date(2025, 4, 8), date(2025, 4, 8),
		false, "emp-1", testClock,
	)
	require.NoError(t, err)
	require.NoError(t, store.CreateTrainingRecord(ctx, multiDay))
	require.NoError(t, store.CreateTrainingRecord(ctx, singleDay))

	window := workforce.DateRange{Start: date(2025, 4, 1), End: date(2025, 4, 30)}
	got, err := store.GetMultiDayTrainingsScheduled(ctx, "org-1", window)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, workforce.TrainingRecordID("tr-1"), got[0].ID)
}

func TestSqlite_TrainingSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetEmployeeTrainingSummary(ctx, "org-1", "emp-1", 2025)
	assert.ErrorIs(t, err, workforce.ErrTrainingNotFound)

	require.NoError(t, store.SetEmployeeTrainingSummary(ctx, "org-1", workforce.TrainingSummary{
		EmployeeID: "emp-1", Year: 2025,
		HoursUsed: workforce.Money(32), CostSpent: workforce.Money(4200),
	}))
	sum, err := store.GetEmployeeTrainingSummary(ctx, "org-1", "emp-1", 2025)
	require.NoError(t, err)
	assert.True(t, sum.HoursUsed.Equal(workforce.Money(32)))
	assert.True(t, sum.CostSpent.Equal(workforce.Money(4200)))
}

// =============================================================================
// BACKFILL ASSIGNMENTS
// =============================================================================

func newAssignment(t *testing.T, id, absenceID string, backfill workforce.EmployeeID, window workforce.DateRange) workforce.BackfillAssignment {
	t.Helper()
	a, err := workforce.NewBackfillAssignment(
		workforce.AssignmentID(id), "org-1",
		workforce.AbsenceRef{AbsenceID: absenceID, Type: workforce.AbsencePto, Start: window.Start, End: window.End},
		dana, workforce.EmployeeRef{ID: backfill, Name: string(backfill), Role: "director"},
		workforce.PremiumNone, workforce.Money(1.0), workforce.Money(40),
		"mgr-1", testClock,
	)
	require.NoError(t, err)
	return a
}

func TestSqlite_BackfillConflictCheckedInsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	window := workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)}

	blocking := newAssignment(t, "bf-1", "abs-1", "emp-2", window)
	blocking, err := blocking.SendForConfirmation(testClock)
	require.NoError(t, err)
	require.NoError(t, store.CreateBackfillAssignment(ctx, blocking, "mgr-1"))

	conflict, ids, err := store.HasConflictingBackfills(ctx, "org-1", "emp-2",
		workforce.DateRange{Start: date(2025, 1, 12), End: date(2025, 1, 20)})
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.Equal(t, []workforce.AssignmentID{"bf-1"}, ids)

	// The write re-checks the invariant itself
	overlapping := newAssignment(t, "bf-2", "abs-2", "emp-2",
		workforce.DateRange{Start: date(2025, 1, 12), End: date(2025, 1, 20)})
	err = store.CreateBackfillAssignment(ctx, overlapping, "mgr-1")
	require.Error(t, err)
	assert.True(t, workforce.IsConflict(err))

	// Adjacent windows share an endpoint but never a day
	adjacent := newAssignment(t, "bf-3", "abs-3", "emp-2",
		workforce.DateRange{Start: date(2025, 1, 15), End: date(2025, 1, 20)})
	assert.NoError(t, store.CreateBackfillAssignment(ctx, adjacent, "mgr-1"))

	// Another employee is free to cover the same window
	other := newAssignment(t, "bf-4", "abs-4", "emp-3", window)
	assert.NoError(t, store.CreateBackfillAssignment(ctx, other, "mgr-1"))
}

func TestSqlite_BackfillCancelAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	window := workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)}

	a := newAssignment(t, "bf-1", "abs-1", "emp-2", window)
	require.NoError(t, store.CreateBackfillAssignment(ctx, a, "mgr-1"))

	cancelled, err := store.CancelBackfillAssignment(ctx, "bf-1")
	require.NoError(t, err)
	assert.Equal(t, workforce.BackfillCancelled, cancelled.Status)

	// Confirmed assignments cannot be deleted
	confirmed := newAssignment(t, "bf-2", "abs-2", "emp-3", window)
	confirmed, err = confirmed.SendForConfirmation(testClock)
	require.NoError(t, err)
	confirmed, err = confirmed.Confirm(testClock)
	require.NoError(t, err)
	require.NoError(t, store.CreateBackfillAssignment(ctx, confirmed, "mgr-1"))

	err = store.DeleteBackfillAssignment(ctx, "bf-2")
	var invalidState *workforce.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, "confirmed", invalidState.Current)

	require.NoError(t, store.DeleteBackfillAssignment(ctx, "bf-1"))
	_, err = store.GetBackfillAssignment(ctx, "bf-1")
	assert.ErrorIs(t, err, workforce.ErrAssignmentNotFound)
}

func TestSqlite_ReleaseBackfillsForWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	window := workforce.DateRange{Start: date(2025, 2, 3), End: date(2025, 2, 5)}

	confirmed := newAssignment(t, "bf-1", "abs-1", "emp-2", window)
	var err error
	confirmed, err = confirmed.SendForConfirmation(testClock)
	require.NoError(t, err)
	confirmed, err = confirmed.Confirm(testClock)
	require.NoError(t, err)
	require.NoError(t, store.CreateBackfillAssignment(ctx, confirmed, "mgr-1"))

	pending := newAssignment(t, "bf-2", "abs-1", "emp-3", window)
	pending, err = pending.SendForConfirmation(testClock)
	require.NoError(t, err)
	require.NoError(t, store.CreateBackfillAssignment(ctx, pending, "mgr-1"))

	// Suggested occupies nothing; outside the window stays untouched
	suggested := newAssignment(t, "bf-3", "abs-1", "emp-4", window)
	require.NoError(t, store.CreateBackfillAssignment(ctx, suggested, "mgr-1"))
	outside := newAssignment(t, "bf-4", "abs-2", "emp-5",
		workforce.DateRange{Start: date(2025, 2, 10), End: date(2025, 2, 12)})
	outside, err = outside.SendForConfirmation(testClock)
	require.NoError(t, err)
	outside, err = outside.Confirm(testClock)
	require.NoError(t, err)
	require.NoError(t, store.CreateBackfillAssignment(ctx, outside, "mgr-1"))

	released, err := store.ReleaseBackfillsForWindow(ctx, "org-1", window)
	require.NoError(t, err)
	assert.Equal(t, 2, released)

	want := map[workforce.AssignmentID]workforce.BackfillStatus{
		"bf-1": workforce.BackfillCompleted,
		"bf-2": workforce.BackfillCancelled,
		"bf-3": workforce.BackfillSuggested,
		"bf-4": workforce.BackfillConfirmed,
	}
	for id, status := range want {
		a, err := store.GetBackfillAssignment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, a.Status, "assignment %s", id)
	}
}

func TestSqlite_GetBackfillAssignmentsByAbsence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := newAssignment(t, "bf-1", "abs-1", "emp-2", workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)})
	b := newAssignment(t, "bf-2", "abs-1", "emp-3", workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)})
	c := newAssignment(t, "bf-3", "abs-2", "emp-4", workforce.DateRange{Start: date(2025, 1, 10), End: date(2025, 1, 15)})
	for _, x := range []workforce.BackfillAssignment{a, b, c} {
		require.NoError(t, store.CreateBackfillAssignment(ctx, x, "mgr-1"))
	}

	got, err := store.GetBackfillAssignmentsByAbsence(ctx, "abs-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, workforce.AssignmentID("bf-1"), got[0].ID)
	assert.Equal(t, workforce.AssignmentID("bf-2"), got[1].ID)
}
