package workforce_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

var testClock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func draftRequest(t *testing.T, start, end workforce.Date) workforce.PtoRequest {
	t.Helper()
	req, err := workforce.NewPtoRequest(
		"req-1", "org-1",
		workforce.EmployeeRef{ID: "emp-1", Name: "Dana", Role: "director"},
		workforce.PtoVacation,
		start, end,
		"spring break", "emp-1", testClock,
	)
	require.NoError(t, err)
	return req
}

func TestNewPtoRequest_DerivesRequestedDays(t *testing.T) {
	req := draftRequest(t, date(2025, 3, 10), date(2025, 3, 14))

	assert.Equal(t, workforce.PtoDraft, req.Status)
	assert.Equal(t, 5, req.RequestedDays, "Mon..Fri is five inclusive days")
}

func TestNewPtoRequest_SingleDay(t *testing.T) {
	req := draftRequest(t, date(2025, 3, 10), date(2025, 3, 10))
	assert.Equal(t, 1, req.RequestedDays)
}

func TestNewPtoRequest_InvalidRange(t *testing.T) {
	_, err := workforce.NewPtoRequest(
		"req-1", "org-1",
		workforce.EmployeeRef{ID: "emp-1"},
		workforce.PtoSick,
		date(2025, 3, 14), date(2025, 3, 10),
		"", "emp-1", testClock,
	)
	assert.ErrorIs(t, err, workforce.ErrInvalidDateRange)
}

func TestPtoRequest_Lifecycle(t *testing.T) {
	req := draftRequest(t, date(2025, 3, 10), date(2025, 3, 14))

	pending, err := req.Submit(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoPending, pending.Status)

	approved, err := pending.Approve("mgr-1", testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoApproved, approved.Status)
	assert.Equal(t, "mgr-1", approved.ApprovedBy)

	// The original value is untouched; transitions are functional
	assert.Equal(t, workforce.PtoDraft, req.Status)
}

func TestPtoRequest_RejectOnlyPending(t *testing.T) {
	req := draftRequest(t, date(2025, 3, 10), date(2025, 3, 14))

	// Draft cannot be rejected
	_, err := req.Reject("mgr-1", "short staffed", testClock)
	var stateErr *workforce.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, string(workforce.PtoDraft), stateErr.Current)

	pending, err := req.Submit(testClock)
	require.NoError(t, err)

	rejected, err := pending.Reject("mgr-1", "short staffed", testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoRejected, rejected.Status)
	assert.Equal(t, "short staffed", rejected.RejectionReason)

	// Rejected is terminal
	_, err = rejected.Approve("mgr-1", testClock)
	assert.Error(t, err)
	_, err = rejected.Cancel(testClock)
	assert.Error(t, err)
}

func TestPtoRequest_CancelFromDraftAndPending(t *testing.T) {
	req := draftRequest(t, date(2025, 3, 10), date(2025, 3, 14))

	cancelled, err := req.Cancel(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoCancelled, cancelled.Status)

	pending, err := req.Submit(testClock)
	require.NoError(t, err)
	cancelled, err = pending.Cancel(testClock)
	require.NoError(t, err)
	assert.Equal(t, workforce.PtoCancelled, cancelled.Status)

	// Approved cannot be cancelled through this transition
	approved, err := pending.Approve("mgr-1", testClock)
	require.NoError(t, err)
	_, err = approved.Cancel(testClock)
	assert.Error(t, err)
}

func TestPtoStatus_Predicates(t *testing.T) {
	assert.True(t, workforce.PtoApproved.IsTerminal())
	assert.True(t, workforce.PtoRejected.IsTerminal())
	assert.True(t, workforce.PtoCancelled.IsTerminal())
	assert.False(t, workforce.PtoPending.IsTerminal())

	assert.True(t, workforce.PtoDraft.IsActive())
	assert.True(t, workforce.PtoPending.IsActive())
	assert.True(t, workforce.PtoApproved.IsActive())
	assert.False(t, workforce.PtoRejected.IsActive())
	assert.False(t, workforce.PtoCancelled.IsActive())
}
