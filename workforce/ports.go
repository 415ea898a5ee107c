/*
ports.go - Repository port contracts

PURPOSE:
  The ONLY way the engine reads or writes durable state. Implementations
  live under store/ (sqlite for production, memory for tests and dev).
  Workflow services receive these as injected interfaces.

CONTRACT NOTES:
  - "Not found" is signalled with the sentinel errors from errors.go and is
    a recoverable outcome; anything else from a port is treated as an
    opaque persistence failure and propagated to the caller.
  - CreateBackfillAssignment re-checks the double-booking invariant at
    write time and returns ErrAssignmentConflict when the storage layer
    detects an overlap. Use cases surface that exactly like the pre-check.
  - CancelBackfillAssignment and ReleaseBackfillsForWindow are real
    mutations: cross-workflow cleanup persists state, it never just counts.
  - Policy updates follow SCD2: UpdatePtoPolicy/UpdateTrainingPolicy close
    the current version and open the next one atomically.

SEE ALSO:
  - store/memory: reference implementation used by the workflow tests
  - store/sqlite: production implementation
*/
package workforce

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// READ MODELS RETURNED BY PORTS
// =============================================================================

// PtoBalance is the employee's remaining PTO allowance. Balance accounting
// itself lives outside this engine; the workflows only read it to warn.
type PtoBalance struct {
	EmployeeID    EmployeeID
	AvailableDays decimal.Decimal
}

// TrainingSummary is the employee's year-to-date training consumption,
// checked against the per-role annual allowance.
type TrainingSummary struct {
	EmployeeID EmployeeID
	Year       int
	HoursUsed  decimal.Decimal
	CostSpent  decimal.Decimal
}

// =============================================================================
// PTO MANAGEMENT PORT
// =============================================================================

type PtoManagementPort interface {
	// GetPtoPolicy returns the current policy version for the organization,
	// or ErrPolicyNotFound.
	GetPtoPolicy(ctx context.Context, orgID OrganizationID) (PtoPolicy, error)

	// GetPtoPolicyVersion returns a specific (possibly superseded) version.
	GetPtoPolicyVersion(ctx context.Context, id PolicyID) (PtoPolicy, error)

	// ListPtoPolicyVersions returns the full SCD2 history, oldest first.
	ListPtoPolicyVersions(ctx context.Context, orgID OrganizationID) ([]PtoPolicy, error)

	// CreatePtoPolicy stores a first version (Meta.Version == 1, current).
	CreatePtoPolicy(ctx context.Context, policy PtoPolicy) error

	// UpdatePtoPolicy supersedes the current version with the given
	// settings and returns the newly opened version.
	UpdatePtoPolicy(ctx context.Context, orgID OrganizationID, updated PtoPolicy) (PtoPolicy, error)

	CreatePtoRequest(ctx context.Context, req PtoRequest) error
	GetPtoRequest(ctx context.Context, id PtoRequestID) (PtoRequest, error)
	GetPtoRequestsByEmployee(ctx context.Context, orgID OrganizationID, employeeID EmployeeID) ([]PtoRequest, error)

	// GetConcurrentPtoRequests returns active requests overlapping the
	// window, optionally filtered by role (empty role matches all).
	GetConcurrentPtoRequests(ctx context.Context, orgID OrganizationID, window DateRange, role string) ([]PtoRequest, error)

	GetEmployeePtoBalance(ctx context.Context, orgID OrganizationID, employeeID EmployeeID) (PtoBalance, error)

	// UpdatePtoRequest replaces the stored request with the new state.
	UpdatePtoRequest(ctx context.Context, req PtoRequest) error

	// DeletePtoRequest removes a request. Implementations must refuse
	// anything but drafts.
	DeletePtoRequest(ctx context.Context, id PtoRequestID) error
}

// =============================================================================
// TRAINING MANAGEMENT PORT
// =============================================================================

type TrainingManagementPort interface {
	GetTrainingPolicy(ctx context.Context, orgID OrganizationID) (TrainingPolicy, error)
	GetTrainingPolicyVersion(ctx context.Context, id PolicyID) (TrainingPolicy, error)
	ListTrainingPolicyVersions(ctx context.Context, orgID OrganizationID) ([]TrainingPolicy, error)
	CreateTrainingPolicy(ctx context.Context, policy TrainingPolicy) error
	UpdateTrainingPolicy(ctx context.Context, orgID OrganizationID, updated TrainingPolicy) (TrainingPolicy, error)

	CreateTrainingRecord(ctx context.Context, rec TrainingRecord) error
	GetTrainingRecord(ctx context.Context, id TrainingRecordID) (TrainingRecord, error)
	GetEmployeeTrainingSummary(ctx context.Context, orgID OrganizationID, employeeID EmployeeID, year int) (TrainingSummary, error)
	UpdateTrainingRecord(ctx context.Context, rec TrainingRecord) error

	// GetMultiDayTrainingsScheduled returns scheduled or in-progress
	// trainings whose spans overlap the window and cover more than one day.
	GetMultiDayTrainingsScheduled(ctx context.Context, orgID OrganizationID, window DateRange) ([]TrainingRecord, error)
}

// =============================================================================
// BACKFILL MANAGEMENT PORT
// =============================================================================

type BackfillManagementPort interface {
	// HasConflictingBackfills reports whether the employee already has a
	// blocking assignment (pending_confirmation or confirmed) overlapping
	// the window, returning the conflicting IDs for error messages.
	HasConflictingBackfills(ctx context.Context, orgID OrganizationID, employeeID EmployeeID, window DateRange) (bool, []AssignmentID, error)

	// GetBackfillAssignmentsByEmployee returns every assignment where the
	// employee is the backfill, for workload calculation.
	GetBackfillAssignmentsByEmployee(ctx context.Context, orgID OrganizationID, employeeID EmployeeID) ([]BackfillAssignment, error)

	// CreateBackfillAssignment persists a new assignment. Implementations
	// re-check the double-booking invariant inside the write and return
	// ErrAssignmentConflict (or a *ConflictError wrapping it) on overlap.
	CreateBackfillAssignment(ctx context.Context, assignment BackfillAssignment, actor string) error

	GetBackfillAssignment(ctx context.Context, id AssignmentID) (BackfillAssignment, error)
	GetBackfillAssignmentsByAbsence(ctx context.Context, absenceID string) ([]BackfillAssignment, error)

	UpdateBackfillAssignment(ctx context.Context, assignment BackfillAssignment) error

	// CancelBackfillAssignment applies the cancel transition and persists
	// it, returning the new state. Used when an absence is rejected.
	CancelBackfillAssignment(ctx context.Context, id AssignmentID) (BackfillAssignment, error)

	// ReleaseBackfillsForWindow releases every blocking assignment whose
	// window overlaps the given one (confirmed -> completed, awaiting
	// confirmation -> cancelled) and returns how many were released.
	ReleaseBackfillsForWindow(ctx context.Context, orgID OrganizationID, window DateRange) (int, error)

	// DeleteBackfillAssignment removes an assignment. Implementations must
	// refuse confirmed assignments.
	DeleteBackfillAssignment(ctx context.Context, id AssignmentID) error
}
