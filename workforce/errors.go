/*
errors.go - Error taxonomy for the orchestration core

PURPOSE:
  One place for every failure shape the engine produces. Two distinct
  families exist and must not be conflated:

  1. RULE OUTCOMES (values, not Go errors):
     ValidationError - blocking policy-rule violation, accumulated in lists
     Warning         - soft threshold violation, never blocks

  2. OPERATIONAL ERRORS (Go errors, errors.Is-able):
     ErrPolicyNotFound / ErrRequestNotFound / ...  - referenced entity absent
     InvalidStateError   - status guard failed, names the current status
     ConflictError       - overlap detected at check or write time
     persistence errors  - opaque port failures, propagate to the caller

  Use cases return rule outcomes inside their Result structs; only
  operational errors travel the error return value.

SEE ALSO:
  - ports.go: which operations surface which sentinels
  - workflow package: how results accumulate validation errors
*/
package workforce

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPolicyNotFound is returned when an organization has no policy version.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrRequestNotFound is returned when a referenced PTO request doesn't exist.
	ErrRequestNotFound = errors.New("pto request not found")

	// ErrTrainingNotFound is returned when a referenced training record doesn't exist.
	ErrTrainingNotFound = errors.New("training record not found")

	// ErrAssignmentNotFound is returned when a referenced backfill assignment doesn't exist.
	ErrAssignmentNotFound = errors.New("backfill assignment not found")

	// ErrBalanceNotFound is returned when no PTO balance record exists for
	// an employee. The balance source is external; absence is recoverable.
	ErrBalanceNotFound = errors.New("pto balance not found")

	// ErrAssignmentConflict is returned when an assignment would double-book
	// the backfill employee. Storage layers return this from conflict-checked
	// writes; the pre-check in the use case surfaces the same error.
	ErrAssignmentConflict = errors.New("conflicting backfill assignment")

	// ErrInvalidDateRange is returned when a range has end before start.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")
)

// =============================================================================
// RULE OUTCOMES - Values accumulated in use-case results
// =============================================================================

// ValidationError is a blocking policy-rule violation. Use cases run every
// check and accumulate these; any non-empty list means no persistence.
type ValidationError struct {
	Code    string // e.g. "advance_notice", "blackout", "schedule_conflict"
	Message string
}

func (e ValidationError) Error() string { return e.Code + ": " + e.Message }

// Warning is a soft rule violation (capacity or balance thresholds).
// Warnings are reported but never block the operation.
type Warning struct {
	Code    string
	Message string
}

// =============================================================================
// STRUCTURED ERRORS - Operational failures with context
// =============================================================================

// InvalidStateError reports a status-guard failure on a lifecycle transition.
// The message always names the current status so the caller can explain it.
type InvalidStateError struct {
	Entity     string // "pto_request", "training_record", "backfill_assignment"
	Transition string // e.g. "approve", "reject", "start"
	Current    string // current status that blocked the transition
	Allowed    []string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s: current status is %q (allowed: %v)",
		e.Transition, e.Entity, e.Current, e.Allowed)
}

// ConflictError carries the overlap that blocked a backfill assignment.
type ConflictError struct {
	EmployeeID EmployeeID
	Window     DateRange
	Existing   []AssignmentID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("employee %s already booked in %s (%d conflicting assignments)",
		e.EmployeeID, e.Window, len(e.Existing))
}

func (e *ConflictError) Unwrap() error { return ErrAssignmentConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing entity. Use cases treat
// this as a recoverable, user-facing outcome rather than a fatal failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrTrainingNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrBalanceNotFound)
}

// IsConflict reports whether err is an overlap rejection, whether it came
// from the pre-check or from the storage layer at write time.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAssignmentConflict)
}
