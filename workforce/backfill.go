/*
backfill.go - Backfill assignment entity and lifecycle

PURPOSE:
  A BackfillAssignment is temporary staff coverage for a scheduled absence
  (PTO or training). The assignment links to its absence only by AbsenceID —
  never by object reference — so the three workflows stay decoupled.

LIFECYCLE:
  suggested ──send──▶ pending_confirmation ──confirm──▶ confirmed ──▶ completed
      │                        │                            │
      └────────────────────────┴── reject / cancel ─────────┘

  completed, rejected and cancelled are terminal.

DOUBLE-BOOKING INVARIANT:
  For one organization and backfill employee, no two assignments in
  {pending_confirmation, confirmed} may have overlapping windows. The
  workflow pre-checks this and the storage layer re-checks at write time.

SEE ALSO:
  - coverage.go: coverage summaries computed from assignments
  - workflow/backfill.go: the AssignPtoBackfill orchestrator
*/
package workforce

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PREMIUM CLASSIFICATION
// =============================================================================

// PremiumType classifies why premium pay applies. It is informational only:
// the multiplier is always supplied explicitly, never derived from the type.
type PremiumType string

const (
	PremiumNone     PremiumType = "none"
	PremiumWeekend  PremiumType = "weekend"
	PremiumHoliday  PremiumType = "holiday"
	PremiumOvertime PremiumType = "overtime"
)

// ClassifyPremiumType labels a coverage window: holiday wins over weekend,
// weekend over none. Overtime is a caller decision, not a calendar one.
func ClassifyPremiumType(window DateRange, calendar HolidayCalendar, orgID OrganizationID) PremiumType {
	if calendar == nil {
		calendar = NoHolidays{}
	}
	hasWeekend := false
	for d := window.Start; d.BeforeOrEqual(window.End); d = d.AddDays(1) {
		if calendar.IsHoliday(orgID, d) {
			return PremiumHoliday
		}
		if d.IsWeekend() {
			hasWeekend = true
		}
	}
	if hasWeekend {
		return PremiumWeekend
	}
	return PremiumNone
}

// =============================================================================
// BACKFILL STATUS
// =============================================================================

type BackfillStatus string

const (
	BackfillSuggested           BackfillStatus = "suggested"
	BackfillPendingConfirmation BackfillStatus = "pending_confirmation"
	BackfillConfirmed           BackfillStatus = "confirmed"
	BackfillCompleted           BackfillStatus = "completed"
	BackfillRejected            BackfillStatus = "rejected"
	BackfillCancelled           BackfillStatus = "cancelled"
)

func (s BackfillStatus) IsTerminal() bool {
	return s == BackfillCompleted || s == BackfillRejected || s == BackfillCancelled
}

// Blocks reports whether an assignment in this status occupies the backfill
// employee's window for double-booking purposes.
func (s BackfillStatus) Blocks() bool {
	return s == BackfillPendingConfirmation || s == BackfillConfirmed
}

// =============================================================================
// ABSENCE LINKAGE
// =============================================================================

type AbsenceType string

const (
	AbsencePto      AbsenceType = "pto"
	AbsenceTraining AbsenceType = "training"
)

// AbsenceRef links an assignment to the absence it covers, by ID only.
type AbsenceRef struct {
	AbsenceID string
	Type      AbsenceType
	Start     Date
	End       Date
}

func (a AbsenceRef) Window() DateRange { return DateRange{Start: a.Start, End: a.End} }

// =============================================================================
// BACKFILL ASSIGNMENT
// =============================================================================

type BackfillAssignment struct {
	ID             AssignmentID
	OrganizationID OrganizationID
	Absence        AbsenceRef

	AbsentEmployee   EmployeeRef
	BackfillEmployee EmployeeRef

	PremiumType       PremiumType
	PremiumMultiplier decimal.Decimal
	EstimatedHours    decimal.Decimal

	Status     BackfillStatus
	AssignedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the coverage window (the absence window).
func (b BackfillAssignment) Window() DateRange { return b.Absence.Window() }

// =============================================================================
// LIFECYCLE TRANSITIONS (pure)
// =============================================================================

// NewBackfillAssignment constructs a suggested assignment.
func NewBackfillAssignment(
	id AssignmentID,
	orgID OrganizationID,
	absence AbsenceRef,
	absentEmployee, backfillEmployee EmployeeRef,
	premiumType PremiumType,
	premiumMultiplier, estimatedHours decimal.Decimal,
	assignedBy string,
	now time.Time,
) (BackfillAssignment, error) {
	if !absence.Window().IsValid() {
		return BackfillAssignment{}, ErrInvalidDateRange
	}

	return BackfillAssignment{
		ID:                id,
		OrganizationID:    orgID,
		Absence:           absence,
		AbsentEmployee:    absentEmployee,
		BackfillEmployee:  backfillEmployee,
		PremiumType:       premiumType,
		PremiumMultiplier: premiumMultiplier,
		EstimatedHours:    estimatedHours,
		Status:            BackfillSuggested,
		AssignedBy:        assignedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// SendForConfirmation moves a suggestion to pending_confirmation.
func (b BackfillAssignment) SendForConfirmation(now time.Time) (BackfillAssignment, error) {
	if b.Status != BackfillSuggested {
		return BackfillAssignment{}, &InvalidStateError{
			Entity: "backfill_assignment", Transition: "send_for_confirmation",
			Current: string(b.Status), Allowed: []string{string(BackfillSuggested)},
		}
	}
	next := b
	next.Status = BackfillPendingConfirmation
	next.UpdatedAt = now
	return next, nil
}

// Confirm accepts a pending assignment.
func (b BackfillAssignment) Confirm(now time.Time) (BackfillAssignment, error) {
	if b.Status != BackfillPendingConfirmation {
		return BackfillAssignment{}, &InvalidStateError{
			Entity: "backfill_assignment", Transition: "confirm",
			Current: string(b.Status), Allowed: []string{string(BackfillPendingConfirmation)},
		}
	}
	next := b
	next.Status = BackfillConfirmed
	next.UpdatedAt = now
	return next, nil
}

// Complete closes out a confirmed assignment after the absence ends.
func (b BackfillAssignment) Complete(now time.Time) (BackfillAssignment, error) {
	if b.Status != BackfillConfirmed {
		return BackfillAssignment{}, &InvalidStateError{
			Entity: "backfill_assignment", Transition: "complete",
			Current: string(b.Status), Allowed: []string{string(BackfillConfirmed)},
		}
	}
	next := b
	next.Status = BackfillCompleted
	next.UpdatedAt = now
	return next, nil
}

// Reject declines an assignment from any non-terminal state.
func (b BackfillAssignment) Reject(now time.Time) (BackfillAssignment, error) {
	if b.Status.IsTerminal() {
		return BackfillAssignment{}, &InvalidStateError{
			Entity: "backfill_assignment", Transition: "reject",
			Current: string(b.Status),
			Allowed: []string{string(BackfillSuggested), string(BackfillPendingConfirmation), string(BackfillConfirmed)},
		}
	}
	next := b
	next.Status = BackfillRejected
	next.UpdatedAt = now
	return next, nil
}

// Cancel withdraws an assignment from any non-terminal state. Used when the
// underlying absence is rejected or cancelled.
func (b BackfillAssignment) Cancel(now time.Time) (BackfillAssignment, error) {
	if b.Status.IsTerminal() {
		return BackfillAssignment{}, &InvalidStateError{
			Entity: "backfill_assignment", Transition: "cancel",
			Current: string(b.Status),
			Allowed: []string{string(BackfillSuggested), string(BackfillPendingConfirmation), string(BackfillConfirmed)},
		}
	}
	next := b
	next.Status = BackfillCancelled
	next.UpdatedAt = now
	return next, nil
}

// Release resolves an assignment when its absence ends: confirmed coverage
// is marked completed, anything still awaiting confirmation is cancelled.
func (b BackfillAssignment) Release(now time.Time) (BackfillAssignment, error) {
	switch b.Status {
	case BackfillConfirmed:
		return b.Complete(now)
	case BackfillPendingConfirmation, BackfillSuggested:
		return b.Cancel(now)
	default:
		return BackfillAssignment{}, &InvalidStateError{
			Entity: "backfill_assignment", Transition: "release",
			Current: string(b.Status),
			Allowed: []string{string(BackfillConfirmed), string(BackfillPendingConfirmation), string(BackfillSuggested)},
		}
	}
}
