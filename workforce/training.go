/*
training.go - Training record entity and lifecycle

PURPOSE:
  The TrainingRecord and its pure transitions. Training is an absence like
  PTO: a multi-day course takes the employee off the floor and implicitly
  needs backfill coverage, which the workflow layer orchestrates via the
  record's date span.

LIFECYCLE:
  scheduled ──start──▶ in_progress ──complete──▶ completed
      │                                              ▲
      ├──────────── complete (single-day) ───────────┘
      └──cancel──▶ cancelled

  completed is terminal and carries certification data.

SEE ALSO:
  - workflow/training.go: training orchestrators
  - backfill.go: the coverage assignments a multi-day span requires
*/
package workforce

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRAINING STATUS
// =============================================================================

type TrainingStatus string

const (
	TrainingScheduled  TrainingStatus = "scheduled"
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingCompleted  TrainingStatus = "completed"
	TrainingCancelled  TrainingStatus = "cancelled"
)

func (s TrainingStatus) IsTerminal() bool {
	return s == TrainingCompleted || s == TrainingCancelled
}

// =============================================================================
// TRAINING RECORD
// =============================================================================

type TrainingRecord struct {
	ID             TrainingRecordID
	OrganizationID OrganizationID
	Employee       EmployeeRef

	TrainingType string
	TrainingName string
	Hours        decimal.Decimal
	Cost         decimal.Decimal
	Status       TrainingStatus

	ScheduledDate Date
	StartDate     Date // set when the training starts
	EndDate       Date // last day of the course

	CertificationNumber string
	ExpiresAt           *Date
	RequiredForRole     bool

	// PolicyVersionID pins the training policy version current at request time.
	PolicyVersionID PolicyID

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Span returns the date range the training occupies. Before the course
// starts this is the scheduled window; a record with no distinct end date
// spans its single scheduled day.
func (t TrainingRecord) Span() DateRange {
	start := t.StartDate
	if start.IsZero() {
		start = t.ScheduledDate
	}
	end := t.EndDate
	if end.IsZero() {
		end = start
	}
	return DateRange{Start: start, End: end}
}

// IsMultiDay reports whether a training span covers more than one calendar
// day. The caller must supply the real start and end dates; passing the
// scheduled date for both can never detect a multi-day course.
func IsMultiDay(start, end Date) bool {
	return !end.IsZero() && end.After(start)
}

// Certification is the completion payload applied to a record.
type Certification struct {
	Hours               decimal.Decimal
	CertificationNumber string
	ExpiresAt           *Date
}

// =============================================================================
// LIFECYCLE TRANSITIONS (pure)
// =============================================================================

// NewTrainingRecord constructs a scheduled record.
func NewTrainingRecord(
	id TrainingRecordID,
	orgID OrganizationID,
	employee EmployeeRef,
	trainingType, trainingName string,
	hours, cost decimal.Decimal,
	scheduled Date,
	endDate Date,
	requiredForRole bool,
	createdBy string,
	now time.Time,
) (TrainingRecord, error) {
	if !endDate.IsZero() && endDate.Before(scheduled) {
		return TrainingRecord{}, ErrInvalidDateRange
	}

	return TrainingRecord{
		ID:              id,
		OrganizationID:  orgID,
		Employee:        employee,
		TrainingType:    trainingType,
		TrainingName:    trainingName,
		Hours:           hours,
		Cost:            cost,
		Status:          TrainingScheduled,
		ScheduledDate:   scheduled,
		EndDate:         endDate,
		RequiredForRole: requiredForRole,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Start moves a scheduled record to in_progress with an explicit start date.
func (t TrainingRecord) Start(startDate Date, now time.Time) (TrainingRecord, error) {
	if t.Status != TrainingScheduled {
		return TrainingRecord{}, &InvalidStateError{
			Entity: "training_record", Transition: "start",
			Current: string(t.Status), Allowed: []string{string(TrainingScheduled)},
		}
	}
	next := t
	next.Status = TrainingInProgress
	next.StartDate = startDate
	if next.EndDate.IsZero() || next.EndDate.Before(startDate) {
		next.EndDate = startDate
	}
	next.UpdatedAt = now
	return next, nil
}

// Complete applies certification data and moves the record to completed.
// Direct completion from scheduled is allowed for single-day training.
func (t TrainingRecord) Complete(cert Certification, now time.Time) (TrainingRecord, error) {
	if t.Status != TrainingInProgress && t.Status != TrainingScheduled {
		return TrainingRecord{}, &InvalidStateError{
			Entity: "training_record", Transition: "complete",
			Current: string(t.Status),
			Allowed: []string{string(TrainingInProgress), string(TrainingScheduled)},
		}
	}
	next := t
	next.Status = TrainingCompleted
	if cert.Hours.IsPositive() {
		next.Hours = cert.Hours
	}
	next.CertificationNumber = cert.CertificationNumber
	next.ExpiresAt = cert.ExpiresAt
	next.UpdatedAt = now
	return next, nil
}

// Cancel withdraws a scheduled record.
func (t TrainingRecord) Cancel(now time.Time) (TrainingRecord, error) {
	if t.Status != TrainingScheduled {
		return TrainingRecord{}, &InvalidStateError{
			Entity: "training_record", Transition: "cancel",
			Current: string(t.Status), Allowed: []string{string(TrainingScheduled)},
		}
	}
	next := t
	next.Status = TrainingCancelled
	next.UpdatedAt = now
	return next, nil
}
