/*
Package workflow contains the absence orchestration use cases: one service
method per business operation, each composing the pure workforce logic with
the repository ports.

PURPOSE:
  The workflows own everything the pure layer refuses to do: loading state,
  accumulating validation errors, cross-entity effects (a PTO rejection
  cancels its backfills), and persisting outcomes. Every use case is a
  short-lived, stateless sequence of port calls — no locks are held and no
  state survives between invocations.

FAILURE SEMANTICS:
  - Business-rule failures come back inside the Result structs
    (Success=false, Errors/ValidationErrors populated). They never travel
    the Go error return.
  - Warnings report soft threshold violations and never block.
  - The Go error return is reserved for persistence failures from a port;
    callers decide on retry or user messaging.

KEY COMPONENTS IN THIS FILE (commands.go):
  - Config: tunables shared by the workflows (rates, ceilings, shift length)
  - Command and Result shapes for every use case

SEE ALSO:
  - pto.go: RequestPto / ApprovePtoRequest / RejectPtoRequest / CancelPtoRequest
  - backfill.go: AssignPtoBackfill
  - training.go: RequestTraining / ApproveTraining / CompleteTraining
*/
package workflow

import (
	"github.com/shopspring/decimal"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// =============================================================================
// CONFIG - Workflow tunables
// =============================================================================

// Config carries the rates and ceilings the workflows estimate with.
type Config struct {
	// DefaultHourlyRate stands in when no payroll rate source is wired.
	// TODO: replace with a payroll rate lookup once one is available.
	DefaultHourlyRate decimal.Decimal

	// MonthlyHourCeiling flags a backfill employee as at capacity.
	// Zero disables the check.
	MonthlyHourCeiling decimal.Decimal

	// HoursPerDay is the assumed shift length for coverage estimates.
	HoursPerDay int

	// CoverageNeeded is how many confirmed backfills complete an absence.
	CoverageNeeded int
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		DefaultHourlyRate:  decimal.NewFromInt(25),
		MonthlyHourCeiling: decimal.NewFromInt(80),
		HoursPerDay:        workforce.DefaultHoursPerDay,
		CoverageNeeded:     1,
	}
}

// =============================================================================
// PTO COMMANDS AND RESULTS
// =============================================================================

type RequestPtoCommand struct {
	OrganizationID workforce.OrganizationID
	Employee       workforce.EmployeeRef
	Type           workforce.PtoType
	StartDate      workforce.Date
	EndDate        workforce.Date
	Reason         string
	RequestedBy    string
}

type RequestPtoResult struct {
	Success          bool
	Request          *workforce.PtoRequest
	ValidationErrors []workforce.ValidationError
	Warnings         []workforce.Warning
}

type ApprovePtoCommand struct {
	RequestID  workforce.PtoRequestID
	ApprovedBy string
	// BackfillVerified requires complete coverage before approval.
	BackfillVerified bool
}

type ApprovePtoResult struct {
	Success bool
	Request *workforce.PtoRequest
	Errors  []string
}

type RejectPtoCommand struct {
	RequestID  workforce.PtoRequestID
	RejectedBy string
	Reason     string
}

type RejectPtoResult struct {
	Success bool
	Request *workforce.PtoRequest
	// BackfillsCancelled counts the linked assignments actually cancelled
	// (and persisted) as part of the rejection.
	BackfillsCancelled int
	Errors             []string
}

type CancelPtoCommand struct {
	RequestID   workforce.PtoRequestID
	CancelledBy string
}

type CancelPtoResult struct {
	Success            bool
	Request            *workforce.PtoRequest
	BackfillsCancelled int
	Errors             []string
}

// =============================================================================
// BACKFILL COMMANDS AND RESULTS
// =============================================================================

type AssignBackfillCommand struct {
	OrganizationID   workforce.OrganizationID
	Absence          workforce.AbsenceRef
	AbsentEmployee   workforce.EmployeeRef
	BackfillEmployee workforce.EmployeeRef

	// PremiumMultiplier is supplied by the caller or policy; the premium
	// type classification never changes it.
	PremiumMultiplier decimal.Decimal

	// HourlyRate overrides the configured default when positive.
	HourlyRate decimal.Decimal

	// SendForConfirmation moves the assignment past suggested before
	// persisting.
	SendForConfirmation bool

	AssignedBy string
}

type AssignBackfillResult struct {
	Success    bool
	Assignment *workforce.BackfillAssignment

	// Estimates are reported even on failure so callers can display them.
	EstimatedHours decimal.Decimal
	EstimatedCost  decimal.Decimal

	Errors   []string
	Warnings []workforce.Warning
}

// =============================================================================
// TRAINING COMMANDS AND RESULTS
// =============================================================================

type RequestTrainingCommand struct {
	OrganizationID workforce.OrganizationID
	Employee       workforce.EmployeeRef
	TrainingType   string
	TrainingName   string
	Hours          decimal.Decimal
	Cost           decimal.Decimal

	// ScheduledDate and EndDate carry the real span; multi-day detection
	// needs distinct dates.
	ScheduledDate workforce.Date
	EndDate       workforce.Date

	RequiredForRole bool
	RequestedBy     string
}

type RequestTrainingResult struct {
	Success          bool
	TrainingRecord   *workforce.TrainingRecord
	RequiresApproval bool
	RequiresBackfill bool
	ValidationErrors []workforce.ValidationError
	Warnings         []workforce.Warning
}

type ApproveTrainingCommand struct {
	TrainingID workforce.TrainingRecordID
	ApprovedBy string

	// ScheduleTraining starts the course at StartDate when both are set.
	ScheduleTraining bool
	StartDate        *workforce.Date
}

type ApproveTrainingResult struct {
	Success        bool
	TrainingRecord *workforce.TrainingRecord
	// BackfillAssigned stays false here: auto-assignment is a follow-up
	// orchestration the caller drives through AssignPtoBackfill.
	BackfillAssigned bool
	Errors           []string
}

type CompleteTrainingCommand struct {
	TrainingID          workforce.TrainingRecordID
	Hours               decimal.Decimal
	CertificationNumber string
	ExpiresAt           *workforce.Date
	CompletedBy         string
}

type CompleteTrainingResult struct {
	Success        bool
	TrainingRecord *workforce.TrainingRecord
	// BackfillsReleased counts the assignments actually released (and
	// persisted) for the training's span.
	BackfillsReleased int
	Errors            []string
}
