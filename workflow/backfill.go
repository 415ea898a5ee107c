/*
backfill.go - Backfill assignment use case

PURPOSE:
  AssignPtoBackfill: the conflict-checked creation of temporary coverage
  for an absence. The double-booking invariant is checked twice — here
  before the write, and by the storage layer inside it. Both failures
  surface the same user-facing error, so a retry after a lost race simply
  reports the conflict again.

SEE ALSO:
  - workforce/coverage.go: the canonical hour/cost estimators used here
  - workforce/backfill.go: the entity and its transitions
*/
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// BackfillWorkflow orchestrates backfill assignment creation.
type BackfillWorkflow struct {
	Backfill workforce.BackfillManagementPort
	Calendar workforce.HolidayCalendar
	Config   Config
	Log      *logrus.Logger

	Clock func() time.Time
	NewID func() string
}

func NewBackfillWorkflow(backfill workforce.BackfillManagementPort, calendar workforce.HolidayCalendar, cfg Config, log *logrus.Logger) *BackfillWorkflow {
	return &BackfillWorkflow{Backfill: backfill, Calendar: calendar, Config: cfg, Log: log}
}

func (w *BackfillWorkflow) now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now().UTC()
}

func (w *BackfillWorkflow) newID() string {
	if w.NewID != nil {
		return w.NewID()
	}
	return uuid.NewString()
}

func (w *BackfillWorkflow) logger() *logrus.Logger {
	if w.Log != nil {
		return w.Log
	}
	return logrus.StandardLogger()
}

// =============================================================================
// ASSIGN BACKFILL
// =============================================================================

// AssignPtoBackfill creates coverage for an absence. Estimates are computed
// and reported even when the assignment is refused, so callers can show
// them alongside the error.
func (w *BackfillWorkflow) AssignPtoBackfill(ctx context.Context, cmd AssignBackfillCommand) (AssignBackfillResult, error) {
	res := AssignBackfillResult{}
	now := w.now()
	window := cmd.Absence.Window()

	rate := cmd.HourlyRate
	if !rate.IsPositive() {
		rate = w.Config.DefaultHourlyRate
	}

	// Estimates first: they are part of the result either way.
	res.EstimatedHours = workforce.EstimatedCoverageHours(window.Start, window.End, w.Config.HoursPerDay)
	res.EstimatedCost = workforce.EstimatedPremiumPay(res.EstimatedHours, rate, cmd.PremiumMultiplier)

	if !window.IsValid() {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid absence window %s", window))
		return res, nil
	}

	// 1. Pre-check the double-booking invariant.
	conflict, conflicting, err := w.Backfill.HasConflictingBackfills(ctx, cmd.OrganizationID, cmd.BackfillEmployee.ID, window)
	if err != nil {
		return res, err
	}
	if conflict {
		res.Errors = append(res.Errors, (&workforce.ConflictError{
			EmployeeID: cmd.BackfillEmployee.ID,
			Window:     window,
			Existing:   conflicting,
		}).Error())
	}

	// 2. Capacity is advisory: warn, never block.
	assignments, err := w.Backfill.GetBackfillAssignmentsByEmployee(ctx, cmd.OrganizationID, cmd.BackfillEmployee.ID)
	if err != nil {
		return res, err
	}
	month := workforce.DateRange{
		Start: workforce.StartOfMonth(window.Start),
		End:   workforce.EndOfMonth(window.Start),
	}
	workload := workforce.ComputeEmployeeWorkload(cmd.BackfillEmployee.ID, assignments, month, rate, w.Config.MonthlyHourCeiling)
	if workload.MaxCapacityReached {
		res.Warnings = append(res.Warnings, workforce.Warning{
			Code: "capacity_reached",
			Message: fmt.Sprintf("employee %s already has %s backfill hours in %s",
				cmd.BackfillEmployee.ID, workload.TotalHours, window.Start.Month()),
		})
	}

	if len(res.Errors) > 0 {
		return res, nil
	}

	// 3. Construct the assignment.
	premiumType := workforce.ClassifyPremiumType(window, w.Calendar, cmd.OrganizationID)
	assignment, err := workforce.NewBackfillAssignment(
		workforce.AssignmentID(w.newID()),
		cmd.OrganizationID, cmd.Absence,
		cmd.AbsentEmployee, cmd.BackfillEmployee,
		premiumType, cmd.PremiumMultiplier, res.EstimatedHours,
		cmd.AssignedBy, now,
	)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	if cmd.SendForConfirmation {
		assignment, err = assignment.SendForConfirmation(now)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res, nil
		}
	}

	// 4. Conflict-checked write. A write-time conflict means another
	// assignment won the race; surface it exactly like the pre-check.
	if err := w.Backfill.CreateBackfillAssignment(ctx, assignment, cmd.AssignedBy); err != nil {
		if workforce.IsConflict(err) {
			res.Errors = append(res.Errors, err.Error())
			return res, nil
		}
		return res, err
	}

	w.logger().WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"absence_id":    cmd.Absence.AbsenceID,
		"backfill":      cmd.BackfillEmployee.ID,
		"hours":         res.EstimatedHours,
	}).Info("backfill assigned")

	res.Success = true
	res.Assignment = &assignment
	return res, nil
}
