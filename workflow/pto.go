/*
pto.go - PTO workflow use cases

PURPOSE:
  RequestPto, ApprovePtoRequest, RejectPtoRequest and CancelPtoRequest.
  Each loads state through the ports, runs the pure checks, and persists
  the outcome. Rejection and cancellation reconcile dependent backfill
  assignments through real port mutations.

VALIDATION ORDER (RequestPto):
  1. construct draft          (shape only)
  2. load current policy      (not found -> hard failure)
  3. advance notice, blackout, consecutive days   (accumulate, no short-circuit)
  4. schedule conflict against the employee's own requests
  5. concurrency threshold    (warning only)
  6. PTO balance              (warning only)
  Any validation error -> no persistence; re-running with the same input
  yields the same error set.

SEE ALSO:
  - workforce/interval.go: the predicates used in step 3-5
  - workforce/pto.go: the pure transitions driven here
*/
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// PtoWorkflow orchestrates the PTO request lifecycle.
type PtoWorkflow struct {
	Pto      workforce.PtoManagementPort
	Backfill workforce.BackfillManagementPort
	Config   Config
	Log      *logrus.Logger

	// Clock and NewID are injectable for tests; nil means real time / uuid.
	Clock func() time.Time
	NewID func() string
}

func NewPtoWorkflow(pto workforce.PtoManagementPort, backfill workforce.BackfillManagementPort, cfg Config, log *logrus.Logger) *PtoWorkflow {
	return &PtoWorkflow{Pto: pto, Backfill: backfill, Config: cfg, Log: log}
}

func (w *PtoWorkflow) now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now().UTC()
}

func (w *PtoWorkflow) newID() string {
	if w.NewID != nil {
		return w.NewID()
	}
	return uuid.NewString()
}

func (w *PtoWorkflow) logger() *logrus.Logger {
	if w.Log != nil {
		return w.Log
	}
	return logrus.StandardLogger()
}

// =============================================================================
// REQUEST PTO
// =============================================================================

// RequestPto validates a new PTO request against the organization's current
// policy and persists it as pending when clean. Validation errors accumulate;
// warnings never block. The returned error is only non-nil on port failures.
func (w *PtoWorkflow) RequestPto(ctx context.Context, cmd RequestPtoCommand) (RequestPtoResult, error) {
	res := RequestPtoResult{}
	now := w.now()
	today := workforce.DateOf(now)

	// 1. Construct the draft. A malformed span is a validation outcome,
	// not a port failure.
	draft, err := workforce.NewPtoRequest(
		workforce.PtoRequestID(w.newID()),
		cmd.OrganizationID, cmd.Employee, cmd.Type,
		cmd.StartDate, cmd.EndDate, cmd.Reason, cmd.RequestedBy, now,
	)
	if err != nil {
		res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
			Code:    "invalid_date_range",
			Message: fmt.Sprintf("end date %s is before start date %s", cmd.EndDate, cmd.StartDate),
		})
		return res, nil
	}

	// 2. Current policy for the organization.
	policy, err := w.Pto.GetPtoPolicy(ctx, cmd.OrganizationID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
				Code:    "policy_not_found",
				Message: fmt.Sprintf("no PTO policy found for organization %s", cmd.OrganizationID),
			})
			return res, nil
		}
		return res, err
	}

	window := draft.Window()

	// 3. Policy checks run unconditionally; errors accumulate.
	if !workforce.MeetsAdvanceNotice(draft.StartDate, today, policy.MinAdvanceNoticeDays) {
		res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
			Code: "advance_notice",
			Message: fmt.Sprintf("requests need %d days advance notice; start date %s is %d days away",
				policy.MinAdvanceNoticeDays, draft.StartDate, workforce.DaysBetween(today, draft.StartDate)),
		})
	}

	for _, hit := range workforce.BlackoutViolations(window, policy.BlackoutDates) {
		res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
			Code:    "blackout",
			Message: fmt.Sprintf("requested dates overlap blackout %q (%s to %s)", hit.Name, hit.Start, hit.End),
		})
	}

	if workforce.ExceedsConsecutiveDays(window, policy.MaxConsecutivePtoDays) {
		res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
			Code: "consecutive_days",
			Message: fmt.Sprintf("requested %d consecutive days exceeds the maximum of %d",
				draft.RequestedDays, policy.MaxConsecutivePtoDays),
		})
	}

	// 4. Conflict with the employee's own active requests.
	existing, err := w.Pto.GetPtoRequestsByEmployee(ctx, cmd.OrganizationID, cmd.Employee.ID)
	if err != nil {
		return res, err
	}
	if workforce.HasScheduleConflict(cmd.Employee.ID, window, existing) {
		res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
			Code:    "schedule_conflict",
			Message: fmt.Sprintf("employee %s already has time off overlapping %s", cmd.Employee.ID, window),
		})
	}

	// 5. Concurrency threshold is advisory.
	if policy.MaxConcurrentOnPto > 0 {
		concurrent, err := w.Pto.GetConcurrentPtoRequests(ctx, cmd.OrganizationID, window, "")
		if err != nil {
			return res, err
		}
		if n := workforce.CountConcurrent(concurrent, window, ""); n >= policy.MaxConcurrentOnPto {
			res.Warnings = append(res.Warnings, workforce.Warning{
				Code: "concurrency_threshold",
				Message: fmt.Sprintf("%d employees already on PTO in this window (threshold %d)",
					n, policy.MaxConcurrentOnPto),
			})
		}
	}

	// 6. Balance shortfall is advisory too.
	balance, err := w.Pto.GetEmployeePtoBalance(ctx, cmd.OrganizationID, cmd.Employee.ID)
	switch {
	case err == nil:
		requested := decimal.NewFromInt(int64(draft.RequestedDays))
		if balance.AvailableDays.LessThan(requested) {
			res.Warnings = append(res.Warnings, workforce.Warning{
				Code: "insufficient_balance",
				Message: fmt.Sprintf("requested %d days with only %s available",
					draft.RequestedDays, balance.AvailableDays),
			})
		}
	case workforce.IsNotFound(err):
		// No balance record is fine; the balance source is external.
	default:
		return res, err
	}

	// 7. Any validation error means nothing persists.
	if len(res.ValidationErrors) > 0 {
		return res, nil
	}

	// 8. Submit and persist, pinned to the policy version validated against.
	pending, err := draft.Submit(now)
	if err != nil {
		return res, err
	}
	pending.PolicyVersionID = policy.Meta.ID

	if err := w.Pto.CreatePtoRequest(ctx, pending); err != nil {
		return res, err
	}

	w.logger().WithFields(logrus.Fields{
		"request_id": pending.ID,
		"employee":   pending.Employee.ID,
		"days":       pending.RequestedDays,
	}).Info("pto request submitted")

	res.Success = true
	res.Request = &pending
	return res, nil
}

// =============================================================================
// APPROVE PTO
// =============================================================================

// ApprovePtoRequest approves a pending request, optionally insisting that
// backfill coverage is complete first.
func (w *PtoWorkflow) ApprovePtoRequest(ctx context.Context, cmd ApprovePtoCommand) (ApprovePtoResult, error) {
	res := ApprovePtoResult{}

	req, err := w.Pto.GetPtoRequest(ctx, cmd.RequestID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.Errors = append(res.Errors, fmt.Sprintf("pto request %s not found", cmd.RequestID))
			return res, nil
		}
		return res, err
	}

	if cmd.BackfillVerified {
		assignments, err := w.Backfill.GetBackfillAssignmentsByAbsence(ctx, string(req.ID))
		if err != nil {
			return res, err
		}
		summary := workforce.ComputeCoverageSummary(string(req.ID), assignments, w.Config.CoverageNeeded, w.Config.DefaultHourlyRate)
		if !summary.CoverageComplete {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"backfill coverage incomplete: %d pending, %d rejected (need %d confirmed)",
				summary.PendingCount, summary.RejectedCount, summary.TotalNeeded))
			return res, nil
		}
	}

	approved, err := req.Approve(cmd.ApprovedBy, w.now())
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	if err := w.Pto.UpdatePtoRequest(ctx, approved); err != nil {
		return res, err
	}

	w.logger().WithFields(logrus.Fields{
		"request_id": approved.ID,
		"approver":   cmd.ApprovedBy,
	}).Info("pto request approved")

	res.Success = true
	res.Request = &approved
	return res, nil
}

// =============================================================================
// REJECT PTO
// =============================================================================

// RejectPtoRequest rejects a pending request and cancels every dependent
// backfill assignment through the port, reporting how many were cancelled.
func (w *PtoWorkflow) RejectPtoRequest(ctx context.Context, cmd RejectPtoCommand) (RejectPtoResult, error) {
	res := RejectPtoResult{}

	req, err := w.Pto.GetPtoRequest(ctx, cmd.RequestID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.Errors = append(res.Errors, fmt.Sprintf("pto request %s not found", cmd.RequestID))
			return res, nil
		}
		return res, err
	}

	rejected, err := req.Reject(cmd.RejectedBy, cmd.Reason, w.now())
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	cancelled, err := w.cancelLinkedBackfills(ctx, string(req.ID))
	if err != nil {
		return res, err
	}
	res.BackfillsCancelled = cancelled

	if err := w.Pto.UpdatePtoRequest(ctx, rejected); err != nil {
		return res, err
	}

	w.logger().WithFields(logrus.Fields{
		"request_id":          rejected.ID,
		"backfills_cancelled": cancelled,
	}).Info("pto request rejected")

	res.Success = true
	res.Request = &rejected
	return res, nil
}

// =============================================================================
// CANCEL PTO
// =============================================================================

// CancelPtoRequest withdraws a draft or pending request, cancelling linked
// backfills the same way rejection does.
func (w *PtoWorkflow) CancelPtoRequest(ctx context.Context, cmd CancelPtoCommand) (CancelPtoResult, error) {
	res := CancelPtoResult{}

	req, err := w.Pto.GetPtoRequest(ctx, cmd.RequestID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.Errors = append(res.Errors, fmt.Sprintf("pto request %s not found", cmd.RequestID))
			return res, nil
		}
		return res, err
	}

	cancelledReq, err := req.Cancel(w.now())
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	cancelled, err := w.cancelLinkedBackfills(ctx, string(req.ID))
	if err != nil {
		return res, err
	}
	res.BackfillsCancelled = cancelled

	if err := w.Pto.UpdatePtoRequest(ctx, cancelledReq); err != nil {
		return res, err
	}

	res.Success = true
	res.Request = &cancelledReq
	return res, nil
}

// cancelLinkedBackfills cancels every non-terminal assignment covering the
// absence, one port mutation per assignment, and returns the count.
func (w *PtoWorkflow) cancelLinkedBackfills(ctx context.Context, absenceID string) (int, error) {
	assignments, err := w.Backfill.GetBackfillAssignmentsByAbsence(ctx, absenceID)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range assignments {
		if assignments[i].Status.IsTerminal() {
			continue
		}
		if _, err := w.Backfill.CancelBackfillAssignment(ctx, assignments[i].ID); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}
