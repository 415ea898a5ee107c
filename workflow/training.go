/*
training.go - Training workflow use cases

PURPOSE:
  RequestTraining, ApproveTraining, CompleteTraining. Training couples to
  the backfill workflow twice: a multi-day course flags RequiresBackfill on
  request, and completion releases every assignment covering the span
  through a single port operation.

SEE ALSO:
  - workforce/training.go: entity lifecycle
  - workforce/policy.go: TrainingPolicy thresholds and role allowances
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

// TrainingWorkflow orchestrates the training lifecycle.
type TrainingWorkflow struct {
	Training workforce.TrainingManagementPort
	Backfill workforce.BackfillManagementPort
	Config   Config
	Log      *logrus.Logger

	Clock func() time.Time
	NewID func() string
}

func NewTrainingWorkflow(training workforce.TrainingManagementPort, backfill workforce.BackfillManagementPort, cfg Config, log *logrus.Logger) *TrainingWorkflow {
	return &TrainingWorkflow{Training: training, Backfill: backfill, Config: cfg, Log: log}
}

func (w *TrainingWorkflow) now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now().UTC()
}

func (w *TrainingWorkflow) newID() string {
	if w.NewID != nil {
		return w.NewID()
	}
	return uuid.NewString()
}

func (w *TrainingWorkflow) logger() *logrus.Logger {
	if w.Log != nil {
		return w.Log
	}
	return logrus.StandardLogger()
}

// =============================================================================
// REQUEST TRAINING
// =============================================================================

// RequestTraining validates a training request against the organization's
// training policy and the employee's annual role allowance, then persists
// the scheduled record.
func (w *TrainingWorkflow) RequestTraining(ctx context.Context, cmd RequestTrainingCommand) (RequestTrainingResult, error) {
	res := RequestTrainingResult{}
	now := w.now()

	// 1. Current training policy.
	policy, err := w.Training.GetTrainingPolicy(ctx, cmd.OrganizationID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
				Code:    "policy_not_found",
				Message: fmt.Sprintf("no training policy found for organization %s", cmd.OrganizationID),
			})
			return res, nil
		}
		return res, err
	}

	// 2. Cost threshold decides the approval path.
	res.RequiresApproval = policy.RequiresApproval(cmd.Cost)

	// 3. Construct the record. Multi-day detection uses the real span from
	// the command, so a course ending after its scheduled day is caught.
	record, err := workforce.NewTrainingRecord(
		workforce.TrainingRecordID(w.newID()),
		cmd.OrganizationID, cmd.Employee,
		cmd.TrainingType, cmd.TrainingName,
		cmd.Hours, cmd.Cost,
		cmd.ScheduledDate, cmd.EndDate,
		cmd.RequiredForRole, cmd.RequestedBy, now,
	)
	if err != nil {
		res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
			Code:    "invalid_date_range",
			Message: fmt.Sprintf("end date %s is before scheduled date %s", cmd.EndDate, cmd.ScheduledDate),
		})
		return res, nil
	}
	res.RequiresBackfill = workforce.IsMultiDay(cmd.ScheduledDate, cmd.EndDate)

	// 4. Annual allowance for the employee's role.
	if req, ok := policy.RequirementForRole(cmd.Employee.Role); ok {
		summary, err := w.Training.GetEmployeeTrainingSummary(ctx, cmd.OrganizationID, cmd.Employee.ID, cmd.ScheduledDate.Year())
		switch {
		case err == nil:
			if summary.HoursUsed.Add(cmd.Hours).GreaterThan(req.AnnualTrainingHours) {
				res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
					Code: "training_hours_exceeded",
					Message: fmt.Sprintf("role %q allows %s training hours per year; %s already used, %s requested",
						cmd.Employee.Role, req.AnnualTrainingHours, summary.HoursUsed, cmd.Hours),
				})
			}
			if summary.CostSpent.Add(cmd.Cost).GreaterThan(req.AnnualTrainingBudget) {
				res.ValidationErrors = append(res.ValidationErrors, workforce.ValidationError{
					Code: "training_budget_exceeded",
					Message: fmt.Sprintf("role %q has an annual training budget of %s; %s already spent, %s requested",
						cmd.Employee.Role, req.AnnualTrainingBudget, summary.CostSpent, cmd.Cost),
				})
			}
		case workforce.IsNotFound(err):
			// No summary yet means nothing consumed this year.
		default:
			return res, err
		}
	}

	if len(res.ValidationErrors) > 0 {
		return res, nil
	}

	// 5. Persist, pinned to the policy version validated against.
	record.PolicyVersionID = policy.Meta.ID
	if err := w.Training.CreateTrainingRecord(ctx, record); err != nil {
		return res, err
	}

	w.logger().WithFields(logrus.Fields{
		"training_id":       record.ID,
		"employee":          record.Employee.ID,
		"requires_approval": res.RequiresApproval,
		"requires_backfill": res.RequiresBackfill,
	}).Info("training requested")

	res.Success = true
	res.TrainingRecord = &record
	return res, nil
}

// =============================================================================
// APPROVE TRAINING
// =============================================================================

// ApproveTraining confirms a scheduled record, optionally starting it at a
// given date. Backfill auto-assignment is deliberately NOT performed here:
// the caller follows up with AssignPtoBackfill, and BackfillAssigned stays
// false until that happens.
func (w *TrainingWorkflow) ApproveTraining(ctx context.Context, cmd ApproveTrainingCommand) (ApproveTrainingResult, error) {
	res := ApproveTrainingResult{}

	record, err := w.Training.GetTrainingRecord(ctx, cmd.TrainingID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.Errors = append(res.Errors, fmt.Sprintf("training record %s not found", cmd.TrainingID))
			return res, nil
		}
		return res, err
	}

	if record.Status != workforce.TrainingScheduled {
		res.Errors = append(res.Errors, (&workforce.InvalidStateError{
			Entity: "training_record", Transition: "approve",
			Current: string(record.Status), Allowed: []string{string(workforce.TrainingScheduled)},
		}).Error())
		return res, nil
	}

	if cmd.ScheduleTraining && cmd.StartDate != nil {
		record, err = record.Start(*cmd.StartDate, w.now())
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			return res, nil
		}
	}

	if err := w.Training.UpdateTrainingRecord(ctx, record); err != nil {
		return res, err
	}

	res.Success = true
	res.TrainingRecord = &record
	return res, nil
}

// =============================================================================
// COMPLETE TRAINING
// =============================================================================

// CompleteTraining applies certification data and releases every backfill
// assignment covering the training's span through the port, returning the
// release count.
func (w *TrainingWorkflow) CompleteTraining(ctx context.Context, cmd CompleteTrainingCommand) (CompleteTrainingResult, error) {
	res := CompleteTrainingResult{}

	record, err := w.Training.GetTrainingRecord(ctx, cmd.TrainingID)
	if err != nil {
		if workforce.IsNotFound(err) {
			res.Errors = append(res.Errors, fmt.Sprintf("training record %s not found", cmd.TrainingID))
			return res, nil
		}
		return res, err
	}

	completed, err := record.Complete(workforce.Certification{
		Hours:               cmd.Hours,
		CertificationNumber: cmd.CertificationNumber,
		ExpiresAt:           cmd.ExpiresAt,
	}, w.now())
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res, nil
	}

	// Release coverage for the whole span. This is a real mutation on the
	// backfill port, not a count of what would have been released.
	span := completed.Span()
	released, err := w.Backfill.ReleaseBackfillsForWindow(ctx, completed.OrganizationID, span)
	if err != nil {
		return res, err
	}
	res.BackfillsReleased = released

	if err := w.Training.UpdateTrainingRecord(ctx, completed); err != nil {
		return res, err
	}

	w.logger().WithFields(logrus.Fields{
		"training_id":        completed.ID,
		"backfills_released": released,
	}).Info("training completed")

	res.Success = true
	res.TrainingRecord = &completed
	return res, nil
}
