/*
handlers.go - HTTP API handlers for the workforce coverage engine

PURPOSE:
  Exposes the absence and coverage workflows via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  PTO:
    POST   /api/pto/requests                 Submit PTO request
    GET    /api/pto/requests/{id}            Get request
    DELETE /api/pto/requests/{id}            Delete draft request
    POST   /api/pto/requests/{id}/approve    Approve (with coverage check)
    POST   /api/pto/requests/{id}/reject     Reject, cancel linked backfills
    POST   /api/pto/requests/{id}/cancel     Cancel, cancel linked backfills
    GET    /api/pto/policy                   Current policy
    GET    /api/pto/policy/versions          Version history
    POST   /api/pto/policy                   Create policy
    PUT    /api/pto/policy                   New policy version

  Training:
    POST   /api/training/records             Request training
    GET    /api/training/records/{id}        Get record
    POST   /api/training/records/{id}/approve
    POST   /api/training/records/{id}/complete
    GET    /api/training/policy              Current policy
    GET    /api/training/policy/versions     Version history
    POST   /api/training/policy              Create policy
    PUT    /api/training/policy              New policy version

  Backfill:
    POST   /api/backfills                    Assign coverage
    GET    /api/backfills/{id}               Get assignment
    DELETE /api/backfills/{id}               Delete (not when confirmed)
    POST   /api/backfills/{id}/cancel        Cancel assignment
    GET    /api/absences/{id}/coverage       Coverage summary
    GET    /api/absences/{id}/backfills      Assignments for an absence

  Employees:
    GET    /api/employees/{id}/pto           PTO requests
    GET    /api/employees/{id}/backfills     Backfill assignments
    GET    /api/employees/{id}/workload      Monthly backfill workload

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (double-booking, invalid state transition)
  - 500: Internal errors

  Workflow results carry their own success flag plus validation errors
  and warnings; those come back with status 200/422 depending on outcome.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - workflow: Use case implementations behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/admsmc/dykstra-funeral-website-sub009/workflow"
	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Pto      *workflow.PtoWorkflow
	Training *workflow.TrainingWorkflow
	Backfill *workflow.BackfillWorkflow

	PtoStore      workforce.PtoManagementPort
	TrainingStore workforce.TrainingManagementPort
	BackfillStore workforce.BackfillManagementPort

	Config workflow.Config
	Log    *logrus.Logger
}

// NewHandler wires handlers around the given workflows and stores.
func NewHandler(pto *workflow.PtoWorkflow, training *workflow.TrainingWorkflow, backfill *workflow.BackfillWorkflow, cfg workflow.Config, log *logrus.Logger) *Handler {
	return &Handler{
		Pto:           pto,
		Training:      training,
		Backfill:      backfill,
		PtoStore:      pto.Pto,
		TrainingStore: training.Training,
		BackfillStore: backfill.Backfill,
		Config:        cfg,
		Log:           log,
	}
}

// =============================================================================
// PTO HANDLERS
// =============================================================================

// SubmitPtoRequest validates and submits a new PTO request.
func (h *Handler) SubmitPtoRequest(w http.ResponseWriter, r *http.Request) {
	var body SubmitPtoRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := workforce.ParseDate(body.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := workforce.ParseDate(body.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	result, err := h.Pto.RequestPto(r.Context(), workflow.RequestPtoCommand{
		OrganizationID: workforce.OrganizationID(body.OrganizationID),
		Employee:       fromEmployeeDTO(body.Employee),
		Type:           workforce.PtoType(body.PtoType),
		StartDate:      start,
		EndDate:        end,
		Reason:         body.Reason,
		RequestedBy:    body.RequestedBy,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to submit request", err)
		return
	}

	dto := PtoRequestResultDTO{
		Success:          result.Success,
		ValidationErrors: toValidationErrorDTOs(result.ValidationErrors),
		Warnings:         toWarningDTOs(result.Warnings),
	}
	if result.Request != nil {
		req := toPtoRequestDTO(*result.Request)
		dto.Request = &req
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, dto)
}

// GetPtoRequest returns a single PTO request.
func (h *Handler) GetPtoRequest(w http.ResponseWriter, r *http.Request) {
	id := workforce.PtoRequestID(chi.URLParam(r, "id"))
	req, err := h.PtoStore.GetPtoRequest(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPtoRequestDTO(req))
}

// DeletePtoRequest deletes a draft PTO request.
func (h *Handler) DeletePtoRequest(w http.ResponseWriter, r *http.Request) {
	id := workforce.PtoRequestID(chi.URLParam(r, "id"))
	if err := h.PtoStore.DeletePtoRequest(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApprovePtoRequest approves a pending PTO request.
func (h *Handler) ApprovePtoRequest(w http.ResponseWriter, r *http.Request) {
	id := workforce.PtoRequestID(chi.URLParam(r, "id"))
	var body ApprovePtoRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Pto.ApprovePtoRequest(r.Context(), workflow.ApprovePtoCommand{
		RequestID:        id,
		ApprovedBy:       body.ApprovedBy,
		BackfillVerified: body.BackfillVerified,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve request", err)
		return
	}
	writePtoDecision(w, result.Success, result.Request, 0, result.Errors)
}

// RejectPtoRequest rejects a pending PTO request and cancels its backfills.
func (h *Handler) RejectPtoRequest(w http.ResponseWriter, r *http.Request) {
	id := workforce.PtoRequestID(chi.URLParam(r, "id"))
	var body RejectPtoRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Pto.RejectPtoRequest(r.Context(), workflow.RejectPtoCommand{
		RequestID:  id,
		RejectedBy: body.RejectedBy,
		Reason:     body.Reason,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reject request", err)
		return
	}
	writePtoDecision(w, result.Success, result.Request, result.BackfillsCancelled, result.Errors)
}

// CancelPtoRequest cancels a draft or pending PTO request.
func (h *Handler) CancelPtoRequest(w http.ResponseWriter, r *http.Request) {
	id := workforce.PtoRequestID(chi.URLParam(r, "id"))

	result, err := h.Pto.CancelPtoRequest(r.Context(), workflow.CancelPtoCommand{RequestID: id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to cancel request", err)
		return
	}
	writePtoDecision(w, result.Success, result.Request, result.BackfillsCancelled, result.Errors)
}

// ListEmployeePtoRequests returns all PTO requests for an employee.
func (h *Handler) ListEmployeePtoRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := workforce.EmployeeID(chi.URLParam(r, "id"))
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))

	requests, err := h.PtoStore.GetPtoRequestsByEmployee(r.Context(), orgID, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}

	dtos := make([]PtoRequestDTO, len(requests))
	for i, req := range requests {
		dtos[i] = toPtoRequestDTO(req)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func writePtoDecision(w http.ResponseWriter, success bool, req *workforce.PtoRequest, cancelled int, errs []string) {
	dto := PtoDecisionResultDTO{
		Success:            success,
		BackfillsCancelled: cancelled,
		Errors:             errs,
	}
	if req != nil {
		r := toPtoRequestDTO(*req)
		dto.Request = &r
	}
	status := http.StatusOK
	if !success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, dto)
}

// =============================================================================
// PTO POLICY HANDLERS
// =============================================================================

// GetPtoPolicy returns the current PTO policy for an organization.
func (h *Handler) GetPtoPolicy(w http.ResponseWriter, r *http.Request) {
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))
	policy, err := h.PtoStore.GetPtoPolicy(r.Context(), orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPtoPolicyDTO(policy))
}

// ListPtoPolicyVersions returns the full version history.
func (h *Handler) ListPtoPolicyVersions(w http.ResponseWriter, r *http.Request) {
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))
	versions, err := h.PtoStore.ListPtoPolicyVersions(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policy versions", err)
		return
	}
	dtos := make([]PtoPolicyDTO, len(versions))
	for i, p := range versions {
		dtos[i] = toPtoPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func ptoPolicyFromRequest(body WritePtoPolicyRequest) (workforce.PtoPolicy, error) {
	policy := workforce.PtoPolicy{
		MinAdvanceNoticeDays:  body.MinAdvanceNoticeDays,
		MaxConsecutivePtoDays: body.MaxConsecutivePtoDays,
		MaxConcurrentOnPto:    body.MaxConcurrentOnPto,
	}
	for _, b := range body.BlackoutDates {
		start, err := workforce.ParseDate(b.StartDate)
		if err != nil {
			return policy, err
		}
		end, err := workforce.ParseDate(b.EndDate)
		if err != nil {
			return policy, err
		}
		policy.BlackoutDates = append(policy.BlackoutDates, workforce.BlackoutDate{
			Name: b.Name, Start: start, End: end,
		})
	}
	return policy, nil
}

// CreatePtoPolicy creates the first PTO policy version for an organization.
func (h *Handler) CreatePtoPolicy(w http.ResponseWriter, r *http.Request) {
	var body WritePtoPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	policy, err := ptoPolicyFromRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid blackout date (use YYYY-MM-DD)", err)
		return
	}
	policy.Meta = workforce.NewPolicyMeta(
		workforce.PolicyID(uuid.NewString()),
		workforce.OrganizationID(body.OrganizationID),
		"pto-policy-"+body.OrganizationID,
		time.Now().UTC(),
	)
	if err := h.PtoStore.CreatePtoPolicy(r.Context(), policy); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPtoPolicyDTO(policy))
}

// UpdatePtoPolicy supersedes the current policy with a new version.
func (h *Handler) UpdatePtoPolicy(w http.ResponseWriter, r *http.Request) {
	var body WritePtoPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	updated, err := ptoPolicyFromRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid blackout date (use YYYY-MM-DD)", err)
		return
	}
	next, err := h.PtoStore.UpdatePtoPolicy(r.Context(), workforce.OrganizationID(body.OrganizationID), updated)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPtoPolicyDTO(next))
}

// =============================================================================
// TRAINING HANDLERS
// =============================================================================

// SubmitTrainingRequest validates and records a training request.
func (h *Handler) SubmitTrainingRequest(w http.ResponseWriter, r *http.Request) {
	var body SubmitTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	scheduled, err := workforce.ParseDate(body.ScheduledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scheduled_date format (use YYYY-MM-DD)", err)
		return
	}
	var end workforce.Date
	if body.EndDate != "" {
		end, err = workforce.ParseDate(body.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	result, err := h.Training.RequestTraining(r.Context(), workflow.RequestTrainingCommand{
		OrganizationID:  workforce.OrganizationID(body.OrganizationID),
		Employee:        fromEmployeeDTO(body.Employee),
		TrainingType:    body.TrainingType,
		TrainingName:    body.TrainingName,
		Hours:           body.Hours,
		Cost:            body.Cost,
		ScheduledDate:   scheduled,
		EndDate:         end,
		RequiredForRole: body.RequiredForRole,
		RequestedBy:     body.RequestedBy,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to request training", err)
		return
	}

	dto := TrainingResultDTO{
		Success:          result.Success,
		RequiresApproval: result.RequiresApproval,
		RequiresBackfill: result.RequiresBackfill,
		ValidationErrors: toValidationErrorDTOs(result.ValidationErrors),
		Warnings:         toWarningDTOs(result.Warnings),
	}
	if result.TrainingRecord != nil {
		rec := toTrainingRecordDTO(*result.TrainingRecord)
		dto.TrainingRecord = &rec
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, dto)
}

// GetTrainingRecord returns a single training record.
func (h *Handler) GetTrainingRecord(w http.ResponseWriter, r *http.Request) {
	id := workforce.TrainingRecordID(chi.URLParam(r, "id"))
	rec, err := h.TrainingStore.GetTrainingRecord(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrainingRecordDTO(rec))
}

// ApproveTraining approves a scheduled training, optionally starting it.
func (h *Handler) ApproveTraining(w http.ResponseWriter, r *http.Request) {
	id := workforce.TrainingRecordID(chi.URLParam(r, "id"))
	var body ApproveTrainingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cmd := workflow.ApproveTrainingCommand{
		TrainingID:       id,
		ApprovedBy:       body.ApprovedBy,
		ScheduleTraining: body.ScheduleTraining,
	}
	if body.StartDate != nil {
		start, err := workforce.ParseDate(*body.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
			return
		}
		cmd.StartDate = &start
	}

	result, err := h.Training.ApproveTraining(r.Context(), cmd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to approve training", err)
		return
	}
	writeTrainingDecision(w, result.Success, result.TrainingRecord, result.BackfillAssigned, 0, result.Errors)
}

// CompleteTraining records completion, certification, and releases backfills.
func (h *Handler) CompleteTraining(w http.ResponseWriter, r *http.Request) {
	id := workforce.TrainingRecordID(chi.URLParam(r, "id"))
	var body CompleteTrainingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cmd := workflow.CompleteTrainingCommand{
		TrainingID:          id,
		Hours:               body.Hours,
		CertificationNumber: body.CertificationNumber,
		CompletedBy:         body.CompletedBy,
	}
	if body.ExpiresAt != nil {
		expires, err := workforce.ParseDate(*body.ExpiresAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expires_at format (use YYYY-MM-DD)", err)
			return
		}
		cmd.ExpiresAt = &expires
	}

	result, err := h.Training.CompleteTraining(r.Context(), cmd)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to complete training", err)
		return
	}
	writeTrainingDecision(w, result.Success, result.TrainingRecord, false, result.BackfillsReleased, result.Errors)
}

func writeTrainingDecision(w http.ResponseWriter, success bool, rec *workforce.TrainingRecord, assigned bool, released int, errs []string) {
	dto := TrainingDecisionResultDTO{
		Success:           success,
		BackfillAssigned:  assigned,
		BackfillsReleased: released,
		Errors:            errs,
	}
	if rec != nil {
		r := toTrainingRecordDTO(*rec)
		dto.TrainingRecord = &r
	}
	status := http.StatusOK
	if !success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, dto)
}

// =============================================================================
// TRAINING POLICY HANDLERS
// =============================================================================

// GetTrainingPolicy returns the current training policy for an organization.
func (h *Handler) GetTrainingPolicy(w http.ResponseWriter, r *http.Request) {
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))
	policy, err := h.TrainingStore.GetTrainingPolicy(r.Context(), orgID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrainingPolicyDTO(policy))
}

// ListTrainingPolicyVersions returns the full version history.
func (h *Handler) ListTrainingPolicyVersions(w http.ResponseWriter, r *http.Request) {
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))
	versions, err := h.TrainingStore.ListTrainingPolicyVersions(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policy versions", err)
		return
	}
	dtos := make([]TrainingPolicyDTO, len(versions))
	for i, p := range versions {
		dtos[i] = toTrainingPolicyDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func trainingPolicyFromRequest(body WriteTrainingPolicyRequest) workforce.TrainingPolicy {
	policy := workforce.TrainingPolicy{
		ApprovalRequiredAboveCost: body.ApprovalRequiredAboveCost,
		RoleRequirements:          make(map[string]workforce.RoleRequirement, len(body.RoleRequirements)),
	}
	for role, r := range body.RoleRequirements {
		policy.RoleRequirements[role] = workforce.RoleRequirement{
			AnnualTrainingHours:  r.AnnualTrainingHours,
			AnnualTrainingBudget: r.AnnualTrainingBudget,
		}
	}
	return policy
}

// CreateTrainingPolicy creates the first training policy version.
func (h *Handler) CreateTrainingPolicy(w http.ResponseWriter, r *http.Request) {
	var body WriteTrainingPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	policy := trainingPolicyFromRequest(body)
	policy.Meta = workforce.NewPolicyMeta(
		workforce.PolicyID(uuid.NewString()),
		workforce.OrganizationID(body.OrganizationID),
		"training-policy-"+body.OrganizationID,
		time.Now().UTC(),
	)
	if err := h.TrainingStore.CreateTrainingPolicy(r.Context(), policy); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create policy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTrainingPolicyDTO(policy))
}

// UpdateTrainingPolicy supersedes the current policy with a new version.
func (h *Handler) UpdateTrainingPolicy(w http.ResponseWriter, r *http.Request) {
	var body WriteTrainingPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	updated := trainingPolicyFromRequest(body)
	next, err := h.TrainingStore.UpdateTrainingPolicy(r.Context(), workforce.OrganizationID(body.OrganizationID), updated)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrainingPolicyDTO(next))
}

// =============================================================================
// BACKFILL HANDLERS
// =============================================================================

// AssignBackfill assigns a coverage employee to an absence window.
func (h *Handler) AssignBackfill(w http.ResponseWriter, r *http.Request) {
	var body AssignBackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := workforce.ParseDate(body.AbsenceStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid absence_start format (use YYYY-MM-DD)", err)
		return
	}
	end, err := workforce.ParseDate(body.AbsenceEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid absence_end format (use YYYY-MM-DD)", err)
		return
	}

	result, err := h.Backfill.AssignPtoBackfill(r.Context(), workflow.AssignBackfillCommand{
		OrganizationID: workforce.OrganizationID(body.OrganizationID),
		Absence: workforce.AbsenceRef{
			AbsenceID: body.AbsenceID,
			Type:      workforce.AbsenceType(body.AbsenceType),
			Start:     start,
			End:       end,
		},
		AbsentEmployee:      fromEmployeeDTO(body.AbsentEmployee),
		BackfillEmployee:    fromEmployeeDTO(body.BackfillEmployee),
		PremiumMultiplier:   body.PremiumMultiplier,
		HourlyRate:          body.HourlyRate,
		SendForConfirmation: body.SendForConfirmation,
		AssignedBy:          body.AssignedBy,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign backfill", err)
		return
	}

	dto := AssignBackfillResultDTO{
		Success:        result.Success,
		EstimatedHours: result.EstimatedHours,
		EstimatedCost:  result.EstimatedCost,
		Errors:         result.Errors,
		Warnings:       toWarningDTOs(result.Warnings),
	}
	if result.Assignment != nil {
		a := toBackfillAssignmentDTO(*result.Assignment)
		dto.Assignment = &a
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusConflict
	}
	writeJSON(w, status, dto)
}

// GetBackfillAssignment returns a single backfill assignment.
func (h *Handler) GetBackfillAssignment(w http.ResponseWriter, r *http.Request) {
	id := workforce.AssignmentID(chi.URLParam(r, "id"))
	a, err := h.BackfillStore.GetBackfillAssignment(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBackfillAssignmentDTO(a))
}

// CancelBackfillAssignment cancels a non-terminal assignment.
func (h *Handler) CancelBackfillAssignment(w http.ResponseWriter, r *http.Request) {
	id := workforce.AssignmentID(chi.URLParam(r, "id"))
	a, err := h.BackfillStore.CancelBackfillAssignment(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBackfillAssignmentDTO(a))
}

// DeleteBackfillAssignment deletes an assignment unless it is confirmed.
func (h *Handler) DeleteBackfillAssignment(w http.ResponseWriter, r *http.Request) {
	id := workforce.AssignmentID(chi.URLParam(r, "id"))
	if err := h.BackfillStore.DeleteBackfillAssignment(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAbsenceCoverage returns the coverage summary for one absence.
func (h *Handler) GetAbsenceCoverage(w http.ResponseWriter, r *http.Request) {
	absenceID := chi.URLParam(r, "id")
	backfills, err := h.BackfillStore.GetBackfillAssignmentsByAbsence(r.Context(), absenceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	summary := workforce.ComputeCoverageSummary(absenceID, backfills, h.Config.CoverageNeeded, h.Config.DefaultHourlyRate)
	writeJSON(w, http.StatusOK, toCoverageSummaryDTO(summary))
}

// ListAbsenceBackfills returns all assignments linked to one absence.
func (h *Handler) ListAbsenceBackfills(w http.ResponseWriter, r *http.Request) {
	absenceID := chi.URLParam(r, "id")
	backfills, err := h.BackfillStore.GetBackfillAssignmentsByAbsence(r.Context(), absenceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	dtos := make([]BackfillAssignmentDTO, len(backfills))
	for i, a := range backfills {
		dtos[i] = toBackfillAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListEmployeeBackfills returns all assignments where an employee covers.
func (h *Handler) ListEmployeeBackfills(w http.ResponseWriter, r *http.Request) {
	employeeID := workforce.EmployeeID(chi.URLParam(r, "id"))
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))

	backfills, err := h.BackfillStore.GetBackfillAssignmentsByEmployee(r.Context(), orgID, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	dtos := make([]BackfillAssignmentDTO, len(backfills))
	for i, a := range backfills {
		dtos[i] = toBackfillAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeWorkload returns the monthly backfill workload for an employee.
// Month comes from the ?month=YYYY-MM query parameter, defaulting to the
// current month.
func (h *Handler) GetEmployeeWorkload(w http.ResponseWriter, r *http.Request) {
	employeeID := workforce.EmployeeID(chi.URLParam(r, "id"))
	orgID := workforce.OrganizationID(r.URL.Query().Get("organization_id"))

	anchor := workforce.Today()
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		parsed, err := workforce.ParseDate(monthStr + "-01")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
			return
		}
		anchor = parsed
	}
	month := workforce.DateRange{
		Start: workforce.StartOfMonth(anchor),
		End:   workforce.EndOfMonth(anchor),
	}

	backfills, err := h.BackfillStore.GetBackfillAssignmentsByEmployee(r.Context(), orgID, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}
	workload := workforce.ComputeEmployeeWorkload(employeeID, backfills, month, h.Config.DefaultHourlyRate, h.Config.MonthlyHourCeiling)
	writeJSON(w, http.StatusOK, toEmployeeWorkloadDTO(workload))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var invalidState *workforce.InvalidStateError
	switch {
	case workforce.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case workforce.IsConflict(err):
		writeError(w, http.StatusConflict, "Scheduling conflict", err)
	case errors.As(err, &invalidState):
		writeError(w, http.StatusConflict, "Invalid state transition", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
