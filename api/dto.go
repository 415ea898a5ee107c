/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request / *Body: Request body types from clients

TYPES:
  PTO:
    PtoRequestDTO, SubmitPtoRequest, ApprovePtoRequestBody,
    RejectPtoRequestBody, PtoRequestResultDTO, PtoDecisionResultDTO

  Training:
    TrainingRecordDTO, SubmitTrainingRequest, ApproveTrainingBody,
    CompleteTrainingBody, TrainingResultDTO, TrainingDecisionResultDTO

  Backfill:
    BackfillAssignmentDTO, AssignBackfillRequest, CoverageSummaryDTO,
    EmployeeWorkloadDTO

  Policies:
    PtoPolicyDTO, TrainingPolicyDTO and their write requests

VALIDATION:
  Validation is done in handlers and workflows, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - workflow/commands.go: The commands these map onto
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

// =============================================================================
// SHARED TYPES
// =============================================================================

// EmployeeDTO identifies an employee in requests and responses.
type EmployeeDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ValidationErrorDTO is a single policy or input violation.
type ValidationErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WarningDTO is a non-blocking advisory attached to a successful result.
type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// PTO TYPES
// =============================================================================

// SubmitPtoRequest is the request body for submitting a PTO request.
type SubmitPtoRequest struct {
	OrganizationID string      `json:"organization_id"`
	Employee       EmployeeDTO `json:"employee"`
	PtoType        string      `json:"pto_type"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	Reason         string      `json:"reason,omitempty"`
	RequestedBy    string      `json:"requested_by"`
}

// PtoRequestDTO represents a PTO request in API responses.
type PtoRequestDTO struct {
	ID              string      `json:"id"`
	OrganizationID  string      `json:"organization_id"`
	Employee        EmployeeDTO `json:"employee"`
	PtoType         string      `json:"pto_type"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	RequestedDays   int         `json:"requested_days"`
	Reason          string      `json:"reason,omitempty"`
	Status          string      `json:"status"`
	PolicyVersionID string      `json:"policy_version_id,omitempty"`
	CreatedBy       string      `json:"created_by"`
	ApprovedBy      string      `json:"approved_by,omitempty"`
	RejectedBy      string      `json:"rejected_by,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`
	UpdatedAt       string      `json:"updated_at,omitempty"`
}

// PtoRequestResultDTO is the response after submitting a PTO request.
type PtoRequestResultDTO struct {
	Success          bool                 `json:"success"`
	Request          *PtoRequestDTO       `json:"request,omitempty"`
	ValidationErrors []ValidationErrorDTO `json:"validation_errors,omitempty"`
	Warnings         []WarningDTO         `json:"warnings,omitempty"`
}

// ApprovePtoRequestBody is the request body for approving a PTO request.
type ApprovePtoRequestBody struct {
	ApprovedBy       string `json:"approved_by"`
	BackfillVerified bool   `json:"backfill_verified"`
}

// RejectPtoRequestBody is the request body for rejecting a PTO request.
type RejectPtoRequestBody struct {
	RejectedBy string `json:"rejected_by"`
	Reason     string `json:"reason"`
}

// PtoDecisionResultDTO is the response for approve/reject/cancel operations.
type PtoDecisionResultDTO struct {
	Success            bool           `json:"success"`
	Request            *PtoRequestDTO `json:"request,omitempty"`
	BackfillsCancelled int            `json:"backfills_cancelled,omitempty"`
	Errors             []string       `json:"errors,omitempty"`
}

// =============================================================================
// TRAINING TYPES
// =============================================================================

// SubmitTrainingRequest is the request body for requesting training.
type SubmitTrainingRequest struct {
	OrganizationID  string          `json:"organization_id"`
	Employee        EmployeeDTO     `json:"employee"`
	TrainingType    string          `json:"training_type"`
	TrainingName    string          `json:"training_name"`
	Hours           decimal.Decimal `json:"hours"`
	Cost            decimal.Decimal `json:"cost"`
	ScheduledDate   string          `json:"scheduled_date"`
	EndDate         string          `json:"end_date,omitempty"`
	RequiredForRole bool            `json:"required_for_role"`
	RequestedBy     string          `json:"requested_by"`
}

// TrainingRecordDTO represents a training record in API responses.
type TrainingRecordDTO struct {
	ID                  string          `json:"id"`
	OrganizationID      string          `json:"organization_id"`
	Employee            EmployeeDTO     `json:"employee"`
	TrainingType        string          `json:"training_type"`
	TrainingName        string          `json:"training_name"`
	Hours               decimal.Decimal `json:"hours"`
	Cost                decimal.Decimal `json:"cost"`
	Status              string          `json:"status"`
	ScheduledDate       string          `json:"scheduled_date"`
	StartDate           string          `json:"start_date,omitempty"`
	EndDate             string          `json:"end_date,omitempty"`
	CertificationNumber string          `json:"certification_number,omitempty"`
	ExpiresAt           *string         `json:"expires_at,omitempty"`
	RequiredForRole     bool            `json:"required_for_role"`
	PolicyVersionID     string          `json:"policy_version_id,omitempty"`
	CreatedBy           string          `json:"created_by"`
	CreatedAt           string          `json:"created_at,omitempty"`
	UpdatedAt           string          `json:"updated_at,omitempty"`
}

// TrainingResultDTO is the response after requesting training.
type TrainingResultDTO struct {
	Success          bool                 `json:"success"`
	TrainingRecord   *TrainingRecordDTO   `json:"training_record,omitempty"`
	RequiresApproval bool                 `json:"requires_approval"`
	RequiresBackfill bool                 `json:"requires_backfill"`
	ValidationErrors []ValidationErrorDTO `json:"validation_errors,omitempty"`
	Warnings         []WarningDTO         `json:"warnings,omitempty"`
}

// ApproveTrainingBody is the request body for approving training.
type ApproveTrainingBody struct {
	ApprovedBy       string  `json:"approved_by"`
	ScheduleTraining bool    `json:"schedule_training"`
	StartDate        *string `json:"start_date,omitempty"`
}

// CompleteTrainingBody is the request body for completing training.
type CompleteTrainingBody struct {
	Hours               decimal.Decimal `json:"hours"`
	CertificationNumber string          `json:"certification_number,omitempty"`
	ExpiresAt           *string         `json:"expires_at,omitempty"`
	CompletedBy         string          `json:"completed_by"`
}

// TrainingDecisionResultDTO is the response for training approve/complete.
type TrainingDecisionResultDTO struct {
	Success           bool               `json:"success"`
	TrainingRecord    *TrainingRecordDTO `json:"training_record,omitempty"`
	BackfillAssigned  bool               `json:"backfill_assigned,omitempty"`
	BackfillsReleased int                `json:"backfills_released,omitempty"`
	Errors            []string           `json:"errors,omitempty"`
}

// =============================================================================
// BACKFILL TYPES
// =============================================================================

// AssignBackfillRequest is the request body for assigning coverage.
type AssignBackfillRequest struct {
	OrganizationID      string          `json:"organization_id"`
	AbsenceID           string          `json:"absence_id"`
	AbsenceType         string          `json:"absence_type"`
	AbsenceStart        string          `json:"absence_start"`
	AbsenceEnd          string          `json:"absence_end"`
	AbsentEmployee      EmployeeDTO     `json:"absent_employee"`
	BackfillEmployee    EmployeeDTO     `json:"backfill_employee"`
	PremiumMultiplier   decimal.Decimal `json:"premium_multiplier"`
	HourlyRate          decimal.Decimal `json:"hourly_rate"`
	SendForConfirmation bool            `json:"send_for_confirmation"`
	AssignedBy          string          `json:"assigned_by"`
}

// BackfillAssignmentDTO represents a backfill assignment in responses.
type BackfillAssignmentDTO struct {
	ID                string          `json:"id"`
	OrganizationID    string          `json:"organization_id"`
	AbsenceID         string          `json:"absence_id"`
	AbsenceType       string          `json:"absence_type"`
	AbsenceStart      string          `json:"absence_start"`
	AbsenceEnd        string          `json:"absence_end"`
	AbsentEmployee    EmployeeDTO     `json:"absent_employee"`
	BackfillEmployee  EmployeeDTO     `json:"backfill_employee"`
	PremiumType       string          `json:"premium_type"`
	PremiumMultiplier decimal.Decimal `json:"premium_multiplier"`
	EstimatedHours    decimal.Decimal `json:"estimated_hours"`
	Status            string          `json:"status"`
	AssignedBy        string          `json:"assigned_by"`
	CreatedAt         string          `json:"created_at,omitempty"`
	UpdatedAt         string          `json:"updated_at,omitempty"`
}

// AssignBackfillResultDTO is the response after assigning a backfill.
type AssignBackfillResultDTO struct {
	Success        bool                   `json:"success"`
	Assignment     *BackfillAssignmentDTO `json:"assignment,omitempty"`
	EstimatedHours decimal.Decimal        `json:"estimated_hours"`
	EstimatedCost  decimal.Decimal        `json:"estimated_cost"`
	Errors         []string               `json:"errors,omitempty"`
	Warnings       []WarningDTO           `json:"warnings,omitempty"`
}

// CoverageSummaryDTO reports coverage state for one absence.
type CoverageSummaryDTO struct {
	AbsenceID        string          `json:"absence_id"`
	TotalNeeded      int             `json:"total_needed"`
	ConfirmedCount   int             `json:"confirmed_count"`
	PendingCount     int             `json:"pending_count"`
	RejectedCount    int             `json:"rejected_count"`
	CoverageComplete bool            `json:"coverage_complete"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
}

// EmployeeWorkloadDTO reports one employee's backfill load for a month.
type EmployeeWorkloadDTO struct {
	EmployeeID         string          `json:"employee_id"`
	Month              string          `json:"month"`
	ConfirmedCount     int             `json:"confirmed_count"`
	PendingCount       int             `json:"pending_count"`
	TotalHours         decimal.Decimal `json:"total_hours"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	MaxCapacityReached bool            `json:"max_capacity_reached"`
}

// =============================================================================
// POLICY TYPES
// =============================================================================

// BlackoutDateDTO is one blackout window inside a PTO policy.
type BlackoutDateDTO struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// PtoPolicyDTO represents a PTO policy version in API responses.
type PtoPolicyDTO struct {
	ID                    string            `json:"id"`
	OrganizationID        string            `json:"organization_id"`
	BusinessKey           string            `json:"business_key"`
	Version               int               `json:"version"`
	ValidFrom             string            `json:"valid_from"`
	ValidTo               *string           `json:"valid_to,omitempty"`
	IsCurrent             bool              `json:"is_current"`
	MinAdvanceNoticeDays  int               `json:"min_advance_notice_days"`
	BlackoutDates         []BlackoutDateDTO `json:"blackout_dates"`
	MaxConsecutivePtoDays int               `json:"max_consecutive_pto_days"`
	MaxConcurrentOnPto    int               `json:"max_concurrent_on_pto"`
}

// WritePtoPolicyRequest is the request body for creating or updating a
// PTO policy. Updates create a new version rather than mutating in place.
type WritePtoPolicyRequest struct {
	OrganizationID        string            `json:"organization_id"`
	MinAdvanceNoticeDays  int               `json:"min_advance_notice_days"`
	BlackoutDates         []BlackoutDateDTO `json:"blackout_dates"`
	MaxConsecutivePtoDays int               `json:"max_consecutive_pto_days"`
	MaxConcurrentOnPto    int               `json:"max_concurrent_on_pto"`
}

// RoleRequirementDTO is the annual training allowance for one role.
type RoleRequirementDTO struct {
	AnnualTrainingHours  decimal.Decimal `json:"annual_training_hours"`
	AnnualTrainingBudget decimal.Decimal `json:"annual_training_budget"`
}

// TrainingPolicyDTO represents a training policy version in API responses.
type TrainingPolicyDTO struct {
	ID                        string                        `json:"id"`
	OrganizationID            string                        `json:"organization_id"`
	BusinessKey               string                        `json:"business_key"`
	Version                   int                           `json:"version"`
	ValidFrom                 string                        `json:"valid_from"`
	ValidTo                   *string                       `json:"valid_to,omitempty"`
	IsCurrent                 bool                          `json:"is_current"`
	ApprovalRequiredAboveCost decimal.Decimal               `json:"approval_required_above_cost"`
	RoleRequirements          map[string]RoleRequirementDTO `json:"role_requirements"`
}

// WriteTrainingPolicyRequest is the request body for creating or updating
// a training policy.
type WriteTrainingPolicyRequest struct {
	OrganizationID            string                        `json:"organization_id"`
	ApprovalRequiredAboveCost decimal.Decimal               `json:"approval_required_above_cost"`
	RoleRequirements          map[string]RoleRequirementDTO `json:"role_requirements"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e workforce.EmployeeRef) EmployeeDTO {
	return EmployeeDTO{ID: string(e.ID), Name: e.Name, Role: e.Role}
}

func fromEmployeeDTO(d EmployeeDTO) workforce.EmployeeRef {
	return workforce.EmployeeRef{ID: workforce.EmployeeID(d.ID), Name: d.Name, Role: d.Role}
}

func toValidationErrorDTOs(errs []workforce.ValidationError) []ValidationErrorDTO {
	if len(errs) == 0 {
		return nil
	}
	out := make([]ValidationErrorDTO, len(errs))
	for i, e := range errs {
		out[i] = ValidationErrorDTO{Code: e.Code, Message: e.Message}
	}
	return out
}

func toWarningDTOs(warnings []workforce.Warning) []WarningDTO {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]WarningDTO, len(warnings))
	for i, w := range warnings {
		out[i] = WarningDTO{Code: w.Code, Message: w.Message}
	}
	return out
}

func toPtoRequestDTO(r workforce.PtoRequest) PtoRequestDTO {
	return PtoRequestDTO{
		ID:              string(r.ID),
		OrganizationID:  string(r.OrganizationID),
		Employee:        toEmployeeDTO(r.Employee),
		PtoType:         string(r.Type),
		StartDate:       r.StartDate.String(),
		EndDate:         r.EndDate.String(),
		RequestedDays:   r.RequestedDays,
		Reason:          r.Reason,
		Status:          string(r.Status),
		PolicyVersionID: string(r.PolicyVersionID),
		CreatedBy:       r.CreatedBy,
		ApprovedBy:      r.ApprovedBy,
		RejectedBy:      r.RejectedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}

func toTrainingRecordDTO(t workforce.TrainingRecord) TrainingRecordDTO {
	dto := TrainingRecordDTO{
		ID:                  string(t.ID),
		OrganizationID:      string(t.OrganizationID),
		Employee:            toEmployeeDTO(t.Employee),
		TrainingType:        t.TrainingType,
		TrainingName:        t.TrainingName,
		Hours:               t.Hours,
		Cost:                t.Cost,
		Status:              string(t.Status),
		ScheduledDate:       t.ScheduledDate.String(),
		CertificationNumber: t.CertificationNumber,
		RequiredForRole:     t.RequiredForRole,
		PolicyVersionID:     string(t.PolicyVersionID),
		CreatedBy:           t.CreatedBy,
		CreatedAt:           t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           t.UpdatedAt.Format(time.RFC3339),
	}
	if !t.StartDate.IsZero() {
		dto.StartDate = t.StartDate.String()
	}
	if !t.EndDate.IsZero() {
		dto.EndDate = t.EndDate.String()
	}
	if t.ExpiresAt != nil {
		s := t.ExpiresAt.String()
		dto.ExpiresAt = &s
	}
	return dto
}

func toBackfillAssignmentDTO(a workforce.BackfillAssignment) BackfillAssignmentDTO {
	return BackfillAssignmentDTO{
		ID:                string(a.ID),
		OrganizationID:    string(a.OrganizationID),
		AbsenceID:         a.Absence.AbsenceID,
		AbsenceType:       string(a.Absence.Type),
		AbsenceStart:      a.Absence.Start.String(),
		AbsenceEnd:        a.Absence.End.String(),
		AbsentEmployee:    toEmployeeDTO(a.AbsentEmployee),
		BackfillEmployee:  toEmployeeDTO(a.BackfillEmployee),
		PremiumType:       string(a.PremiumType),
		PremiumMultiplier: a.PremiumMultiplier,
		EstimatedHours:    a.EstimatedHours,
		Status:            string(a.Status),
		AssignedBy:        a.AssignedBy,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.Format(time.RFC3339),
	}
}

func toPtoPolicyDTO(p workforce.PtoPolicy) PtoPolicyDTO {
	dto := PtoPolicyDTO{
		ID:                    string(p.Meta.ID),
		OrganizationID:        string(p.Meta.OrganizationID),
		BusinessKey:           p.Meta.BusinessKey,
		Version:               p.Meta.Version,
		ValidFrom:             p.Meta.ValidFrom.Format(time.RFC3339),
		IsCurrent:             p.Meta.IsCurrent,
		MinAdvanceNoticeDays:  p.MinAdvanceNoticeDays,
		BlackoutDates:         make([]BlackoutDateDTO, 0, len(p.BlackoutDates)),
		MaxConsecutivePtoDays: p.MaxConsecutivePtoDays,
		MaxConcurrentOnPto:    p.MaxConcurrentOnPto,
	}
	if p.Meta.ValidTo != nil {
		s := p.Meta.ValidTo.Format(time.RFC3339)
		dto.ValidTo = &s
	}
	for _, b := range p.BlackoutDates {
		dto.BlackoutDates = append(dto.BlackoutDates, BlackoutDateDTO{
			Name:      b.Name,
			StartDate: b.Start.String(),
			EndDate:   b.End.String(),
		})
	}
	return dto
}

func toTrainingPolicyDTO(p workforce.TrainingPolicy) TrainingPolicyDTO {
	dto := TrainingPolicyDTO{
		ID:                        string(p.Meta.ID),
		OrganizationID:            string(p.Meta.OrganizationID),
		BusinessKey:               p.Meta.BusinessKey,
		Version:                   p.Meta.Version,
		ValidFrom:                 p.Meta.ValidFrom.Format(time.RFC3339),
		IsCurrent:                 p.Meta.IsCurrent,
		ApprovalRequiredAboveCost: p.ApprovalRequiredAboveCost,
		RoleRequirements:          make(map[string]RoleRequirementDTO, len(p.RoleRequirements)),
	}
	if p.Meta.ValidTo != nil {
		s := p.Meta.ValidTo.Format(time.RFC3339)
		dto.ValidTo = &s
	}
	for role, r := range p.RoleRequirements {
		dto.RoleRequirements[role] = RoleRequirementDTO{
			AnnualTrainingHours:  r.AnnualTrainingHours,
			AnnualTrainingBudget: r.AnnualTrainingBudget,
		}
	}
	return dto
}

func toCoverageSummaryDTO(s workforce.CoverageSummary) CoverageSummaryDTO {
	return CoverageSummaryDTO{
		AbsenceID:        s.AbsenceID,
		TotalNeeded:      s.TotalNeeded,
		ConfirmedCount:   s.ConfirmedCount,
		PendingCount:     s.PendingCount,
		RejectedCount:    s.RejectedCount,
		CoverageComplete: s.CoverageComplete,
		EstimatedCost:    s.EstimatedCost,
	}
}

func toEmployeeWorkloadDTO(w workforce.EmployeeWorkload) EmployeeWorkloadDTO {
	return EmployeeWorkloadDTO{
		EmployeeID:         string(w.EmployeeID),
		Month:              w.Month.String(),
		ConfirmedCount:     w.ConfirmedCount,
		PendingCount:       w.PendingCount,
		TotalHours:         w.TotalHours,
		TotalCost:          w.TotalCost,
		MaxCapacityReached: w.MaxCapacityReached,
	}
}
