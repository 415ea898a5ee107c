/*
pto.go - PTO request entity and lifecycle

PURPOSE:
  The PtoRequest record and its pure state transitions. Each transition
  validates only local state-machine legality and returns a NEW record;
  cross-entity rules (policy checks, conflicts, coverage) belong to the
  workflow layer.

LIFECYCLE:
  draft ──submit──▶ pending ──approve──▶ approved
                       │
                       └──reject──▶ rejected
  draft/pending ──cancel──▶ cancelled

  approved, rejected and cancelled are terminal.

SEE ALSO:
  - workflow/pto.go: the orchestrators that drive these transitions
  - interval.go: conflict predicates over request windows
*/
package workforce

import "time"

// =============================================================================
// PTO TYPES AND STATUS
// =============================================================================

type PtoType string

const (
	PtoVacation    PtoType = "vacation"
	PtoSick        PtoType = "sick"
	PtoPersonal    PtoType = "personal"
	PtoBereavement PtoType = "bereavement"
	PtoJuryDuty    PtoType = "jury_duty"
)

type PtoStatus string

const (
	PtoDraft     PtoStatus = "draft"
	PtoPending   PtoStatus = "pending"
	PtoApproved  PtoStatus = "approved"
	PtoRejected  PtoStatus = "rejected"
	PtoCancelled PtoStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s PtoStatus) IsTerminal() bool {
	return s == PtoApproved || s == PtoRejected || s == PtoCancelled
}

// IsActive reports whether the request still occupies its window for
// scheduling purposes: drafts, pending requests and approved absences all
// block overlapping requests for the same employee.
func (s PtoStatus) IsActive() bool {
	return s == PtoDraft || s == PtoPending || s == PtoApproved
}

// =============================================================================
// PTO REQUEST
// =============================================================================

type PtoRequest struct {
	ID             PtoRequestID
	OrganizationID OrganizationID
	Employee       EmployeeRef
	Type           PtoType
	StartDate      Date
	EndDate        Date
	// RequestedDays is derived from the date span (inclusive of both ends)
	// and recomputed on construction; it is never set directly.
	RequestedDays int
	Reason        string
	Status        PtoStatus

	// PolicyVersionID pins the policy version the request was validated
	// against at submission, so later decisions use the same rules.
	PolicyVersionID PolicyID

	CreatedBy       string
	ApprovedBy      string
	RejectedBy      string
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the request's date range as stored. Overlap checks apply
// half-open semantics to these raw dates.
func (r PtoRequest) Window() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// =============================================================================
// LIFECYCLE TRANSITIONS (pure)
// =============================================================================

// NewPtoRequest constructs a draft request. The only validation here is the
// local shape of the record; policy rules run in the workflow layer.
func NewPtoRequest(
	id PtoRequestID,
	orgID OrganizationID,
	employee EmployeeRef,
	ptoType PtoType,
	start, end Date,
	reason string,
	createdBy string,
	now time.Time,
) (PtoRequest, error) {
	window := DateRange{Start: start, End: end}
	if !window.IsValid() {
		return PtoRequest{}, ErrInvalidDateRange
	}

	return PtoRequest{
		ID:             id,
		OrganizationID: orgID,
		Employee:       employee,
		Type:           ptoType,
		StartDate:      start,
		EndDate:        end,
		RequestedDays:  window.InclusiveDays(),
		Reason:         reason,
		Status:         PtoDraft,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Submit moves a draft to pending.
func (r PtoRequest) Submit(now time.Time) (PtoRequest, error) {
	if r.Status != PtoDraft {
		return PtoRequest{}, &InvalidStateError{
			Entity: "pto_request", Transition: "submit",
			Current: string(r.Status), Allowed: []string{string(PtoDraft)},
		}
	}
	next := r
	next.Status = PtoPending
	next.UpdatedAt = now
	return next, nil
}

// Approve moves a pending request to approved.
func (r PtoRequest) Approve(approver string, now time.Time) (PtoRequest, error) {
	if r.Status != PtoPending {
		return PtoRequest{}, &InvalidStateError{
			Entity: "pto_request", Transition: "approve",
			Current: string(r.Status), Allowed: []string{string(PtoPending)},
		}
	}
	next := r
	next.Status = PtoApproved
	next.ApprovedBy = approver
	next.UpdatedAt = now
	return next, nil
}

// Reject moves a pending request to rejected with a reason.
func (r PtoRequest) Reject(rejecter, reason string, now time.Time) (PtoRequest, error) {
	if r.Status != PtoPending {
		return PtoRequest{}, &InvalidStateError{
			Entity: "pto_request", Transition: "reject",
			Current: string(r.Status), Allowed: []string{string(PtoPending)},
		}
	}
	next := r
	next.Status = PtoRejected
	next.RejectedBy = rejecter
	next.RejectionReason = reason
	next.UpdatedAt = now
	return next, nil
}

// Cancel withdraws a draft or pending request.
func (r PtoRequest) Cancel(now time.Time) (PtoRequest, error) {
	if r.Status != PtoDraft && r.Status != PtoPending {
		return PtoRequest{}, &InvalidStateError{
			Entity: "pto_request", Transition: "cancel",
			Current: string(r.Status), Allowed: []string{string(PtoDraft), string(PtoPending)},
		}
	}
	next := r
	next.Status = PtoCancelled
	next.UpdatedAt = now
	return next, nil
}
