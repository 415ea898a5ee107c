/*
policy.go - Versioned PTO and training policies (SCD2)

PURPOSE:
  Defines the per-organization rulesets the workflows validate against, and
  the slowly-changing-dimension (type 2) versioning that keeps history
  queryable: updating a policy never overwrites — it closes the current
  version and opens a new one.

SCD2 CONTRACT:
  - Exactly one version per (organization, business key) has IsCurrent=true
  - The current version has ValidTo == nil (open-ended)
  - Superseding sets the prior version's ValidTo to the supersession instant
    and stamps the new version with Version = prior + 1
  - Decisions are judged against the version that was current when the
    request was submitted; requests pin the version ID at submission

SEE ALSO:
  - ports.go: policy read/write port operations
  - interval.go: the predicates these limits feed
*/
package workforce

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SCD2 VERSION ENVELOPE
// =============================================================================

// PolicyMeta is the SCD2 envelope shared by every policy kind.
type PolicyMeta struct {
	ID             PolicyID
	OrganizationID OrganizationID
	BusinessKey    string // stable key across versions, e.g. "pto-standard"
	Version        int
	ValidFrom      time.Time
	ValidTo        *time.Time // nil while current
	IsCurrent      bool
}

// Close returns a copy of the envelope with the validity window closed.
// The original is untouched.
func (m PolicyMeta) Close(at time.Time) PolicyMeta {
	closed := m
	closed.ValidTo = &at
	closed.IsCurrent = false
	return closed
}

// NextMeta builds the envelope for the version that supersedes m.
func (m PolicyMeta) NextMeta(id PolicyID, at time.Time) PolicyMeta {
	return PolicyMeta{
		ID:             id,
		OrganizationID: m.OrganizationID,
		BusinessKey:    m.BusinessKey,
		Version:        m.Version + 1,
		ValidFrom:      at,
		IsCurrent:      true,
	}
}

// NewPolicyMeta builds the envelope for a first version.
func NewPolicyMeta(id PolicyID, orgID OrganizationID, businessKey string, at time.Time) PolicyMeta {
	return PolicyMeta{
		ID:             id,
		OrganizationID: orgID,
		BusinessKey:    businessKey,
		Version:        1,
		ValidFrom:      at,
		IsCurrent:      true,
	}
}

// =============================================================================
// BLACKOUT DATES
// =============================================================================

// BlackoutDate is an organization-defined interval during which PTO
// cannot be taken.
type BlackoutDate struct {
	Name  string
	Start Date
	End   Date
}

// =============================================================================
// PTO POLICY
// =============================================================================

// PtoPolicy is one version of an organization's paid-time-off rules.
type PtoPolicy struct {
	Meta PolicyMeta

	MinAdvanceNoticeDays  int
	BlackoutDates         []BlackoutDate
	MaxConsecutivePtoDays int
	// MaxConcurrentOnPto caps how many employees may overlap on PTO.
	// Exceeding it is a warning, not a hard stop.
	MaxConcurrentOnPto int
}

// Supersede closes the receiver and returns the updated settings as the
// next version. Both returned values are new records (functional update).
func (p PtoPolicy) Supersede(id PolicyID, updated PtoPolicy, at time.Time) (closed PtoPolicy, next PtoPolicy) {
	closed = p
	closed.Meta = p.Meta.Close(at)

	next = updated
	next.Meta = p.Meta.NextMeta(id, at)
	return closed, next
}

// =============================================================================
// TRAINING POLICY
// =============================================================================

// RoleRequirement is the annual training allowance for one role.
type RoleRequirement struct {
	AnnualTrainingHours  decimal.Decimal
	AnnualTrainingBudget decimal.Decimal
}

// TrainingPolicy is one version of an organization's training rules.
type TrainingPolicy struct {
	Meta PolicyMeta

	// ApprovalRequiredAboveCost triggers the approval path when positive
	// and the training cost exceeds it.
	ApprovalRequiredAboveCost decimal.Decimal
	RoleRequirements          map[string]RoleRequirement
}

// RequiresApproval reports whether a training at the given cost needs
// explicit approval. A zero threshold disables the check.
func (p TrainingPolicy) RequiresApproval(cost decimal.Decimal) bool {
	return p.ApprovalRequiredAboveCost.IsPositive() && cost.GreaterThan(p.ApprovalRequiredAboveCost)
}

// RequirementForRole looks up the allowance for a role.
func (p TrainingPolicy) RequirementForRole(role string) (RoleRequirement, bool) {
	req, ok := p.RoleRequirements[role]
	return req, ok
}

// Supersede closes the receiver and returns the updated settings as the
// next version.
func (p TrainingPolicy) Supersede(id PolicyID, updated TrainingPolicy, at time.Time) (closed TrainingPolicy, next TrainingPolicy) {
	closed = p
	closed.Meta = p.Meta.Close(at)

	next = updated
	next.Meta = p.Meta.NextMeta(id, at)
	return closed, next
}
