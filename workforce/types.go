/*
Package workforce implements the absence and coverage orchestration core:
versioned PTO/training policies, request lifecycles, backfill assignments,
and the pure calculations the workflow layer composes.

PURPOSE:
  This package is the domain heart of the staffing engine. It knows nothing
  about HTTP, SQL, or notification delivery — all durable state is reached
  through the port interfaces in ports.go, and every entity transition is a
  pure function returning a new value.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers: OrganizationID, EmployeeID, request/record/assignment IDs
  - EmployeeRef: the denormalized employee snapshot stored on each entity
  - Money helpers: decimal-backed cost arithmetic

DESIGN PRINCIPLES:
  1. Immutability: transitions produce new records, never mutate in place
  2. Precision: decimal.Decimal for every cost and budget figure
  3. Type safety: IDs are distinct types so they cannot be mixed up
  4. Statelessness: no package-level mutable state; all state lives behind ports

SEE ALSO:
  - pto.go, training.go, backfill.go: entity lifecycles
  - interval.go: scheduling conflict predicates
  - coverage.go: coverage and capacity calculators
  - ports.go: repository port contracts
*/
package workforce

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OrganizationID string
type EmployeeID string
type PtoRequestID string
type TrainingRecordID string
type AssignmentID string
type PolicyID string

// =============================================================================
// EMPLOYEE REFERENCE
// =============================================================================

// EmployeeRef is the denormalized employee snapshot carried on requests and
// assignments. The employee master record lives outside this engine.
type EmployeeRef struct {
	ID   EmployeeID
	Name string
	Role string
}

// =============================================================================
// MONEY - Decimal-backed cost arithmetic
// =============================================================================

// Money returns a decimal amount from a float input at the system boundary.
// Internal arithmetic stays in decimal to avoid float drift on premium math.
func Money(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// MustParseMoney parses a decimal string, returning zero on bad input.
func MustParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DefaultHoursPerDay is the assumed shift length when estimating coverage.
const DefaultHoursPerDay = 8
