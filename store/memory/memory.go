/*
Package memory provides in-memory implementations of the workforce ports,
used by the workflow tests and the dev server.

PURPOSE:
  A reference implementation of the port contracts: every invariant the
  production store must hold (SCD2 single-current, write-time conflict
  re-check, draft-only deletes) is enforced here too, so tests against this
  store exercise the same semantics.

CONCURRENCY:
  A single RWMutex guards all maps. CreateBackfillAssignment re-checks the
  double-booking invariant inside the write lock, which is the in-memory
  equivalent of the storage layer's conditional insert.
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/admsmc/dykstra-funeral-website-sub009/workforce"
)

type balanceKey struct {
	Org      workforce.OrganizationID
	Employee workforce.EmployeeID
}

type summaryKey struct {
	Org      workforce.OrganizationID
	Employee workforce.EmployeeID
	Year     int
}

// Store implements PtoManagementPort, TrainingManagementPort and
// BackfillManagementPort over mutex-guarded maps.
type Store struct {
	mu sync.RWMutex

	ptoPolicies      map[workforce.OrganizationID][]workforce.PtoPolicy
	trainingPolicies map[workforce.OrganizationID][]workforce.TrainingPolicy
	ptoRequests      map[workforce.PtoRequestID]workforce.PtoRequest
	trainingRecords  map[workforce.TrainingRecordID]workforce.TrainingRecord
	assignments      map[workforce.AssignmentID]workforce.BackfillAssignment
	balances         map[balanceKey]workforce.PtoBalance
	summaries        map[summaryKey]workforce.TrainingSummary

	// Clock is injectable for tests; nil means real time.
	Clock func() time.Time
}

func New() *Store {
	return &Store{
		ptoPolicies:      make(map[workforce.OrganizationID][]workforce.PtoPolicy),
		trainingPolicies: make(map[workforce.OrganizationID][]workforce.TrainingPolicy),
		ptoRequests:      make(map[workforce.PtoRequestID]workforce.PtoRequest),
		trainingRecords:  make(map[workforce.TrainingRecordID]workforce.TrainingRecord),
		assignments:      make(map[workforce.AssignmentID]workforce.BackfillAssignment),
		balances:         make(map[balanceKey]workforce.PtoBalance),
		summaries:        make(map[summaryKey]workforce.TrainingSummary),
	}
}

// Compile-time port checks
var (
	_ workforce.PtoManagementPort      = (*Store)(nil)
	_ workforce.TrainingManagementPort = (*Store)(nil)
	_ workforce.BackfillManagementPort = (*Store)(nil)
)

func (s *Store) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// =============================================================================
// SEED HELPERS - External read models (balance, training summary)
// =============================================================================

// SeedPtoBalance installs an employee balance; the balance source is
// external in production.
func (s *Store) SeedPtoBalance(orgID workforce.OrganizationID, b workforce.PtoBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey{Org: orgID, Employee: b.EmployeeID}] = b
}

// SeedTrainingSummary installs an annual training consumption record.
func (s *Store) SeedTrainingSummary(orgID workforce.OrganizationID, sum workforce.TrainingSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summaryKey{Org: orgID, Employee: sum.EmployeeID, Year: sum.Year}] = sum
}

// =============================================================================
// PTO MANAGEMENT PORT
// =============================================================================

func (s *Store) GetPtoPolicy(_ context.Context, orgID workforce.OrganizationID) (workforce.PtoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.ptoPolicies[orgID] {
		if p.Meta.IsCurrent {
			return p, nil
		}
	}
	return workforce.PtoPolicy{}, workforce.ErrPolicyNotFound
}

func (s *Store) GetPtoPolicyVersion(_ context.Context, id workforce.PolicyID) (workforce.PtoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, versions := range s.ptoPolicies {
		for _, p := range versions {
			if p.Meta.ID == id {
				return p, nil
			}
		}
	}
	return workforce.PtoPolicy{}, workforce.ErrPolicyNotFound
}

func (s *Store) ListPtoPolicyVersions(_ context.Context, orgID workforce.OrganizationID) ([]workforce.PtoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := append([]workforce.PtoPolicy(nil), s.ptoPolicies[orgID]...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Meta.Version < versions[j].Meta.Version })
	return versions, nil
}

func (s *Store) CreatePtoPolicy(_ context.Context, policy workforce.PtoPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ptoPolicies[policy.Meta.OrganizationID] = append(s.ptoPolicies[policy.Meta.OrganizationID], policy)
	return nil
}

func (s *Store) UpdatePtoPolicy(_ context.Context, orgID workforce.OrganizationID, updated workforce.PtoPolicy) (workforce.PtoPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.ptoPolicies[orgID]
	for i, p := range versions {
		if !p.Meta.IsCurrent {
			continue
		}
		closed, next := p.Supersede(workforce.PolicyID(uuid.NewString()), updated, s.now())
		versions[i] = closed
		s.ptoPolicies[orgID] = append(versions, next)
		return next, nil
	}
	return workforce.PtoPolicy{}, workforce.ErrPolicyNotFound
}

func (s *Store) CreatePtoRequest(_ context.Context, req workforce.PtoRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ptoRequests[req.ID] = req
	return nil
}

func (s *Store) GetPtoRequest(_ context.Context, id workforce.PtoRequestID) (workforce.PtoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.ptoRequests[id]
	if !ok {
		return workforce.PtoRequest{}, workforce.ErrRequestNotFound
	}
	return req, nil
}

func (s *Store) GetPtoRequestsByEmployee(_ context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID) ([]workforce.PtoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workforce.PtoRequest
	for _, req := range s.ptoRequests {
		if req.OrganizationID == orgID && req.Employee.ID == employeeID {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (s *Store) GetConcurrentPtoRequests(_ context.Context, orgID workforce.OrganizationID, window workforce.DateRange, role string) ([]workforce.PtoRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workforce.PtoRequest
	for _, req := range s.ptoRequests {
		if req.OrganizationID != orgID || !req.Status.IsActive() {
			continue
		}
		if role != "" && req.Employee.Role != role {
			continue
		}
		if window.Overlaps(req.Window()) {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (s *Store) GetEmployeePtoBalance(_ context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID) (workforce.PtoBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.balances[balanceKey{Org: orgID, Employee: employeeID}]
	if !ok {
		return workforce.PtoBalance{}, workforce.ErrBalanceNotFound
	}
	return b, nil
}

func (s *Store) UpdatePtoRequest(_ context.Context, req workforce.PtoRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ptoRequests[req.ID]; !ok {
		return workforce.ErrRequestNotFound
	}
	s.ptoRequests[req.ID] = req
	return nil
}

func (s *Store) DeletePtoRequest(_ context.Context, id workforce.PtoRequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.ptoRequests[id]
	if !ok {
		return workforce.ErrRequestNotFound
	}
	if req.Status != workforce.PtoDraft {
		return &workforce.InvalidStateError{
			Entity: "pto_request", Transition: "delete",
			Current: string(req.Status), Allowed: []string{string(workforce.PtoDraft)},
		}
	}
	delete(s.ptoRequests, id)
	return nil
}

func sortRequests(reqs []workforce.PtoRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if !reqs[i].StartDate.Equal(reqs[j].StartDate) {
			return reqs[i].StartDate.Before(reqs[j].StartDate)
		}
		return reqs[i].ID < reqs[j].ID
	})
}

// =============================================================================
// TRAINING MANAGEMENT PORT
// =============================================================================

func (s *Store) GetTrainingPolicy(_ context.Context, orgID workforce.OrganizationID) (workforce.TrainingPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.trainingPolicies[orgID] {
		if p.Meta.IsCurrent {
			return p, nil
		}
	}
	return workforce.TrainingPolicy{}, workforce.ErrPolicyNotFound
}

func (s *Store) GetTrainingPolicyVersion(_ context.Context, id workforce.PolicyID) (workforce.TrainingPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, versions := range s.trainingPolicies {
		for _, p := range versions {
			if p.Meta.ID == id {
				return p, nil
			}
		}
	}
	return workforce.TrainingPolicy{}, workforce.ErrPolicyNotFound
}

func (s *Store) ListTrainingPolicyVersions(_ context.Context, orgID workforce.OrganizationID) ([]workforce.TrainingPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := append([]workforce.TrainingPolicy(nil), s.trainingPolicies[orgID]...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].Meta.Version < versions[j].Meta.Version })
	return versions, nil
}

func (s *Store) CreateTrainingPolicy(_ context.Context, policy workforce.TrainingPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainingPolicies[policy.Meta.OrganizationID] = append(s.trainingPolicies[policy.Meta.OrganizationID], policy)
	return nil
}

func (s *Store) UpdateTrainingPolicy(_ context.Context, orgID workforce.OrganizationID, updated workforce.TrainingPolicy) (workforce.TrainingPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.trainingPolicies[orgID]
	for i, p := range versions {
		if !p.Meta.IsCurrent {
			continue
		}
		closed, next := p.Supersede(workforce.PolicyID(uuid.NewString()), updated, s.now())
		versions[i] = closed
		s.trainingPolicies[orgID] = append(versions, next)
		return next, nil
	}
	return workforce.TrainingPolicy{}, workforce.ErrPolicyNotFound
}

func (s *Store) CreateTrainingRecord(_ context.Context, rec workforce.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trainingRecords[rec.ID] = rec
	return nil
}

func (s *Store) GetTrainingRecord(_ context.Context, id workforce.TrainingRecordID) (workforce.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.trainingRecords[id]
	if !ok {
		return workforce.TrainingRecord{}, workforce.ErrTrainingNotFound
	}
	return rec, nil
}

func (s *Store) GetEmployeeTrainingSummary(_ context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID, year int) (workforce.TrainingSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[summaryKey{Org: orgID, Employee: employeeID, Year: year}]
	if !ok {
		return workforce.TrainingSummary{}, workforce.ErrTrainingNotFound
	}
	return sum, nil
}

func (s *Store) UpdateTrainingRecord(_ context.Context, rec workforce.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trainingRecords[rec.ID]; !ok {
		return workforce.ErrTrainingNotFound
	}
	s.trainingRecords[rec.ID] = rec
	return nil
}

func (s *Store) GetMultiDayTrainingsScheduled(_ context.Context, orgID workforce.OrganizationID, window workforce.DateRange) ([]workforce.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workforce.TrainingRecord
	for _, rec := range s.trainingRecords {
		if rec.OrganizationID != orgID || rec.Status.IsTerminal() {
			continue
		}
		span := rec.Span()
		if workforce.IsMultiDay(span.Start, span.End) && window.Overlaps(span) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// BACKFILL MANAGEMENT PORT
// =============================================================================

func (s *Store) HasConflictingBackfills(_ context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID, window workforce.DateRange) (bool, []workforce.AssignmentID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.conflictingLocked(orgID, employeeID, window)
	return len(ids) > 0, ids, nil
}

// conflictingLocked finds blocking assignments overlapping the window.
// Callers must hold at least a read lock.
func (s *Store) conflictingLocked(orgID workforce.OrganizationID, employeeID workforce.EmployeeID, window workforce.DateRange) []workforce.AssignmentID {
	var ids []workforce.AssignmentID
	for _, a := range s.assignments {
		if a.OrganizationID != orgID || a.BackfillEmployee.ID != employeeID {
			continue
		}
		if !a.Status.Blocks() {
			continue
		}
		if window.Overlaps(a.Window()) {
			ids = append(ids, a.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) GetBackfillAssignmentsByEmployee(_ context.Context, orgID workforce.OrganizationID, employeeID workforce.EmployeeID) ([]workforce.BackfillAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workforce.BackfillAssignment
	for _, a := range s.assignments {
		if a.OrganizationID == orgID && a.BackfillEmployee.ID == employeeID {
			out = append(out, a)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (s *Store) CreateBackfillAssignment(_ context.Context, assignment workforce.BackfillAssignment, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write-time re-check of the double-booking invariant. This is the
	// in-memory stand-in for a conditional insert.
	ids := s.conflictingLocked(assignment.OrganizationID, assignment.BackfillEmployee.ID, assignment.Window())
	if len(ids) > 0 {
		return &workforce.ConflictError{
			EmployeeID: assignment.BackfillEmployee.ID,
			Window:     assignment.Window(),
			Existing:   ids,
		}
	}

	s.assignments[assignment.ID] = assignment
	return nil
}

func (s *Store) GetBackfillAssignment(_ context.Context, id workforce.AssignmentID) (workforce.BackfillAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return workforce.BackfillAssignment{}, workforce.ErrAssignmentNotFound
	}
	return a, nil
}

func (s *Store) GetBackfillAssignmentsByAbsence(_ context.Context, absenceID string) ([]workforce.BackfillAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []workforce.BackfillAssignment
	for _, a := range s.assignments {
		if a.Absence.AbsenceID == absenceID {
			out = append(out, a)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (s *Store) UpdateBackfillAssignment(_ context.Context, assignment workforce.BackfillAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[assignment.ID]; !ok {
		return workforce.ErrAssignmentNotFound
	}
	s.assignments[assignment.ID] = assignment
	return nil
}

func (s *Store) CancelBackfillAssignment(_ context.Context, id workforce.AssignmentID) (workforce.BackfillAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return workforce.BackfillAssignment{}, workforce.ErrAssignmentNotFound
	}
	cancelled, err := a.Cancel(s.now())
	if err != nil {
		return workforce.BackfillAssignment{}, err
	}
	s.assignments[id] = cancelled
	return cancelled, nil
}

func (s *Store) ReleaseBackfillsForWindow(_ context.Context, orgID workforce.OrganizationID, window workforce.DateRange) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := 0
	for id, a := range s.assignments {
		if a.OrganizationID != orgID || !a.Status.Blocks() {
			continue
		}
		if !window.Overlaps(a.Window()) {
			continue
		}
		next, err := a.Release(s.now())
		if err != nil {
			return released, err
		}
		s.assignments[id] = next
		released++
	}
	return released, nil
}

func (s *Store) DeleteBackfillAssignment(_ context.Context, id workforce.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return workforce.ErrAssignmentNotFound
	}
	if a.Status == workforce.BackfillConfirmed {
		return &workforce.InvalidStateError{
			Entity: "backfill_assignment", Transition: "delete",
			Current: string(a.Status),
			Allowed: []string{string(workforce.BackfillSuggested), string(workforce.BackfillPendingConfirmation)},
		}
	}
	delete(s.assignments, id)
	return nil
}

func sortAssignments(as []workforce.BackfillAssignment) {
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
}
