package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigindia/marketplace/internal/core/domain"
)

// memProfileRepo is an in-memory profile store. With unique set it behaves
// like a table with UNIQUE (user_id); without it, duplicate rows are kept.
type memProfileRepo struct {
	mu      sync.Mutex
	unique  bool
	rows    map[domain.UserType][]*domain.ProfileRecord
	inserts int
	// findGate, when set, is called after every FindByUserID lookup.
	findGate func()
	findErr  error
	insErr   error
}

func newMemProfileRepo(unique bool) *memProfileRepo {
	return &memProfileRepo{unique: unique, rows: make(map[domain.UserType][]*domain.ProfileRecord)}
}

func (r *memProfileRepo) FindByUserID(_ context.Context, userType domain.UserType, userID string) (*domain.ProfileRecord, error) {
	r.mu.Lock()
	var found *domain.ProfileRecord
	for _, row := range r.rows[userType] {
		if row.UserID == userID {
			clone := *row
			found = &clone
			break
		}
	}
	err := r.findErr
	gate := r.findGate
	r.mu.Unlock()

	if gate != nil {
		gate()
	}
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.ErrProfileNotFound
	}
	return found, nil
}

func (r *memProfileRepo) Insert(_ context.Context, userType domain.UserType, userID string, data domain.ProfileData) (*domain.ProfileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insErr != nil {
		return nil, r.insErr
	}
	if r.unique {
		for _, row := range r.rows[userType] {
			if row.UserID == userID {
				return nil, domain.ErrProfileExists
			}
		}
	}
	r.inserts++
	now := time.Now().UTC()
	row := &domain.ProfileRecord{
		ID:          userID + "-profile",
		UserID:      userID,
		UserType:    userType,
		FullName:    data.String("full_name"),
		DisplayName: data.String("display_name"),
		Attributes:  data.Attributes(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.rows[userType] = append(r.rows[userType], row)
	clone := *row
	return &clone, nil
}

func (r *memProfileRepo) count(userType domain.UserType, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, row := range r.rows[userType] {
		if row.UserID == userID {
			n++
		}
	}
	return n
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []domain.ProvisioningEvent
}

func (a *recordingAuditor) Record(event domain.ProvisioningEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAuditor) outcomes() []domain.ProvisioningOutcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ProvisioningOutcome, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Outcome)
	}
	return out
}

func validProfile() domain.ProfileData {
	return domain.ProfileData{
		"full_name":    "Asha Rao",
		"display_name": "asha",
		"skills":       []string{"go", "sql"},
	}
}

func TestProfileService_Provision_Creates(t *testing.T) {
	repo := newMemProfileRepo(true)
	auditor := &recordingAuditor{}
	svc := NewProfileService(repo, auditor, zerolog.Nop())

	res := svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Data == nil || res.Data.UserID != "u-1" || res.Data.DisplayName != "asha" {
		t.Fatalf("unexpected created row: %+v", res.Data)
	}
	if _, ok := res.Data.Attributes["skills"]; !ok {
		t.Fatalf("expected extra keys to land in attributes, got %+v", res.Data.Attributes)
	}
	if got := repo.count(domain.UserTypeFreelancer, "u-1"); got != 1 {
		t.Fatalf("expected 1 freelancer row, got %d", got)
	}
	if got := repo.count(domain.UserTypeEmployer, "u-1"); got != 0 {
		t.Fatalf("expected no employer row, got %d", got)
	}
	if got := auditor.outcomes(); len(got) != 1 || got[0] != domain.OutcomeCreated {
		t.Fatalf("unexpected audit outcomes: %v", got)
	}
}

func TestProfileService_Provision_EmployerTable(t *testing.T) {
	repo := newMemProfileRepo(true)
	svc := NewProfileService(repo, nil, zerolog.Nop())

	res := svc.Provision(context.Background(), "u-2", validProfile(), domain.UserTypeEmployer)
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if got := repo.count(domain.UserTypeEmployer, "u-2"); got != 1 {
		t.Fatalf("expected 1 employer row, got %d", got)
	}
	if got := repo.count(domain.UserTypeFreelancer, "u-2"); got != 0 {
		t.Fatalf("expected no freelancer row, got %d", got)
	}
}

func TestProfileService_Provision_Idempotent(t *testing.T) {
	repo := newMemProfileRepo(true)
	auditor := &recordingAuditor{}
	svc := NewProfileService(repo, auditor, zerolog.Nop())

	first := svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)
	second := svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)

	if !first.Success || !second.Success {
		t.Fatalf("expected both calls to succeed: %+v / %+v", first, second)
	}
	if second.Data != nil {
		t.Fatalf("expected no data on the existing-row path, got %+v", second.Data)
	}
	if repo.inserts != 1 {
		t.Fatalf("expected exactly one insert, got %d", repo.inserts)
	}
	got := auditor.outcomes()
	if len(got) != 2 || got[1] != domain.OutcomeExisting {
		t.Fatalf("unexpected audit outcomes: %v", got)
	}
}

func TestProfileService_Provision_MissingRequiredField(t *testing.T) {
	repo := newMemProfileRepo(true)
	auditor := &recordingAuditor{}
	svc := NewProfileService(repo, auditor, zerolog.Nop())

	data := validProfile()
	delete(data, "display_name")

	res := svc.Provision(context.Background(), "u-1", data, domain.UserTypeFreelancer)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !errors.Is(res.Err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", res.Err)
	}
	if !strings.Contains(res.Error, "display_name") {
		t.Fatalf("expected message to name display_name, got %q", res.Error)
	}
	if repo.inserts != 0 {
		t.Fatalf("expected no write, got %d inserts", repo.inserts)
	}
	if got := auditor.outcomes(); len(got) != 1 || got[0] != domain.OutcomeInvalid {
		t.Fatalf("unexpected audit outcomes: %v", got)
	}
}

func TestProfileService_Provision_RequiredFieldsMustBeText(t *testing.T) {
	repo := newMemProfileRepo(true)
	svc := NewProfileService(repo, nil, zerolog.Nop())

	tests := []struct {
		name string
		data domain.ProfileData
		want string
	}{
		{"numbers and booleans", domain.ProfileData{"full_name": 42.0, "display_name": true}, "(display_name, full_name)"},
		{"blank string", domain.ProfileData{"full_name": "Asha Rao", "display_name": "   "}, "(display_name)"},
		{"nested object", domain.ProfileData{"full_name": map[string]any{"first": "Asha"}, "display_name": "asha"}, "(full_name)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Provision(context.Background(), "u-9", tt.data, domain.UserTypeFreelancer)
			if res.Success {
				t.Fatalf("expected failure")
			}
			if !errors.Is(res.Err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", res.Err)
			}
			if !strings.Contains(res.Error, tt.want) {
				t.Fatalf("expected %q in %q", tt.want, res.Error)
			}
		})
	}
	if repo.inserts != 0 {
		t.Fatalf("expected no writes, got %d", repo.inserts)
	}
}

func TestProfileService_Provision_InvalidInput(t *testing.T) {
	repo := newMemProfileRepo(true)
	svc := NewProfileService(repo, nil, zerolog.Nop())

	tests := []struct {
		name     string
		userID   string
		userType domain.UserType
	}{
		{"empty user id", "", domain.UserTypeFreelancer},
		{"unknown type", "u-1", domain.UserType("admin")},
		{"empty type", "u-1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Provision(context.Background(), tt.userID, validProfile(), tt.userType)
			if res.Success {
				t.Fatalf("expected failure")
			}
			if !errors.Is(res.Err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", res.Err)
			}
		})
	}
	if repo.inserts != 0 {
		t.Fatalf("expected no writes, got %d", repo.inserts)
	}
}

func TestProfileService_Provision_StoreFailure(t *testing.T) {
	repo := newMemProfileRepo(true)
	repo.insErr = &domain.DataStoreError{
		Op:      "insert freelancer_profiles",
		Message: "permission denied for table freelancer_profiles",
		Code:    "42501",
	}
	svc := NewProfileService(repo, nil, zerolog.Nop())

	res := svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "permission denied for table freelancer_profiles" {
		t.Fatalf("expected store message, got %q", res.Error)
	}
	if !errors.Is(res.Err, domain.ErrDataStore) {
		t.Fatalf("expected ErrDataStore in chain, got %v", res.Err)
	}
}

func TestProfileService_Provision_StoreFailureFallsBackToDetail(t *testing.T) {
	repo := newMemProfileRepo(true)
	repo.findErr = &domain.DataStoreError{Op: "select freelancer_profiles", Detail: "relation is locked"}
	svc := NewProfileService(repo, nil, zerolog.Nop())

	res := svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "relation is locked" {
		t.Fatalf("expected detail as message, got %q", res.Error)
	}
	if repo.inserts != 0 {
		t.Fatalf("expected no insert after a failed check")
	}
}

func TestProfileService_Provision_StoreFailureUsesCause(t *testing.T) {
	repo := newMemProfileRepo(true)
	repo.insErr = &domain.DataStoreError{
		Op:    "insert freelancer_profiles",
		Cause: errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"),
	}
	svc := NewProfileService(repo, nil, zerolog.Nop())

	res := svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != "dial tcp 10.0.0.5:5432: connect: connection refused" {
		t.Fatalf("expected the cause as message, got %q", res.Error)
	}
}

// Two concurrent calls that both pass the existence check insert two rows
// when the store has no uniqueness constraint.
func TestProfileService_Provision_RaceWithoutConstraint(t *testing.T) {
	repo := newMemProfileRepo(false)
	var checked sync.WaitGroup
	checked.Add(2)
	repo.findGate = func() {
		checked.Done()
		checked.Wait()
	}
	svc := NewProfileService(repo, nil, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer).Success
		}(i)
	}
	wg.Wait()

	if !results[0] || !results[1] {
		t.Fatalf("expected both calls to succeed: %v", results)
	}
	if got := repo.count(domain.UserTypeFreelancer, "u-1"); got != 2 {
		t.Fatalf("expected the race to produce 2 rows, got %d", got)
	}
}

// With UNIQUE (user_id) the losing insert is rejected by the store and the
// call still reports success.
func TestProfileService_Provision_RaceWithConstraint(t *testing.T) {
	repo := newMemProfileRepo(true)
	var checked sync.WaitGroup
	checked.Add(2)
	repo.findGate = func() {
		checked.Done()
		checked.Wait()
	}
	auditor := &recordingAuditor{}
	svc := NewProfileService(repo, auditor, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer).Success
		}(i)
	}
	wg.Wait()

	if !results[0] || !results[1] {
		t.Fatalf("expected both calls to succeed: %v", results)
	}
	if got := repo.count(domain.UserTypeFreelancer, "u-1"); got != 1 {
		t.Fatalf("expected exactly 1 row, got %d", got)
	}

	var created, existing int
	for _, o := range auditor.outcomes() {
		switch o {
		case domain.OutcomeCreated:
			created++
		case domain.OutcomeExisting:
			existing++
		}
	}
	if created != 1 || existing != 1 {
		t.Fatalf("expected one created and one existing, got %d/%d", created, existing)
	}
}

func TestProfileService_Get(t *testing.T) {
	repo := newMemProfileRepo(true)
	svc := NewProfileService(repo, nil, zerolog.Nop())

	if _, err := svc.Get(context.Background(), domain.UserTypeFreelancer, "u-1"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	svc.Provision(context.Background(), "u-1", validProfile(), domain.UserTypeFreelancer)
	got, err := svc.Get(context.Background(), domain.UserTypeFreelancer, "u-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.FullName != "Asha Rao" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if _, err := svc.Get(context.Background(), "admin", "u-1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown type, got %v", err)
	}
}
