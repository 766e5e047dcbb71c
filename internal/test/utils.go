package test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Stewz00/go-otp-service/internal/interfaces"
	"github.com/Stewz00/go-otp-service/internal/model"
	"github.com/Stewz00/go-otp-service/internal/repository"
)

// MockUserRepository implements the UserRepository interface in memory
type MockUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// Verify that MockUserRepository implements UserRepository interface
var _ interfaces.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*model.User),
	}
}

// CreateUser mocks creating a new user
func (r *MockUserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[email]; exists {
		return nil, repository.ErrDuplicateEmail
	}

	user := &model.User{
		ID:       int64(len(r.users) + 1),
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Created:  time.Now(),
	}
	r.users[email] = user
	return user, nil
}

// GetUserByEmail mocks retrieving a user by email
func (r *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

// MockOTPRepository implements the OTPRepository interface in memory,
// preserving the latest-wins ordering of the real store: issuance timestamp
// descending with insertion order as tie-break.
type MockOTPRepository struct {
	mu      sync.Mutex
	records []*model.OTPRecord
	nextID  int64
}

// Verify that MockOTPRepository implements OTPRepository interface
var _ interfaces.OTPRepository = (*MockOTPRepository)(nil)

func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

// Create mocks appending a new OTP record
func (r *MockOTPRepository) Create(ctx context.Context, email, code string) (*model.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec := &model.OTPRecord{
		ID:       r.nextID,
		Email:    email,
		Code:     code,
		IssuedAt: time.Now(),
	}
	r.records = append(r.records, rec)

	out := *rec
	return &out, nil
}

// GetLatest mocks the latest-record lookup
func (r *MockOTPRepository) GetLatest(ctx context.Context, email string) (*model.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*model.OTPRecord
	for _, rec := range r.records {
		if rec.Email == email {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return nil, repository.ErrOTPNotFound
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].IssuedAt.Equal(matches[j].IssuedAt) {
			return matches[i].IssuedAt.After(matches[j].IssuedAt)
		}
		return matches[i].ID > matches[j].ID
	})

	out := *matches[0]
	return &out, nil
}

// DeleteAll mocks bulk invalidation for an email
func (r *MockOTPRepository) DeleteAll(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.Email != email {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

// DeleteExpired mocks the background purge
func (r *MockOTPRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var removed int64
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.IssuedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return removed, nil
}

// Count returns the number of stored records for an email
func (r *MockOTPRepository) Count(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, rec := range r.records {
		if rec.Email == email {
			n++
		}
	}
	return n
}

// StubGenerator returns a fixed sequence of codes, cycling when exhausted.
// Useful for pinning the exact code a test expects.
type StubGenerator struct {
	Codes []string
	next  int
}

// Verify that StubGenerator implements CodeGenerator interface
var _ interfaces.CodeGenerator = (*StubGenerator)(nil)

// Generate returns the next code in the sequence
func (g *StubGenerator) Generate() (string, error) {
	if len(g.Codes) == 0 {
		return "000000", nil
	}
	code := g.Codes[g.next%len(g.Codes)]
	g.next++
	return code, nil
}

// Delivery records a single notifier invocation
type Delivery struct {
	Email string
	Code  string
}

// MockNotifier implements the Notifier interface and records deliveries.
// Set FailWith to simulate an email transport failure.
type MockNotifier struct {
	mu         sync.Mutex
	Deliveries []Delivery
	FailWith   error
}

// Verify that MockNotifier implements Notifier interface
var _ interfaces.Notifier = (*MockNotifier)(nil)

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Deliver mocks sending a code to an email address
func (n *MockNotifier) Deliver(ctx context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.FailWith != nil {
		return n.FailWith
	}
	n.Deliveries = append(n.Deliveries, Delivery{Email: email, Code: code})
	return nil
}

// LastCode returns the most recently delivered code, or "" if none
func (n *MockNotifier) LastCode() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.Deliveries) == 0 {
		return ""
	}
	return n.Deliveries[len(n.Deliveries)-1].Code
}
