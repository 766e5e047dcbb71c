package interfaces

import (
	"context"
	"time"

	"github.com/Stewz00/go-otp-service/internal/model"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// OTPRepository defines the interface for one-time passcode storage.
// Create must append a new record (never overwrite) and assign the issuance
// timestamp at persistence time. GetLatest returns the most recently issued
// record for the email, breaking timestamp ties in favor of the most recent
// insert.
type OTPRepository interface {
	Create(ctx context.Context, email, code string) (*model.OTPRecord, error)
	GetLatest(ctx context.Context, email string) (*model.OTPRecord, error)
	DeleteAll(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Notifier delivers a one-time passcode to a recipient's email address.
// Implementations must honor the caller's context deadline.
type Notifier interface {
	Deliver(ctx context.Context, email, code string) error
}

// CodeGenerator produces one-time passcodes.
type CodeGenerator interface {
	Generate() (string, error)
}
