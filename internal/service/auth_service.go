package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stewz00/go-otp-service/internal/interfaces"
	"github.com/Stewz00/go-otp-service/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// OTPTTL is how long an issued code stays valid, measured from its persisted
// issuance timestamp. The background purge in cmd/server uses the same
// horizon so storage-level and application-level expiry agree.
const OTPTTL = 5 * time.Minute

var (
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidOTP     = errors.New("invalid OTP")
	ErrOTPExpired     = errors.New("OTP has expired")
	ErrDeliveryFailed = errors.New("failed to deliver OTP email")
)

type AuthService struct {
	userRepo        interfaces.UserRepository
	otpRepo         interfaces.OTPRepository
	notifier        interfaces.Notifier
	codeGen         interfaces.CodeGenerator
	otpTTL          time.Duration
	deliveryTimeout time.Duration
	now             func() time.Time // replaceable in tests
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo interfaces.UserRepository, otpRepo interfaces.OTPRepository, notifier interfaces.Notifier, codeGen interfaces.CodeGenerator) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		otpRepo:         otpRepo,
		notifier:        notifier,
		codeGen:         codeGen,
		otpTTL:          OTPTTL,
		deliveryTimeout: 10 * time.Second,
		now:             time.Now,
	}
}

// Register creates a new user account with a bcrypt-hashed password. The
// returned user carries identity fields only, never the hash.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	// Cost factor 12 (recommended minimum is 10)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, name, email, string(hashedPassword))
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// Login issues a login challenge: it generates a fresh code, persists it, and
// emails it to the user. Each call appends an independent record, so a retry
// after a delivery failure gets a new code rather than a resend of the old
// one. If delivery fails the persisted record is left in place and
// ErrDeliveryFailed is returned.
func (s *AuthService) Login(ctx context.Context, email string) error {
	if email == "" {
		return ErrMissingFields
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err != nil {
		return err
	}

	code, err := s.codeGen.Generate()
	if err != nil {
		return fmt.Errorf("generating OTP: %w", err)
	}

	if _, err := s.otpRepo.Create(ctx, email, code); err != nil {
		return fmt.Errorf("storing OTP: %w", err)
	}

	deliverCtx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	defer cancel()

	if err := s.notifier.Deliver(deliverCtx, email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}

// VerifyOTP checks a submitted code against the latest issued one. Only the
// most recently issued code for the email can match; earlier outstanding
// codes are never selected. Expiry is checked before equality, so a stale
// code reports ErrOTPExpired even when it matches. On success every record
// for the email is invalidated, making the code single-use.
func (s *AuthService) VerifyOTP(ctx context.Context, email, submittedCode string) (*model.Identity, error) {
	email = strings.TrimSpace(email)
	submittedCode = strings.TrimSpace(submittedCode)

	if email == "" || submittedCode == "" {
		return nil, ErrMissingFields
	}

	record, err := s.otpRepo.GetLatest(ctx, email)
	if err != nil {
		return nil, err
	}

	if s.now().Sub(record.IssuedAt) > s.otpTTL {
		return nil, ErrOTPExpired
	}

	if record.Code != submittedCode {
		return nil, ErrInvalidOTP
	}

	if err := s.otpRepo.DeleteAll(ctx, email); err != nil {
		return nil, fmt.Errorf("invalidating OTPs: %w", err)
	}

	return &model.Identity{Email: record.Email}, nil
}
