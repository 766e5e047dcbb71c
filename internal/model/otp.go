package model

import "time"

// OTPRecord is a single issued one-time passcode. A new record is created on
// every login attempt; older records for the same email are left in place and
// simply lose to the newer one on lookup.
type OTPRecord struct {
	ID       int64
	Email    string
	Code     string // fixed-width numeric string, leading zeros preserved
	IssuedAt time.Time
}

// Identity is the result of a successful OTP verification.
type Identity struct {
	Email string
}
