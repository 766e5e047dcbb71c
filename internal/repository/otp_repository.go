package repository

import (
	"context"
	"time"

	"github.com/Stewz00/go-otp-service/internal/database"
	"github.com/Stewz00/go-otp-service/internal/interfaces"
	"github.com/Stewz00/go-otp-service/internal/model"
	"github.com/jackc/pgx/v4"
)

// OTPRepositoryImpl implements the OTPRepository interface
type OTPRepositoryImpl struct {
	db *database.DB
}

// Verify that OTPRepositoryImpl implements OTPRepository interface
var _ interfaces.OTPRepository = (*OTPRepositoryImpl)(nil)

// NewOTPRepository creates a new OTPRepository instance
func NewOTPRepository(db *database.DB) interfaces.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create appends a new OTP record for the email. The issuance timestamp is
// assigned by the database at insert time and returned to the caller; it is
// the sole basis for expiry. Inserts are atomic, so concurrent logins for the
// same email simply append independent records.
func (r *OTPRepositoryImpl) Create(ctx context.Context, email, code string) (*model.OTPRecord, error) {
	var rec model.OTPRecord
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO otp_codes (email, code)
		 VALUES ($1, $2)
		 RETURNING id, email, code, created_at`,
		email, code).Scan(&rec.ID, &rec.Email, &rec.Code, &rec.IssuedAt)

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// GetLatest returns the most recently issued OTP record for the email.
// Timestamp collisions fall back to insertion order, so the most recent
// insert always wins.
func (r *OTPRepositoryImpl) GetLatest(ctx context.Context, email string) (*model.OTPRecord, error) {
	var rec model.OTPRecord
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, email, code, created_at
		 FROM otp_codes
		 WHERE email = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		email).Scan(&rec.ID, &rec.Email, &rec.Code, &rec.IssuedAt)

	if err == pgx.ErrNoRows {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// DeleteAll removes every OTP record for the email. It is a no-op when none
// exist. Note this runs read-committed relative to GetLatest: two verifies
// racing over the same still-valid code may both succeed before the delete
// lands. Callers needing exactly-once consumption should replace the
// lookup+delete pair with a single conditional delete.
func (r *OTPRepositoryImpl) DeleteAll(ctx context.Context, email string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM otp_codes WHERE email = $1`,
		email)
	return err
}

// DeleteExpired purges records issued more than olderThan ago, using the
// database clock so the horizon agrees with the timestamps it assigned.
// Returns the number of rows removed.
func (r *OTPRepositoryImpl) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM otp_codes
		 WHERE created_at < CURRENT_TIMESTAMP - make_interval(secs => $1)`,
		olderThan.Seconds())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
