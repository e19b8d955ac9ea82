package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-api-otp/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OtpRepo provides typed PostgreSQL operations for the otps table.
type OtpRepo struct {
	db *pgxpool.Pool
}

func NewOtpRepo(db *pgxpool.Pool) *OtpRepo {
	return &OtpRepo{db: db}
}

const otpColumns = `id, email, identifier_type, identifier_value, otp, expires_at, created_at`

func (r *OtpRepo) Insert(ctx context.Context, o *domain.Otp) error {
	query := `
		INSERT INTO otps (` + otpColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.Email, o.IdentifierType, o.IdentifierValue, o.Code, o.ExpiresAt, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// ActiveByCode returns the newest unexpired row holding the given code.
// Ties on created_at break on id DESC (ULIDs order by creation time).
func (r *OtpRepo) ActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Otp, error) {
	query := `
		SELECT ` + otpColumns + ` FROM otps
		WHERE otp = $1 AND expires_at > $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return r.one(ctx, query, code, now)
}

// NewestByCode returns the newest row holding the given code regardless of
// expiry. Used to tell an expired code apart from an unknown one.
func (r *OtpRepo) NewestByCode(ctx context.Context, code string) (*domain.Otp, error) {
	query := `
		SELECT ` + otpColumns + ` FROM otps
		WHERE otp = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return r.one(ctx, query, code)
}

// Consume deletes the row only if it still holds the code and is unexpired,
// and reports whether a row was removed. The conditional delete makes
// read-then-consume atomic: under duplicate concurrent submissions exactly
// one caller observes true.
func (r *OtpRepo) Consume(ctx context.Context, id, code string, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM otps WHERE id = $1 AND otp = $2 AND expires_at > $3`,
		id, code, now,
	)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OtpRepo) one(ctx context.Context, query string, args ...any) (*domain.Otp, error) {
	var o domain.Otp
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&o.ID, &o.Email, &o.IdentifierType, &o.IdentifierValue, &o.Code, &o.ExpiresAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("otp not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &o, nil
}
