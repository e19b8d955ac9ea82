package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-api-otp/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides typed PostgreSQL operations for the users table.
// Every query is parameterized; no statement is ever built from input.
type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, transaction_ref_number, email, mobile_number, partner_name,
	identifier_name, identifier_value, product_name, preferred_lang, created_at, updated_at`

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		u.ID, u.TransactionRefNumber, u.Email, u.MobileNumber, u.PartnerName,
		u.IdentifierName, u.IdentifierValue, u.ProductName, u.PreferredLang,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u domain.User
	if err := scanUser(r.db.QueryRow(ctx, query, userID), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ExistsByTransactionRef reports whether a user already holds the given
// transaction reference number. Checked before every insert.
func (r *UserRepo) ExistsByTransactionRef(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE transaction_ref_number = $1)`, ref,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transaction ref: %w", err)
	}
	return exists, nil
}

// FindByIdentifier returns the user matching the identifier triple the OTP
// flow verifies against.
func (r *UserRepo) FindByIdentifier(ctx context.Context, identifierName, identifierValue, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE identifier_name = $1 AND identifier_value = $2 AND email = $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var u domain.User
	if err := scanUser(r.db.QueryRow(ctx, query, identifierName, identifierValue, email), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return &u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.TransactionRefNumber, &u.Email, &u.MobileNumber, &u.PartnerName,
		&u.IdentifierName, &u.IdentifierValue, &u.ProductName, &u.PreferredLang,
		&u.CreatedAt, &u.UpdatedAt,
	)
}
