package http

import (
	"context"
	"time"

	"github.com/go-api-otp/internal/domain"
	"github.com/go-api-otp/internal/infrastructure/smtp"
	"github.com/go-api-otp/internal/infrastructure/sns"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Insert(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	ExistsByTransactionRef(ctx context.Context, ref string) (bool, error)
	FindByIdentifier(ctx context.Context, identifierName, identifierValue, email string) (*domain.User, error)
}

// OtpRepository is the minimal interface the router requires from an OTP store.
type OtpRepository interface {
	Insert(ctx context.Context, o *domain.Otp) error
	ActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Otp, error)
	NewestByCode(ctx context.Context, code string) (*domain.Otp, error)
	Consume(ctx context.Context, id, code string, now time.Time) (bool, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo  UserRepository
	OtpRepo   OtpRepository
	Mailer    smtp.Mailer
	SMSSender sns.SMSSender
}
