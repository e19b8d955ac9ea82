package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-api-otp/internal/domain"
	"github.com/go-api-otp/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, form domain.UserForm) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	Insert(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	ExistsByTransactionRef(ctx context.Context, ref string) (bool, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Create validates the form before any storage I/O, rejects duplicate
// transaction reference numbers, then persists the row.
func (s *service) Create(ctx context.Context, form domain.UserForm) (*domain.User, error) {
	u := domain.NewUserFromForm(form)
	if res := u.Validate(); !res.IsValid() {
		return nil, &domain.ValidationError{Errors: res.Errors}
	}

	exists, err := s.repo.ExistsByTransactionRef(ctx, u.TransactionRefNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("transaction reference number already exists: %w", domain.ErrConflict)
	}

	now := time.Now().UTC()
	u.ID = id.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}
