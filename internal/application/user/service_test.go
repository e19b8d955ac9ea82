package user

import (
	"context"
	"errors"
	"testing"

	"github.com/go-api-otp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Insert(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if us, _ := args.Get(0).([]domain.User); us != nil {
		return us, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) ExistsByTransactionRef(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func validForm() domain.UserForm {
	return domain.UserForm{
		TransactionRefNumber: "TX1",
		Email:                "jane@example.com",
		MobileNumber:         "9876543210",
		IdentifierName:       "PAN",
		IdentifierValue:      "ABCDE1234F",
		ProductName:          "credit-card",
	}
}

func TestCreate_ValidationFailure_NoStorageIO(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), domain.UserForm{MobileNumber: "123"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "Mobile number must be exactly 10 digits")
	repo.AssertNotCalled(t, "ExistsByTransactionRef", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_DuplicateTransactionRef_Conflict(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("ExistsByTransactionRef", mock.Anything, "TX1").Return(true, nil)

	svc := NewService(repo)
	_, err := svc.Create(context.Background(), validForm())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_HappyPath(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("ExistsByTransactionRef", mock.Anything, "TX1").Return(false, nil)

	var stored *domain.User
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.User) }).
		Return(nil)

	svc := NewService(repo)
	u, err := svc.Create(context.Background(), validForm())

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored, u)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.DefaultPartnerName, u.PartnerName)
	assert.Equal(t, domain.DefaultPreferredLang, u.PreferredLang)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
}

func TestCreate_StorageErrorSurfaces(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("ExistsByTransactionRef", mock.Anything, "TX1").Return(false, errors.New("connection refused"))

	svc := NewService(repo)
	_, err := svc.Create(context.Background(), validForm())
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
}

func TestGet_PassesThrough(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil)
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(repo)

	u, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestList_PassesThrough(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("List", mock.Anything).Return([]domain.User{{ID: "u2"}, {ID: "u1"}}, nil)

	svc := NewService(repo)
	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
