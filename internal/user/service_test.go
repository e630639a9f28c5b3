package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, email, password, role string) (User, error) {
	args := m.Called(ctx, email, password, role)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, "client@paniervert.fr", mock.AnythingOfType("string"), "client").
			Return(User{ID: 1, Email: "client@paniervert.fr", Role: RoleClient}, nil)

		svc := NewService(repo)

		token, u, err := svc.Register(ctx, "client@paniervert.fr", "potager123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, RoleClient, u.Role)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, "client@paniervert.fr", mock.AnythingOfType("string"), "client").
			Return(User{}, errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

		svc := NewService(repo)

		_, _, err := svc.Register(ctx, "client@paniervert.fr", "potager123")
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := HashPassword("potager123")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "client@paniervert.fr").
			Return(User{ID: 1, Email: "client@paniervert.fr", Password: hash, Role: RoleClient}, nil)

		svc := NewService(repo)

		token, u, err := svc.Login(ctx, "client@paniervert.fr", "potager123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, 1, u.ID)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "nobody@paniervert.fr").
			Return(User{}, sql.ErrNoRows)

		svc := NewService(repo)

		_, _, err := svc.Login(ctx, "nobody@paniervert.fr", "potager123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "client@paniervert.fr").
			Return(User{ID: 1, Password: hash}, nil)

		svc := NewService(repo)

		_, _, err := svc.Login(ctx, "client@paniervert.fr", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
