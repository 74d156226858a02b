package owner

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/auth"
)

const testSecret = "test-secret-key"

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*Owner, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Owner), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Owner, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Owner), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Owner), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func TestRegister(t *testing.T) {
	t.Run("Successfully register owner", func(t *testing.T) {
		repo := new(MockRepository)

		repo.On("EmailExists", mock.Anything, "owner@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, "Dana", "owner@example.com", mock.AnythingOfType("string"), "owner").
			Return(&Owner{ID: 1, Name: "Dana", Email: "owner@example.com", Role: "owner", CreatedAt: time.Now()}, nil)

		svc := NewService(repo, testSecret)

		o, accessToken, refreshToken, err := svc.Register(context.Background(), RegisterRequest{
			Name:     "Dana",
			Email:    "owner@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, o.ID)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		repo.AssertExpectations(t)
	})

	t.Run("Fail with duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("EmailExists", mock.Anything, "taken@example.com").Return(true, nil)

		svc := NewService(repo, testSecret)

		_, _, _, err := svc.Register(context.Background(), RegisterRequest{
			Name:     "Dana",
			Email:    "taken@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Password is stored hashed", func(t *testing.T) {
		repo := new(MockRepository)

		repo.On("EmailExists", mock.Anything, "owner@example.com").Return(false, nil)
		repo.On("Create", mock.Anything, "Dana", "owner@example.com",
			mock.MatchedBy(func(hash string) bool {
				return hash != "password123" && auth.CheckPassword(hash, "password123")
			}), "owner").
			Return(&Owner{ID: 1, Email: "owner@example.com", Role: "owner"}, nil)

		svc := NewService(repo, testSecret)

		_, _, _, err := svc.Register(context.Background(), RegisterRequest{
			Name:     "Dana",
			Email:    "owner@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	passwordHash, _ := auth.HashPassword("correct-password")
	stored := &Owner{
		ID:           1,
		Name:         "Dana",
		Email:        "owner@example.com",
		PasswordHash: passwordHash,
		Role:         "owner",
	}

	t.Run("Successfully login", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(stored, nil)

		svc := NewService(repo, testSecret)

		o, accessToken, refreshToken, err := svc.Login(context.Background(), LoginRequest{
			Email:    "owner@example.com",
			Password: "correct-password",
		})

		require.NoError(t, err)
		assert.Equal(t, 1, o.ID)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
	})

	t.Run("Fail with wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(stored, nil)

		svc := NewService(repo, testSecret)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "owner@example.com",
			Password: "wrong-password",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Fail with unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, sql.ErrNoRows)

		svc := NewService(repo, testSecret)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Storage failure is not invalid credentials", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", mock.Anything, "owner@example.com").Return(nil, assert.AnError)

		svc := NewService(repo, testSecret)

		_, _, _, err := svc.Login(context.Background(), LoginRequest{
			Email:    "owner@example.com",
			Password: "correct-password",
		})

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", mock.Anything, 1).Return(&Owner{ID: 1, Name: "Dana"}, nil)

		svc := NewService(repo, testSecret)

		o, err := svc.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Dana", o.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", mock.Anything, 404).Return(nil, sql.ErrNoRows)

		svc := NewService(repo, testSecret)

		_, err := svc.GetByID(context.Background(), 404)
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})

	t.Run("Storage failure is not not-found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", mock.Anything, 1).Return(nil, assert.AnError)

		svc := NewService(repo, testSecret)

		_, err := svc.GetByID(context.Background(), 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrOwnerNotFound)
	})
}

func TestRefreshToken(t *testing.T) {
	stored := &Owner{ID: 1, Email: "owner@example.com", Role: "owner"}

	t.Run("Successfully refresh", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", mock.Anything, 1).Return(stored, nil)

		refreshToken, err := auth.GenerateRefreshToken(1, "owner@example.com", "owner", testSecret)
		require.NoError(t, err)

		svc := NewService(repo, testSecret)

		newAccessToken, o, err := svc.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccessToken)
		assert.Equal(t, 1, o.ID)

		claims, err := auth.ValidateToken(newAccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("Fail with access token", func(t *testing.T) {
		repo := new(MockRepository)

		accessToken, err := auth.GenerateAccessToken(1, "owner@example.com", "owner", testSecret)
		require.NoError(t, err)

		svc := NewService(repo, testSecret)

		_, _, err = svc.RefreshToken(context.Background(), accessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
	})

	t.Run("Fail when owner deleted", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByID", mock.Anything, 1).Return(nil, sql.ErrNoRows)

		refreshToken, err := auth.GenerateRefreshToken(1, "owner@example.com", "owner", testSecret)
		require.NoError(t, err)

		svc := NewService(repo, testSecret)

		_, _, err = svc.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrOwnerNotFound)
	})
}
