package gym

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateGym(ctx context.Context, name, location string) (*Gym, error) {
	args := m.Called(ctx, name, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockRepository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepository) UpdateSettings(ctx context.Context, id int, sessionTimeHours, maxCapacity *int) (*Gym, error) {
	args := m.Called(ctx, id, sessionTimeHours, maxCapacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func intPtr(n int) *int { return &n }

func testGym(id int, hours, capacity *int) *Gym {
	return &Gym{
		ID:               id,
		Name:             "Iron Temple",
		Location:         "Main St",
		SessionTimeHours: hours,
		MaxCapacity:      capacity,
		CreatedAt:        time.Now(),
	}
}

func TestResolveSettingsUsesGymValues(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 1).Return(testGym(1, intPtr(3), intPtr(50)), nil)

	settings, err := svc.ResolveSettings(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, settings.SessionHours)
	assert.Equal(t, 50, settings.MaxCapacity)
	repo.AssertExpectations(t)
}

func TestResolveSettingsFallsBackToDefaults(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 1).Return(testGym(1, nil, nil), nil)

	settings, err := svc.ResolveSettings(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, settings.SessionHours)
	assert.Equal(t, 100, settings.MaxCapacity)
}

func TestResolveSettingsZeroHoursFallsBack(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 1).Return(testGym(1, intPtr(0), nil), nil)

	settings, err := svc.ResolveSettings(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, settings.SessionHours)
}

func TestResolveSettingsClampsHours(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 1).Return(testGym(1, intPtr(48), nil), nil)

	settings, err := svc.ResolveSettings(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 24, settings.SessionHours)
}

func TestResolveSettingsGymMissing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 99).Return(nil, sql.ErrNoRows)

	_, err := svc.ResolveSettings(ctx, 99)
	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestGetGymStorageFailureIsNotNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 1).Return(nil, errors.New("pq: connection refused"))

	_, err := svc.GetGymByID(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrGymNotFound)

	_, err = svc.ResolveSettings(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrGymNotFound)
}

func TestUpdateSettingsValidatesRange(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	_, err := svc.UpdateSettings(ctx, 1, UpdateSettingsRequest{SessionTimeHours: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.UpdateSettings(ctx, 1, UpdateSettingsRequest{SessionTimeHours: intPtr(25)})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.UpdateSettings(ctx, 1, UpdateSettingsRequest{MaxCapacity: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestUpdateSettingsGymNotFound(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	repo.On("GetGymByID", ctx, 7).Return(nil, sql.ErrNoRows)

	_, err := svc.UpdateSettings(ctx, 7, UpdateSettingsRequest{SessionTimeHours: intPtr(3)})
	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestUpdateSettingsSuccess(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, 2, 100)
	ctx := context.Background()

	hours := intPtr(4)
	repo.On("GetGymByID", ctx, 1).Return(testGym(1, nil, nil), nil)
	repo.On("UpdateSettings", ctx, 1, hours, (*int)(nil)).Return(testGym(1, hours, nil), nil)

	gym, err := svc.UpdateSettings(ctx, 1, UpdateSettingsRequest{SessionTimeHours: hours})
	assert.NoError(t, err)
	assert.Equal(t, 4, *gym.SessionTimeHours)
	repo.AssertExpectations(t)
}
