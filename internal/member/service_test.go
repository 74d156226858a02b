package member

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/membership"
	"gymdesk/internal/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, mem *Member) (*Member, error) {
	args := m.Called(ctx, mem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) FindByCode(ctx context.Context, gymID int, code string) (*Member, error) {
	args := m.Called(ctx, gymID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) ListByGym(ctx context.Context, gymID int) ([]Member, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) ListByIDs(ctx context.Context, gymID int, ids []int) ([]Member, error) {
	args := m.Called(ctx, gymID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, gymID int, ids []int, status string) (int, error) {
	args := m.Called(ctx, gymID, ids, status)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdatePlan(ctx context.Context, id, planID int, membershipType string, priceCents int64, expiry time.Time) (*Member, error) {
	args := m.Called(ctx, id, planID, membershipType, priceCents, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) UpdateExpiry(ctx context.Context, id int, status string, expiry time.Time) (*Member, error) {
	args := m.Called(ctx, id, status, expiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) CodeExists(ctx context.Context, gymID int, code string) (bool, error) {
	args := m.Called(ctx, gymID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) CreatePlan(ctx context.Context, gymID int, name string, priceCents int64, durationMonths int) (*plan.Plan, error) {
	args := m.Called(ctx, gymID, name, priceCents, durationMonths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) GetPlanByID(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) GetPlansByGym(ctx context.Context, gymID int) ([]plan.Plan, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan.Plan), args.Error(1)
}

func monthlyPlan() *plan.Plan {
	return &plan.Plan{ID: 5, GymID: 1, Name: "Monthly", PriceCents: 4999, DurationMonths: 1}
}

func TestRegisterComputesExpiryFromJoinDate(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	planRepo.On("GetPlanByID", ctx, 5).Return(monthlyPlan(), nil)
	repo.On("CodeExists", ctx, 1, mock.AnythingOfType("string")).Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(m *Member) bool {
		return m.GymID == 1 &&
			m.MembershipStatus == membership.StoredActive &&
			m.JoinDate.Equal(now) &&
			m.ExpiryDate != nil &&
			m.ExpiryDate.Equal(now.AddDate(0, 1, 0)) &&
			m.MembershipType == "Monthly" &&
			len(m.MemberCode) == 8
	})).Return(&Member{ID: 9, GymID: 1}, nil)

	created, err := svc.Register(ctx, 1, RegisterRequest{Name: "Ana", PlanID: 5}, now)
	assert.NoError(t, err)
	assert.Equal(t, 9, created.ID)
	repo.AssertExpectations(t)
}

func TestRegisterPlanFromOtherGym(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	other := monthlyPlan()
	other.GymID = 2
	planRepo.On("GetPlanByID", ctx, 5).Return(other, nil)

	_, err := svc.Register(ctx, 1, RegisterRequest{Name: "Ana", PlanID: 5}, time.Now())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestChangePlanRecomputesFromOriginalJoinDate(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	joined := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := &Member{ID: 9, GymID: 1, JoinDate: joined, MembershipStatus: membership.StoredActive}

	annual := &plan.Plan{ID: 7, GymID: 1, Name: "Annual", PriceCents: 49999, DurationMonths: 12}

	repo.On("FindByID", ctx, 9).Return(existing, nil)
	planRepo.On("GetPlanByID", ctx, 7).Return(annual, nil)

	// Expiry must be join date + 12 months, regardless of today.
	wantExpiry := joined.AddDate(0, 12, 0)
	repo.On("UpdatePlan", ctx, 9, 7, "Annual", int64(49999), wantExpiry).
		Return(&Member{ID: 9, GymID: 1, ExpiryDate: &wantExpiry}, nil)

	m, err := svc.ChangePlan(ctx, 1, 9, 7)
	assert.NoError(t, err)
	assert.True(t, m.ExpiryDate.Equal(wantExpiry))
	repo.AssertExpectations(t)
}

func TestRenewNotAllowedForLongActiveMembership(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 6, 0)
	repo.On("FindByID", ctx, 9).Return(&Member{
		ID: 9, GymID: 1, MembershipStatus: membership.StoredActive, ExpiryDate: &expiry,
	}, nil)

	_, err := svc.Renew(ctx, 1, 9, now)
	assert.ErrorIs(t, err, ErrRenewalNotAllowed)
}

func TestRenewExtendsFromFutureExpiry(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 0, 5) // expiring soon
	planID := 5
	repo.On("FindByID", ctx, 9).Return(&Member{
		ID: 9, GymID: 1, MembershipStatus: membership.StoredActive,
		ExpiryDate: &expiry, PlanID: &planID,
	}, nil)
	planRepo.On("GetPlanByID", ctx, 5).Return(monthlyPlan(), nil)

	wantExpiry := expiry.AddDate(0, 1, 0)
	repo.On("UpdateExpiry", ctx, 9, membership.StoredActive, wantExpiry).
		Return(&Member{ID: 9, ExpiryDate: &wantExpiry}, nil)

	m, err := svc.Renew(ctx, 1, 9, now)
	assert.NoError(t, err)
	assert.True(t, m.ExpiryDate.Equal(wantExpiry))
}

func TestRenewExtendsFromNowWhenExpired(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, -2, 0)
	planID := 5
	repo.On("FindByID", ctx, 9).Return(&Member{
		ID: 9, GymID: 1, MembershipStatus: membership.StoredActive,
		ExpiryDate: &expiry, PlanID: &planID,
	}, nil)
	planRepo.On("GetPlanByID", ctx, 5).Return(monthlyPlan(), nil)

	wantExpiry := now.AddDate(0, 1, 0)
	repo.On("UpdateExpiry", ctx, 9, membership.StoredActive, wantExpiry).
		Return(&Member{ID: 9, ExpiryDate: &wantExpiry}, nil)

	_, err := svc.Renew(ctx, 1, 9, now)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetByIDScopedToGym(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	repo.On("FindByID", ctx, 9).Return(&Member{ID: 9, GymID: 2}, nil)

	_, err := svc.GetByID(ctx, 1, 9)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListWithStatus(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 9)
	far := now.AddDate(0, 6, 0)

	repo.On("ListByGym", ctx, 1).Return([]Member{
		{ID: 1, GymID: 1, MembershipStatus: membership.StoredActive, ExpiryDate: &far},
		{ID: 2, GymID: 1, MembershipStatus: membership.StoredActive, ExpiryDate: &soon},
		{ID: 3, GymID: 1, MembershipStatus: membership.StoredExpired, ExpiryDate: &far},
	}, nil)

	members, err := svc.ListWithStatus(ctx, 1, now)
	assert.NoError(t, err)
	assert.Equal(t, membership.StatusActive, members[0].EffectiveStatus)
	assert.Equal(t, membership.StatusExpiringSoon, members[1].EffectiveStatus)
	assert.Equal(t, membership.StatusExpired, members[2].EffectiveStatus)
}

func TestDeleteChecksOwnership(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	repo.On("FindByID", ctx, 9).Return(nil, sql.ErrNoRows)

	err := svc.Delete(ctx, 1, 9)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestGetByIDStorageFailureIsNotNotFound(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	repo.On("FindByID", ctx, 9).Return(nil, errors.New("pq: connection refused"))

	_, err := svc.GetByID(ctx, 1, 9)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMemberNotFound)
}

func TestGetByCodeStorageFailureIsNotNotFound(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	repo.On("FindByCode", ctx, 1, "AB12CD34").Return(nil, errors.New("pq: connection refused"))

	_, err := svc.GetByCode(ctx, 1, "AB12CD34")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMemberNotFound)
}

func TestRegisterPlanStorageFailureIsNotNotFound(t *testing.T) {
	repo := new(MockRepository)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)
	ctx := context.Background()

	planRepo.On("GetPlanByID", ctx, 5).Return(nil, errors.New("pq: connection refused"))

	_, err := svc.Register(ctx, 1, RegisterRequest{Name: "Ana", PlanID: 5}, time.Now())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlanNotFound)
}
