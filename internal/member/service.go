package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"
	"gymdesk/internal/plan"

	"github.com/google/uuid"
)

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrRenewalNotAllowed = errors.New("renewal not allowed")
)

const codeGenAttempts = 5

type Service interface {
	Register(ctx context.Context, gymID int, req RegisterRequest, now time.Time) (*Member, error)
	GetByID(ctx context.Context, gymID, memberID int) (*Member, error)
	GetByCode(ctx context.Context, gymID int, code string) (*Member, error)
	ListWithStatus(ctx context.Context, gymID int, now time.Time) ([]MemberWithStatus, error)
	ChangePlan(ctx context.Context, gymID, memberID, planID int) (*Member, error)
	SetStatus(ctx context.Context, gymID, memberID int, status string) (*Member, error)
	Renew(ctx context.Context, gymID, memberID int, now time.Time) (*Member, error)
	Delete(ctx context.Context, gymID, memberID int) error
}

type service struct {
	repo     Repository
	planRepo plan.Repository
}

func NewService(repo Repository, planRepo plan.Repository) Service {
	return &service{
		repo:     repo,
		planRepo: planRepo,
	}
}

// Register creates a member on a plan. The expiry date is the join date
// plus the plan duration; plan name and price are snapshotted.
func (s *service) Register(ctx context.Context, gymID int, req RegisterRequest, now time.Time) (*Member, error) {
	p, err := s.gymPlan(ctx, gymID, req.PlanID)
	if err != nil {
		return nil, err
	}

	code, err := s.generateCode(ctx, gymID)
	if err != nil {
		return nil, err
	}

	expiry := now.AddDate(0, p.DurationMonths, 0)
	m := &Member{
		GymID:            gymID,
		MemberCode:       code,
		Name:             req.Name,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		Age:              req.Age,
		MembershipStatus: membership.StoredActive,
		JoinDate:         now,
		ExpiryDate:       &expiry,
		PlanID:           &p.ID,
		MembershipType:   p.Name,
		PlanPriceCents:   &p.PriceCents,
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, err
	}

	metrics.RecordMemberRegistered()
	return created, nil
}

func (s *service) GetByID(ctx context.Context, gymID, memberID int) (*Member, error) {
	m, err := s.repo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if m.GymID != gymID {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *service) GetByCode(ctx context.Context, gymID int, code string) (*Member, error) {
	m, err := s.repo.FindByCode(ctx, gymID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	return m, nil
}

func (s *service) ListWithStatus(ctx context.Context, gymID int, now time.Time) ([]MemberWithStatus, error) {
	members, err := s.repo.ListByGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	result := make([]MemberWithStatus, 0, len(members))
	for _, m := range members {
		result = append(result, MemberWithStatus{
			Member:          m,
			EffectiveStatus: m.EffectiveStatus(now),
		})
	}
	return result, nil
}

// ChangePlan moves a member to a new plan. The expiry is recomputed
// from the original join date, not from today.
func (s *service) ChangePlan(ctx context.Context, gymID, memberID, planID int) (*Member, error) {
	m, err := s.GetByID(ctx, gymID, memberID)
	if err != nil {
		return nil, err
	}

	p, err := s.gymPlan(ctx, gymID, planID)
	if err != nil {
		return nil, err
	}

	expiry := m.JoinDate.AddDate(0, p.DurationMonths, 0)
	return s.repo.UpdatePlan(ctx, m.ID, p.ID, p.Name, p.PriceCents, expiry)
}

func (s *service) SetStatus(ctx context.Context, gymID, memberID int, status string) (*Member, error) {
	m, err := s.GetByID(ctx, gymID, memberID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, gymID, []int{m.ID}, status)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, ErrMemberNotFound
	}

	return s.repo.FindByID(ctx, m.ID)
}

// Renew extends a membership by one plan duration. Only allowed when
// the membership is expired, expiring soon, or expires today. The new
// term extends from the current expiry if it is still in the future,
// otherwise from now.
func (s *service) Renew(ctx context.Context, gymID, memberID int, now time.Time) (*Member, error) {
	m, err := s.GetByID(ctx, gymID, memberID)
	if err != nil {
		return nil, err
	}

	if !membership.RenewalAllowed(m.MembershipStatus, m.ExpiryDate, now) {
		return nil, ErrRenewalNotAllowed
	}

	if m.PlanID == nil {
		return nil, ErrPlanNotFound
	}
	p, err := s.gymPlan(ctx, gymID, *m.PlanID)
	if err != nil {
		return nil, err
	}

	base := now
	if m.ExpiryDate != nil && m.ExpiryDate.After(now) {
		base = *m.ExpiryDate
	}
	expiry := base.AddDate(0, p.DurationMonths, 0)

	return s.repo.UpdateExpiry(ctx, m.ID, membership.StoredActive, expiry)
}

func (s *service) Delete(ctx context.Context, gymID, memberID int) error {
	m, err := s.GetByID(ctx, gymID, memberID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, m.ID)
}

// gymPlan resolves a plan scoped to one gym. A missing row or a plan
// belonging to another gym is ErrPlanNotFound; a storage failure is not.
func (s *service) gymPlan(ctx context.Context, gymID, planID int) (*plan.Plan, error) {
	p, err := s.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}
	if p.GymID != gymID {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

// generateCode produces a short human-facing member code, retrying on
// the rare collision within a gym.
func (s *service) generateCode(ctx context.Context, gymID int) (string, error) {
	for i := 0; i < codeGenAttempts; i++ {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		code := strings.ToUpper(raw[:8])

		exists, err := s.repo.CodeExists(ctx, gymID, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate unique member code")
}
